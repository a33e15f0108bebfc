package frontend

import (
	"net/url"

	"github.com/maxence-charriere/go-app/v9/pkg/app"
	"github.com/simulot/mediagrab/pkg/controller"
	"github.com/simulot/mediagrab/pkg/frontend/bulma"
	"github.com/simulot/mediagrab/pkg/models"
)

// DownloadForm is the form that triggers a download request of a given kind.
// It implements controller.Form.
type DownloadForm struct {
	app.Compo

	kind        models.DownloadKind
	endpoint    string
	title       string
	help        string
	placeholder string

	url  string
	busy bool
	err  error
	ctx  app.Context
}

func NewDownloadForm(kind models.DownloadKind, endpoint string) *DownloadForm {
	return &DownloadForm{
		kind:     kind,
		endpoint: endpoint,
		title:    kind.String(),
	}
}

func (c *DownloadForm) WithLabels(title, help, placeholder string) *DownloadForm {
	c.title = title
	c.help = help
	c.placeholder = placeholder
	return c
}

func (c *DownloadForm) OnMount(ctx app.Context) {
	c.ctx = ctx
}

func (c *DownloadForm) Endpoint() string { return c.endpoint }

func (c *DownloadForm) Fields() url.Values {
	return url.Values{controller.FieldURL: {c.url}}
}

func (c *DownloadForm) SetBusy(busy bool) {
	c.dispatch(func() { c.busy = busy })
}

func (c *DownloadForm) Reset() {
	c.dispatch(func() { c.url = "" })
}

// dispatch applies the change on the UI goroutine and updates the component
func (c *DownloadForm) dispatch(fn func()) {
	if c.ctx == nil {
		fn()
		return
	}
	c.ctx.Dispatch(func(ctx app.Context) {
		fn()
	})
}

func (c *DownloadForm) Render() app.UI {
	return app.Div().
		Class("box").
		Body(
			app.H2().Class("subtitle").Text(c.title),
			app.If(c.help != "",
				app.P().Class("help mb-3").Text(c.help),
			),
			app.Form().
				Action(c.endpoint).
				Method("post").
				OnSubmit(c.onSubmit).
				Body(
					bulma.URLField(controller.FieldURL, "URL", c.placeholder, c.url, c.onInput),
					bulma.SubmitButton("Download", c.busy),
				),
			app.If(c.err != nil,
				bulma.NewNotification().
					Class("is-danger").
					Text(errorText(c.err)).
					OnDelete(func() {
						c.err = nil
						c.Update()
					}),
			),
		)
}

func (c *DownloadForm) onInput(ctx app.Context, e app.Event) {
	c.url = ctx.JSSrc().Get("value").String()
	c.err = nil
}

func (c *DownloadForm) onSubmit(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if c.ctx == nil {
		c.ctx = ctx
	}
	_, err := MyAppState.Controller.OnSubmit(ctx, c, c.kind)
	c.err = err
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
