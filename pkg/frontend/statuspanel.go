package frontend

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"
	"github.com/simulot/mediagrab/pkg/frontend/bulma"
	"github.com/simulot/mediagrab/pkg/models"
)

// StatusPanel shows the status of all requests of the page.
// It is hidden until the first request is submitted.
type StatusPanel struct {
	app.Compo
	items       []models.DownloadStatusItem
	unsubscribe func()
}

func NewStatusPanel() *StatusPanel {
	return &StatusPanel{}
}

func (c *StatusPanel) OnMount(ctx app.Context) {
	c.items = MyAppState.Statuses.Items()
	c.unsubscribe = MyAppState.Statuses.Subscribe(func(models.DownloadStatusItem) {
		ctx.Dispatch(func(ctx app.Context) {
			c.items = MyAppState.Statuses.Items()
		})
	})
}

func (c *StatusPanel) OnDismount() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *StatusPanel) Render() app.UI {
	return app.Div().
		Class("box status-panel").
		Hidden(len(c.items) == 0).
		Body(
			app.H2().Class("subtitle").Text("Downloads"),
			app.Range(c.items).Slice(func(i int) app.UI {
				return statusItem(c.items[i])
			}),
		)
}

func statusItem(item models.DownloadStatusItem) app.UI {
	return app.Article().
		Class("media status-item").
		ID("item-" + item.ID.String()).
		Body(
			app.Div().Class("media-left").Body(
				bulma.StatusIcon(item.State),
			),
			app.Div().Class("media-content").Body(
				app.P().Body(
					app.Strong().Text(item.Kind.String()),
					app.Text(" "),
					app.Span().Title(item.SourceURL).Text(itemLabel(item)),
				),
				app.If(item.State == models.StatusFailed,
					app.P().Class("help is-danger").Text(item.ErrorMessage),
				),
			),
			app.Div().Class("media-right").Body(
				bulma.StatusTag(item.State),
				app.If(item.State == models.StatusCompleted && item.ResultURL != "",
					app.A().
						Class("button is-small is-link ml-2").
						Href(item.ResultURL).
						Download(item.Filename).
						Text("Download"),
				),
			),
		)
}

// itemLabel is the text identifying the item: the produced file once known, the source otherwise
func itemLabel(item models.DownloadStatusItem) string {
	if item.State == models.StatusCompleted && item.Filename != "" {
		return item.Filename
	}
	return item.DisplayLabel
}
