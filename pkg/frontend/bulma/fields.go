package bulma

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"
)

// URLField renders a labeled, required url input named name
func URLField(name string, label string, placeholder string, value string, onInput app.EventHandler) app.UI {
	return app.Div().
		Class("field").
		Body(
			app.Label().
				Class("label").
				Text(label),
			app.Div().
				Class("control").
				Body(
					app.Input().
						Class("input").
						Type("url").
						Name(name).
						Required(true).
						Placeholder(placeholder).
						Value(value).
						OnInput(onInput),
				),
		)
}

// SubmitButton renders the form's action control. When busy, the button is disabled and shows a loader.
func SubmitButton(label string, busy bool) app.UI {
	class := "button is-primary"
	if busy {
		class += " is-loading"
	}
	return app.Div().
		Class("field").
		Body(
			app.Div().
				Class("control").
				Body(
					app.Button().
						Class(class).
						Type("submit").
						Disabled(busy).
						Body(
							app.Span().Class("icon").Body(
								app.I().Class("mdi mdi-download"),
							),
							app.Span().Text(label),
						),
				),
		)
}
