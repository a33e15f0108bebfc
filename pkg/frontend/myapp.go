package frontend

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"
	"github.com/simulot/mediagrab/pkg/models"
)

const (
	labelTitle                = "Media Downloader"
	labelYouTubeTitle         = "YouTube to MP3"
	labelYouTubeHelp          = "Paste a YouTube video link to get its audio track."
	labelYouTubePlaceHolder   = "https://www.youtube.com/watch?v=..."
	labelPinterestTitle       = "Pinterest Video"
	labelPinterestHelp        = "Paste a Pinterest pin link to get its video."
	labelPinterestPlaceHolder = "https://www.pinterest.com/pin/..."
)

// MyApp component draw the application banner, the download forms and the status panel
type MyApp struct {
	app.Compo

	forms []*DownloadForm
}

func (a *MyApp) OnInit() {
	a.forms = []*DownloadForm{
		NewDownloadForm(models.AudioDownload, MyAppState.Settings.Endpoint(models.AudioDownload)).
			WithLabels(labelYouTubeTitle, labelYouTubeHelp, labelYouTubePlaceHolder),
		NewDownloadForm(models.VideoDownload, MyAppState.Settings.Endpoint(models.VideoDownload)).
			WithLabels(labelPinterestTitle, labelPinterestHelp, labelPinterestPlaceHolder),
	}
}

func (a *MyApp) Render() app.UI {
	return app.Div().
		Class("container").
		Body(
			&Logo{},
			app.Div().
				Class("columns").
				Body(
					app.Range(a.forms).Slice(func(i int) app.UI {
						return app.Div().
							Class("column").
							Body(a.forms[i])
					}),
				),
			NewStatusPanel(),
		)
}

type Logo struct {
	app.Compo
}

func (c *Logo) Render() app.UI {
	return app.Div().Class("banner").Body(
		app.H1().Class("title").Text(labelTitle),
	)
}
