package bulma

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"
	"github.com/simulot/mediagrab/pkg/models"
)

var statusClass = map[models.DownloadStatus]string{
	models.StatusPending:   "is-warning",
	models.StatusCompleted: "is-success",
	models.StatusFailed:    "is-danger",
}

var statusIcon = map[models.DownloadStatus]string{
	models.StatusPending:   "mdi-loading mdi-spin",
	models.StatusCompleted: "mdi-check-circle has-text-success",
	models.StatusFailed:    "mdi-alert-circle has-text-danger",
}

// StatusClass returns the bulma color of the status
func StatusClass(s models.DownloadStatus) string {
	return statusClass[s]
}

// StatusTag renders the status as a colored tag
func StatusTag(s models.DownloadStatus) app.UI {
	return app.Span().Class("tag " + StatusClass(s)).Text(s.String())
}

// StatusIcon renders the icon of the status
func StatusIcon(s models.DownloadStatus) app.UI {
	return app.Span().Class("icon").Body(
		app.I().Class("mdi " + statusIcon[s]),
	)
}
