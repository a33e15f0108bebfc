package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/simulot/mediagrab/pkg/models"
)

var (
	ErrorNotFound  = errors.New("ressource not found")
	ErrorDuplicate = errors.New("ressource already exists")
)

// Store keeps the status items of the session
type Store interface {
	AddItem(models.DownloadStatusItem) error
	UpdateItem(models.DownloadStatusItem) error
	Get(id uuid.UUID) (models.DownloadStatusItem, error)
	Items() []models.DownloadStatusItem
}
