package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/simulot/mediagrab/pkg/dispatcher"
	"github.com/simulot/mediagrab/pkg/models"
)

var _ Store = (*StatusList)(nil)

// StatusList is the append only list of status items of the page.
// Items are never removed. Each change is published to subscribers.
type StatusList struct {
	sync.RWMutex
	order      models.ListOrder
	items      []models.DownloadStatusItem // in insertion order
	index      map[uuid.UUID]int
	dispatcher *dispatcher.Dispatcher
}

func NewStatusList(order models.ListOrder) *StatusList {
	return &StatusList{
		order:      order,
		index:      map[uuid.UUID]int{},
		dispatcher: dispatcher.NewDispatcher(),
	}
}

func (l *StatusList) AddItem(item models.DownloadStatusItem) error {
	l.Lock()
	if _, ok := l.index[item.ID]; ok {
		l.Unlock()
		return fmt.Errorf("item %s: %w", item.ID, ErrorDuplicate)
	}
	l.index[item.ID] = len(l.items)
	l.items = append(l.items, item)
	l.Unlock()
	l.dispatcher.Publish(item)
	return nil
}

func (l *StatusList) UpdateItem(item models.DownloadStatusItem) error {
	l.Lock()
	i, ok := l.index[item.ID]
	if !ok {
		l.Unlock()
		return fmt.Errorf("item %s: %w", item.ID, ErrorNotFound)
	}
	l.items[i] = item
	l.Unlock()
	l.dispatcher.Publish(item)
	return nil
}

func (l *StatusList) Get(id uuid.UUID) (models.DownloadStatusItem, error) {
	l.RLock()
	defer l.RUnlock()
	i, ok := l.index[id]
	if !ok {
		return models.DownloadStatusItem{}, fmt.Errorf("item %s: %w", id, ErrorNotFound)
	}
	return l.items[i], nil
}

// Items returns a copy of the items in display order
func (l *StatusList) Items() []models.DownloadStatusItem {
	l.RLock()
	defer l.RUnlock()
	r := make([]models.DownloadStatusItem, len(l.items))
	if l.order == models.OldestFirst {
		copy(r, l.items)
		return r
	}
	for i, item := range l.items {
		r[len(l.items)-1-i] = item
	}
	return r
}

func (l *StatusList) Len() int {
	l.RLock()
	defer l.RUnlock()
	return len(l.items)
}

// Visible tells if the status container must be shown
func (l *StatusList) Visible() bool { return l.Len() > 0 }

func (l *StatusList) Order() models.ListOrder { return l.order }

// Subscribe calls fn after each change
func (l *StatusList) Subscribe(fn func(models.DownloadStatusItem)) (cancel func()) {
	return l.dispatcher.Subscribe(fn)
}
