package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/simulot/mediagrab/pkg/models"
)

func newItems(n int) []models.DownloadStatusItem {
	items := []models.DownloadStatusItem{}
	for i := 0; i < n; i++ {
		items = append(items, models.DownloadStatusItem{
			ID:    uuid.New(),
			State: models.StatusPending,
		})
	}
	return items
}

func ids(items []models.DownloadStatusItem) []uuid.UUID {
	r := []uuid.UUID{}
	for _, i := range items {
		r = append(r, i.ID)
	}
	return r
}

func TestStatusListOrder(t *testing.T) {
	items := newItems(3)

	t.Run("newest first", func(t *testing.T) {
		l := NewStatusList(models.NewestFirst)
		for _, i := range items {
			if err := l.AddItem(i); err != nil {
				t.Fatalf("Unexpected error: %s", err)
			}
		}
		want := []uuid.UUID{items[2].ID, items[1].ID, items[0].ID}
		if diff := cmp.Diff(want, ids(l.Items())); diff != "" {
			t.Errorf("Items() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("oldest first", func(t *testing.T) {
		l := NewStatusList(models.OldestFirst)
		for _, i := range items {
			if err := l.AddItem(i); err != nil {
				t.Fatalf("Unexpected error: %s", err)
			}
		}
		if diff := cmp.Diff(ids(items), ids(l.Items())); diff != "" {
			t.Errorf("Items() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestStatusListUpdate(t *testing.T) {
	l := NewStatusList(models.NewestFirst)
	if l.Visible() {
		t.Errorf("Empty list must be hidden")
	}
	items := newItems(2)
	for _, i := range items {
		_ = l.AddItem(i)
	}
	if !l.Visible() {
		t.Errorf("List must be visible")
	}

	done := items[0]
	done.State = models.StatusCompleted
	done.ResultURL = "/files/a.mp3"
	if err := l.UpdateItem(done); err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	got, err := l.Get(done.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if diff := cmp.Diff(done, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
	if l.Len() != 2 {
		t.Errorf("Expecting 2 items, got %d", l.Len())
	}

	err = l.UpdateItem(models.DownloadStatusItem{ID: uuid.New()})
	if !errors.Is(err, ErrorNotFound) {
		t.Errorf("Expecting ErrorNotFound, got %v", err)
	}
	err = l.AddItem(items[1])
	if !errors.Is(err, ErrorDuplicate) {
		t.Errorf("Expecting ErrorDuplicate, got %v", err)
	}
	if _, err = l.Get(uuid.New()); !errors.Is(err, ErrorNotFound) {
		t.Errorf("Expecting ErrorNotFound, got %v", err)
	}
}

func TestStatusListItemsAreCopies(t *testing.T) {
	l := NewStatusList(models.OldestFirst)
	item := newItems(1)[0]
	_ = l.AddItem(item)
	got := l.Items()
	got[0].State = models.StatusFailed
	stored, _ := l.Get(item.ID)
	if stored.State != models.StatusPending {
		t.Errorf("The list was modified through Items()")
	}
}

func TestStatusListSubscribe(t *testing.T) {
	l := NewStatusList(models.NewestFirst)
	var wg sync.WaitGroup
	wg.Add(2)
	var got []models.DownloadStatus
	cancel := l.Subscribe(func(i models.DownloadStatusItem) {
		got = append(got, i.State)
		wg.Done()
	})
	defer cancel()

	item := newItems(1)[0]
	_ = l.AddItem(item)
	item.State = models.StatusFailed
	_ = l.UpdateItem(item)
	wg.Wait()

	want := []models.DownloadStatus{models.StatusPending, models.StatusFailed}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusListConcurrentAdds(t *testing.T) {
	l := NewStatusList(models.NewestFirst)
	var wg sync.WaitGroup
	for _, i := range newItems(50) {
		wg.Add(1)
		go func(i models.DownloadStatusItem) {
			defer wg.Done()
			if err := l.AddItem(i); err != nil {
				t.Errorf("Unexpected error: %s", err)
			}
		}(i)
	}
	wg.Wait()
	if l.Len() != 50 {
		t.Errorf("Expecting 50 items, got %d", l.Len())
	}
}
