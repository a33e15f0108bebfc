package main

import (
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/simulot/mediagrab/pkg/models"
	"github.com/simulot/mediagrab/pkg/store"
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

// termRenderer keeps the status list and shows a spinner for each pending item
type termRenderer struct {
	*store.StatusList
	pc   *mpb.Progress // nil when headless
	mu   sync.Mutex
	bars map[uuid.UUID]*mpb.Bar
}

func newTermRenderer(list *store.StatusList, pc *mpb.Progress) *termRenderer {
	return &termRenderer{
		StatusList: list,
		pc:         pc,
		bars:       map[uuid.UUID]*mpb.Bar{},
	}
}

func (r *termRenderer) AddItem(item models.DownloadStatusItem) error {
	if err := r.StatusList.AddItem(item); err != nil {
		return err
	}
	if r.pc == nil {
		return nil
	}
	bar := r.pc.AddBar(1,
		mpb.BarWidth(3),
		mpb.PrependDecorators(
			decor.Spinner([]string{"●∙∙", "∙●∙", "∙∙●", "∙●∙"}, decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.Name(item.Kind.String(), decor.WC{W: 16, C: decor.DidentRight}),
			decor.Name(item.DisplayLabel),
		),
		mpb.BarRemoveOnComplete(),
	)
	r.mu.Lock()
	r.bars[item.ID] = bar
	r.mu.Unlock()
	return nil
}

func (r *termRenderer) UpdateItem(item models.DownloadStatusItem) error {
	if err := r.StatusList.UpdateItem(item); err != nil {
		return err
	}
	if !item.State.IsTerminal() {
		return nil
	}
	r.mu.Lock()
	bar, ok := r.bars[item.ID]
	delete(r.bars, item.ID)
	r.mu.Unlock()
	if ok {
		bar.Increment()
	}
	return nil
}

// printItems writes one line per item and returns the number of failed items
func printItems(w io.Writer, items []models.DownloadStatusItem, endpoints models.Settings) int {
	failed := 0
	for _, item := range items {
		switch item.State {
		case models.StatusCompleted:
			fmt.Fprintf(w, "%-10s %-16s %s -> %s\n", item.State, item.Kind, item.Filename, resolveURL(endpoints.Endpoint(item.Kind), item.ResultURL))
		case models.StatusFailed:
			failed++
			fmt.Fprintf(w, "%-10s %-16s %s: %s\n", item.State, item.Kind, item.DisplayLabel, item.ErrorMessage)
		default:
			fmt.Fprintf(w, "%-10s %-16s %s\n", item.State, item.Kind, item.DisplayLabel)
		}
	}
	return failed
}

// resolveURL makes the download URL absolute, relatively to the endpoint
func resolveURL(base string, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
