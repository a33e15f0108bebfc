// Package controller turns a form submission into exactly one download
// request and reflects its life cycle into a status list.
package controller

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/simulot/mediagrab/pkg/models"
)

var (
	ErrMissingURL      = errors.New("the url field is required")
	ErrMissingEndpoint = errors.New("the form has no action endpoint")
)

// FieldURL is the name of the form field holding the media URL
const FieldURL = "url"

type Logger interface {
	Printf(fmt string, a ...interface{})
}

// Form is the submission-triggering element
type Form interface {
	Endpoint() string    // Form's action
	Fields() url.Values  // Values of the form's fields, url included
	SetBusy(busy bool)   // Disable the action control and show a busy indicator, or restore it
	Reset()              // Clear the form's fields
}

// Submitter sends the request and never fails: errors are reported as Failure
type Submitter interface {
	Submit(ctx context.Context, r models.DownloadRequest, fields url.Values) models.Result
}

// Renderer receives the status items
type Renderer interface {
	AddItem(models.DownloadStatusItem) error
	UpdateItem(models.DownloadStatusItem) error
}

type Controller struct {
	submitter Submitter
	renderer  Renderer
	opener    func(downloadURL string)
	newID     func() uuid.UUID
	now       func() time.Time
	log       Logger
	wg        sync.WaitGroup
}

func WithLogger(l Logger) func(c *Controller) {
	return func(c *Controller) {
		c.log = l
	}
}

// WithOpener is called with the download URL of each completed request
func WithOpener(fn func(downloadURL string)) func(c *Controller) {
	return func(c *Controller) {
		c.opener = fn
	}
}

func WithIDGenerator(fn func() uuid.UUID) func(c *Controller) {
	return func(c *Controller) {
		c.newID = fn
	}
}

func WithClock(fn func() time.Time) func(c *Controller) {
	return func(c *Controller) {
		c.now = fn
	}
}

func New(s Submitter, r Renderer, confFn ...func(c *Controller)) *Controller {
	c := Controller{
		submitter: s,
		renderer:  r,
		newID:     uuid.New,
		now:       time.Now,
		log:       log.Default(),
	}
	for _, fn := range confFn {
		fn(&c)
	}
	return &c
}

// OnSubmit handles one submission of the form. The pending item is rendered before
// returning, the request runs in background and can't be cancelled.
// An error is returned only when the form can't be submitted.
func (c *Controller) OnSubmit(ctx context.Context, f Form, kind models.DownloadKind) (models.DownloadStatusItem, error) {
	endpoint := strings.TrimSpace(f.Endpoint())
	if endpoint == "" {
		return models.DownloadStatusItem{}, ErrMissingEndpoint
	}
	fields := url.Values{}
	for k, v := range f.Fields() {
		fields[k] = append([]string(nil), v...)
	}
	sourceURL := strings.TrimSpace(fields.Get(FieldURL))
	if sourceURL == "" {
		return models.DownloadStatusItem{}, ErrMissingURL
	}
	// the posted url is the one shown in the label
	fields.Set(FieldURL, sourceURL)

	f.SetBusy(true)

	req := models.DownloadRequest{
		Kind:      kind,
		SourceURL: sourceURL,
		Submitted: c.now(),
		Endpoint:  endpoint,
	}
	item := models.NewStatusItem(c.newID(), req)
	if err := c.renderer.AddItem(item); err != nil {
		c.log.Printf("[CONTROLLER] Can't add item %s: %s", item.ID, err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(context.WithoutCancel(ctx), f, req, fields, item)
	}()
	return item, nil
}

func (c *Controller) run(ctx context.Context, f Form, req models.DownloadRequest, fields url.Values, item models.DownloadStatusItem) {
	result := c.submitter.Submit(ctx, req, fields)

	done, err := item.Apply(result, c.now())
	if err != nil {
		c.log.Printf("[CONTROLLER] %s", err)
		f.SetBusy(false)
		return
	}
	if err = c.renderer.UpdateItem(done); err != nil {
		c.log.Printf("[CONTROLLER] Can't update item %s: %s", done.ID, err)
	}
	f.SetBusy(false)

	switch done.State {
	case models.StatusCompleted:
		c.log.Printf("[CONTROLLER] %s %q completed: %s", done.Kind, req.SourceURL, done.Filename)
		f.Reset()
		if c.opener != nil && done.ResultURL != "" {
			c.opener(done.ResultURL)
		}
	case models.StatusFailed:
		c.log.Printf("[CONTROLLER] %s %q failed: %s", done.Kind, req.SourceURL, done.ErrorMessage)
	}
}

// Wait blocks until all issued requests are resolved
func (c *Controller) Wait() {
	c.wg.Wait()
}
