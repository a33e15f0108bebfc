package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// DownloadKind tells which kind of media is requested
type DownloadKind int

const (
	AudioDownload DownloadKind = iota
	VideoDownload
)

var DownloadKindLabel = map[DownloadKind]string{
	AudioDownload: "YouTube Audio",
	VideoDownload: "Pinterest Video",
}

func (k DownloadKind) String() string {
	if l, ok := DownloadKindLabel[k]; ok {
		return l
	}
	return fmt.Sprintf("DownloadKind(%d)", int(k))
}

// DownloadStatus is the life cycle of a status item
type DownloadStatus int

const (
	StatusPending DownloadStatus = iota
	StatusCompleted
	StatusFailed
)

var downloadStatusText = map[DownloadStatus]string{
	StatusPending:   "Processing",
	StatusCompleted: "Complete",
	StatusFailed:    "Failed",
}

func (s DownloadStatus) String() string {
	if t, ok := downloadStatusText[s]; ok {
		return t
	}
	return fmt.Sprintf("DownloadStatus(%d)", int(s))
}

// IsTerminal is true for Completed and Failed
func (s DownloadStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

const (
	MaxLabelLength        = 40
	MessageUnknownError   = "Unknown error"
	MessageTransportError = "An error occurred during download."
)

var ErrTerminal = errors.New("status item already in a terminal state")

// DownloadRequest is built when a form is submitted
type DownloadRequest struct {
	Kind      DownloadKind
	SourceURL string    // URL given by the user, not validated
	Submitted time.Time // Submission time
	Endpoint  string    // Form's action
}

// DownloadStatusItem is what the user sees for one request
type DownloadStatusItem struct {
	ID           uuid.UUID
	Kind         DownloadKind
	State        DownloadStatus
	SourceURL    string
	DisplayLabel string
	Filename     string // Completed only
	ResultURL    string // Completed only
	ErrorMessage string // Failed only
	Submitted    time.Time
	Finished     time.Time
}

// NewStatusItem returns the pending item of the request
func NewStatusItem(id uuid.UUID, r DownloadRequest) DownloadStatusItem {
	return DownloadStatusItem{
		ID:           id,
		Kind:         r.Kind,
		State:        StatusPending,
		SourceURL:    r.SourceURL,
		DisplayLabel: DisplayLabel(r.SourceURL),
		Submitted:    r.Submitted,
	}
}

// Apply returns the item transitioned by the result.
// Only pending items accept a result.
func (i DownloadStatusItem) Apply(r Result, when time.Time) (DownloadStatusItem, error) {
	if i.State.IsTerminal() {
		return i, fmt.Errorf("item %s is %s: %w", i.ID, i.State, ErrTerminal)
	}
	switch r := r.(type) {
	case Success:
		i.State = StatusCompleted
		i.Filename = r.Filename
		i.ResultURL = r.DownloadURL
	case Failure:
		i.State = StatusFailed
		i.ErrorMessage = r.Message
		if i.ErrorMessage == "" {
			if r.Transport {
				i.ErrorMessage = MessageTransportError
			} else {
				i.ErrorMessage = MessageUnknownError
			}
		}
	default:
		return i, fmt.Errorf("unexpected result type %T", r)
	}
	i.Finished = when
	return i, nil
}

// DisplayLabel shortens the URL to MaxLabelLength characters followed by an ellipsis.
// Short URLs are returned verbatim; long ones are cut between normalization
// segments so a base character keeps its combining marks.
func DisplayLabel(u string) string {
	if utf8.RuneCountInString(u) <= MaxLabelLength {
		return u
	}
	var it norm.Iter
	it.InitString(norm.NFC, u)
	n := 0
	for !it.Done() {
		start := it.Pos()
		it.Next()
		n += utf8.RuneCountInString(u[start:it.Pos()])
		if n > MaxLabelLength {
			return u[:start] + "..."
		}
	}
	return u
}

// Result is the outcome of one request, either Success or Failure
type Result interface {
	isResult()
}

type Success struct {
	Filename    string
	DownloadURL string
}

type Failure struct {
	Message   string
	Transport bool // True when no JSON reply was obtained
}

func (Success) isResult() {}
func (Failure) isResult() {}

// DownloadReply is the JSON returned by the download endpoints
type DownloadReply struct {
	Success     interface{} `json:"success"`
	Filename    string      `json:"filename,omitempty"`
	DownloadURL string      `json:"download_url,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// UnmarshalJSON accepts any JSON value for the text fields. Non-string values are kept
// as their JSON text, null is empty.
func (r *DownloadReply) UnmarshalJSON(b []byte) error {
	var raw struct {
		Success     interface{}     `json:"success"`
		Filename    json.RawMessage `json:"filename"`
		DownloadURL json.RawMessage `json:"download_url"`
		Error       json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = DownloadReply{
		Success:     raw.Success,
		Filename:    jsonText(raw.Filename),
		DownloadURL: jsonText(raw.DownloadURL),
		Error:       jsonText(raw.Error),
	}
	return nil
}

func jsonText(m json.RawMessage) string {
	if len(m) == 0 || string(m) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		return s
	}
	return string(m)
}

// Result interprets the reply
func (r DownloadReply) Result() Result {
	if Truthy(r.Success) {
		return Success{
			Filename:    r.Filename,
			DownloadURL: r.DownloadURL,
		}
	}
	if r.Error == "" {
		return Failure{Message: MessageUnknownError}
	}
	return Failure{Message: r.Error}
}

// Truthy evaluates a decoded JSON value the way a browser script would
func Truthy(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
