package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ListOrder tells where new status items are placed
type ListOrder int

const (
	NewestFirst ListOrder = iota // new items on top of the list
	OldestFirst                  // new items at the bottom
)

func (o ListOrder) String() string {
	if o == OldestFirst {
		return "oldest"
	}
	return "newest"
}

// ParseListOrder accepts "newest" or "oldest"
func ParseListOrder(s string) (ListOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newest":
		return NewestFirst, nil
	case "oldest":
		return OldestFirst, nil
	}
	return NewestFirst, fmt.Errorf("invalid list order %q", s)
}

func (o ListOrder) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *ListOrder) UnmarshalText(b []byte) error {
	v, err := ParseListOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Environment keys used to hand settings over to the browser
const (
	EnvYouTubeEndpoint   = "MEDIAGRAB_YOUTUBE_ENDPOINT"
	EnvPinterestEndpoint = "MEDIAGRAB_PINTEREST_ENDPOINT"
	EnvOrder             = "MEDIAGRAB_ORDER"
	EnvAutoOpen          = "MEDIAGRAB_AUTO_OPEN"
)

const (
	DefaultYouTubeEndpoint   = "/api/youtube/"
	DefaultPinterestEndpoint = "/api/pinterest/"
)

type Settings struct {
	YouTubeEndpoint   string    `json:"youtube_endpoint,omitempty"`   // Action of the YouTube Audio form
	PinterestEndpoint string    `json:"pinterest_endpoint,omitempty"` // Action of the Pinterest Video form
	Order             ListOrder `json:"order"`                        // Status list order
	AutoOpen          bool      `json:"auto_open,omitempty"`          // Follow the download link as soon as it is known
}

func DefaultSettings() Settings {
	return Settings{
		YouTubeEndpoint:   DefaultYouTubeEndpoint,
		PinterestEndpoint: DefaultPinterestEndpoint,
		Order:             NewestFirst,
	}
}

// Endpoint returns the form action for the given kind
func (s Settings) Endpoint(k DownloadKind) string {
	if k == VideoDownload {
		return s.PinterestEndpoint
	}
	return s.YouTubeEndpoint
}

// Env converts settings into environment variables
func (s Settings) Env() map[string]string {
	return map[string]string{
		EnvYouTubeEndpoint:   s.YouTubeEndpoint,
		EnvPinterestEndpoint: s.PinterestEndpoint,
		EnvOrder:             s.Order.String(),
		EnvAutoOpen:          strconv.FormatBool(s.AutoOpen),
	}
}

// SettingsFromEnv reads settings with the getenv function. Missing or invalid values get defaults.
func SettingsFromEnv(getenv func(string) string) Settings {
	s := DefaultSettings()
	if v := getenv(EnvYouTubeEndpoint); v != "" {
		s.YouTubeEndpoint = v
	}
	if v := getenv(EnvPinterestEndpoint); v != "" {
		s.PinterestEndpoint = v
	}
	if o, err := ParseListOrder(getenv(EnvOrder)); err == nil {
		s.Order = o
	}
	if b, err := strconv.ParseBool(getenv(EnvAutoOpen)); err == nil {
		s.AutoOpen = b
	}
	return s
}
