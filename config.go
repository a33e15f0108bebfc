package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/simulot/mediagrab/pkg/models"
	flag "github.com/spf13/pflag"
)

// Config holds the server settings, read from the configuration file and the command line
type Config struct {
	Listen   string  `json:"listen"`
	Mockup   bool    `json:"mockup,omitempty"`    // Serve the stand-in download API
	Throttle float64 `json:"throttle,omitempty"`  // Replies per second of the stand-in API, 0 for no limit
	LogLevel string  `json:"log_level,omitempty"` // ERROR, INFO, DEBUG
	models.Settings
}

func defaultConfig() *Config {
	return &Config{
		Listen:   "localhost:8000",
		LogLevel: "INFO",
		Settings: models.DefaultSettings(),
	}
}

// ReadConfig reads the JSON configuration file over the current configuration
func (c *Config) ReadConfig(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("can't open configuration file: %w", err)
	}
	defer f.Close()
	err = json.NewDecoder(f).Decode(c)
	if err != nil {
		return fmt.Errorf("can't decode configuration file %q: %w", name, err)
	}
	return nil
}

// ParseConfig builds the configuration from defaults, then the configuration file, then the flags
func ParseConfig(name string, args []string) (*Config, error) {
	c := defaultConfig()
	flags := *c

	var (
		configFile string
		order      string
	)
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&configFile, "config", "", "Configuration file name (JSON).")
	fs.StringVar(&flags.Listen, "listen", c.Listen, "Server address.")
	fs.StringVar(&flags.YouTubeEndpoint, "youtube-endpoint", c.YouTubeEndpoint, "Action of the YouTube Audio form.")
	fs.StringVar(&flags.PinterestEndpoint, "pinterest-endpoint", c.PinterestEndpoint, "Action of the Pinterest Video form.")
	fs.StringVar(&order, "order", c.Order.String(), "Status list order (newest, oldest).")
	fs.BoolVar(&flags.AutoOpen, "auto-open", c.AutoOpen, "Follow the download link as soon as it is known.")
	fs.BoolVar(&flags.Mockup, "mockup", c.Mockup, "Serve the stand-in download API.")
	fs.Float64Var(&flags.Throttle, "mockup-rate", c.Throttle, "Replies per second of the stand-in download API, 0 for no limit.")
	fs.StringVarP(&flags.LogLevel, "log-level", "l", c.LogLevel, "Log level (ERROR,INFO,DEBUG)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configFile != "" {
		if err := c.ReadConfig(configFile); err != nil {
			return nil, err
		}
	}

	// Flags given on the command line override the file
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			c.Listen = flags.Listen
		case "youtube-endpoint":
			c.YouTubeEndpoint = flags.YouTubeEndpoint
		case "pinterest-endpoint":
			c.PinterestEndpoint = flags.PinterestEndpoint
		case "order":
			c.Order, err = models.ParseListOrder(order)
		case "auto-open":
			c.AutoOpen = flags.AutoOpen
		case "mockup":
			c.Mockup = flags.Mockup
		case "mockup-rate":
			c.Throttle = flags.Throttle
		case "log-level":
			c.LogLevel = flags.LogLevel
		}
	})
	if err != nil {
		return nil, err
	}
	if c.Throttle < 0 {
		return nil, fmt.Errorf("invalid mockup rate %v", c.Throttle)
	}
	return c, nil
}
