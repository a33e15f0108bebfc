package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/simulot/mediagrab/pkg/controller"
	"github.com/simulot/mediagrab/pkg/models"
	"github.com/simulot/mediagrab/pkg/myhttp"
	"github.com/simulot/mediagrab/pkg/mylog"
	"github.com/simulot/mediagrab/pkg/store"
	flag "github.com/spf13/pflag"
	"github.com/vbauerster/mpb/v4"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type config struct {
	Kind     string
	Server   string
	Endpoint string
	Headless bool
	Order    string
	LogLevel string
}

func main() {
	// trap Ctrl+C and call cancel on the context
	ctx, cancel := context.WithCancel(context.Background())
	breakChannel := make(chan os.Signal, 1)
	signal.Notify(breakChannel, os.Interrupt)

	go func() {
		select {
		case <-breakChannel:
			cancel()
		case <-ctx.Done():
		}
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	signal.Stop(breakChannel)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := config{}
	fs := flag.NewFlagSet("mediagrab", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&c.Kind, "kind", "k", "auto", "Kind of download: audio, video or auto (video for Pinterest links, audio otherwise).")
	fs.StringVarP(&c.Server, "server", "s", "http://localhost:8000", "Download server.")
	fs.StringVar(&c.Endpoint, "endpoint", "", "Download endpoint, overrides the server's endpoints.")
	fs.BoolVar(&c.Headless, "headless", false, "Headless mode. Spinners are not displayed.")
	fs.StringVar(&c.Order, "order", "oldest", "Order of the final list (newest, oldest).")
	fs.StringVarP(&c.LogLevel, "log-level", "l", "ERROR", "Log level (ERROR,INFO,DEBUG)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "mediagrab %s, commit %s, built at %s\n\n", version, commit, date)
		fmt.Fprintln(stderr, "mediagrab [ options... ] URL...")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "  options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	settings, err := c.settings()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger, err := mylog.NewLog(c.LogLevel, log.New(stderr, "", log.LstdFlags))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	var pc *mpb.Progress
	if !c.Headless {
		pc = mpb.NewWithContext(ctx, mpb.WithWidth(64), mpb.WithOutput(stderr))
	}

	list := store.NewStatusList(settings.Order)
	ctrl := controller.New(
		controller.NewHTTPSubmitter(
			myhttp.NewClient(
				myhttp.WithLogger(logger.Debug()),
			),
		),
		newTermRenderer(list, pc),
		controller.WithLogger(logger.Info()),
	)

	failed := 0
	for _, u := range fs.Args() {
		kind, err := c.kindOf(u)
		if err != nil {
			logger.Error().Printf("[MEDIAGRAB] %q: %s", u, err)
			failed++
			continue
		}
		form := &cliForm{endpoint: settings.Endpoint(kind), url: u, log: logger.Debug()}
		if _, err = ctrl.OnSubmit(ctx, form, kind); err != nil {
			logger.Error().Printf("[MEDIAGRAB] %q: %s", u, err)
			failed++
		}
	}

	ctrl.Wait()
	if pc != nil {
		pc.Wait()
	}

	failed += printItems(stdout, list.Items(), settings)
	if failed > 0 {
		return 1
	}
	return 0
}

// settings gives the endpoints of each kind
func (c config) settings() (models.Settings, error) {
	s := models.DefaultSettings()
	order, err := models.ParseListOrder(c.Order)
	if err != nil {
		return s, err
	}
	s.Order = order

	if c.Endpoint != "" {
		s.YouTubeEndpoint = c.Endpoint
		s.PinterestEndpoint = c.Endpoint
		return s, nil
	}
	server, err := url.Parse(c.Server)
	if err != nil || server.Host == "" {
		return s, fmt.Errorf("invalid server %q", c.Server)
	}
	s.YouTubeEndpoint = resolveURL(c.Server, s.YouTubeEndpoint)
	s.PinterestEndpoint = resolveURL(c.Server, s.PinterestEndpoint)
	return s, nil
}

func (c config) kindOf(u string) (models.DownloadKind, error) {
	switch strings.ToLower(c.Kind) {
	case "audio":
		return models.AudioDownload, nil
	case "video":
		return models.VideoDownload, nil
	case "auto", "":
		if isPinterest(u) {
			return models.VideoDownload, nil
		}
		return models.AudioDownload, nil
	}
	return models.AudioDownload, fmt.Errorf("unknown kind %q", c.Kind)
}

func isPinterest(u string) bool {
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	p, err := url.Parse(u)
	if err != nil {
		return false
	}
	h := strings.ToLower(p.Hostname())
	return strings.Contains(h, "pinterest") || h == "pin.it"
}

// cliForm is the form of one URL given on the command line
type cliForm struct {
	endpoint string
	url      string
	log      mylog.Logger
}

func (f *cliForm) Endpoint() string { return f.endpoint }

func (f *cliForm) Fields() url.Values {
	return url.Values{controller.FieldURL: {f.url}}
}

func (f *cliForm) SetBusy(busy bool) {
	f.log.Printf("[MEDIAGRAB] %q busy: %v", f.url, busy)
}

func (f *cliForm) Reset() {}
