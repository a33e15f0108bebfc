package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/maxence-charriere/go-app/v9/pkg/app"
	"github.com/simulot/mediagrab/pkg/backend"
	"github.com/simulot/mediagrab/pkg/frontend"
	"github.com/simulot/mediagrab/pkg/mylog"
	flag "github.com/spf13/pflag"
	"golang.org/x/time/rate"
)

func main() {
	frontend.InitializeWebApp(context.Background())
	app.Route("/", &frontend.MyApp{})
	app.RunWhenOnBrowser()

	// Starting here, the server side

	conf, err := ParseConfig(filepath.Base(os.Args[0]), os.Args[1:])
	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := mylog.NewLog(conf.LogLevel, log.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Info().Printf("[SERVER] Configuration: %# v", pretty.Formatter(conf))

	if err := http.ListenAndServe(conf.Listen, newMux(conf, logger)); err != nil {
		logger.Fatal().Printf("[SERVER] %s", err)
	}
}

func newMux(conf *Config, logger *mylog.MyLog) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", logRequests(logger.Debug(), &app.Handler{
		Name:        "Media Downloader",
		Description: "Get the audio of a YouTube video or a Pinterest video",
		Env:         conf.Settings.Env(),
		Styles: []string{
			"https://cdn.jsdelivr.net/npm/bulma@0.9.3/css/bulma.min.css",
			"https://cdn.jsdelivr.net/npm/@mdi/font@5.9.55/css/materialdesignicons.min.css",
		},
	}))

	if conf.Mockup {
		api := backend.NewServer(
			backend.WithLogger(logger.Info()),
			backend.WithLimiter(mockupLimiter(conf)),
		)
		mux.Handle(backend.APIURL, logRequests(logger.Debug(), api))
		mux.Handle(backend.FilesURL, logRequests(logger.Debug(), api))
	}
	return mux
}

// mockupLimiter paces the stand-in API replies at conf.Throttle per second
func mockupLimiter(conf *Config) *rate.Limiter {
	if conf.Throttle <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(conf.Throttle), 1)
}

func logRequests(l mylog.Logger, h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l.Printf("[HTTPSERVER] %s %s", r.Method, r.URL.String())
		h.ServeHTTP(w, r)
	}
}
