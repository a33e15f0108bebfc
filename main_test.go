package main

import (
	"bytes"
	"context"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/simulot/mediagrab/pkg/models"
	"github.com/simulot/mediagrab/pkg/mylog"
	"golang.org/x/time/rate"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestParseConfig(t *testing.T) {
	file := writeFile(t, `{"listen":":9000","order":"oldest","youtube_endpoint":"http://dl.example.com/youtube/","mockup":true}`)

	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults",
			want: defaultConfig(),
		},
		{
			name: "flags",
			args: []string{"--listen", ":8080", "--order", "oldest", "--auto-open", "--log-level", "DEBUG"},
			want: func() *Config {
				c := defaultConfig()
				c.Listen = ":8080"
				c.Order = models.OldestFirst
				c.AutoOpen = true
				c.LogLevel = "DEBUG"
				return c
			}(),
		},
		{
			name: "file",
			args: []string{"--config", file},
			want: func() *Config {
				c := defaultConfig()
				c.Listen = ":9000"
				c.Order = models.OldestFirst
				c.YouTubeEndpoint = "http://dl.example.com/youtube/"
				c.Mockup = true
				return c
			}(),
		},
		{
			name: "flags override file",
			args: []string{"--config", file, "--listen", ":7000", "--order", "newest"},
			want: func() *Config {
				c := defaultConfig()
				c.Listen = ":7000"
				c.YouTubeEndpoint = "http://dl.example.com/youtube/"
				c.Mockup = true
				return c
			}(),
		},
		{
			name: "mockup rate",
			args: []string{"--mockup", "--mockup-rate", "2.5"},
			want: func() *Config {
				c := defaultConfig()
				c.Mockup = true
				c.Throttle = 2.5
				return c
			}(),
		},
		{
			name:    "negative mockup rate",
			args:    []string{"--mockup-rate=-1"},
			wantErr: true,
		},
		{
			name:    "bad order",
			args:    []string{"--order", "random"},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    []string{"--config", filepath.Join(t.TempDir(), "none.json")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfig("test", tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expecting error: %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMockupLimiter(t *testing.T) {
	conf, err := ParseConfig("test", []string{"--mockup", "--mockup-rate", "3"})
	if err != nil {
		t.Fatal(err)
	}
	if got := mockupLimiter(conf).Limit(); got != rate.Limit(3) {
		t.Errorf("expecting limit 3, got %v", got)
	}

	conf = defaultConfig()
	if got := mockupLimiter(conf).Limit(); got != rate.Inf {
		t.Errorf("expecting no limit, got %v", got)
	}
}

func TestMockupMuxThrottled(t *testing.T) {
	logger, err := mylog.NewLog("ERROR", log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	conf := defaultConfig()
	conf.Mockup = true
	conf.Throttle = 0.001
	mux := newMux(conf, logger)

	post := func(ctx context.Context) int {
		b := bytes.NewBuffer(nil)
		w := multipart.NewWriter(b)
		_ = w.WriteField("url", "https://youtu.be/abc")
		_ = w.Close()
		request := httptest.NewRequest(http.MethodPost, "/api/youtube/", b).WithContext(ctx)
		request.Header.Set("Content-Type", w.FormDataContentType())
		response := httptest.NewRecorder()
		mux.ServeHTTP(response, request)
		return response.Code
	}

	if code := post(context.Background()); code != http.StatusOK {
		t.Fatalf("first reply: expecting status 200, got %d", code)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if code := post(ctx); code == http.StatusOK {
		t.Errorf("second reply must be throttled")
	}
}

func TestMockupMux(t *testing.T) {
	logger, err := mylog.NewLog("ERROR", log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatal(err)
	}

	b := bytes.NewBuffer(nil)
	w := multipart.NewWriter(b)
	_ = w.WriteField("url", "https://youtu.be/abc")
	_ = w.Close()

	t.Run("with mockup", func(t *testing.T) {
		conf := defaultConfig()
		conf.Mockup = true
		request := httptest.NewRequest(http.MethodPost, "/api/youtube/", bytes.NewReader(b.Bytes()))
		request.Header.Set("Content-Type", w.FormDataContentType())
		response := httptest.NewRecorder()
		newMux(conf, logger).ServeHTTP(response, request)
		if response.Code != http.StatusOK {
			t.Errorf("expecting status 200, got %d", response.Code)
		}
	})

	t.Run("without mockup", func(t *testing.T) {
		conf := defaultConfig()
		request := httptest.NewRequest(http.MethodPost, "/api/youtube/", bytes.NewReader(b.Bytes()))
		request.Header.Set("Content-Type", w.FormDataContentType())
		response := httptest.NewRecorder()
		newMux(conf, logger).ServeHTTP(response, request)
		if response.Code == http.StatusOK && response.Header().Get("content-type") == "application/json" {
			t.Errorf("the download API must not be served")
		}
	})
}
