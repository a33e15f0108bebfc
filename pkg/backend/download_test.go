package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/simulot/mediagrab/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

func multipartRequest(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()
	b := bytes.NewBuffer(nil)
	w := multipart.NewWriter(b)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	request := httptest.NewRequest(http.MethodPost, target, b)
	request.Header.Set("Content-Type", w.FormDataContentType())
	return request
}

func decodeReply(t *testing.T, response *httptest.ResponseRecorder) models.DownloadReply {
	t.Helper()
	var reply models.DownloadReply
	require.NoError(t, json.NewDecoder(response.Body).Decode(&reply))
	return reply
}

func TestYouTubeDownload(t *testing.T) {
	s := NewServer(WithLogger(nopLogger{}))

	tests := []struct {
		name         string
		url          string
		wantCode     int
		wantSuccess  bool
		wantFilename string
		wantError    string
	}{
		{"watch url", "https://youtube.com/watch?v=abc123", http.StatusOK, true, "abc123.mp3", ""},
		{"www and upper case host", "https://WWW.YouTube.com/watch?v=abc123", http.StatusOK, true, "abc123.mp3", ""},
		{"short url", "https://youtu.be/xyz789", http.StatusOK, true, "xyz789.mp3", ""},
		{"no scheme", "youtube.com/watch?v=abc123", http.StatusOK, true, "abc123.mp3", ""},
		{"other site", "https://vimeo.com/1234", http.StatusOK, false, "", "URL does not appear to be a YouTube link."},
		{"missing url", "", http.StatusBadRequest, false, "", "Please provide a URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := httptest.NewRecorder()
			s.ServeHTTP(response, multipartRequest(t, "/api/youtube/", map[string]string{"url": tt.url}))

			assert.Equal(t, tt.wantCode, response.Code)
			assert.Equal(t, "application/json", response.Header().Get("content-type"))
			reply := decodeReply(t, response)
			assert.Equal(t, tt.wantSuccess, reply.Success)
			assert.Equal(t, tt.wantError, reply.Error)
			if tt.wantSuccess {
				assert.Equal(t, tt.wantFilename, reply.Filename)
				assert.Equal(t, "/files/"+tt.wantFilename, reply.DownloadURL)
			}
		})
	}

	t.Run("generated name", func(t *testing.T) {
		response := httptest.NewRecorder()
		s.ServeHTTP(response, multipartRequest(t, "/api/youtube/", map[string]string{"url": "https://youtube.com/playlist"}))
		reply := decodeReply(t, response)
		assert.Equal(t, true, reply.Success)
		assert.True(t, strings.HasPrefix(reply.Filename, "audio_"), reply.Filename)
		assert.Len(t, reply.Filename, len("audio_12345678.mp3"))
	})
}

func TestPinterestDownload(t *testing.T) {
	s := NewServer(WithLogger(nopLogger{}))

	t.Run("pin id", func(t *testing.T) {
		response := httptest.NewRecorder()
		s.ServeHTTP(response, multipartRequest(t, "/api/pinterest/", map[string]string{"url": "https://www.pinterest.com/pin/123456789/"}))
		assert.Equal(t, http.StatusOK, response.Code)
		reply := decodeReply(t, response)
		assert.Equal(t, true, reply.Success)
		assert.Equal(t, "pinterest_123456789.mp4", reply.Filename)
	})

	t.Run("url encoded form", func(t *testing.T) {
		form := url.Values{"url": {"https://pinterest.fr/pin/42"}}
		request := httptest.NewRequest(http.MethodPost, "/api/pinterest/", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		s.ServeHTTP(response, request)
		reply := decodeReply(t, response)
		assert.Equal(t, "pinterest_42.mp4", reply.Filename)
	})

	t.Run("not pinterest", func(t *testing.T) {
		response := httptest.NewRecorder()
		s.ServeHTTP(response, multipartRequest(t, "/api/pinterest/", map[string]string{"url": "https://youtube.com/watch?v=a"}))
		reply := decodeReply(t, response)
		assert.Equal(t, false, reply.Success)
		assert.Equal(t, "URL does not appear to be a Pinterest link.", reply.Error)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	s := NewServer(WithLogger(nopLogger{}))
	request := httptest.NewRequest(http.MethodGet, "/api/youtube/", nil)
	response := httptest.NewRecorder()
	s.ServeHTTP(response, request)
	assert.Equal(t, http.StatusMethodNotAllowed, response.Code)
}

func TestFiles(t *testing.T) {
	s := NewServer(WithLogger(nopLogger{}))
	request := httptest.NewRequest(http.MethodGet, "/files/abc123.mp3", nil)
	response := httptest.NewRecorder()
	s.ServeHTTP(response, request)
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, `attachment; filename="abc123.mp3"`, response.Header().Get("Content-Disposition"))
}

func TestLimiterCancelled(t *testing.T) {
	s := NewServer(
		WithLogger(nopLogger{}),
		WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)),
	)

	response := httptest.NewRecorder()
	s.ServeHTTP(response, multipartRequest(t, "/api/youtube/", map[string]string{"url": "https://youtu.be/a"}))
	assert.Equal(t, http.StatusOK, response.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	request := multipartRequest(t, "/api/youtube/", map[string]string{"url": "https://youtu.be/b"}).WithContext(ctx)
	response = httptest.NewRecorder()
	s.ServeHTTP(response, request)
	assert.NotEqual(t, http.StatusOK, response.Code)
}
