package backend

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/purell"
	"github.com/google/uuid"
	"github.com/simulot/mediagrab/pkg/models"
)

/*
	Download Handler
	POST --> Validate the url field and reply with the file that would be produced
*/

// media describes one endpoint: the URL check and the produced file name
type media struct {
	name     string
	accept   func(u *url.URL) error
	filename func(u *url.URL) string
}

var pinID = regexp.MustCompile(`/pin/(\d+)`)

var (
	youtubeAudio = media{
		name: "youtube",
		accept: func(u *url.URL) error {
			h := strings.TrimPrefix(u.Hostname(), "www.")
			h = strings.TrimPrefix(h, "m.")
			if h != "youtube.com" && h != "youtu.be" && h != "music.youtube.com" {
				return errors.New("URL does not appear to be a YouTube link.")
			}
			return nil
		},
		filename: func(u *url.URL) string {
			id := u.Query().Get("v")
			if id == "" && strings.HasSuffix(u.Hostname(), "youtu.be") {
				id = strings.Trim(u.Path, "/")
			}
			if id == "" {
				id = "audio_" + shortID()
			}
			return safeName(id) + ".mp3"
		},
	}

	pinterestVideo = media{
		name: "pinterest",
		accept: func(u *url.URL) error {
			if !strings.Contains(u.Hostname(), "pinterest") {
				return errors.New("URL does not appear to be a Pinterest link.")
			}
			return nil
		},
		filename: func(u *url.URL) string {
			if m := pinID.FindStringSubmatch(u.Path); m != nil {
				return "pinterest_" + m[1] + ".mp4"
			}
			return "pinterest_" + shortID() + ".mp4"
		},
	}
)

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

func safeName(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

func (s *Server) downloadHandler(m media) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.postDownload(w, r, m)
		default:
			s.sendError(w, &APIError{nil, http.StatusMethodNotAllowed, ""})
		}
	})
}

func (s *Server) postDownload(w http.ResponseWriter, r *http.Request, m media) {
	defer r.Body.Close()
	err := r.ParseMultipartForm(1 << 20)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.writeJsonResponse(w, models.DownloadReply{Success: false, Error: "Invalid form"}, http.StatusBadRequest)
		return
	}

	raw := strings.TrimSpace(r.FormValue("url"))
	if raw == "" {
		s.writeJsonResponse(w, models.DownloadReply{Success: false, Error: "Please provide a URL"}, http.StatusBadRequest)
		return
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	normalized, err := purell.NormalizeURLString(raw, purell.FlagsUsuallySafeGreedy)
	if err != nil {
		s.writeJsonResponse(w, models.DownloadReply{Success: false, Error: "Invalid URL"}, http.StatusBadRequest)
		return
	}
	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" {
		s.writeJsonResponse(w, models.DownloadReply{Success: false, Error: "Invalid URL"}, http.StatusBadRequest)
		return
	}

	if err = m.accept(u); err != nil {
		s.writeJsonResponse(w, models.DownloadReply{Success: false, Error: err.Error()}, http.StatusOK)
		return
	}

	err = s.limiter.Wait(r.Context())
	if err != nil {
		s.sendError(w, &APIError{err: err})
		return
	}

	name := m.filename(u)
	s.log.Printf("[HTTPSERVER] %s %q -> %s", m.name, normalized, name)
	s.writeJsonResponse(w, models.DownloadReply{
		Success:     true,
		Filename:    name,
		DownloadURL: FilesURL + url.PathEscape(name),
	}, http.StatusOK)
}

// filesHandler serves an empty placeholder for any produced file
func (s *Server) filesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.sendError(w, &APIError{nil, http.StatusMethodNotAllowed, ""})
		return
	}
	name := path.Base(r.URL.Path)
	if name == "" || name == "/" || name == "." || name == "files" {
		s.sendError(w, &APIError{nil, http.StatusNotFound, ""})
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", safeName(name)))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
}
