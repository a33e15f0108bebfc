package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	APIURL       = "/api/"
	youtubeURL   = APIURL + "youtube/"
	pinterestURL = APIURL + "pinterest/"
	FilesURL     = "/files/"
)

type logger interface {
	Printf(f string, args ...interface{})
}

// Server is a stand-in for the download service. It validates the submitted URL
// and answers as the real service would, without downloading anything.
type Server struct {
	http.Handler
	log     logger
	limiter *rate.Limiter
}

func WithLogger(l logger) func(s *Server) {
	return func(s *Server) {
		s.log = l
	}
}

// WithLimiter throttles the replies
func WithLimiter(l *rate.Limiter) func(s *Server) {
	return func(s *Server) {
		s.limiter = l
	}
}

func NewServer(confFn ...func(s *Server)) *Server {
	s := &Server{
		log:     log.Default(),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, fn := range confFn {
		fn(s)
	}
	router := http.NewServeMux()
	router.Handle(youtubeURL, s.downloadHandler(youtubeAudio))
	router.Handle(pinterestURL, s.downloadHandler(pinterestVideo))
	router.Handle(FilesURL, http.HandlerFunc(s.filesHandler))
	s.Handler = router
	return s
}

func (s *Server) writeJsonResponse(w http.ResponseWriter, respBody interface{}, status int) {
	b := bytes.NewBuffer(nil)
	err := json.NewEncoder(b).Encode(respBody)
	if err != nil {
		s.sendError(w, &APIError{err, http.StatusInternalServerError, ""})
		return
	}
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	w.Write(b.Bytes())
}

type APIError struct {
	err     error  // Deep error
	code    int    // Http status code to return
	message string // Public error message
}

func (e APIError) Error() string {
	if e.message != "" {
		return e.message
	}
	if e.err != nil {
		return e.err.Error()
	}
	return http.StatusText(e.code)
}

func (e APIError) Unwrap() error { return e.err }

func (s *Server) logError(err error) {
	if s.log != nil {
		s.log.Printf("[HTTPSERVER] APIServer: %s", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, err error) {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		apiError = &APIError{err: err}
	}
	switch {
	case errors.Is(apiError.err, context.Canceled):
		apiError.code = http.StatusServiceUnavailable
		apiError.message = "Cancelled by client"
	case errors.Is(apiError.err, context.DeadlineExceeded):
		apiError.code = http.StatusRequestTimeout
		apiError.message = "Server's timeout exceeded"
	}
	if apiError.code == 0 {
		apiError.code = http.StatusInternalServerError
	}
	if apiError.message == "" {
		apiError.message = http.StatusText(apiError.code)
	}

	s.logError(apiError)
	http.Error(w, apiError.message, apiError.code)
}
