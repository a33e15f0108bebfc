package myhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

/*
	Define an HTTP Client with suitable defaults and some helpers:
	   - URL construction with path and variables
	   - Easy JSON processing
	   - Form submission as multipart/form-data

*/

type Logger interface {
	Printf(fmt string, a ...interface{})
}

type payloadLogger struct {
	Logger
}

// NewPayloadLogger logs the payload given as last argument as a string
func NewPayloadLogger(logger Logger) *payloadLogger {
	p := payloadLogger{
		Logger: logger,
	}
	return &p
}

func (p *payloadLogger) Printf(f string, a ...interface{}) {
	if len(a) == 0 {
		p.Logger.Printf(f)
		return
	}
	args := append([]interface{}{}, a[:len(a)-1]...)
	b, ok := a[len(a)-1].([]byte)
	if !ok {
		p.Logger.Printf(f, append(args, "-- NO PAYLOAD --")...)
	} else {
		p.Logger.Printf(f, append(args, string(b))...)
	}
}

type Client struct {
	http.Client

	logger         Logger
	responseLogger Logger
	requestLogger  Logger
}

type Error struct {
	Err        error  // Original error
	StatusCode int    // HTTP error
	Message    string // Error context
}

func (e Error) Error() string {
	b := strings.Builder{}
	b.WriteString(e.Message)
	if e.Err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (%d,%s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return b.String()
}

func (e Error) Unwrap() error { return e.Err }

type ctxKey string

const requestPayloadKey ctxKey = "request"

func WithLogger(logger Logger) func(c *Client) {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithRequestLogger(logger Logger) func(c *Client) {
	return func(c *Client) {
		c.requestLogger = logger
	}
}

func WithResponseLogger(logger Logger) func(c *Client) {
	return func(c *Client) {
		c.responseLogger = logger
	}
}

// WithHTTPClient replaces the underlying http client, its transport and timeout included
func WithHTTPClient(hc *http.Client) func(c *Client) {
	return func(c *Client) {
		c.Client = *hc
	}
}

func NewClient(confFn ...func(c *Client)) *Client {
	c := Client{
		logger: log.Default(),
	}
	for _, fn := range confFn {
		fn(&c)
	}

	return &c
}

func (c *Client) NewRequest(ctx context.Context, URLfmt string, urlParams []interface{}, urlValues url.Values, body io.Reader) (*http.Request, error) {
	rawURL := URLfmt
	if len(urlParams) > 0 {
		rawURL = fmt.Sprintf(URLfmt, urlParams...)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if urlValues != nil {
		u.RawQuery = urlValues.Encode()
	}
	return http.NewRequestWithContext(ctx, "", u.String(), body)
}

func (c *Client) NewRequestJSON(ctx context.Context, URLfmt string, urlParams []interface{}, urlValues url.Values, payload interface{}) (*http.Request, error) {
	var (
		bodyReader io.Reader
		err        error
		b          []byte
	)

	if payload != nil {
		b, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(b)
	}

	if c.requestLogger != nil {
		ctx = context.WithValue(ctx, requestPayloadKey, b)
	}

	req, err := c.NewRequest(ctx, URLfmt, urlParams, urlValues, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-type", "application/json")
	return req, nil
}

// NewRequestForm encodes fields as a multipart/form-data body, the way a browser submits a form
func (c *Client) NewRequestForm(ctx context.Context, URL string, fields url.Values) (*http.Request, error) {
	b := bytes.NewBuffer(nil)
	w := multipart.NewWriter(b)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	if c.requestLogger != nil {
		ctx = context.WithValue(ctx, requestPayloadKey, []byte(fields.Encode()))
	}

	req, err := c.NewRequest(ctx, URL, nil, nil, b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

// send logs and sends the request, whatever the response status
func (c *Client) send(req *http.Request) (*http.Response, error) {
	// TDODO req.Header.Set("Accept-Encoding", "gzip")

	if c.requestLogger != nil {
		v := req.Context().Value(requestPayloadKey)
		if v != nil {
			b, _ := v.([]byte)
			c.requestLogger.Printf("[HTTPCLIENT] %s %s payload: %s", req.Method, req.URL, b)
		}
	} else if c.logger != nil {
		c.logger.Printf("[HTTPCLIENT] %s %s", req.Method, req.URL)
	}
	return c.Client.Do(req)
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		err = Error{
			StatusCode: resp.StatusCode,
			Message:    string(b),
		}
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func (c *Client) Get(req *http.Request) (*http.Response, error) {
	req.Method = http.MethodGet
	return c.Do(req)
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if c.responseLogger != nil {
		c.responseLogger.Printf("[HTTPCLIENT] ... Response: %s(%d), %s", http.StatusText(resp.StatusCode), resp.StatusCode, b)
	}
	return b, nil
}

func (c *Client) doJSON(req *http.Request, payload interface{}) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	b, err := c.readBody(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, payload)
}

func (c *Client) PostJSON(req *http.Request, payload interface{}) error {
	req.Method = http.MethodPost
	return c.doJSON(req, payload)
}

func (c *Client) GetJSON(req *http.Request, payload interface{}) error {
	req.Method = http.MethodGet
	return c.doJSON(req, payload)
}

// PostForm posts the request and decodes the JSON reply even when the status reports an error.
// An Error is returned when the body isn't JSON.
func (c *Client) PostForm(req *http.Request, payload interface{}) error {
	req.Method = http.MethodPost
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	b, err := c.readBody(resp)
	if err != nil {
		return Error{Err: err, StatusCode: resp.StatusCode, Message: "can't read reply"}
	}
	err = json.Unmarshal(b, payload)
	if err != nil {
		return Error{Err: err, StatusCode: resp.StatusCode, Message: "reply is not JSON"}
	}
	return nil
}
