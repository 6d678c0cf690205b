// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is a typed client for the event ticketing REST backend.
//
// Every call carries the backend session cookie of the browser it is made
// for. Failures are returned as *Error values classified by Kind.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a single backend call.
	DefaultTimeout = 15 * time.Second
	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 << 20
)

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client calls the backend.
type Client struct {
	base     string
	http     *http.Client
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backend URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("backend URL must be an absolute http(s) URL: %q", baseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
			// The backend answers unauthenticated calls with a redirect to its
			// login form. Redirects are surfaced, never followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		validate: validator.New(),
		logger:   opts.Logger,
	}, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.base
}

// response is a fully read backend response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// send performs one call. body, when non-nil, is sent as JSON unless it is
// url.Values, which is sent form-encoded.
func (c *Client) send(ctx context.Context, method, path, cred string, body any) (*response, error) {
	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))
	if cred != "" {
		req.Header.Set("Cookie", cred)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("backend call failed", "method", method, "path", path, "error", err)
		return nil, &Error{Kind: KindNetwork, Message: "The server could not be reached.", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: "The server response was interrupted.", Cause: err}
	}

	c.logger.Debug("backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// do performs a call that must succeed with a 2xx status and decodes the
// body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, cred string, body, out any) (int, error) {
	resp, err := c.send(ctx, method, path, cred, body)
	if err != nil {
		return 0, err
	}
	if err := checkStatus(resp); err != nil {
		return resp.status, err
	}
	if out != nil {
		if err := c.decode(resp.body, out); err != nil {
			return resp.status, err
		}
	}
	return resp.status, nil
}

// checkStatus turns non-2xx responses into an *Error.
func checkStatus(resp *response) error {
	switch {
	case resp.status >= 200 && resp.status < 300:
		return nil
	case resp.status >= 300 && resp.status < 400:
		if strings.Contains(resp.header.Get("Location"), "/login") {
			return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: "Your session has expired. Please log in again."}
		}
		return &Error{Kind: KindUnexpected, Status: resp.status, Message: genericMessage}
	default:
		return errorFromResponse(resp.status, resp.body)
	}
}

// decode unmarshals a response body and validates it.
func (c *Client) decode(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return &Error{Kind: KindMalformed, Message: "The server returned an empty response."}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindMalformed, Message: "The server returned an unreadable response.", Cause: err}
	}
	if err := c.check(out); err != nil {
		return &Error{Kind: KindMalformed, Message: "The server returned an incomplete response.", Cause: err}
	}
	return nil
}

// check validates structs and slices of structs.
func (c *Client) check(v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Struct:
		return c.validate.Struct(rv.Interface())
	case reflect.Slice:
		elem := rv.Type().Elem()
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			return c.validate.Var(rv.Interface(), "dive")
		}
	}
	return nil
}

// Validate checks an outbound payload before it is sent.
func (c *Client) Validate(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return invalid(err)
	}
	return nil
}

// invalid turns a validation failure into a KindValidation error naming
// the offending fields.
func invalid(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Kind: KindValidation, Message: "Please check the form.", Cause: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return &Error{
		Kind:    KindValidation,
		Message: "Please check these fields: " + strings.Join(fields, ", ") + ".",
		Cause:   err,
	}
}

func requestID(ctx context.Context) string {
	if id := chimw.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func pathID(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

// Ping checks that the backend answers. Any status below 500 counts as up.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodHead, "/", "", nil)
	if err != nil {
		return err
	}
	if resp.status >= http.StatusInternalServerError {
		return &Error{Kind: KindUnexpected, Status: resp.status, Message: genericMessage}
	}
	return nil
}
