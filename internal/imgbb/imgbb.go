// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imgbb uploads event images to the ImgBB hosting API.
package imgbb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultURL is the ImgBB upload endpoint.
const DefaultURL = "https://api.imgbb.com/1/upload"

// ErrNotConfigured is returned by Upload when no API key is set.
var ErrNotConfigured = errors.New("imgbb: no API key configured")

// Client uploads images to ImgBB.
type Client struct {
	key      string
	url      string
	http     *http.Client
	validate *validator.Validate
	logger   *slog.Logger
}

// Image is a hosted image.
type Image struct {
	ID         string `json:"id"`
	URL        string `json:"url" validate:"required,url"`
	DisplayURL string `json:"display_url"`
	DeleteURL  string `json:"delete_url"`
}

type uploadResponse struct {
	Data    Image `json:"data"`
	Success bool  `json:"success"`
	Status  int   `json:"status"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// New creates a client. An empty endpoint selects DefaultURL.
func New(key, endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		key:      key,
		url:      endpoint,
		http:     &http.Client{Timeout: timeout},
		validate: validator.New(),
		logger:   logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.key != ""
}

// Upload posts an image and returns its hosted form.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (*Image, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("key", c.key); err != nil {
		return nil, fmt.Errorf("imgbb: writing key field: %w", err)
	}
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("imgbb: creating image part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("imgbb: writing image part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("imgbb: closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("imgbb: creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imgbb: upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("imgbb: reading response: %w", err)
	}

	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("imgbb: decoding response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("imgbb: upload rejected (status %d): %s", resp.StatusCode, msg)
	}
	if err := c.validate.Struct(out.Data); err != nil {
		return nil, fmt.Errorf("imgbb: incomplete response: %w", err)
	}

	c.logger.Debug("image uploaded", "id", out.Data.ID, "bytes", len(data), "duration", time.Since(start))
	return &out.Data, nil
}
