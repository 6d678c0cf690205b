// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qr renders ticket codes as QR images and reads them back from
// photos taken by the ticket scanner.
package qr

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	goqr "github.com/skip2/go-qrcode"
	_ "golang.org/x/image/webp" // WebP photos from some phones
)

// DefaultSize is the edge length in pixels of rendered codes.
const DefaultSize = 256

// scanDimension bounds photos before decoding.
const scanDimension = 1200

// ErrNoCode is returned when a photo contains no readable QR code.
var ErrNoCode = errors.New("no QR code found in image")

// PNG renders content as a QR code PNG with medium error correction.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qr: empty content")
	}
	if size <= 0 {
		size = DefaultSize
	}
	data, err := goqr.Encode(content, goqr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr: encoding: %w", err)
	}
	return data, nil
}

// Decode reads the first QR code found in a photo.
func Decode(r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("qr: decoding photo: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > scanDimension || b.Dy() > scanDimension {
		img = imaging.Fit(img, scanDimension, scanDimension, imaging.Linear)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("qr: preparing bitmap: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", ErrNoCode
	}

	text := strings.TrimSpace(result.GetText())
	if text == "" {
		return "", ErrNoCode
	}
	return text, nil
}
