// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/mileusna/useragent"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/imaging"
	"github.com/olegiv/eventix/internal/imgbb"
	"github.com/olegiv/eventix/internal/qr"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/util"
)

// multipartOverhead is the room left for form fields around an upload.
const multipartOverhead = 1 << 20

// UploadImage adds an image to an event gallery. The image is either an
// uploaded file, resized and hosted on ImgBB, or a public https URL.
func (h *OrganizerHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	editURL := fmt.Sprintf(redirectOrgEventEdit, id) + "#images"

	r.Body = http.MaxBytesReader(w, r.Body, h.images.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(h.images.MaxBytes()); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		flashError(w, r, h.renderer, editURL, "The image is too large.")
		return
	}

	imageURL := strings.TrimSpace(r.PostFormValue("url"))
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		imageURL, err = h.host(r, file, header)
		if err != nil {
			h.uploadFailed(w, r, err, editURL)
			return
		}
	case imageURL != "":
		if err := util.ValidateImageURL(imageURL); err != nil {
			flashError(w, r, h.renderer, editURL, "Image URL: "+err.Error()+".")
			return
		}
	default:
		flashError(w, r, h.renderer, editURL, "Choose an image file or enter an image URL.")
		return
	}

	if err := h.api.AddImage(r.Context(), h.cred(r), id, imageURL); err != nil {
		h.failFlash(w, r, err, editURL, "The image could not be added.")
		return
	}
	h.listings.Forget(r.Context(), id)
	flashSuccess(w, r, h.renderer, editURL, "Image added.")
}

// host prepares an uploaded file and hosts it, returning its public URL.
func (h *OrganizerHandler) host(r *http.Request, file multipart.File, header *multipart.FileHeader) (string, error) {
	res, err := h.images.Prepare(file, header.Filename)
	if err != nil {
		return "", err
	}
	img, err := h.imgbb.Upload(r.Context(), res.Data, res.Filename)
	if err != nil {
		return "", err
	}
	slog.InfoContext(r.Context(), "image hosted",
		"filename", res.Filename,
		"width", res.Width,
		"height", res.Height,
		"bytes", len(res.Data),
	)
	return img.URL, nil
}

func (h *OrganizerHandler) uploadFailed(w http.ResponseWriter, r *http.Request, err error, redirectURL string) {
	var msg string
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		msg = "Only JPEG, PNG, GIF and WebP images are accepted."
	case errors.Is(err, imaging.ErrTooLarge):
		msg = "The image is too large."
	case errors.Is(err, imgbb.ErrNotConfigured):
		msg = "Image uploads are not available. Enter an image URL instead."
	default:
		slog.ErrorContext(r.Context(), "image upload failed", "error", err)
		msg = "The image could not be uploaded."
	}
	flashError(w, r, h.renderer, redirectURL, msg)
}

// DeleteImage removes an image from an event gallery.
func (h *OrganizerHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	imageID, ok2 := parseIDParam(r, "imageId")
	if !ok || !ok2 {
		h.notFound(w, r)
		return
	}
	editURL := fmt.Sprintf(redirectOrgEventEdit, id) + "#images"

	if err := h.api.DeleteImage(r.Context(), h.cred(r), imageID); err != nil {
		h.failFlash(w, r, err, editURL, "The image could not be deleted.")
		return
	}
	h.listings.Forget(r.Context(), id)
	flashSuccess(w, r, h.renderer, editURL, "Image deleted.")
}

// Banner levels of a scan result.
const (
	scanSuccess = "success"
	scanWarning = "warning"
	scanDanger  = "danger"
)

// scanResult is the banner shown after a ticket check.
type scanResult struct {
	Level        string
	Message      string
	Subscription *api.Subscription
}

type scannerPage struct {
	// Mobile selects the camera capture input.
	Mobile bool
	Result *scanResult
}

// isMobile reports whether the browser runs on a phone or tablet.
func isMobile(r *http.Request) bool {
	ua := useragent.Parse(r.UserAgent())
	return ua.Mobile || ua.Tablet
}

// Scanner renders the ticket scanner.
func (h *OrganizerHandler) Scanner(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pageOrgScanner, "Ticket scanner", scannerPage{Mobile: isMobile(r)})
}

// Scan validates a ticket code, typed or read from a photo of its QR code.
func (h *OrganizerHandler) Scan(w http.ResponseWriter, r *http.Request) {
	data := scannerPage{Mobile: isMobile(r)}

	r.Body = http.MaxBytesReader(w, r.Body, h.images.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(h.images.MaxBytes()); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		data.Result = &scanResult{Level: scanDanger, Message: "The photo is too large."}
		h.renderer.PageStatus(w, r, http.StatusRequestEntityTooLarge, pageOrgScanner, scanData(data))
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))
	if code == "" {
		file, _, err := r.FormFile("photo")
		if err != nil {
			data.Result = &scanResult{Level: scanDanger, Message: "Enter a ticket code or take a photo of the QR code."}
			h.renderer.PageStatus(w, r, http.StatusUnprocessableEntity, pageOrgScanner, scanData(data))
			return
		}
		defer func() { _ = file.Close() }()

		code, err = qr.Decode(file)
		if err != nil {
			msg := "The photo could not be read."
			if errors.Is(err, qr.ErrNoCode) {
				msg = "No QR code was found on the photo. Try again closer."
			}
			slog.DebugContext(r.Context(), "ticket photo not decoded", "error", err)
			data.Result = &scanResult{Level: scanDanger, Message: msg}
			h.renderer.PageStatus(w, r, http.StatusUnprocessableEntity, pageOrgScanner, scanData(data))
			return
		}
	}

	check, err := h.api.ValidateTicket(r.Context(), h.cred(r), code)
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		h.logFailure(r, err)
		data.Result = &scanResult{Level: scanDanger, Message: api.Message(err, "The ticket could not be checked.")}
		h.renderer.PageStatus(w, r, statusFor(err), pageOrgScanner, scanData(data))
		return
	}

	data.Result = verdictResult(check)
	slog.InfoContext(r.Context(), "ticket scanned", "verdict", check.Verdict.String())
	h.page(w, r, pageOrgScanner, "Ticket scanner", data)
}

func scanData(data scannerPage) render.TemplateData {
	return render.TemplateData{Title: "Ticket scanner", Data: data}
}

// verdictResult maps a ticket check to its banner.
func verdictResult(check *api.TicketCheck) *scanResult {
	res := &scanResult{Message: check.Message, Subscription: check.Subscription}
	switch check.Verdict {
	case api.TicketValid:
		res.Level = scanSuccess
		if res.Message == "" {
			res.Message = "Valid ticket. Entry granted."
		}
	case api.TicketAlreadyUsed:
		res.Level = scanWarning
		if res.Message == "" {
			res.Message = "This ticket has already been used."
		}
	default:
		res.Level = scanDanger
		if res.Message == "" {
			res.Message = "Unknown ticket code."
		}
	}
	return res
}
