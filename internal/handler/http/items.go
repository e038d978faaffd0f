// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-note-vault/internal/app"
	"github.com/MKhiriev/go-note-vault/internal/codec"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/utils"
	"github.com/MKhiriev/go-note-vault/models"
)

// logicalKey returns the unescaped {key} URL parameter.
func logicalKey(r *http.Request) (string, error) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		return "", fmt.Errorf("%w: bad key escape: %w", app.ErrInvalidInput, err)
	}
	return key, nil
}

// saveItem stores the request body, a JSON document, under {key}.
func (h *Handler) saveItem(w http.ResponseWriter, r *http.Request) {
	key, err := logicalKey(r)
	if err != nil {
		writeError(w, r, "Handler.saveItem", err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxItemSize))
	if err != nil {
		writeError(w, r, "Handler.saveItem", fmt.Errorf("%w: read body: %w", app.ErrInvalidInput, err))
		return
	}
	doc, err := codec.Parse(string(body))
	if err != nil {
		writeError(w, r, "Handler.saveItem", fmt.Errorf("%w: %w", app.ErrInvalidInput, err))
		return
	}

	if err = h.persistence.Save(r.Context(), key, doc); err != nil {
		writeError(w, r, "Handler.saveItem", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadItem returns the document under {key} with dates in tagged form, so
// that it can be PUT back unchanged.
func (h *Handler) loadItem(w http.ResponseWriter, r *http.Request) {
	key, err := logicalKey(r)
	if err != nil {
		writeError(w, r, "Handler.loadItem", err)
		return
	}

	var doc any
	found, err := h.persistence.Load(r.Context(), key, &doc)
	if err != nil {
		writeError(w, r, "Handler.loadItem", err)
		return
	}
	if !found {
		writeError(w, r, "Handler.loadItem", app.ErrNotFound)
		return
	}

	out, err := codec.Marshal(doc)
	if err != nil {
		writeError(w, r, "Handler.loadItem", err)
		return
	}
	if _, err = utils.WriteRawJSON(w, out, http.StatusOK); err != nil {
		logger.FromContext(r.Context()).Err(err).Str("func", "Handler.loadItem").Msg("failed to write response")
	}
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	key, err := logicalKey(r)
	if err != nil {
		writeError(w, r, "Handler.removeItem", err)
		return
	}

	if err = h.persistence.Remove(r.Context(), key); err != nil {
		writeError(w, r, "Handler.removeItem", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) inspectItem(w http.ResponseWriter, r *http.Request) {
	key, err := logicalKey(r)
	if err != nil {
		writeError(w, r, "Handler.inspectItem", err)
		return
	}

	format, found, err := h.persistence.Inspect(r.Context(), key)
	if err != nil {
		writeError(w, r, "Handler.inspectItem", err)
		return
	}
	if !found {
		writeError(w, r, "Handler.inspectItem", app.ErrNotFound)
		return
	}

	utils.WriteJSON(w, models.FormatResponse{Key: key, Format: format.String()}, http.StatusOK)
}

// clearItems deletes everything, key included. It needs ?confirm=true.
func (h *Handler) clearItems(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, r, "Handler.clearItems", app.ErrConfirmationRequired)
		return
	}

	if err := h.persistence.ClearAll(r.Context()); err != nil {
		writeError(w, r, "Handler.clearItems", err)
		return
	}

	logger.FromContext(r.Context()).Info().Str("func", "Handler.clearItems").Msg("all data cleared over http")
	w.WriteHeader(http.StatusNoContent)
}
