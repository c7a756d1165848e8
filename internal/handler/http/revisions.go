// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/models"
)

func (h *Handler) appendRevision(w http.ResponseWriter, r *http.Request) {
	var req models.AppendRevisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeServiceError(w, r, "Handler.appendRevision", fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return
	}
	req.HandoffID = chi.URLParam(r, "id")

	rev, err := h.services.RevisionService.AppendRevision(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "Handler.appendRevision", err)
		return
	}

	_, _ = utils.WriteJSON(w, models.AppendRevisionResponse{
		HandoffID:      req.HandoffID,
		RevisionNumber: rev.Number,
		CreatedAt:      rev.CreatedAt,
	}, http.StatusCreated)
}

func (h *Handler) listRevisions(w http.ResponseWriter, r *http.Request) {
	revisions, err := h.services.RevisionService.ListRevisions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "Handler.listRevisions", err)
		return
	}
	if revisions == nil {
		revisions = []models.Revision{}
	}

	_, _ = utils.WriteJSON(w, revisions, http.StatusOK)
}

func (h *Handler) getRevision(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil || number < 1 {
		writeServiceError(w, r, "Handler.getRevision", ErrInvalidNumber)
		return
	}

	rev, err := h.services.RevisionService.GetRevision(r.Context(), chi.URLParam(r, "id"), number)
	if err != nil {
		writeServiceError(w, r, "Handler.getRevision", err)
		return
	}

	_, _ = utils.WriteJSON(w, rev, http.StatusOK)
}
