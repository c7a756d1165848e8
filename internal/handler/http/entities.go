// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/models"
)

// pullOrder is the only ordering the keyset cursor supports.
const pullOrder = "updated_at.asc,id.asc"

const cursorPrefix = "gt."

// pull answers GET /api/v1/{type} with one page of records after the cursor.
func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	req, err := parsePullRequest(r)
	if err != nil {
		writeServiceError(w, r, "Handler.pull", err)
		return
	}

	entities, err := h.services.EntityService.Pull(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "Handler.pull", err)
		return
	}
	if entities == nil {
		entities = []models.Entity{}
	}

	_, _ = utils.WriteJSON(w, entities, http.StatusOK)
}

func parsePullRequest(r *http.Request) (models.PullRequest, error) {
	query := r.URL.Query()
	req := models.PullRequest{
		EntityType: models.EntityType(chi.URLParam(r, "type")),
		ScopeID:    query.Get("scope"),
	}

	if order := query.Get("order"); order != "" && order != pullOrder {
		return req, fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: %w", ErrInvalidLimit, err)
		}
		req.Limit = limit
	}

	rawUpdatedAt, rawID := query.Get("updated_at"), query.Get("id")
	if rawUpdatedAt == "" && rawID == "" {
		return req, nil
	}

	// both halves of the cursor travel together
	updatedAt, okTS := strings.CutPrefix(rawUpdatedAt, cursorPrefix)
	lastID, okID := strings.CutPrefix(rawID, cursorPrefix)
	if !okTS || !okID {
		return req, ErrInvalidCursor
	}
	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}

	req.Cursor = models.SyncCursor{
		ScopeID:           req.ScopeID,
		EntityType:        req.EntityType,
		LastSeenUpdatedAt: ts.UTC(),
		LastSeenID:        lastID,
	}
	return req, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	h.push(w, r, models.OperationCreate, http.StatusCreated)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	h.push(w, r, models.OperationUpdate, http.StatusOK)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	h.push(w, r, models.OperationDelete, http.StatusOK)
}

// push applies one operation. A replayed operation answers 200 with the
// stored result and the X-Idempotent-Replay header.
func (h *Handler) push(w http.ResponseWriter, r *http.Request, kind models.OperationKind, status int) {
	req, err := decodePushRequest(r, kind)
	if err != nil {
		writeServiceError(w, r, "Handler.push", err)
		return
	}

	entity, replayed, err := h.services.EntityService.Push(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "Handler.push", err)
		return
	}

	if replayed {
		logger.FromRequest(r).Debug().
			Str("func", "Handler.push").
			Str("operation_id", req.OperationID).
			Msg("replaying stored push result")
		w.Header().Set(models.HeaderIdempotentReply, "true")
		status = http.StatusOK
	}

	_, _ = utils.WriteJSON(w, entity, status)
}

func decodePushRequest(r *http.Request, kind models.OperationKind) (models.PushRequest, error) {
	var req models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	req.EntityType = models.EntityType(chi.URLParam(r, "type"))

	if req.Kind == "" {
		req.Kind = kind
	}
	if req.Kind != kind {
		return req, fmt.Errorf("%w: %s sent to %s route", ErrInvalidBody, req.Kind, kind)
	}

	if pathID := chi.URLParam(r, "id"); pathID != "" {
		if req.EntityID == "" {
			req.EntityID = pathID
		}
		if req.EntityID != pathID {
			return req, ErrEntityMismatch
		}
	}

	if key := r.Header.Get(models.HeaderIdempotencyKey); key != "" {
		if req.OperationID == "" {
			req.OperationID = key
		}
		if req.OperationID != key {
			return req, ErrKeyMismatch
		}
	}

	return req, nil
}
