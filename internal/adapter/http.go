// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/models"
)

const apiPrefix = "/api/v1"

type httpRemoteStore struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the REST implementation of [RemoteStore].
// It normalises adapterCfg.HTTPAddress into a base URL and applies the
// configured request timeout and bearer token.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	store := &httpRemoteStore{client: client, logger: logger}
	store.SetToken(adapterCfg.Token)
	return store, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpRemoteStore) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpRemoteStore) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Pull implements [RemoteStore] with
// GET /api/v1/{type}?scope=&updated_at=gt.{ts}&id=gt.{id}&order=updated_at.asc,id.asc&limit=N.
func (h *httpRemoteStore) Pull(ctx context.Context, req models.PullRequest) ([]models.Entity, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	params := url.Values{}
	params.Set("scope", req.ScopeID)
	params.Set("order", "updated_at.asc,id.asc")
	params.Set("limit", strconv.Itoa(limit))
	if !req.Cursor.IsZero() {
		params.Set("updated_at", "gt."+req.Cursor.LastSeenUpdatedAt.UTC().Format(time.RFC3339Nano))
		params.Set("id", "gt."+req.Cursor.LastSeenID)
	}

	var page []models.Entity
	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&page).
		Get(apiPrefix + "/" + url.PathEscape(string(req.EntityType)))
	if err != nil {
		return nil, transportError("pull request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return page, nil
}

// Push implements [RemoteStore]. CREATE is a POST to the collection, UPDATE
// a PATCH and DELETE a DELETE of the entity path. The operation id travels
// in the Idempotency-Key header and the body.
func (h *httpRemoteStore) Push(ctx context.Context, req models.PushRequest) (models.Entity, error) {
	collection := apiPrefix + "/" + url.PathEscape(string(req.EntityType))
	item := collection + "/" + url.PathEscape(req.EntityID)

	var (
		method string
		path   string
	)
	switch req.Kind {
	case models.OperationCreate:
		method, path = http.MethodPost, collection
	case models.OperationUpdate:
		method, path = http.MethodPatch, item
	case models.OperationDelete:
		method, path = http.MethodDelete, item
	default:
		return models.Entity{}, fmt.Errorf("%w: unknown operation kind %q", ErrBadRequest, req.Kind)
	}

	var entity models.Entity
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(models.HeaderIdempotencyKey, req.OperationID).
		SetBody(req).
		SetResult(&entity).
		Execute(method, path)
	if err != nil {
		return models.Entity{}, transportError("push request", err)
	}

	if resp.StatusCode() == http.StatusConflict {
		var conflict models.ConflictResponse
		if jsonErr := json.Unmarshal(resp.Body(), &conflict); jsonErr != nil || conflict.Code != models.CodeVersionMismatch {
			return models.Entity{}, mapHTTPError(resp)
		}
		return models.Entity{}, &VersionConflictError{Current: conflict.Current}
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Entity{}, err
	}

	if resp.Header().Get(models.HeaderIdempotentReply) != "" {
		logger.FromContext(ctx).Debug().
			Str("func", "httpRemoteStore.Push").
			Str("operation_id", req.OperationID).
			Msg("server replayed an already applied operation")
	}

	return entity, nil
}

// AppendRevision implements [RemoteStore] with POST /api/v1/handoffs/{id}/revisions.
func (h *httpRemoteStore) AppendRevision(ctx context.Context, req models.AppendRevisionRequest) (models.AppendRevisionResponse, error) {
	var result models.AppendRevisionResponse
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result).
		Post(apiPrefix + "/handoffs/" + url.PathEscape(req.HandoffID) + "/revisions")
	if err != nil {
		return models.AppendRevisionResponse{}, transportError("append revision request", err)
	}

	if resp.StatusCode() == http.StatusConflict {
		var conflict models.RevisionConflictResponse
		if jsonErr := json.Unmarshal(resp.Body(), &conflict); jsonErr != nil || conflict.Code != models.CodeRevisionConflict {
			return models.AppendRevisionResponse{}, mapHTTPError(resp)
		}
		return models.AppendRevisionResponse{}, &RevisionConflictError{CurrentRevision: conflict.CurrentRevision}
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AppendRevisionResponse{}, err
	}
	if result.RevisionNumber < 1 {
		return models.AppendRevisionResponse{}, fmt.Errorf("%w: missing revision number", ErrInvalidResponse)
	}

	return result, nil
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		ForceContentType("application/json")
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	if traceID := utils.GetTraceIDFromContext(ctx); traceID != "" {
		req.SetHeader(models.HeaderTraceID, traceID)
	}
	return req
}

// transportError keeps a cancelled context recognisable to callers.
func transportError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
