// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/models"
)

// httpObjectStorage uploads objects with PUT /objects/{key}.
type httpObjectStorage struct {
	client *utils.HTTPClient
	token  string
}

// NewHTTPObjectStorage returns an [ObjectStorage] rooted at address.
func NewHTTPObjectStorage(address string, timeout time.Duration, token string) (ObjectStorage, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid object storage address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.SetBaseURL(baseURL).SetTimeout(timeout)

	return &httpObjectStorage{client: client, token: strings.TrimSpace(token)}, nil
}

func (s *httpObjectStorage) Put(ctx context.Context, key string, body io.Reader) error {
	resp, err := collaboratorRequest(ctx, s.client, s.token).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(body).
		Put("/objects/" + escapeKey(key))
	if err != nil {
		return transportError("object upload", err)
	}
	return mapHTTPError(resp)
}

// escapeKey escapes every segment of a slash separated object key.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// httpJobService speaks the submit-then-poll protocol:
// POST /jobs returns {"job_id": ...} and GET /jobs/{id} returns a [models.JobResult].
type httpJobService struct {
	client *utils.HTTPClient
	token  string
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

// NewHTTPJobService returns an [AsyncJobService] rooted at address.
func NewHTTPJobService(address string, timeout time.Duration, token string) (AsyncJobService, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid job service address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.SetBaseURL(baseURL).SetTimeout(timeout)

	return &httpJobService{client: client, token: strings.TrimSpace(token)}, nil
}

func (j *httpJobService) Submit(ctx context.Context, req models.JobRequest) (string, error) {
	var result submitResponse
	resp, err := collaboratorRequest(ctx, j.client, j.token).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result).
		Post("/jobs")
	if err != nil {
		return "", transportError("job submit", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	if result.JobID == "" {
		return "", fmt.Errorf("%w: missing job id", ErrInvalidResponse)
	}

	return result.JobID, nil
}

func (j *httpJobService) Poll(ctx context.Context, jobID string) (models.JobResult, error) {
	var result models.JobResult
	resp, err := collaboratorRequest(ctx, j.client, j.token).
		SetResult(&result).
		Get("/jobs/" + url.PathEscape(jobID))
	if err != nil {
		return models.JobResult{}, transportError("job poll", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.JobResult{}, err
	}

	switch result.State {
	case models.JobPending, models.JobRunning, models.JobSucceeded, models.JobFailed:
	default:
		return models.JobResult{}, fmt.Errorf("%w: unknown job status %q", ErrInvalidResponse, result.State)
	}
	if result.JobID == "" {
		result.JobID = jobID
	}

	return result, nil
}

func collaboratorRequest(ctx context.Context, client *utils.HTTPClient, token string) *resty.Request {
	req := client.R().
		SetContext(ctx).
		ForceContentType("application/json")
	if token != "" {
		req.SetAuthToken(token)
	}
	if traceID := utils.GetTraceIDFromContext(ctx); traceID != "" {
		req.SetHeader(models.HeaderTraceID, traceID)
	}
	return req
}
