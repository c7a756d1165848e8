// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-care-sync/internal/app"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/service"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/internal/validators"
	"github.com/MKhiriev/go-care-sync/models"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings is matched in order, so specific causes come before the
// sentinels that wrap them.
var errorMappings = []errorMapping{
	{validators.ErrInvalidEntityType, http.StatusBadRequest, app.MsgUnknownEntityType},
	{validators.ErrInvalidExpectedVersion, http.StatusBadRequest, app.MsgVersionIsNotSpecified},
	{service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{ErrInvalidCursor, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{ErrInvalidLimit, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{ErrInvalidOrder, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{ErrInvalidBody, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{ErrInvalidNumber, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{ErrKeyMismatch, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{ErrEntityMismatch, http.StatusBadRequest, app.MsgInvalidDataProvided},

	{service.ErrNoTokenInContext, http.StatusUnauthorized, app.MsgNoTokenProvided},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	{service.ErrScopeForbidden, http.StatusForbidden, app.MsgAccessDenied},
	{service.ErrEditorMismatch, http.StatusForbidden, app.MsgEditorMismatch},

	{store.ErrEntityNotFound, http.StatusNotFound, app.MsgEntityNotFound},
	{store.ErrRevisionNotFound, http.StatusNotFound, app.MsgRevisionNotFound},

	{store.ErrTransient, http.StatusServiceUnavailable, app.MsgInternalServerError},
}

func statusFromError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

// writeServiceError answers a failed call. Version and revision conflicts
// carry the server state the client needs to resolve them.
func writeServiceError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	log := logger.FromRequest(r)

	var versionConflict *store.VersionConflictError
	if errors.As(err, &versionConflict) {
		log.Info().Str("func", funcName).Err(err).Msg("version conflict")
		_, _ = utils.WriteJSON(w, models.ConflictResponse{
			Code:    models.CodeVersionMismatch,
			Message: app.MsgVersionConflict,
			Current: versionConflict.Current,
		}, http.StatusConflict)
		return
	}

	var revisionConflict *store.RevisionConflictError
	if errors.As(err, &revisionConflict) {
		log.Info().Str("func", funcName).Err(err).Msg("revision conflict")
		_, _ = utils.WriteJSON(w, models.RevisionConflictResponse{
			Code:            models.CodeRevisionConflict,
			Message:         app.MsgRevisionConflict,
			CurrentRevision: revisionConflict.CurrentRevision,
		}, http.StatusConflict)
		return
	}

	status, message := statusFromError(err)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	}
	utils.WriteError(w, status, "", message)
}
