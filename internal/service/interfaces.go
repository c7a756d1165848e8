// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-care-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=EntityServiceWrapper

// EntityService serves pulls and pushes against the authoritative store.
// Every call is checked against the scopes of the token in ctx.
type EntityService interface {
	Pull(ctx context.Context, req models.PullRequest) ([]models.Entity, error)

	// Push applies one operation. replayed is true when the operation id was
	// applied before and the stored result is returned unchanged.
	Push(ctx context.Context, req models.PushRequest) (entity models.Entity, replayed bool, err error)
}

// RevisionService appends to and reads the handoff revision ledger.
type RevisionService interface {
	AppendRevision(ctx context.Context, req models.AppendRevisionRequest) (models.Revision, error)
	ListRevisions(ctx context.Context, handoffID string) ([]models.Revision, error)
	GetRevision(ctx context.Context, handoffID string, number int64) (models.Revision, error)
}

type AuthService interface {
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetServerInfo(ctx context.Context) models.ServerInfo
}

// EntityServiceWrapper defines middleware composition for EntityService.
// Implementations wrap an existing EntityService to add behavior such as
// logging or validating.
type EntityServiceWrapper interface {
	Wrap(EntityService) EntityService
}
