// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/validators"
)

type Services struct {
	AuthService     AuthService
	EntityService   EntityService
	RevisionService RevisionService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.Version)
	if err != nil {
		return nil, err
	}

	requests := validators.NewRequestValidator(validators.NewBriefValidator())
	entities := NewEntityValidationService(requests).
		Wrap(NewEntityService(storages.EntityRepository, storages.ReplayCache, cfg.ReplayTTL, logger))

	return &Services{
		AuthService:     NewAuthService(cfg.TokenSignKey, cfg.TokenIssuer, logger),
		EntityService:   entities,
		RevisionService: NewRevisionService(storages.RevisionRepository, storages.EntityRepository, requests, logger),
		AppInfoService:  appInfo,
	}, nil
}
