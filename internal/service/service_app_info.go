// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"slices"

	"github.com/MKhiriev/go-care-sync/models"
)

type appInfoService struct {
	info models.ServerInfo
}

// NewAppInfoService fails when the build carries no version, since clients
// log it next to every sync error report.
func NewAppInfoService(version string) (AppInfoService, error) {
	if version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{info: models.ServerInfo{
		Version:     version,
		EntityTypes: slices.Clone(models.SyncedEntityTypes),
	}}, nil
}

func (s *appInfoService) GetServerInfo(ctx context.Context) models.ServerInfo {
	info := s.info
	info.EntityTypes = slices.Clone(s.info.EntityTypes)
	return info
}
