// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"os"

	"github.com/MKhiriev/go-care-sync/internal/client"
	"github.com/MKhiriev/go-care-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	setBuildInfoDefaults()

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	os.Exit(client.Execute(context.Background(), buildInfo, os.Args[1:]))
}

func setBuildInfoDefaults() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}
}
