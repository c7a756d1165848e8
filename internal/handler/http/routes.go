// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const apiPrefix = "/api/v1"

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))

	router.Get("/api/version", h.getServerVersion)

	router.Route(apiPrefix, func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/handoffs/{id}/revisions", func(r chi.Router) {
			r.Post("/", h.appendRevision)
			r.Get("/", h.listRevisions)
			r.Get("/{number}", h.getRevision)
		})

		r.Get("/{type}", h.pull)
		r.Post("/{type}", h.create)
		r.Patch("/{type}/{id}", h.update)
		r.Delete("/{type}/{id}", h.delete)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
