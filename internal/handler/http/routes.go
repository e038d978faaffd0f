package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router. Routes are registered flat so that
// [CheckHTTPMethod] can match their patterns.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	router.Get("/api/version", h.getVersion)
	router.Get("/api/state", h.getState)

	router.Delete("/api/items", h.clearItems)
	router.Get("/api/items/{key}", h.loadItem)
	router.Put("/api/items/{key}", h.saveItem)
	router.Delete("/api/items/{key}", h.removeItem)
	router.Get("/api/items/{key}/format", h.inspectItem)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
