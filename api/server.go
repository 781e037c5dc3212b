// Package api exposes the session pipeline over HTTP.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes builds the router. limiter guards the /api endpoints only.
func (h *Handler) Routes(limiter *Limiter) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware(limiter))
	api.HandleFunc("/extract", h.Extract).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/preview", h.Preview).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/discover", h.Discover).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/share", h.CreateShare).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/share/{id}", h.GetShare).Methods(http.MethodGet)
	r.HandleFunc("/healthcheck", h.Healthcheck).Methods(http.MethodGet)

	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware)
	return r
}
