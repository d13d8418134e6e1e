// Package server exposes the lookup services over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/lookup"
	"github.com/litescript/ls-skymap/internal/version"
)

// Handler wires the API endpoints to the lookup services.
type Handler struct {
	store   *catalog.Store
	objects lookup.ObjectService
	docs    lookup.DocumentService
	log     zerolog.Logger
}

// New constructs a handler with its dependencies.
func New(store *catalog.Store, objects lookup.ObjectService, docs lookup.DocumentService, log zerolog.Logger) *Handler {
	return &Handler{
		store:   store,
		objects: objects,
		docs:    docs,
		log:     log,
	}
}

// Router returns the API router with logging and panic recovery.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(h.log))
	h.Register(r)
	return r
}

// Register mounts the endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Get("/star/{id}", h.HandleObject(catalog.KindStar))
		api.Get("/const/{id}", h.HandleObject(catalog.KindConstellation))
		api.Get("/name/{name}", h.HandleName)
		api.Get("/document/{ref}", h.HandleDocument)
		api.Get("/catalog", h.HandleCatalog)
	})
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

// HandleObject handles GET /api/star/{id} and /api/const/{id}. An id of
// another kind than the route's is not found.
func (h *Handler) HandleObject(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if k, ok := catalog.ParseKind(id); !ok || k != kind {
			h.writeError(w, r, lookup.ErrNotFound)
			return
		}
		d, err := h.objects.ByID(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, lookup.Response(d))
	}
}

// HandleName handles GET /api/name/{name}. An unknown name is a normal
// outcome and returns an empty object rather than 404.
func (h *Handler) HandleName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	d, err := h.objects.ByName(r.Context(), name)
	if errors.Is(err, lookup.ErrNotFound) {
		writeJSON(w, http.StatusOK, lookup.ObjectResponse{})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lookup.Response(d))
}

// HandleDocument handles GET /api/document/{ref}.
func (h *Handler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	doc, err := h.docs.Document(r.Context(), ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var resp lookup.DocumentResponse
	resp.Document.Paragraph = doc.Sections
	writeJSON(w, http.StatusOK, resp)
}

// HandleCatalog handles GET /api/catalog.
func (h *Handler) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.ToFile(h.store))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, lookup.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	h.log.Error().Err(err).Str("path", r.URL.Path).Msg("lookup failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewHTTPServer returns a server for h with conservative timeouts.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
