// Package rest exposes the registry over plain HTTP.
//
//	POST   /{ns}          create namespace     201, 409 taken, 400 invalid
//	GET    /{ns}/{key}    read value           200 body=value, 404
//	PUT    /{ns}/{key}    store body           200 body=previous value, 404
//	DELETE /{ns}/{key}    remove value         200 body=removed value, 404
//	POST   /{ns}/_save    snapshot namespace   204, 404, 500
//	POST   /{ns}/_load    restore namespace    204, 404, 500
//
// Values travel as raw bytes in request and response bodies.
package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tailored-agentic-units/bidon/messaging"
)

// Store is the subset of the registry the handlers call.
type Store interface {
	CreateNamespace(ctx context.Context, name string) error
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) ([]byte, error)
	Delete(ctx context.Context, namespace, key string) ([]byte, error)
	SaveNamespace(ctx context.Context, namespace string) error
	LoadNamespace(ctx context.Context, namespace string) error
}

// Options tune the handler returned by NewHandler. Zero values select defaults.
type Options struct {
	MaxValueBytes  int64
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

const (
	defaultMaxValueBytes  = 1 << 20
	defaultRequestTimeout = 30 * time.Second
)

type handler struct {
	store          Store
	maxValueBytes  int64
	requestTimeout time.Duration
	logger         *slog.Logger
	mux            *http.ServeMux
}

// NewHandler returns an http.Handler serving the routes above, wrapped in
// request logging.
func NewHandler(store Store, opts Options) http.Handler {
	h := &handler{
		store:          store,
		maxValueBytes:  opts.MaxValueBytes,
		requestTimeout: opts.RequestTimeout,
		logger:         opts.Logger,
		mux:            http.NewServeMux(),
	}
	if h.maxValueBytes <= 0 {
		h.maxValueBytes = defaultMaxValueBytes
	}
	if h.requestTimeout <= 0 {
		h.requestTimeout = defaultRequestTimeout
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	h.mux.HandleFunc("POST /{ns}", h.handleCreate)
	h.mux.HandleFunc("GET /{ns}/{key}", h.handleGet)
	h.mux.HandleFunc("PUT /{ns}/{key}", h.handlePut)
	h.mux.HandleFunc("DELETE /{ns}/{key}", h.handleDelete)
	h.mux.HandleFunc("POST /{ns}/_save", h.handleSave)
	h.mux.HandleFunc("POST /{ns}/_load", h.handleLoad)

	return logRequests(h.logger, h.mux)
}

func (h *handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	err := h.store.CreateNamespace(ctx, r.PathValue("ns"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusCreated)
	case errors.Is(err, messaging.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, messaging.ErrFailure):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.internalError(w, r, err)
	}
}

func (h *handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	value, err := h.store.Get(ctx, r.PathValue("ns"), r.PathValue("key"))
	h.writeValue(w, r, value, err)
}

func (h *handler) handlePut(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxValueBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "value too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	previous, err := h.store.Put(ctx, r.PathValue("ns"), r.PathValue("key"), body)
	h.writeValue(w, r, previous, err)
}

func (h *handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	removed, err := h.store.Delete(ctx, r.PathValue("ns"), r.PathValue("key"))
	h.writeValue(w, r, removed, err)
}

func (h *handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	h.writeEmpty(w, r, h.store.SaveNamespace(ctx, r.PathValue("ns")))
}

func (h *handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	h.writeEmpty(w, r, h.store.LoadNamespace(ctx, r.PathValue("ns")))
}

func (h *handler) writeValue(w http.ResponseWriter, r *http.Request, value []byte, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(value); err != nil {
		h.logger.DebugContext(r.Context(), "write response failed", "error", err)
	}
}

func (h *handler) writeEmpty(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, messaging.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.internalError(w, r, err)
}

func (h *handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
