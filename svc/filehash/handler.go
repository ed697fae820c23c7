package filehash

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/filehash/pkg/clientip"
	"github.com/dmitrymomot/filehash/pkg/httpserver"
	"github.com/dmitrymomot/filehash/pkg/logger"
	"github.com/dmitrymomot/filehash/pkg/requestid"
)

const contentTypeText = "text/plain; charset=utf-8"

// Router exposes svc over HTTP.
//
//	GET /healthz      liveness
//	GET /readyz       storage reachability
//	GET /stats        cache, pool and evictor counters as JSON
//	GET /favicon.ico  204, bypasses the pipeline
//	GET /{key}        "<key> - <hash>" or "<code> - <message>"
func Router(svc *Service, log *slog.Logger) chi.Router {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &handler{svc: svc, logger: log}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, svc.Ready))
	r.Get("/stats", h.stats)
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/", h.hash)
	r.Get("/*", h.hash)

	return r
}

type handler struct {
	svc    *Service
	logger *slog.Logger
}

func (h *handler) hash(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	key := strings.TrimPrefix(r.URL.Path, "/")

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", contentTypeText)

	res, err := h.svc.Hash(ctx, key)
	if err != nil {
		he := AsHTTPError(err)
		level := slog.LevelInfo
		if he.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		h.logger.Log(ctx, level, "request failed",
			logger.Key(key),
			logger.Status(he.Code),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		w.WriteHeader(he.Code)
		_, _ = w.Write([]byte(he.Body()))
		return
	}

	h.logger.InfoContext(ctx, "request completed",
		logger.Key(key),
		logger.Cached(res.Cached),
		logger.Hits(res.Hits),
		logger.Status(http.StatusOK),
		logger.Duration(time.Since(start)),
	)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.String()))
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.svc.Stats()); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode stats", logger.Error(err))
	}
}
