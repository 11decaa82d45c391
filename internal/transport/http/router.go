// Package httptransport assembles the public router. It is a thin layer:
// all business logic lives in the internal services it mounts.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventgate/internal/access"
	ingesthandler "eventgate/internal/ingest/handler"
	"eventgate/pkg/platform/httputil"
	"eventgate/pkg/platform/middleware/metadata"
	"eventgate/pkg/platform/middleware/requestid"
	"eventgate/pkg/platform/middleware/requesttime"
)

// NewRouter wires all public endpoints. The ingest route sits behind the
// access middleware; health and metrics stay unauthenticated.
func NewRouter(engine *access.Engine, ingest *ingesthandler.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(access.Middleware(engine))
		ingest.Register(r)
	})

	return r
}

// handleHealth is the unauthenticated liveness probe. Static by design: it
// must not touch any collaborator.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
