package access

import (
	"net/http"

	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/httputil"
	"eventgate/pkg/requestcontext"
)

// Middleware guards downstream handlers with the decision engine. On deny
// the request is rejected here: the validator and writer are never invoked.
// On allow the caller identity is forwarded through the request context.
func Middleware(engine *Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := engine.Authorize(r.Context(), r.Header.Get("Authorization"))
			if !decision.Allowed {
				httputil.WriteError(w, denialError(decision.Reason))
				return
			}
			ctx := requestcontext.WithIdentity(r.Context(), decision.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// denialError translates a denial reason into the client-facing error.
// Secret store trouble is a collaborator failure (503), not a caller fault.
func denialError(reason Reason) error {
	if reason == ReasonSecretUnavailable {
		return dErrors.New(dErrors.CodeUnavailable, "authorization temporarily unavailable")
	}
	return dErrors.New(dErrors.CodeUnauthorized, string(reason))
}
