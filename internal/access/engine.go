package access

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	accessmetrics "eventgate/internal/access/metrics"
	"eventgate/internal/secrets"
	"eventgate/internal/token"
	"eventgate/pkg/platform/audit"
	"eventgate/pkg/requestcontext"
)

// Invalidator is implemented by secret sources that cache, letting the
// engine force a refresh when a signature failure may be rotation fallout.
type Invalidator interface {
	Invalidate()
}

// Engine makes authorization decisions. It is stateless between calls; the
// secret is fetched per decision through the injected source (normally the
// secrets.Cache decorator).
type Engine struct {
	verifier *token.Verifier
	source   secrets.Source
	trail    *audit.Trail
	logger   *slog.Logger
	metrics  *accessmetrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *accessmetrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine builds the decision engine. The audit trail is mandatory: every
// decision, allow or deny, produces exactly one trail entry.
func NewEngine(verifier *token.Verifier, source secrets.Source, trail *audit.Trail, opts ...Option) (*Engine, error) {
	if verifier == nil {
		return nil, errors.New("token verifier is required")
	}
	if source == nil {
		return nil, errors.New("secret source is required")
	}
	if trail == nil {
		return nil, errors.New("audit trail is required")
	}
	e := &Engine{verifier: verifier, source: source, trail: trail}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Authorize converts the raw Authorization header value into a Decision.
// Inability to positively confirm validity always denies: a failed secret
// fetch is ReasonSecretUnavailable, never an implicit allow.
func (e *Engine) Authorize(ctx context.Context, authorizationHeader string) Decision {
	raw, ok := strings.CutPrefix(authorizationHeader, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return e.deny(ctx, ReasonMissingCredential, "")
	}

	secret, err := e.source.Fetch(ctx)
	if err != nil {
		if e.logger != nil {
			e.logger.WarnContext(ctx, "secret fetch failed", "error", err)
		}
		return e.deny(ctx, ReasonSecretUnavailable, "")
	}

	now := requestcontext.Now(ctx)
	claims, err := e.verifier.Verify(raw, []byte(secret), now)
	if err != nil && errors.Is(err, token.ErrSignatureInvalid) {
		// The stored secret may have rotated under a caching source. Retry
		// exactly once against a freshly fetched secret before denying.
		if inv, ok := e.source.(Invalidator); ok {
			inv.Invalidate()
			secret, ferr := e.source.Fetch(ctx)
			if ferr != nil {
				return e.deny(ctx, ReasonSecretUnavailable, "")
			}
			claims, err = e.verifier.Verify(raw, []byte(secret), now)
		}
	}
	if err != nil {
		return e.deny(ctx, reasonFor(err), "")
	}

	identity := &requestcontext.CallerIdentity{
		Subject: claims.Subject(),
		Email:   claims.Email,
		Scope:   claims.Scope,
	}
	return e.allow(ctx, identity)
}

func (e *Engine) allow(ctx context.Context, identity *requestcontext.CallerIdentity) Decision {
	e.trail.Record(ctx, audit.EventAccessAllowed, audit.Event{
		Subject:  identity.Subject,
		Email:    identity.Email,
		Decision: "allow",
	})
	if e.metrics != nil {
		e.metrics.ObserveDecision("allow", "")
	}
	return Allow(identity)
}

func (e *Engine) deny(ctx context.Context, reason Reason, subject string) Decision {
	e.trail.Record(ctx, audit.EventAccessDenied, audit.Event{
		Subject:  subject,
		Decision: "deny",
		Reason:   string(reason),
	})
	if e.metrics != nil {
		e.metrics.ObserveDecision("deny", string(reason))
	}
	return Deny(reason)
}

// reasonFor maps a verification error chain onto a denial reason.
func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, token.ErrExpired):
		return ReasonExpired
	case errors.Is(err, token.ErrAlgorithmMismatch):
		return ReasonAlgorithmMismatch
	case errors.Is(err, token.ErrSignatureInvalid):
		return ReasonSignatureInvalid
	default:
		return ReasonMalformedToken
	}
}
