package access_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/internal/access"
	"eventgate/internal/secrets"
	"eventgate/internal/token"
	"eventgate/pkg/platform/audit"
	auditmem "eventgate/pkg/platform/audit/store/memory"
	"eventgate/pkg/requestcontext"
	"eventgate/pkg/testutil"
)

const secret = "s3cr3t"

// switchableSource serves whatever secret it currently holds, or an error.
type switchableSource struct {
	value string
	err   error
}

func (s *switchableSource) Fetch(_ context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.value, nil
}

type engineFixture struct {
	engine *access.Engine
	source *switchableSource
	store  *auditmem.Store
	now    time.Time
}

func newFixture(t *testing.T) *engineFixture {
	t.Helper()

	verifier, err := token.NewVerifier("HS256")
	require.NoError(t, err)

	source := &switchableSource{value: secret}
	store := auditmem.New()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	trail := audit.NewTrail(logger, audit.WithStore(store))

	engine, err := access.NewEngine(verifier, source, trail, access.WithLogger(logger))
	require.NoError(t, err)

	return &engineFixture{
		engine: engine,
		source: source,
		store:  store,
		now:    time.Now(),
	}
}

func (f *engineFixture) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), f.now)
}

func (f *engineFixture) mint(t *testing.T, signWith string, expiry time.Time) string {
	t.Helper()
	return testutil.MintToken(t, signWith, testutil.TokenSpec{
		Subject:  "u1",
		Email:    "u1@example.com",
		Scope:    "ingest:write",
		IssuedAt: f.now.Add(-time.Minute),
		Expiry:   expiry,
	})
}

func TestAuthorize_Allow(t *testing.T) {
	f := newFixture(t)
	raw := f.mint(t, secret, f.now.Add(time.Hour))

	decision := f.engine.Authorize(f.ctx(), "Bearer "+raw)

	require.True(t, decision.Allowed)
	require.NotNil(t, decision.Identity)
	assert.Equal(t, "u1", decision.Identity.Subject)
	assert.Equal(t, "u1@example.com", decision.Identity.Email)
	assert.Equal(t, "ingest:write", decision.Identity.Scope)

	allowed := f.store.ByAction(audit.EventAccessAllowed)
	require.Len(t, allowed, 1, "an allow produces exactly one audit entry")
	assert.Equal(t, "u1", allowed[0].Subject)
	assert.Equal(t, "allow", allowed[0].Decision)
}

func TestAuthorize_Denials(t *testing.T) {
	tests := []struct {
		name   string
		header func(f *engineFixture, t *testing.T) string
		want   access.Reason
	}{
		{
			name:   "no header",
			header: func(*engineFixture, *testing.T) string { return "" },
			want:   access.ReasonMissingCredential,
		},
		{
			name:   "wrong scheme",
			header: func(f *engineFixture, t *testing.T) string { return "Token " + f.mint(t, secret, f.now.Add(time.Hour)) },
			want:   access.ReasonMissingCredential,
		},
		{
			name:   "bearer with empty token",
			header: func(*engineFixture, *testing.T) string { return "Bearer  " },
			want:   access.ReasonMissingCredential,
		},
		{
			name:   "wrong secret",
			header: func(f *engineFixture, t *testing.T) string { return "Bearer " + f.mint(t, "other-secret", f.now.Add(time.Hour)) },
			want:   access.ReasonSignatureInvalid,
		},
		{
			name:   "expired token",
			header: func(f *engineFixture, t *testing.T) string { return "Bearer " + f.mint(t, secret, f.now.Add(-time.Second)) },
			want:   access.ReasonExpired,
		},
		{
			name:   "garbage token",
			header: func(*engineFixture, *testing.T) string { return "Bearer junk" },
			want:   access.ReasonMalformedToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			decision := f.engine.Authorize(f.ctx(), tc.header(f, t))

			assert.False(t, decision.Allowed)
			assert.Equal(t, tc.want, decision.Reason)
			assert.Nil(t, decision.Identity)

			denied := f.store.ByAction(audit.EventAccessDenied)
			require.Len(t, denied, 1, "every denial produces exactly one audit entry")
			assert.Equal(t, string(tc.want), denied[0].Reason)
		})
	}
}

// Inability to fetch the secret must deny, never default to allow.
func TestAuthorize_FailsClosedOnSecretFetch(t *testing.T) {
	f := newFixture(t)
	raw := f.mint(t, secret, f.now.Add(time.Hour))
	f.source.err = errors.New("parameter store down")

	decision := f.engine.Authorize(f.ctx(), "Bearer "+raw)

	assert.False(t, decision.Allowed)
	assert.Equal(t, access.ReasonSecretUnavailable, decision.Reason)
	require.Len(t, f.store.ByAction(audit.EventAccessDenied), 1)
}

// After a secret rotation a caching source holds the old value; the engine
// invalidates it and re-verifies once before denying.
func TestAuthorize_RecoversFromRotatedSecret(t *testing.T) {
	verifier, err := token.NewVerifier("HS256")
	require.NoError(t, err)

	source := &switchableSource{value: "old-secret"}
	cache := secrets.NewCache(source, time.Hour)
	store := auditmem.New()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	engine, err := access.NewEngine(verifier, cache, audit.NewTrail(logger, audit.WithStore(store)))
	require.NoError(t, err)

	now := time.Now()
	ctx := requestcontext.WithTime(context.Background(), now)

	// Warm the cache with the pre-rotation secret.
	_, err = cache.Fetch(ctx)
	require.NoError(t, err)

	// Rotate: the store now holds the new secret, the cache still the old.
	source.value = "new-secret"
	raw := testutil.MintToken(t, "new-secret", testutil.TokenSpec{
		Subject:  "u1",
		IssuedAt: now.Add(-time.Minute),
		Expiry:   now.Add(time.Hour),
	})

	decision := engine.Authorize(ctx, "Bearer "+raw)
	assert.True(t, decision.Allowed, "engine retries against a fresh secret after invalidating")
	require.Len(t, store.ByAction(audit.EventAccessAllowed), 1)
}
