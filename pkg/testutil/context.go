package testutil

import (
	"net/http"

	"eventgate/pkg/requestcontext"
)

// WithIdentity adds an authenticated caller identity to the request context.
// This simulates what the access middleware does after an allow decision.
func WithIdentity(req *http.Request, subject, email string) *http.Request {
	ctx := requestcontext.WithIdentity(req.Context(), &requestcontext.CallerIdentity{
		Subject: subject,
		Email:   email,
	})
	return req.WithContext(ctx)
}
