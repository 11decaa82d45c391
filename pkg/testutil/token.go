package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TokenSpec describes a bearer token to mint for a test.
type TokenSpec struct {
	Subject  string
	Email    string
	Scope    string
	IssuedAt time.Time
	Expiry   time.Time
	// Method defaults to HS256 when nil; set it to exercise the
	// algorithm-mismatch path.
	Method jwt.SigningMethod
}

// MintToken signs a token with the given secret. The service under test
// only verifies tokens; generation lives here so production code carries no
// signing path.
func MintToken(t *testing.T, secret string, spec TokenSpec) string {
	t.Helper()

	method := spec.Method
	if method == nil {
		method = jwt.SigningMethodHS256
	}

	claims := jwt.MapClaims{
		"sub": spec.Subject,
		"iat": spec.IssuedAt.Unix(),
		"exp": spec.Expiry.Unix(),
	}
	if spec.Email != "" {
		claims["email"] = spec.Email
	}
	if spec.Scope != "" {
		claims["scope"] = spec.Scope
	}

	var key any = []byte(secret)
	if method == jwt.SigningMethodNone {
		key = jwt.UnsafeAllowNoneSignatureType
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err, "failed to sign test token")
	return signed
}
