// Package token verifies bearer credentials against a shared symmetric
// secret. Verification is a pure function of the raw token, the secret, and
// the supplied clock; the package holds no state beyond the pinned signing
// method.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "eventgate/pkg/domain-errors"
)

// VerificationError classifies why a token was rejected.
type VerificationError string

const (
	ErrMalformedToken    VerificationError = "malformed_token"
	ErrSignatureInvalid  VerificationError = "signature_invalid"
	ErrExpired           VerificationError = "expired"
	ErrAlgorithmMismatch VerificationError = "algorithm_mismatch"
)

func (e VerificationError) Error() string {
	return string(e)
}

// Claims carries the assertions embedded in an accepted token.
type Claims struct {
	Email string `json:"email,omitempty"`
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Subject returns the token's subject claim.
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Verifier validates token structure, signature, and temporal claims.
//
// The expected signing method is pinned at construction and enforced against
// the token's declared algorithm. The algorithm field of an incoming token is
// never used to select key material, which closes the usual
// symmetric/asymmetric confusion attack.
type Verifier struct {
	method *jwt.SigningMethodHMAC
}

// NewVerifier builds a verifier pinned to the given algorithm. Only HMAC
// methods are allow-listed; anything else fails construction.
func NewVerifier(alg string) (*Verifier, error) {
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		return &Verifier{method: jwt.SigningMethodHS256}, nil
	case jwt.SigningMethodHS384.Alg():
		return &Verifier{method: jwt.SigningMethodHS384}, nil
	case jwt.SigningMethodHS512.Alg():
		return &Verifier{method: jwt.SigningMethodHS512}, nil
	default:
		return nil, fmt.Errorf("signing algorithm %q is not allow-listed", alg)
	}
}

// Verify parses and validates raw against secret at time now. On success the
// parsed claims are returned unchanged; on failure the error chain carries
// one of the VerificationError values plus a coded domain error.
func (v *Verifier) Verify(raw string, secret []byte, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		// The declared algorithm selects nothing; it is only compared
		// against the pinned method. A mismatch (including "none") never
		// reaches signature verification with our secret.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != v.method.Alg() {
			return nil, ErrAlgorithmMismatch
		}
		return secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, dErrors.Wrap(ErrSignatureInvalid, dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

// classify maps jwt/v5 parse errors onto the verification taxonomy. The
// algorithm-mismatch sentinel travels the chain through the keyfunc error and
// is checked before the generic jwt categories.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrAlgorithmMismatch):
		return dErrors.Wrap(ErrAlgorithmMismatch, dErrors.CodeUnauthorized, "token algorithm not accepted")
	case errors.Is(err, jwt.ErrTokenExpired):
		return dErrors.Wrap(ErrExpired, dErrors.CodeUnauthorized, "token has expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return dErrors.Wrap(ErrSignatureInvalid, dErrors.CodeUnauthorized, "token signature invalid")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return dErrors.Wrap(ErrMalformedToken, dErrors.CodeUnauthorized, "token is malformed")
	default:
		// Covers missing/future iat, missing exp, and structurally odd
		// claims. All are token defects, not secret or clock problems.
		return dErrors.Wrap(ErrMalformedToken, dErrors.CodeUnauthorized, "token is malformed")
	}
}
