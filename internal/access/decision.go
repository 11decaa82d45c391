// Package access implements the authorization gate in front of the ingestion
// pipeline. It converts a raw Authorization header into an allow/deny
// decision with a caller identity, consulting the token verifier and the
// external secret source.
package access

import (
	"eventgate/pkg/requestcontext"
)

// Reason codes a denial. The zero value means no denial occurred.
type Reason string

const (
	ReasonMissingCredential Reason = "missing_credential"
	ReasonMalformedToken    Reason = "malformed_token"
	ReasonSignatureInvalid  Reason = "signature_invalid"
	ReasonExpired           Reason = "expired"
	ReasonAlgorithmMismatch Reason = "algorithm_mismatch"
	ReasonSecretUnavailable Reason = "secret_unavailable"
)

// Decision is the outcome of one authorization. Computed fresh per request
// and never persisted; only the audit trail records that it happened.
type Decision struct {
	Allowed  bool
	Reason   Reason
	Identity *requestcontext.CallerIdentity
}

// Allow builds an allow decision carrying the caller identity.
func Allow(identity *requestcontext.CallerIdentity) Decision {
	return Decision{Allowed: true, Identity: identity}
}

// Deny builds a deny decision with the given reason.
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
