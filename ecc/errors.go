package ecc

import "errors"

var (
	// ErrFieldRange indicates a field element value outside [0, prime).
	ErrFieldRange = errors.New("ecc: value not in field range")

	// ErrNotOnCurve indicates coordinates that do not satisfy y^2 = x^3 + ax + b.
	ErrNotOnCurve = errors.New("ecc: point is not on the curve")

	// ErrInvalidDER indicates a malformed DER-encoded signature.
	ErrInvalidDER = errors.New("ecc: invalid DER signature")

	// ErrInvalidSEC indicates a malformed SEC-encoded public key.
	ErrInvalidSEC = errors.New("ecc: invalid SEC public key")

	// ErrInvalidSecret indicates a private key scalar outside [1, N).
	ErrInvalidSecret = errors.New("ecc: secret out of range")

	// ErrInvalidNonce indicates a signing nonce outside [1, N) or one that
	// produces a degenerate signature.
	ErrInvalidNonce = errors.New("ecc: invalid signing nonce")
)
