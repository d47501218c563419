package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrMalformedTx indicates a transaction byte stream that cannot be parsed.
	ErrMalformedTx = errors.New("tx: malformed transaction")

	// ErrInvalidSegwitMarker indicates a 0x00 marker not followed by the 0x01 flag.
	ErrInvalidSegwitMarker = errors.New("tx: invalid segwit marker")

	// ErrInputIndex indicates an input index outside the transaction.
	ErrInputIndex = errors.New("tx: input index out of range")

	// ErrResolve indicates a previous output could not be looked up.
	ErrResolve = errors.New("tx: cannot resolve previous output")

	// ErrAmountOverflow indicates amounts whose sum or difference does not
	// fit the fee arithmetic.
	ErrAmountOverflow = errors.New("tx: amount overflow")

	// ErrScriptType indicates a script of the wrong template for the operation.
	ErrScriptType = errors.New("tx: unexpected script type")
)
