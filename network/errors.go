package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the source.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrAuthFailed indicates the source rejected the RPC credentials.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrTxNotFound indicates the requested transaction does not exist.
	ErrTxNotFound = errors.New("network: transaction not found")

	// ErrInvalidResponse indicates the source returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrInvalidTxID indicates a txid that is not 64 hex characters.
	ErrInvalidTxID = errors.New("network: invalid txid")

	// ErrTxIDMismatch indicates the fetched bytes hash to a different txid.
	ErrTxIDMismatch = errors.New("network: fetched transaction has a different id")

	// ErrHeaderMismatch indicates the fetched header hashes to a different block.
	ErrHeaderMismatch = errors.New("network: fetched header has a different hash")

	// ErrNoSource indicates neither an explorer nor an RPC endpoint is configured.
	ErrNoSource = errors.New("network: no transaction source configured")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("network: required parameter is nil")
)
