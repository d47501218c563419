package txstore

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("txstore: required parameter is nil")

	// ErrTxNotFound indicates the transaction was not found in the local store.
	ErrTxNotFound = errors.New("txstore: transaction not found")

	// ErrDuplicateTx indicates a transaction with this TxID already exists.
	ErrDuplicateTx = errors.New("txstore: duplicate transaction")

	// ErrEmptyTx indicates a stored transaction without raw bytes.
	ErrEmptyTx = errors.New("txstore: empty raw transaction")

	// ErrHeaderNotFound indicates the block header was not found in the local store.
	ErrHeaderNotFound = errors.New("txstore: header not found")

	// ErrDuplicateHeader indicates a header with this hash already exists.
	ErrDuplicateHeader = errors.New("txstore: duplicate header")
)
