package block

import "errors"

var (
	// ErrInvalidHeader indicates a header that cannot be parsed.
	ErrInvalidHeader = errors.New("block: invalid header")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("block: required parameter is nil")

	// ErrUnknownBIP indicates a softfork without a known signalling rule.
	ErrUnknownBIP = errors.New("block: unknown BIP")

	// ErrInsufficientPoW indicates the header hash does not meet the target difficulty.
	ErrInsufficientPoW = errors.New("block: insufficient proof of work")

	// ErrChainBroken indicates headers do not form a valid chain.
	ErrChainBroken = errors.New("block: header chain broken")

	// ErrMerkleLevel indicates a merkle level that cannot be reduced.
	ErrMerkleLevel = errors.New("block: invalid merkle level")

	// ErrMerkleProofInvalid indicates the computed Merkle root does not match the expected root.
	ErrMerkleProofInvalid = errors.New("block: merkle proof invalid")

	// ErrInvalidMerkleBlock indicates a malformed partial merkle tree.
	ErrInvalidMerkleBlock = errors.New("block: invalid merkle block")
)
