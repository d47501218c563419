// Package network fetches raw transactions, block headers and merkle
// proofs from a block explorer or a node's JSON-RPC interface, and caches
// what it fetches in a txstore.
package network

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/bitfsorg/libbtc-go/block"
	"github.com/bitfsorg/libbtc-go/wire"
)

// Source returns the raw serialization of a transaction by its display
// hex id.
type Source interface {
	GetRawTx(ctx context.Context, txid string) ([]byte, error)
}

// ChainSource is a Source that also answers the block queries SPV
// verification needs.
type ChainSource interface {
	Source

	// GetTxStatus returns the confirmation status of a transaction.
	GetTxStatus(ctx context.Context, txid string) (*TxStatus, error)

	// GetBlockHeader returns the raw 80-byte header for a display hex block hash.
	GetBlockHeader(ctx context.Context, blockHash string) ([]byte, error)

	// GetBlockHash returns the display hex hash of the block at height.
	GetBlockHash(ctx context.Context, height uint64) (string, error)

	// GetMerkleProof returns the inclusion proof for a confirmed transaction.
	GetMerkleProof(ctx context.Context, txid string) (*block.MerkleProof, error)

	// GetBestBlockHeight returns the height of the current chain tip.
	GetBestBlockHeight(ctx context.Context) (uint64, error)
}

// TxStatus is the confirmation status of a transaction.
type TxStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHash   string `json:"block_hash"`
	BlockHeight uint64 `json:"block_height"`
}

// ParseTxID decodes a display hex txid into its 32 bytes.
func ParseTxID(txid string) ([32]byte, error) {
	var id [32]byte
	if len(txid) != 64 {
		return id, fmt.Errorf("%w: %q", ErrInvalidTxID, txid)
	}
	if _, err := hex.Decode(id[:], []byte(txid)); err != nil {
		return id, fmt.Errorf("%w: %w", ErrInvalidTxID, err)
	}
	return id, nil
}

// FormatTxID is the inverse of ParseTxID.
func FormatTxID(id [32]byte) string {
	return hex.EncodeToString(id[:])
}

// decodeHash reverses a display hex hash into wire order.
func decodeHash(s string) ([32]byte, error) {
	id, err := ParseTxID(s)
	if err != nil {
		return id, err
	}
	return [32]byte(wire.Reverse(id[:])), nil
}
