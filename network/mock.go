package network

import (
	"context"

	"github.com/bitfsorg/libbtc-go/block"
)

// Compile-time interface check.
var _ ChainSource = (*MockChainSource)(nil)

// MockChainSource is a test double for ChainSource.
// All function fields must be set before the corresponding method is called.
type MockChainSource struct {
	GetRawTxFn           func(ctx context.Context, txid string) ([]byte, error)
	GetTxStatusFn        func(ctx context.Context, txid string) (*TxStatus, error)
	GetBlockHeaderFn     func(ctx context.Context, blockHash string) ([]byte, error)
	GetBlockHashFn       func(ctx context.Context, height uint64) (string, error)
	GetMerkleProofFn     func(ctx context.Context, txid string) (*block.MerkleProof, error)
	GetBestBlockHeightFn func(ctx context.Context) (uint64, error)
}

func (m *MockChainSource) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	return m.GetRawTxFn(ctx, txid)
}
func (m *MockChainSource) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	return m.GetTxStatusFn(ctx, txid)
}
func (m *MockChainSource) GetBlockHeader(ctx context.Context, blockHash string) ([]byte, error) {
	return m.GetBlockHeaderFn(ctx, blockHash)
}
func (m *MockChainSource) GetBlockHash(ctx context.Context, height uint64) (string, error) {
	return m.GetBlockHashFn(ctx, height)
}
func (m *MockChainSource) GetMerkleProof(ctx context.Context, txid string) (*block.MerkleProof, error) {
	return m.GetMerkleProofFn(ctx, txid)
}
func (m *MockChainSource) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	return m.GetBestBlockHeightFn(ctx)
}
