package network

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libbtc-go/block"
	"github.com/bitfsorg/libbtc-go/txstore"
	"github.com/bitfsorg/libbtc-go/wire"
)

// confirmedFixture is a mined header committing to two transactions.
type confirmedFixture struct {
	header *block.Header
	leaves [][32]byte
	proof  *block.MerkleProof
}

func newConfirmedFixture(t *testing.T) *confirmedFixture {
	t.Helper()
	leaves := [][32]byte{
		[32]byte(wire.Reverse(mustHex(t, coinbaseTxID))),
		[32]byte(wire.Reverse(mustHex(t, legacyTxID))),
	}
	root, err := block.MerkleRoot(leaves)
	require.NoError(t, err)
	proof, err := block.BuildMerkleProof(leaves, 1)
	require.NoError(t, err)
	header := mineHeader([32]byte{}, [32]byte(wire.Reverse(root[:])), 1700000000)
	return &confirmedFixture{header: header, leaves: leaves, proof: proof}
}

func (f *confirmedFixture) source(t *testing.T) *MockChainSource {
	return &MockChainSource{
		GetTxStatusFn: func(ctx context.Context, txid string) (*TxStatus, error) {
			return &TxStatus{Confirmed: true, BlockHash: f.header.Hash(), BlockHeight: 7}, nil
		},
		GetBlockHeaderFn: func(ctx context.Context, blockHash string) ([]byte, error) {
			assert.Equal(t, f.header.Hash(), blockHash)
			return f.header.Serialize(), nil
		},
		GetMerkleProofFn: func(ctx context.Context, txid string) (*block.MerkleProof, error) {
			return f.proof, nil
		},
	}
}

// --- VerifyTx ---

func TestSPVClientVerifyTx_Confirmed(t *testing.T) {
	fx := newConfirmedFixture(t)
	headers := txstore.NewMemHeaderStore()
	client := NewSPVClient(fx.source(t), headers)

	result, err := client.VerifyTx(context.Background(), legacyTxID)
	require.NoError(t, err)
	assert.Equal(t, &VerifyResult{Confirmed: true, BlockHash: fx.header.Hash(), BlockHeight: 7}, result)

	stored, err := headers.GetHeader(fx.header.ID())
	require.NoError(t, err)
	assert.Equal(t, uint32(7), stored.Height)
	assert.Equal(t, *fx.header, stored.Header)
}

func TestSPVClientVerifyTx_UsesStoredHeader(t *testing.T) {
	fx := newConfirmedFixture(t)
	headers := txstore.NewMemHeaderStore()
	require.NoError(t, headers.PutHeader(fx.header, 7))

	src := fx.source(t)
	src.GetBlockHeaderFn = func(ctx context.Context, blockHash string) ([]byte, error) {
		t.Fatal("stored header must not be refetched")
		return nil, nil
	}

	result, err := NewSPVClient(src, headers).VerifyTx(context.Background(), legacyTxID)
	require.NoError(t, err)
	assert.True(t, result.Confirmed)
}

func TestSPVClientVerifyTx_Unconfirmed(t *testing.T) {
	mock := &MockChainSource{
		GetTxStatusFn: func(ctx context.Context, txid string) (*TxStatus, error) {
			return &TxStatus{Confirmed: false}, nil
		},
	}

	result, err := NewSPVClient(mock, txstore.NewMemHeaderStore()).VerifyTx(context.Background(), legacyTxID)
	require.NoError(t, err)
	assert.False(t, result.Confirmed)
}

func TestSPVClientVerifyTx_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		tamper  func(fx *confirmedFixture, src *MockChainSource)
		txid    string
		wantErr error
	}{
		{
			name: "proof for another tx",
			tamper: func(fx *confirmedFixture, src *MockChainSource) {
				fx.proof, _ = block.BuildMerkleProof(fx.leaves, 0)
			},
			wantErr: block.ErrMerkleProofInvalid,
		},
		{
			name: "tampered branch",
			tamper: func(fx *confirmedFixture, src *MockChainSource) {
				fx.proof.Nodes[0][0] ^= 1
			},
			wantErr: block.ErrMerkleProofInvalid,
		},
		{
			name: "header for another block",
			tamper: func(fx *confirmedFixture, src *MockChainSource) {
				other := mineHeader([32]byte{1}, fx.header.MerkleRoot, 1700000000)
				src.GetBlockHeaderFn = func(ctx context.Context, blockHash string) ([]byte, error) {
					return other.Serialize(), nil
				}
			},
			wantErr: ErrHeaderMismatch,
		},
		{
			name: "insufficient work",
			tamper: func(fx *confirmedFixture, src *MockChainSource) {
				fx.header.Bits = block.MaxBits
			},
			wantErr: block.ErrInsufficientPoW,
		},
		{
			name: "short header",
			tamper: func(fx *confirmedFixture, src *MockChainSource) {
				src.GetBlockHeaderFn = func(ctx context.Context, blockHash string) ([]byte, error) {
					return make([]byte, 79), nil
				}
			},
			wantErr: block.ErrInvalidHeader,
		},
		{
			name:    "bad txid",
			tamper:  func(fx *confirmedFixture, src *MockChainSource) {},
			txid:    "xyz",
			wantErr: ErrInvalidTxID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newConfirmedFixture(t)
			src := fx.source(t)
			tt.tamper(fx, src)

			txid := legacyTxID
			if tt.txid != "" {
				txid = tt.txid
			}
			_, err := NewSPVClient(src, txstore.NewMemHeaderStore()).VerifyTx(context.Background(), txid)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSPVClientVerifyTx_RecordsProof(t *testing.T) {
	fx := newConfirmedFixture(t)
	txs := txstore.NewMemStore()
	id := mustID(t, legacyTxID)
	require.NoError(t, txs.PutTx(&txstore.StoredTx{TxID: id, Raw: mustHex(t, legacyTxHex)}))

	client := NewSPVClient(fx.source(t), txstore.NewMemHeaderStore()).RecordProofs(txs)
	_, err := client.VerifyTx(context.Background(), legacyTxID)
	require.NoError(t, err)

	stored, err := txs.GetTx(id)
	require.NoError(t, err)
	require.True(t, stored.Confirmed())
	assert.Equal(t, fx.proof, stored.Proof)
	assert.Equal(t, fx.header.ID(), stored.BlockHash)
	assert.Equal(t, uint32(7), stored.BlockHeight)

	// Transactions that were never cached are left alone.
	_, err = client.VerifyTx(context.Background(), legacyTxID)
	require.NoError(t, err)
	require.NoError(t, txs.DeleteTx(id))
	_, err = client.VerifyTx(context.Background(), legacyTxID)
	require.NoError(t, err)
}

// --- SyncHeaders ---

// chainSource serves a header chain by height.
func chainSource(chain []*block.Header) *MockChainSource {
	return &MockChainSource{
		GetBestBlockHeightFn: func(ctx context.Context) (uint64, error) {
			return uint64(len(chain) - 1), nil
		},
		GetBlockHashFn: func(ctx context.Context, height uint64) (string, error) {
			if height >= uint64(len(chain)) {
				return "", ErrTxNotFound
			}
			return chain[height].Hash(), nil
		},
		GetBlockHeaderFn: func(ctx context.Context, blockHash string) ([]byte, error) {
			for _, h := range chain {
				if h.Hash() == blockHash {
					return h.Serialize(), nil
				}
			}
			return nil, ErrTxNotFound
		},
	}
}

func mineChain(n int) []*block.Header {
	chain := make([]*block.Header, n)
	var prev [32]byte
	for i := range chain {
		chain[i] = mineHeader(prev, [32]byte{byte(i)}, 1700000000+uint32(i)*600)
		prev = chain[i].ID()
	}
	return chain
}

func TestSPVClientSyncHeaders(t *testing.T) {
	chain := mineChain(3)
	headers := txstore.NewMemHeaderStore()

	require.NoError(t, NewSPVClient(chainSource(chain), headers).SyncHeaders(context.Background()))

	count, err := headers.GetHeaderCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	tip, err := headers.GetTip()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), tip.Height)
	assert.Equal(t, chain[2].ID(), tip.Header.ID())
}

func TestSPVClientSyncHeaders_ResumesFromTip(t *testing.T) {
	chain := mineChain(4)
	headers := txstore.NewMemHeaderStore()
	require.NoError(t, headers.PutHeader(chain[0], 0))
	require.NoError(t, headers.PutHeader(chain[1], 1))

	var fetched []uint64
	src := chainSource(chain)
	byHeight := src.GetBlockHashFn
	src.GetBlockHashFn = func(ctx context.Context, height uint64) (string, error) {
		fetched = append(fetched, height)
		return byHeight(ctx, height)
	}

	require.NoError(t, NewSPVClient(src, headers).SyncHeaders(context.Background()))
	assert.Equal(t, []uint64{2, 3}, fetched)

	count, err := headers.GetHeaderCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestSPVClientSyncHeaders_RejectsDisconnectedHeader(t *testing.T) {
	chain := mineChain(2)
	// Re-mine block 1 on top of a different parent.
	chain[1] = mineHeader([32]byte{0xff}, chain[1].MerkleRoot, chain[1].Timestamp)

	headers := txstore.NewMemHeaderStore()
	err := NewSPVClient(chainSource(chain), headers).SyncHeaders(context.Background())
	require.ErrorIs(t, err, block.ErrChainBroken)

	count, err := headers.GetHeaderCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count, "only the genesis header is kept")
}

func TestSPVClientSyncHeaders_RejectsNonZeroGenesisParent(t *testing.T) {
	chain := []*block.Header{mineHeader([32]byte{1}, [32]byte{}, 1700000000)}
	err := NewSPVClient(chainSource(chain), txstore.NewMemHeaderStore()).SyncHeaders(context.Background())
	assert.ErrorIs(t, err, block.ErrChainBroken)
}

func TestSPVClientSyncHeaders_BoltStore(t *testing.T) {
	db, err := txstore.OpenBoltStore(filepath.Join(t.TempDir(), "headers.db"))
	require.NoError(t, err)
	defer db.Close()

	chain := mineChain(3)
	require.NoError(t, NewSPVClient(chainSource(chain), db.Headers()).SyncHeaders(context.Background()))

	h, err := db.Headers().GetHeaderByHeight(1)
	require.NoError(t, err)
	assert.Equal(t, chain[1].ID(), h.Header.ID())
}
