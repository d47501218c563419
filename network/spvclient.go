package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfsorg/libbtc-go/block"
	"github.com/bitfsorg/libbtc-go/txstore"
)

// VerifyResult is the outcome of an SPV check.
type VerifyResult struct {
	Confirmed   bool
	BlockHash   string
	BlockHeight uint64
}

// SPVClient checks that transactions are committed to by block headers it
// has fetched and proof-of-work checked.
type SPVClient struct {
	chain   ChainSource
	headers txstore.HeaderStore
	txs     txstore.Store
}

// NewSPVClient returns a client that stores headers it fetches in headers.
func NewSPVClient(chain ChainSource, headers txstore.HeaderStore) *SPVClient {
	return &SPVClient{chain: chain, headers: headers}
}

// RecordProofs makes VerifyTx attach checked proofs to transactions
// already cached in txs.
func (s *SPVClient) RecordProofs(txs txstore.Store) *SPVClient {
	s.txs = txs
	return s
}

// VerifyTx checks the merkle proof of txid against the header of the block
// that confirms it. An unconfirmed transaction is not an error.
func (s *SPVClient) VerifyTx(ctx context.Context, txid string) (*VerifyResult, error) {
	id, err := ParseTxID(txid)
	if err != nil {
		return nil, err
	}

	status, err := s.chain.GetTxStatus(ctx, txid)
	if err != nil {
		return nil, fmt.Errorf("network: get tx status: %w", err)
	}
	if !status.Confirmed {
		return &VerifyResult{Confirmed: false}, nil
	}

	header, err := s.header(ctx, status.BlockHash, status.BlockHeight)
	if err != nil {
		return nil, err
	}

	proof, err := s.chain.GetMerkleProof(ctx, txid)
	if err != nil {
		return nil, fmt.Errorf("network: fetch merkle proof: %w", err)
	}
	if err := header.VerifyTx(id, proof); err != nil {
		return nil, fmt.Errorf("network: tx %s in block %s: %w", txid, status.BlockHash, err)
	}
	log.Debugf("Tx %s confirmed in block %s at height %d", txid, status.BlockHash, status.BlockHeight)

	if s.txs != nil {
		if err := s.recordProof(id, header, status.BlockHeight, proof); err != nil {
			return nil, err
		}
	}

	return &VerifyResult{
		Confirmed:   true,
		BlockHash:   status.BlockHash,
		BlockHeight: status.BlockHeight,
	}, nil
}

func (s *SPVClient) recordProof(id [32]byte, header *block.Header, height uint64, proof *block.MerkleProof) error {
	stored, err := s.txs.GetTx(id)
	if errors.Is(err, txstore.ErrTxNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	stored.Proof = proof
	stored.BlockHash = header.ID()
	stored.BlockHeight = uint32(height)
	return s.txs.UpdateTx(stored)
}

// header returns the header for a display hex block hash, from the store
// or else fetched, checked and stored at height.
func (s *SPVClient) header(ctx context.Context, blockHash string, height uint64) (*block.Header, error) {
	id, err := ParseTxID(blockHash)
	if err != nil {
		return nil, fmt.Errorf("%w: block hash: %w", ErrInvalidResponse, err)
	}

	stored, err := s.headers.GetHeader(id)
	if err == nil {
		return &stored.Header, nil
	}
	if !errors.Is(err, txstore.ErrHeaderNotFound) {
		return nil, err
	}

	h, err := s.fetchHeader(ctx, blockHash, id)
	if err != nil {
		return nil, err
	}
	if err := s.headers.PutHeader(h, uint32(height)); err != nil && !errors.Is(err, txstore.ErrDuplicateHeader) {
		return nil, fmt.Errorf("network: store header: %w", err)
	}
	return h, nil
}

func (s *SPVClient) fetchHeader(ctx context.Context, blockHash string, id [32]byte) (*block.Header, error) {
	raw, err := s.chain.GetBlockHeader(ctx, blockHash)
	if err != nil {
		return nil, fmt.Errorf("network: fetch block header: %w", err)
	}
	h, err := block.ParseHeaderBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if h.ID() != id {
		return nil, fmt.Errorf("%w: asked for %s, got %s", ErrHeaderMismatch, blockHash, h.Hash())
	}
	if !h.CheckPoW() {
		return nil, fmt.Errorf("%w: block %s", block.ErrInsufficientPoW, blockHash)
	}
	return h, nil
}

// SyncHeaders fetches every header from the stored tip (or genesis) up to
// the source's best height, checking each links to its predecessor.
func (s *SPVClient) SyncHeaders(ctx context.Context) error {
	best, err := s.chain.GetBestBlockHeight(ctx)
	if err != nil {
		return fmt.Errorf("network: get best block height: %w", err)
	}

	var start uint64
	tip, err := s.headers.GetTip()
	switch {
	case err == nil:
		start = uint64(tip.Height) + 1
	case !errors.Is(err, txstore.ErrHeaderNotFound):
		return err
	}

	for height := start; height <= best; height++ {
		hash, err := s.chain.GetBlockHash(ctx, height)
		if err != nil {
			return fmt.Errorf("network: get block hash at %d: %w", height, err)
		}
		id, err := ParseTxID(hash)
		if err != nil {
			return fmt.Errorf("%w: block hash at %d: %w", ErrInvalidResponse, height, err)
		}
		h, err := s.fetchHeader(ctx, hash, id)
		if err != nil {
			return fmt.Errorf("network: header at %d: %w", height, err)
		}

		var prev [32]byte
		if height > 0 {
			p, err := s.headers.GetHeaderByHeight(uint32(height - 1))
			if err != nil {
				return fmt.Errorf("network: previous header at %d: %w", height-1, err)
			}
			prev = p.Header.ID()
		}
		if h.PrevBlock != prev {
			return fmt.Errorf("%w: at height %d", block.ErrChainBroken, height)
		}

		if err := s.headers.PutHeader(h, uint32(height)); err != nil {
			return fmt.Errorf("network: store header at %d: %w", height, err)
		}
	}
	log.Debugf("Synced headers %d..%d", start, best)
	return nil
}
