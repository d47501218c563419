// Package txstore caches raw transactions and block headers fetched from
// the network, in memory or in a bbolt database.
package txstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitfsorg/libbtc-go/block"
)

// StoredTx is a raw transaction as fetched, with its inclusion proof once
// one has been checked.
type StoredTx struct {
	// TxID is the transaction id in display order.
	TxID      [32]byte
	Raw       []byte
	Testnet   bool
	FetchedAt time.Time

	// Proof links the transaction to BlockHash; nil while unconfirmed.
	Proof       *block.MerkleProof
	BlockHash   [32]byte
	BlockHeight uint32
}

// Confirmed reports whether an inclusion proof has been recorded.
func (s *StoredTx) Confirmed() bool { return s.Proof != nil }

// StoredHeader is a block header with the height it was fetched at.
type StoredHeader struct {
	Header block.Header
	Height uint32
}

// Store persists raw transactions keyed by id.
type Store interface {
	// PutTx stores a transaction. Returns ErrDuplicateTx if the id exists.
	PutTx(tx *StoredTx) error

	// UpdateTx overwrites an existing entry, e.g. to backfill a proof.
	UpdateTx(tx *StoredTx) error

	// GetTx retrieves a transaction by id.
	GetTx(txID [32]byte) (*StoredTx, error)

	// DeleteTx removes a transaction from the store.
	DeleteTx(txID [32]byte) error

	// ListTxs returns all stored transactions.
	ListTxs() ([]*StoredTx, error)
}

// HeaderStore persists block headers by hash and height.
type HeaderStore interface {
	// PutHeader stores a header at height.
	PutHeader(h *block.Header, height uint32) error

	// GetHeader retrieves a header by display-order block hash.
	GetHeader(blockHash [32]byte) (*StoredHeader, error)

	// GetHeaderByHeight retrieves a header by height.
	GetHeaderByHeight(height uint32) (*StoredHeader, error)

	// GetTip returns the header with the greatest height.
	GetTip() (*StoredHeader, error)

	// GetHeaderCount returns the total number of stored headers.
	GetHeaderCount() (uint64, error)
}

func checkTx(tx *StoredTx) error {
	if tx == nil {
		return fmt.Errorf("%w: stored transaction", ErrNilParam)
	}
	if len(tx.Raw) == 0 {
		return fmt.Errorf("%w: %x", ErrEmptyTx, tx.TxID)
	}
	return nil
}

// MemStore is an in-memory Store.
type MemStore struct {
	mu  sync.RWMutex
	txs map[[32]byte]*StoredTx
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory transaction store.
func NewMemStore() *MemStore {
	return &MemStore{txs: make(map[[32]byte]*StoredTx)}
}

// PutTx stores a transaction.
func (s *MemStore) PutTx(tx *StoredTx) error {
	if err := checkTx(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txs[tx.TxID]; exists {
		return ErrDuplicateTx
	}
	s.txs[tx.TxID] = tx
	return nil
}

// UpdateTx overwrites an existing transaction entry.
func (s *MemStore) UpdateTx(tx *StoredTx) error {
	if err := checkTx(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txs[tx.TxID]; !exists {
		return ErrTxNotFound
	}
	s.txs[tx.TxID] = tx
	return nil
}

// GetTx retrieves a transaction by id.
func (s *MemStore) GetTx(txID [32]byte) (*StoredTx, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[txID]
	if !ok {
		return nil, ErrTxNotFound
	}
	return tx, nil
}

// DeleteTx removes a transaction from the store.
func (s *MemStore) DeleteTx(txID [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txs[txID]; !ok {
		return ErrTxNotFound
	}
	delete(s.txs, txID)
	return nil
}

// ListTxs returns all stored transactions.
func (s *MemStore) ListTxs() ([]*StoredTx, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*StoredTx, 0, len(s.txs))
	for _, tx := range s.txs {
		result = append(result, tx)
	}
	return result, nil
}

// MemHeaderStore is an in-memory HeaderStore.
type MemHeaderStore struct {
	mu        sync.RWMutex
	byHash    map[[32]byte]*StoredHeader
	byHeight  map[uint32]*StoredHeader
	tipHeight uint32
	hasTip    bool
}

// Compile-time interface check.
var _ HeaderStore = (*MemHeaderStore)(nil)

// NewMemHeaderStore creates an empty in-memory header store.
func NewMemHeaderStore() *MemHeaderStore {
	return &MemHeaderStore{
		byHash:   make(map[[32]byte]*StoredHeader),
		byHeight: make(map[uint32]*StoredHeader),
	}
}

// PutHeader stores a header at height.
func (s *MemHeaderStore) PutHeader(h *block.Header, height uint32) error {
	if h == nil {
		return fmt.Errorf("%w: header", ErrNilParam)
	}
	id := h.ID()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byHash[id]; exists {
		return ErrDuplicateHeader
	}
	stored := &StoredHeader{Header: *h, Height: height}
	s.byHash[id] = stored
	s.byHeight[height] = stored

	if !s.hasTip || height > s.tipHeight {
		s.tipHeight = height
		s.hasTip = true
	}
	return nil
}

// GetHeader retrieves a header by block hash.
func (s *MemHeaderStore) GetHeader(blockHash [32]byte) (*StoredHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.byHash[blockHash]
	if !ok {
		return nil, ErrHeaderNotFound
	}
	return h, nil
}

// GetHeaderByHeight retrieves a header by height.
func (s *MemHeaderStore) GetHeaderByHeight(height uint32) (*StoredHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.byHeight[height]
	if !ok {
		return nil, ErrHeaderNotFound
	}
	return h, nil
}

// GetTip returns the header with the greatest height.
func (s *MemHeaderStore) GetTip() (*StoredHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasTip {
		return nil, ErrHeaderNotFound
	}
	return s.byHeight[s.tipHeight], nil
}

// GetHeaderCount returns the total number of stored headers.
func (s *MemHeaderStore) GetHeaderCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.byHash)), nil
}
