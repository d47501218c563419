package tx

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
)

// OutPoint identifies a transaction output. TxID is in display order.
type OutPoint struct {
	TxID  [32]byte
	Index uint32
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", hex.EncodeToString(o.TxID[:]), o.Index)
}

// OutputResolver looks up the output a transaction input spends. Errors
// wrap ErrResolve.
type OutputResolver interface {
	ResolveOutput(ctx context.Context, txID [32]byte, index uint32) (*TxOut, error)
}

// UTXOSet is an in-memory OutputResolver over outputs the caller already
// holds. It is safe for concurrent use.
type UTXOSet struct {
	mu   sync.RWMutex
	outs map[OutPoint]*TxOut
}

// Compile-time interface check.
var _ OutputResolver = (*UTXOSet)(nil)

// NewUTXOSet returns an empty set.
func NewUTXOSet() *UTXOSet {
	return &UTXOSet{outs: make(map[OutPoint]*TxOut)}
}

// Add records out as output index of txID.
func (s *UTXOSet) Add(txID [32]byte, index uint32, out *TxOut) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outs[OutPoint{TxID: txID, Index: index}] = out
}

// AddTx records every output of tx.
func (s *UTXOSet) AddTx(tx *Tx) {
	id := tx.TxID()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, out := range tx.Outputs {
		s.outs[OutPoint{TxID: id, Index: uint32(i)}] = out
	}
}

// Len returns the number of outputs held.
func (s *UTXOSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outs)
}

// ResolveOutput implements OutputResolver.
func (s *UTXOSet) ResolveOutput(ctx context.Context, txID [32]byte, index uint32) (*TxOut, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}
	op := OutPoint{TxID: txID, Index: index}

	s.mu.RLock()
	out, ok := s.outs[op]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s not found", ErrResolve, op)
	}
	return out, nil
}
