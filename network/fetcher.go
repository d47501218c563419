package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/bitfsorg/libbtc-go/config"
	"github.com/bitfsorg/libbtc-go/tx"
	"github.com/bitfsorg/libbtc-go/txstore"
)

// TxCacheFile is the bbolt file NewFetcherFromConfig opens under DataDir.
const TxCacheFile = "txcache.db"

// Fetcher fetches transactions from a Source, checks they hash to the id
// asked for and caches them in a txstore.Store. It resolves the outputs
// spent by a transaction being verified.
type Fetcher struct {
	source  Source
	store   txstore.Store
	testnet bool
	closer  io.Closer
}

// Compile-time interface check.
var _ tx.OutputResolver = (*Fetcher)(nil)

// NewFetcher returns a Fetcher over source. A nil store caches in memory.
func NewFetcher(source Source, store txstore.Store, testnet bool) *Fetcher {
	if store == nil {
		store = txstore.NewMemStore()
	}
	return &Fetcher{source: source, store: store, testnet: testnet}
}

// NewFetcherFromConfig resolves the source for cfg.Network from cfg, then
// env, then NetworkPresets, and caches in DataDir/txcache.db. The caller
// must Close the returned Fetcher.
func NewFetcherFromConfig(cfg config.Config, env map[string]string) (*Fetcher, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	flags := &SourceConfig{
		ExplorerURL: cfg.ExplorerURL,
		RPCURL:      cfg.RPCURL,
		RPCUser:     cfg.RPCUser,
		RPCPassword: cfg.RPCPassword,
	}
	srcCfg, err := ResolveConfig(flags, env, cfg.Network)
	if err != nil {
		return nil, err
	}
	source, err := NewSource(srcCfg)
	if err != nil {
		return nil, err
	}

	db, err := txstore.OpenBoltStore(filepath.Join(cfg.DataDir, TxCacheFile))
	if err != nil {
		return nil, err
	}
	f := NewFetcher(source, db.Txs(), srcCfg.Testnet())
	f.closer = db
	return f, nil
}

// Close releases the cache opened by NewFetcherFromConfig.
func (f *Fetcher) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// Store returns the cache backing the fetcher.
func (f *Fetcher) Store() txstore.Store { return f.store }

// FetchTx returns the transaction with display hex id txid.
func (f *Fetcher) FetchTx(ctx context.Context, txid string) (*tx.Tx, error) {
	id, err := ParseTxID(txid)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, id)
}

// Fetch returns the transaction with id, from the cache when present.
func (f *Fetcher) Fetch(ctx context.Context, id [32]byte) (*tx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored, err := f.store.GetTx(id)
	switch {
	case err == nil:
		t, err := tx.ParseBytes(stored.Raw, stored.Testnet)
		if err != nil {
			return nil, fmt.Errorf("network: cached %x: %w", id, err)
		}
		return t, nil
	case !errors.Is(err, txstore.ErrTxNotFound):
		return nil, err
	}

	txid := FormatTxID(id)
	raw, err := f.source.GetRawTx(ctx, txid)
	if err != nil {
		return nil, err
	}
	t, err := tx.ParseBytes(raw, f.testnet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidResponse, txid, err)
	}
	if got := t.TxID(); got != id {
		return nil, fmt.Errorf("%w: asked for %s, got %x", ErrTxIDMismatch, txid, got)
	}
	log.Debugf("Fetched tx %s (%d bytes)", txid, len(raw))

	err = f.store.PutTx(&txstore.StoredTx{TxID: id, Raw: raw, Testnet: f.testnet, FetchedAt: time.Now()})
	if err != nil && !errors.Is(err, txstore.ErrDuplicateTx) {
		return nil, err
	}
	return t, nil
}

// ResolveOutput returns output index of transaction txID.
func (f *Fetcher) ResolveOutput(ctx context.Context, txID [32]byte, index uint32) (*tx.TxOut, error) {
	t, err := f.Fetch(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tx.ErrResolve, err)
	}
	if int(index) >= len(t.Outputs) {
		return nil, fmt.Errorf("%w: %x has %d outputs, want index %d", tx.ErrResolve, txID, len(t.Outputs), index)
	}
	return t.Outputs[index], nil
}
