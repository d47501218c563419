package txstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libbtc-go/block"
)

var (
	bucketTxs           = []byte("txs")
	bucketHeaders       = []byte("headers")
	bucketHeadersHeight = []byte("headers_height")
)

// BoltStore wraps a bbolt database holding transactions and headers.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("txstore: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("txstore: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketTxs, bucketHeaders, bucketHeadersHeight} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("txstore: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Txs returns a Store backed by this database.
func (s *BoltStore) Txs() *BoltTxStore { return &BoltTxStore{db: s.db} }

// Headers returns a HeaderStore backed by this database.
func (s *BoltStore) Headers() *BoltHeaderStore { return &BoltHeaderStore{db: s.db} }

// heightKey encodes a block height as a 4-byte big-endian key for sorted storage.
func heightKey(h uint32) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, h)
	return k
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// --- Transactions ---

// BoltTxStore persists transactions in bbolt.
type BoltTxStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltTxStore)(nil)

// PutTx stores a transaction. Returns ErrDuplicateTx if the id already exists.
func (s *BoltTxStore) PutTx(tx *StoredTx) error {
	return s.put(tx, false)
}

// UpdateTx overwrites an existing transaction entry.
func (s *BoltTxStore) UpdateTx(tx *StoredTx) error {
	return s.put(tx, true)
}

func (s *BoltTxStore) put(tx *StoredTx, update bool) error {
	if err := checkTx(tx); err != nil {
		return err
	}

	return s.db.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketTxs)
		exists := b.Get(tx.TxID[:]) != nil
		switch {
		case update && !exists:
			return ErrTxNotFound
		case !update && exists:
			return ErrDuplicateTx
		}
		data, err := encodeGob(tx)
		if err != nil {
			return fmt.Errorf("txstore: encode tx: %w", err)
		}
		if err := b.Put(tx.TxID[:], data); err != nil {
			return fmt.Errorf("txstore: put tx: %w", err)
		}
		return nil
	})
}

// GetTx retrieves a transaction by id.
func (s *BoltTxStore) GetTx(txID [32]byte) (*StoredTx, error) {
	var tx StoredTx
	err := s.db.View(func(btx *bbolt.Tx) error {
		data := btx.Bucket(bucketTxs).Get(txID[:])
		if data == nil {
			return ErrTxNotFound
		}
		if err := decodeGob(data, &tx); err != nil {
			return fmt.Errorf("txstore: decode tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// DeleteTx removes a transaction.
func (s *BoltTxStore) DeleteTx(txID [32]byte) error {
	return s.db.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketTxs)
		if b.Get(txID[:]) == nil {
			return ErrTxNotFound
		}
		if err := b.Delete(txID[:]); err != nil {
			return fmt.Errorf("txstore: delete tx: %w", err)
		}
		return nil
	})
}

// ListTxs returns all stored transactions in id order.
func (s *BoltTxStore) ListTxs() ([]*StoredTx, error) {
	var txs []*StoredTx
	err := s.db.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(bucketTxs).ForEach(func(_, v []byte) error {
			var tx StoredTx
			if err := decodeGob(v, &tx); err != nil {
				return fmt.Errorf("decode tx in list: %w", err)
			}
			txs = append(txs, &tx)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("txstore: list txs: %w", err)
	}
	return txs, nil
}

// --- Headers ---

// BoltHeaderStore persists block headers in bbolt. Headers are stored in
// their 80-byte wire form keyed by display-order hash, with a height index
// pointing at the hash.
type BoltHeaderStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ HeaderStore = (*BoltHeaderStore)(nil)

// PutHeader stores a header keyed by block hash and height.
func (s *BoltHeaderStore) PutHeader(h *block.Header, height uint32) error {
	if h == nil {
		return fmt.Errorf("%w: header", ErrNilParam)
	}
	id := h.ID()

	return s.db.Update(func(tx *bbolt.Tx) error {
		hb := tx.Bucket(bucketHeaders)
		if hb.Get(id[:]) != nil {
			return ErrDuplicateHeader
		}
		value := append(heightKey(height), h.Serialize()...)
		if err := hb.Put(id[:], value); err != nil {
			return fmt.Errorf("txstore: put header by hash: %w", err)
		}
		if err := tx.Bucket(bucketHeadersHeight).Put(heightKey(height), id[:]); err != nil {
			return fmt.Errorf("txstore: put header by height: %w", err)
		}
		return nil
	})
}

func decodeHeader(value []byte) (*StoredHeader, error) {
	if len(value) != 4+block.HeaderSize {
		return nil, fmt.Errorf("txstore: stored header has %d bytes", len(value))
	}
	h, err := block.ParseHeaderBytes(value[4:])
	if err != nil {
		return nil, fmt.Errorf("txstore: decode header: %w", err)
	}
	return &StoredHeader{Header: *h, Height: binary.BigEndian.Uint32(value[:4])}, nil
}

// GetHeader retrieves a header by block hash.
func (s *BoltHeaderStore) GetHeader(blockHash [32]byte) (*StoredHeader, error) {
	var stored *StoredHeader
	err := s.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(bucketHeaders).Get(blockHash[:])
		if value == nil {
			return ErrHeaderNotFound
		}
		var err error
		stored, err = decodeHeader(value)
		return err
	})
	return stored, err
}

// GetHeaderByHeight retrieves a header by height.
func (s *BoltHeaderStore) GetHeaderByHeight(height uint32) (*StoredHeader, error) {
	var stored *StoredHeader
	err := s.db.View(func(tx *bbolt.Tx) error {
		hash := tx.Bucket(bucketHeadersHeight).Get(heightKey(height))
		if hash == nil {
			return ErrHeaderNotFound
		}
		value := tx.Bucket(bucketHeaders).Get(hash)
		if value == nil {
			return ErrHeaderNotFound
		}
		var err error
		stored, err = decodeHeader(value)
		return err
	})
	return stored, err
}

// GetTip returns the header with the greatest height.
func (s *BoltHeaderStore) GetTip() (*StoredHeader, error) {
	var stored *StoredHeader
	err := s.db.View(func(tx *bbolt.Tx) error {
		k, hash := tx.Bucket(bucketHeadersHeight).Cursor().Last()
		if k == nil {
			return ErrHeaderNotFound
		}
		value := tx.Bucket(bucketHeaders).Get(hash)
		if value == nil {
			return ErrHeaderNotFound
		}
		var err error
		stored, err = decodeHeader(value)
		return err
	})
	return stored, err
}

// GetHeaderCount returns the total number of stored headers.
func (s *BoltHeaderStore) GetHeaderCount() (uint64, error) {
	var count uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = uint64(tx.Bucket(bucketHeaders).Stats().KeyN)
		return nil
	})
	return count, err
}
