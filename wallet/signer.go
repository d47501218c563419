package wallet

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/bitfsorg/libbtc-go/tx"
)

// Keyring indexes keys by the hash160 of their compressed public key.
type Keyring struct {
	keys map[string]*Key
}

// NewKeyring returns a keyring holding keys.
func NewKeyring(keys ...*Key) *Keyring {
	r := &Keyring{keys: make(map[string]*Key, len(keys))}
	for _, k := range keys {
		r.Add(k)
	}
	return r
}

// Add inserts k, replacing any key with the same public key hash.
func (r *Keyring) Add(k *Key) {
	r.keys[hex.EncodeToString(k.PubKeyHash())] = k
}

// Len returns the number of keys.
func (r *Keyring) Len() int { return len(r.keys) }

// Lookup returns the key whose public key hashes to h160.
func (r *Keyring) Lookup(h160 []byte) (*Key, bool) {
	k, ok := r.keys[hex.EncodeToString(h160)]
	return k, ok
}

// SignTx signs every input of t. Each previous output must be P2PKH or
// P2WPKH to a key in the ring; the first input that is not, or that does
// not verify once signed, stops signing with an error.
func (r *Keyring) SignTx(ctx context.Context, t *tx.Tx, resolver tx.OutputResolver) error {
	for i, in := range t.Inputs {
		prevOut, err := resolver.ResolveOutput(ctx, in.PrevTxID, in.PrevIndex)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		if prevOut == nil || prevOut.ScriptPubKey == nil {
			return fmt.Errorf("%w: input %d: empty output %s", tx.ErrResolve, i, in.OutPoint())
		}
		spk := prevOut.ScriptPubKey

		key, ok := r.Lookup(spk.Hash())
		if !ok || !(spk.IsP2PKH() || spk.IsP2WPKH()) {
			return fmt.Errorf("%w: input %d", ErrKeyNotFound, i)
		}

		var valid bool
		if spk.IsP2WPKH() {
			valid, err = t.SignP2WPKHInput(ctx, resolver, i, key.Private)
		} else {
			valid, err = t.SignInput(ctx, resolver, i, key.Private, true)
		}
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		if !valid {
			return fmt.Errorf("%w: input %d", ErrSignFailed, i)
		}
	}
	return nil
}
