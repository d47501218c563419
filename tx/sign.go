package tx

import (
	"context"
	"fmt"

	"github.com/bitfsorg/libbtc-go/ecc"
	"github.com/bitfsorg/libbtc-go/script"
)

// SignInput signs input i as a P2PKH spend: it computes the legacy
// sighash, signs it deterministically and sets the scriptSig to
// <DER signature || SIGHASH_ALL> <SEC public key>. It returns whether the
// signed input verifies.
func (tx *Tx) SignInput(ctx context.Context, resolver OutputResolver, i int, key *ecc.PrivateKey, compressed bool) (bool, error) {
	if key == nil {
		return false, fmt.Errorf("%w: private key", ErrNilParam)
	}
	v := NewVerifier(tx, resolver)
	if err := tx.checkIndex(i); err != nil {
		return false, err
	}
	prevOut, err := v.prevOut(ctx, i)
	if err != nil {
		return false, err
	}

	z, err := tx.SigHash(i, prevOut, nil)
	if err != nil {
		return false, err
	}
	sig := append(key.Sign(z).DER(), SigHashAll)
	sec := key.PublicKey().SEC(compressed)
	tx.Inputs[i].ScriptSig = script.New(script.Push(sig), script.Push(sec))

	return v.VerifyInput(ctx, i)
}

// SignP2WPKHInput signs native segwit input i: the BIP143 sighash is
// signed, the scriptSig emptied and the witness set to
// [<DER signature || SIGHASH_ALL>, <compressed SEC public key>]. The
// transaction switches to the segwit serialization.
func (tx *Tx) SignP2WPKHInput(ctx context.Context, resolver OutputResolver, i int, key *ecc.PrivateKey) (bool, error) {
	if key == nil {
		return false, fmt.Errorf("%w: private key", ErrNilParam)
	}
	v := NewVerifier(tx, resolver)
	if err := tx.checkIndex(i); err != nil {
		return false, err
	}
	prevOut, err := v.prevOut(ctx, i)
	if err != nil {
		return false, err
	}

	z, err := tx.SigHashBIP143(i, v.Midstate(), prevOut, nil, nil)
	if err != nil {
		return false, err
	}
	sig := append(key.Sign(z).DER(), SigHashAll)
	in := tx.Inputs[i]
	in.ScriptSig = script.New()
	in.Witness = [][]byte{sig, key.PublicKey().SEC(true)}
	tx.Segwit = true

	return v.VerifyInput(ctx, i)
}
