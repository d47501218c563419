package tx

import (
	"fmt"
	"math/big"

	"github.com/bitfsorg/libbtc-go/script"
	"github.com/bitfsorg/libbtc-go/wire"
)

// Midstate holds the BIP143 digests shared by every input of a transaction.
// They depend only on outpoints, sequences and outputs, so one Midstate
// serves all inputs and stays valid while scriptSigs and witnesses are
// filled in.
type Midstate struct {
	HashPrevouts [32]byte
	HashSequence [32]byte
	HashOutputs  [32]byte
}

// Midstate computes the BIP143 shared digests.
func (tx *Tx) Midstate() *Midstate {
	var prevouts, sequences, outputs []byte
	for _, in := range tx.Inputs {
		prevouts = in.appendOutPoint(prevouts)
		sequences = wire.AppendUint32(sequences, in.Sequence)
	}
	for _, out := range tx.Outputs {
		outputs = out.appendTo(outputs)
	}
	return &Midstate{
		HashPrevouts: [32]byte(wire.Hash256(prevouts)),
		HashSequence: [32]byte(wire.Hash256(sequences)),
		HashOutputs:  [32]byte(wire.Hash256(outputs)),
	}
}

// SigHash computes the legacy SIGHASH_ALL digest for input i. The input's
// scriptSig is replaced by redeem when given (P2SH), otherwise by the
// spent output's scriptPubKey; every other scriptSig is emptied.
func (tx *Tx) SigHash(i int, prevOut *TxOut, redeem *script.Script) (*big.Int, error) {
	if err := tx.checkIndex(i); err != nil {
		return nil, err
	}
	code := redeem
	if code == nil {
		if prevOut == nil || prevOut.ScriptPubKey == nil {
			return nil, fmt.Errorf("%w: previous output", ErrNilParam)
		}
		code = prevOut.ScriptPubKey
	}

	empty := script.New()
	buf := wire.AppendUint32(nil, tx.Version)
	buf = append(buf, wire.EncodeVarInt(uint64(len(tx.Inputs)))...)
	for j, in := range tx.Inputs {
		if j == i {
			buf = in.appendTo(buf, code)
		} else {
			buf = in.appendTo(buf, empty)
		}
	}
	buf = append(buf, wire.EncodeVarInt(uint64(len(tx.Outputs)))...)
	for _, out := range tx.Outputs {
		buf = out.appendTo(buf)
	}
	buf = wire.AppendUint32(buf, tx.Locktime)
	buf = wire.AppendUint32(buf, SigHashAll)

	z := wire.Hash256(buf)
	log.Tracef("Legacy sighash of input %d: %x", i, z)
	return new(big.Int).SetBytes(z), nil
}

// SigHashBIP143 computes the BIP143 SIGHASH_ALL digest for segwit input i.
// The script code is the witness script when given, otherwise the P2PKH
// script of the key hash in redeem (P2SH-P2WPKH) or in the spent output
// (native P2WPKH). A nil ms is computed on the fly.
func (tx *Tx) SigHashBIP143(i int, ms *Midstate, prevOut *TxOut, redeem, witnessScript *script.Script) (*big.Int, error) {
	if err := tx.checkIndex(i); err != nil {
		return nil, err
	}
	if prevOut == nil {
		return nil, fmt.Errorf("%w: previous output", ErrNilParam)
	}
	if ms == nil {
		ms = tx.Midstate()
	}

	var code []byte
	switch {
	case witnessScript != nil:
		code = witnessScript.Serialize()
	case redeem != nil:
		if !redeem.IsP2WPKH() {
			return nil, fmt.Errorf("%w: redeem script is not P2WPKH", ErrScriptType)
		}
		code = script.P2PKH(redeem.Hash()).Serialize()
	default:
		if prevOut.ScriptPubKey == nil || !prevOut.ScriptPubKey.IsP2WPKH() {
			return nil, fmt.Errorf("%w: previous output is not P2WPKH", ErrScriptType)
		}
		code = script.P2PKH(prevOut.ScriptPubKey.Hash()).Serialize()
	}

	in := tx.Inputs[i]
	buf := wire.AppendUint32(nil, tx.Version)
	buf = append(buf, ms.HashPrevouts[:]...)
	buf = append(buf, ms.HashSequence[:]...)
	buf = in.appendOutPoint(buf)
	buf = append(buf, code...)
	buf = wire.AppendUint64(buf, prevOut.Amount)
	buf = wire.AppendUint32(buf, in.Sequence)
	buf = append(buf, ms.HashOutputs[:]...)
	buf = wire.AppendUint32(buf, tx.Locktime)
	buf = wire.AppendUint32(buf, SigHashAll)

	z := wire.Hash256(buf)
	log.Tracef("BIP143 sighash of input %d: %x", i, z)
	return new(big.Int).SetBytes(z), nil
}
