package tx

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/bitfsorg/libbtc-go/script"
	"github.com/bitfsorg/libbtc-go/wire"
)

// TxIn spends a previous output.
type TxIn struct {
	// PrevTxID is the id of the transaction holding the spent output, in
	// display (big-endian) order. The wire format carries it reversed.
	PrevTxID  [32]byte
	PrevIndex uint32
	ScriptSig *script.Script
	Sequence  uint32
	// Witness holds the segwit stack items, nil for legacy inputs.
	Witness [][]byte
}

// NewTxIn returns an input spending output index of prevTxID with an
// empty scriptSig and a final sequence number.
func NewTxIn(prevTxID [32]byte, index uint32) *TxIn {
	return &TxIn{
		PrevTxID:  prevTxID,
		PrevIndex: index,
		ScriptSig: script.New(),
		Sequence:  0xffffffff,
	}
}

// OutPoint returns the output the input spends.
func (in *TxIn) OutPoint() OutPoint {
	return OutPoint{TxID: in.PrevTxID, Index: in.PrevIndex}
}

func (in *TxIn) String() string {
	return fmt.Sprintf("%s:%d", hex.EncodeToString(in.PrevTxID[:]), in.PrevIndex)
}

func (in *TxIn) scriptSig() *script.Script {
	if in.ScriptSig == nil {
		return script.New()
	}
	return in.ScriptSig
}

func parseTxIn(r io.Reader) (*TxIn, error) {
	prev, err := wire.ReadBytes(r, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: input outpoint: %w", ErrMalformedTx, err)
	}
	in := &TxIn{PrevTxID: [32]byte(wire.Reverse(prev))}

	if in.PrevIndex, err = wire.ReadUint32(r); err != nil {
		return nil, fmt.Errorf("%w: input index: %w", ErrMalformedTx, err)
	}
	if in.ScriptSig, err = script.Parse(r); err != nil {
		return nil, fmt.Errorf("%w: scriptSig: %w", ErrMalformedTx, err)
	}
	if in.Sequence, err = wire.ReadUint32(r); err != nil {
		return nil, fmt.Errorf("%w: input sequence: %w", ErrMalformedTx, err)
	}
	return in, nil
}

// appendOutPoint appends the wire form of the spent outpoint.
func (in *TxIn) appendOutPoint(buf []byte) []byte {
	buf = append(buf, wire.Reverse(in.PrevTxID[:])...)
	return wire.AppendUint32(buf, in.PrevIndex)
}

// appendTo appends the input with sig in place of its scriptSig.
func (in *TxIn) appendTo(buf []byte, sig *script.Script) []byte {
	buf = in.appendOutPoint(buf)
	buf = append(buf, sig.Serialize()...)
	return wire.AppendUint32(buf, in.Sequence)
}

func readWitness(r io.Reader) ([][]byte, error) {
	n, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: witness count: %w", ErrMalformedTx, err)
	}
	items := make([][]byte, 0, min(n, 64))
	for range n {
		size, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: witness item length: %w", ErrMalformedTx, err)
		}
		item, err := wire.ReadBytes(r, size)
		if err != nil {
			return nil, fmt.Errorf("%w: witness item: %w", ErrMalformedTx, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func appendWitness(buf []byte, items [][]byte) []byte {
	buf = append(buf, wire.EncodeVarInt(uint64(len(items)))...)
	for _, item := range items {
		buf = append(buf, wire.EncodeVarInt(uint64(len(item)))...)
		buf = append(buf, item...)
	}
	return buf
}
