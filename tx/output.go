package tx

import (
	"fmt"
	"io"

	"github.com/bitfsorg/libbtc-go/script"
	"github.com/bitfsorg/libbtc-go/wire"
)

// TxOut locks Amount satoshis to ScriptPubKey.
type TxOut struct {
	Amount       uint64
	ScriptPubKey *script.Script
}

// NewTxOut returns an output paying amount to s.
func NewTxOut(amount uint64, s *script.Script) *TxOut {
	return &TxOut{Amount: amount, ScriptPubKey: s}
}

func (out *TxOut) String() string {
	return fmt.Sprintf("%d:%s", out.Amount, out.ScriptPubKey)
}

// Serialize returns the wire form: 8-byte amount then the script.
func (out *TxOut) Serialize() []byte {
	return out.appendTo(nil)
}

func (out *TxOut) appendTo(buf []byte) []byte {
	buf = wire.AppendUint64(buf, out.Amount)
	s := out.ScriptPubKey
	if s == nil {
		s = script.New()
	}
	return append(buf, s.Serialize()...)
}

func parseTxOut(r io.Reader) (*TxOut, error) {
	amount, err := wire.ReadUint64(r)
	if err != nil {
		return nil, fmt.Errorf("%w: output amount: %w", ErrMalformedTx, err)
	}
	s, err := script.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: scriptPubKey: %w", ErrMalformedTx, err)
	}
	return &TxOut{Amount: amount, ScriptPubKey: s}, nil
}
