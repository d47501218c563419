// Package tx implements the Bitcoin transaction model: legacy and segwit
// wire formats, transaction ids, the legacy and BIP143 signature hashes,
// input verification against resolved previous outputs, and signing.
package tx

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/bitfsorg/libbtc-go/wire"
)

const (
	// SigHashAll is the only signature hash type produced and verified.
	SigHashAll = 1

	// witnessScaleFactor weighs non-witness bytes against witness bytes.
	witnessScaleFactor = 4
)

// Tx is a Bitcoin transaction.
type Tx struct {
	Version  uint32
	Inputs   []*TxIn
	Outputs  []*TxOut
	Locktime uint32
	// Testnet selects the network previous outputs are resolved on.
	Testnet bool
	// Segwit selects the marker/flag serialization with witness data.
	Segwit bool
}

// New returns a transaction with the given inputs and outputs.
func New(version uint32, inputs []*TxIn, outputs []*TxOut, locktime uint32, testnet bool) *Tx {
	return &Tx{
		Version:  version,
		Inputs:   inputs,
		Outputs:  outputs,
		Locktime: locktime,
		Testnet:  testnet,
	}
}

// Parse reads one transaction in legacy or segwit form from r.
func Parse(r io.Reader, testnet bool) (*Tx, error) {
	version, err := wire.ReadUint32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: version: %w", ErrMalformedTx, err)
	}
	tx := &Tx{Version: version, Testnet: testnet}

	// A zero where the input count would start is the segwit marker.
	first, err := wire.ReadBytes(r, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: input count: %w", ErrMalformedTx, err)
	}
	rest := r
	if first[0] == 0x00 {
		flag, err := wire.ReadBytes(r, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: segwit flag: %w", ErrMalformedTx, err)
		}
		if flag[0] != 0x01 {
			return nil, fmt.Errorf("%w: flag 0x%02x", ErrInvalidSegwitMarker, flag[0])
		}
		tx.Segwit = true
	} else {
		rest = io.MultiReader(bytes.NewReader(first), r)
	}

	numIn, err := wire.ReadVarInt(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: input count: %w", ErrMalformedTx, err)
	}
	tx.Inputs = make([]*TxIn, 0, min(numIn, 1024))
	for range numIn {
		in, err := parseTxIn(rest)
		if err != nil {
			return nil, err
		}
		tx.Inputs = append(tx.Inputs, in)
	}

	numOut, err := wire.ReadVarInt(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: output count: %w", ErrMalformedTx, err)
	}
	tx.Outputs = make([]*TxOut, 0, min(numOut, 1024))
	for range numOut {
		out, err := parseTxOut(rest)
		if err != nil {
			return nil, err
		}
		tx.Outputs = append(tx.Outputs, out)
	}

	if tx.Segwit {
		for _, in := range tx.Inputs {
			if in.Witness, err = readWitness(rest); err != nil {
				return nil, err
			}
		}
	}

	if tx.Locktime, err = wire.ReadUint32(rest); err != nil {
		return nil, fmt.Errorf("%w: locktime: %w", ErrMalformedTx, err)
	}
	return tx, nil
}

// ParseBytes parses raw as exactly one transaction.
func ParseBytes(raw []byte, testnet bool) (*Tx, error) {
	r := bytes.NewReader(raw)
	tx, err := Parse(r, testnet)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedTx, r.Len())
	}
	return tx, nil
}

// ParseHex parses a hex encoded transaction.
func ParseHex(s string, testnet bool) (*Tx, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTx, err)
	}
	return ParseBytes(raw, testnet)
}

// Serialize returns the wire form: segwit with witnesses when tx.Segwit is
// set, legacy otherwise.
func (tx *Tx) Serialize() []byte {
	if !tx.Segwit {
		return tx.SerializeLegacy()
	}

	buf := wire.AppendUint32(nil, tx.Version)
	buf = append(buf, 0x00, 0x01)
	buf = tx.appendBody(buf)
	for _, in := range tx.Inputs {
		buf = appendWitness(buf, in.Witness)
	}
	return wire.AppendUint32(buf, tx.Locktime)
}

// SerializeLegacy returns the form without marker, flag and witnesses.
// Transaction ids are computed over it.
func (tx *Tx) SerializeLegacy() []byte {
	buf := wire.AppendUint32(nil, tx.Version)
	buf = tx.appendBody(buf)
	return wire.AppendUint32(buf, tx.Locktime)
}

func (tx *Tx) appendBody(buf []byte) []byte {
	buf = append(buf, wire.EncodeVarInt(uint64(len(tx.Inputs)))...)
	for _, in := range tx.Inputs {
		buf = in.appendTo(buf, in.scriptSig())
	}
	buf = append(buf, wire.EncodeVarInt(uint64(len(tx.Outputs)))...)
	for _, out := range tx.Outputs {
		buf = out.appendTo(buf)
	}
	return buf
}

// TxID returns the transaction id in display order.
func (tx *Tx) TxID() [32]byte {
	h := chainhash.DoubleHashH(tx.SerializeLegacy())
	return [32]byte(wire.Reverse(h[:]))
}

// ID returns the hex transaction id: the byte-reversed double SHA-256 of
// the legacy serialization.
func (tx *Tx) ID() string {
	return chainhash.DoubleHashH(tx.SerializeLegacy()).String()
}

// Hash returns the hex witness transaction id. It equals ID for
// transactions serialized without witness data.
func (tx *Tx) Hash() string {
	return chainhash.DoubleHashH(tx.Serialize()).String()
}

// Size returns the length of the full serialization.
func (tx *Tx) Size() int { return len(tx.Serialize()) }

// Weight returns the BIP141 weight: three times the legacy size plus the
// full size.
func (tx *Tx) Weight() int {
	return len(tx.SerializeLegacy())*(witnessScaleFactor-1) + tx.Size()
}

// VSize returns the virtual size, weight divided by four rounded up.
func (tx *Tx) VSize() int {
	return (tx.Weight() + witnessScaleFactor - 1) / witnessScaleFactor
}

// IsCoinbase reports whether tx has the single null-outpoint input of a
// coinbase transaction.
func (tx *Tx) IsCoinbase() bool {
	if len(tx.Inputs) != 1 {
		return false
	}
	in := tx.Inputs[0]
	return in.PrevTxID == [32]byte{} && in.PrevIndex == 0xffffffff
}

// CoinbaseHeight returns the block height a BIP34 coinbase commits to as
// the first push of its scriptSig. ok is false for other transactions.
func (tx *Tx) CoinbaseHeight() (height uint64, ok bool) {
	if !tx.IsCoinbase() {
		return 0, false
	}
	cmds := tx.Inputs[0].scriptSig().Commands()
	if len(cmds) == 0 || !cmds[0].IsData() || len(cmds[0].Data) > 8 {
		return 0, false
	}
	for i, b := range cmds[0].Data {
		height |= uint64(b) << (8 * i)
	}
	return height, true
}

func (tx *Tx) checkIndex(i int) error {
	if i < 0 || i >= len(tx.Inputs) {
		return fmt.Errorf("%w: %d of %d", ErrInputIndex, i, len(tx.Inputs))
	}
	return nil
}

func (tx *Tx) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tx %s version %d locktime %d", tx.ID(), tx.Version, tx.Locktime)
	for i, in := range tx.Inputs {
		fmt.Fprintf(&b, "\n  in %d: %s seq %08x", i, in, in.Sequence)
	}
	for i, out := range tx.Outputs {
		fmt.Fprintf(&b, "\n  out %d: %s", i, out)
	}
	return b.String()
}
