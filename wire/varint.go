// Package wire holds the byte-level encodings shared by the transaction,
// script and block codecs: Bitcoin varints, little-endian integers, the
// hash functions and base58.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

// ReadVarInt reads a Bitcoin variable-length integer, rejecting encodings
// wider than the value needs.
func ReadVarInt(r io.Reader) (uint64, error) {
	v, err := btcwire.ReadVarInt(r, btcwire.ProtocolVersion)
	if err == nil {
		return v, nil
	}
	var msgErr *btcwire.MessageError
	if errors.As(err, &msgErr) {
		return 0, fmt.Errorf("%w: %s", ErrNonCanonicalVarInt, msgErr.Description)
	}
	return 0, fmt.Errorf("%w: varint: %w", ErrShortRead, err)
}

// EncodeVarInt returns the shortest varint encoding of n.
func EncodeVarInt(n uint64) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, btcwire.VarIntSerializeSize(n)))
	// Writes to a bytes.Buffer cannot fail.
	_ = btcwire.WriteVarInt(buf, btcwire.ProtocolVersion, n)
	return buf.Bytes()
}

// ReadBytes reads exactly n bytes.
func ReadBytes(r io.Reader, n uint64) ([]byte, error) {
	// Grow in bounded steps so a corrupt length cannot force a huge allocation.
	const chunk = 1 << 16
	buf := make([]byte, 0, min(n, chunk))
	for uint64(len(buf)) < n {
		step := min(n-uint64(len(buf)), chunk)
		start := len(buf)
		buf = append(buf, make([]byte, step)...)
		if _, err := io.ReadFull(r, buf[start:]); err != nil {
			return nil, fmt.Errorf("%w: want %d bytes: %w", ErrShortRead, n, err)
		}
	}
	return buf, nil
}

// ReadUint16 reads a little-endian uint16.
func ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: uint16: %w", ErrShortRead, err)
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// ReadUint32 reads a little-endian uint32.
func ReadUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: uint32: %w", ErrShortRead, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadUint64 reads a little-endian uint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: uint64: %w", ErrShortRead, err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// AppendUint32 appends v in little-endian order.
func AppendUint32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

// AppendUint64 appends v in little-endian order.
func AppendUint64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

// Reverse returns a reversed copy of b. Hashes are displayed in the
// opposite byte order to the one they are serialized in.
func Reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
