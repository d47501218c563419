// Package block parses Bitcoin block headers and checks what they commit
// to: proof of work against the compact target, softfork signalling in the
// version field, and merkle inclusion of transaction hashes.
package block

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/bitfsorg/libbtc-go/wire"
)

// HeaderSize is the size of a serialized block header in bytes.
const HeaderSize = 80

// Header is a block header. PrevBlock and MerkleRoot are held in display
// (big-endian) order; the wire format carries them reversed.
type Header struct {
	Version    uint32
	PrevBlock  [32]byte
	MerkleRoot [32]byte
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// ParseHeader reads one 80-byte header from r.
//
// Layout: version(4) | prevBlock(32) | merkleRoot(32) | timestamp(4) | bits(4) | nonce(4)
func ParseHeader(r io.Reader) (*Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return parseHeader(buf[:]), nil
}

// ParseHeaderBytes parses exactly 80 bytes.
func ParseHeaderBytes(data []byte) (*Header, error) {
	if len(data) != HeaderSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHeader, HeaderSize, len(data))
	}
	return parseHeader(data), nil
}

func parseHeader(data []byte) *Header {
	return &Header{
		Version:    binary.LittleEndian.Uint32(data[0:4]),
		PrevBlock:  [32]byte(wire.Reverse(data[4:36])),
		MerkleRoot: [32]byte(wire.Reverse(data[36:68])),
		Timestamp:  binary.LittleEndian.Uint32(data[68:72]),
		Bits:       binary.LittleEndian.Uint32(data[72:76]),
		Nonce:      binary.LittleEndian.Uint32(data[76:80]),
	}
}

// Serialize returns the 80-byte wire form.
func (h *Header) Serialize() []byte {
	buf := make([]byte, 0, HeaderSize)
	buf = wire.AppendUint32(buf, h.Version)
	buf = append(buf, wire.Reverse(h.PrevBlock[:])...)
	buf = append(buf, wire.Reverse(h.MerkleRoot[:])...)
	buf = wire.AppendUint32(buf, h.Timestamp)
	buf = wire.AppendUint32(buf, h.Bits)
	return wire.AppendUint32(buf, h.Nonce)
}

// hash returns the double SHA-256 of the header in wire order.
func (h *Header) hash() chainhash.Hash {
	return chainhash.DoubleHashH(h.Serialize())
}

// ID returns the block hash in display order.
func (h *Header) ID() [32]byte {
	sum := h.hash()
	return [32]byte(wire.Reverse(sum[:]))
}

// Hash returns the hex block hash in display order.
func (h *Header) Hash() string {
	return h.hash().String()
}

// Time returns the header timestamp in UTC.
func (h *Header) Time() time.Time {
	return time.Unix(int64(h.Timestamp), 0).UTC()
}

// Signals reports whether the version field signals readiness for a
// softfork. Known rules: BIP9 (top three bits 001), BIP91 (bit 4), BIP141
// (bit 1) and BIP341 (bit 2).
func (h *Header) Signals(bip int) (bool, error) {
	switch bip {
	case 9:
		return h.Version>>29 == 0b001, nil
	case 91:
		return h.Version>>4&1 == 1, nil
	case 141:
		return h.Version>>1&1 == 1, nil
	case 341:
		return h.Version>>2&1 == 1, nil
	default:
		return false, fmt.Errorf("%w: %d", ErrUnknownBIP, bip)
	}
}

func (h *Header) String() string {
	return fmt.Sprintf("block %s version 0x%08x bits 0x%08x time %s",
		h.Hash(), h.Version, h.Bits, h.Time().Format(time.RFC3339))
}
