package ecc

import (
	"errors"
	"fmt"
	"math/big"
)

// Signature is an ECDSA signature.
type Signature struct {
	R *big.Int
	S *big.Int
}

// NewSignature returns a signature holding copies of r and s.
func NewSignature(r, s *big.Int) *Signature {
	return &Signature{R: new(big.Int).Set(r), S: new(big.Int).Set(s)}
}

// DER returns the strict DER encoding of sig.
func (sig *Signature) DER() []byte {
	r := derInt(sig.R)
	s := derInt(sig.S)

	out := make([]byte, 0, 6+len(r)+len(s))
	out = append(out, 0x30, byte(4+len(r)+len(s)))
	out = append(out, 0x02, byte(len(r)))
	out = append(out, r...)
	out = append(out, 0x02, byte(len(s)))
	return append(out, s...)
}

// derInt returns the minimal big-endian bytes of n, with a 0x00 prefix
// when the high bit would otherwise mark it negative.
func derInt(n *big.Int) []byte {
	b := n.Bytes()
	if len(b) == 0 {
		return []byte{0x00}
	}
	if b[0]&0x80 != 0 {
		return append([]byte{0x00}, b...)
	}
	return b
}

// ParseDER decodes a DER signature.
func ParseDER(b []byte) (*Signature, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidDER, len(b))
	}
	if b[0] != 0x30 {
		return nil, fmt.Errorf("%w: bad sequence tag 0x%02x", ErrInvalidDER, b[0])
	}
	if int(b[1])+2 != len(b) {
		return nil, fmt.Errorf("%w: length %d does not match %d bytes", ErrInvalidDER, b[1], len(b))
	}

	rest := b[2:]
	r, rest, err := parseDERInt(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: r: %w", ErrInvalidDER, err)
	}
	s, rest, err := parseDERInt(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: s: %w", ErrInvalidDER, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidDER, len(rest))
	}
	return &Signature{R: r, S: s}, nil
}

func parseDERInt(b []byte) (*big.Int, []byte, error) {
	if len(b) < 2 {
		return nil, nil, errors.New("truncated integer header")
	}
	if b[0] != 0x02 {
		return nil, nil, fmt.Errorf("bad integer tag 0x%02x", b[0])
	}
	n := int(b[1])
	if n == 0 {
		return nil, nil, errors.New("empty integer")
	}
	if len(b) < 2+n {
		return nil, nil, fmt.Errorf("integer length %d exceeds %d bytes", n, len(b)-2)
	}
	v := b[2 : 2+n]
	if v[0]&0x80 != 0 {
		return nil, nil, errors.New("negative integer")
	}
	return new(big.Int).SetBytes(v), b[2+n:], nil
}

func (sig *Signature) String() string {
	return fmt.Sprintf("Signature(%x, %x)", sig.R, sig.S)
}
