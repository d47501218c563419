package ecc

import (
	"fmt"
	"math/big"

	"github.com/bitfsorg/libbtc-go/wire"
)

// secp256k1 domain parameters. Built once and never mutated; the exported
// accessors hand out copies.
var (
	curveP  = mustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	curveN  = mustHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	curveB  = big.NewInt(7)
	curveGx = mustHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	curveGy = mustHex("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")

	halfN     = new(big.Int).Rsh(curveN, 1)
	sqrtExp   = new(big.Int).Rsh(new(big.Int).Add(curveP, big.NewInt(1)), 2)
	s256A     = newElement(big.NewInt(0), curveP)
	s256B     = newElement(curveB, curveP)
	generator = &Point{
		x: newElement(curveGx, curveP),
		y: newElement(curveGy, curveP),
		a: s256A,
		b: s256B,
	}
)

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("ecc: bad constant " + s)
	}
	return n
}

// P returns the secp256k1 field prime.
func P() *big.Int { return new(big.Int).Set(curveP) }

// N returns the order of the secp256k1 generator.
func N() *big.Int { return new(big.Int).Set(curveN) }

// G returns the secp256k1 generator point.
func G() *Point { return generator }

// NewS256Point returns (x, y) as a point on secp256k1.
func NewS256Point(x, y *big.Int) (*Point, error) {
	fx, err := NewFieldElement(x, curveP)
	if err != nil {
		return nil, err
	}
	fy, err := NewFieldElement(y, curveP)
	if err != nil {
		return nil, err
	}
	return NewPoint(fx, fy, s256A, s256B)
}

// SEC returns the SEC1 encoding of p: 33 bytes with a parity prefix when
// compressed, 65 bytes with prefix 0x04 otherwise. The point at infinity
// has no encoding and yields nil.
func (p *Point) SEC(compressed bool) []byte {
	if p.IsInfinity() {
		return nil
	}
	x := p.x.num.FillBytes(make([]byte, 32))
	if compressed {
		prefix := byte(0x02)
		if p.y.num.Bit(0) == 1 {
			prefix = 0x03
		}
		return append([]byte{prefix}, x...)
	}
	out := make([]byte, 0, 65)
	out = append(out, 0x04)
	out = append(out, x...)
	return append(out, p.y.num.FillBytes(make([]byte, 32))...)
}

// ParseSEC decodes a compressed or uncompressed SEC1 public key.
func ParseSEC(b []byte) (*Point, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSEC)
	}
	switch b[0] {
	case 0x04:
		if len(b) != 65 {
			return nil, fmt.Errorf("%w: uncompressed key of %d bytes", ErrInvalidSEC, len(b))
		}
		pt, err := NewS256Point(new(big.Int).SetBytes(b[1:33]), new(big.Int).SetBytes(b[33:]))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSEC, err)
		}
		return pt, nil
	case 0x02, 0x03:
		if len(b) != 33 {
			return nil, fmt.Errorf("%w: compressed key of %d bytes", ErrInvalidSEC, len(b))
		}
		x, err := NewFieldElement(new(big.Int).SetBytes(b[1:]), curveP)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSEC, err)
		}
		alpha := x.Mul(x).Mul(x).Add(s256B)
		beta := alpha.Pow(sqrtExp)
		if !beta.Mul(beta).Equal(alpha) {
			return nil, fmt.Errorf("%w: x has no square root", ErrInvalidSEC)
		}
		y := beta
		wantOdd := b[0] == 0x03
		if (beta.num.Bit(0) == 1) != wantOdd {
			y = newElement(new(big.Int).Sub(curveP, beta.num), curveP)
		}
		return &Point{x: x, y: y, a: s256A, b: s256B}, nil
	default:
		return nil, fmt.Errorf("%w: prefix 0x%02x", ErrInvalidSEC, b[0])
	}
}

// Verify reports whether sig is a valid ECDSA signature of z under the
// public key p.
func (p *Point) Verify(z *big.Int, sig *Signature) bool {
	if sig == nil || p.IsInfinity() || !p.onSecp256k1() {
		return false
	}
	if sig.R.Sign() <= 0 || sig.R.Cmp(curveN) >= 0 || sig.S.Sign() <= 0 || sig.S.Cmp(curveN) >= 0 {
		return false
	}

	sInv := new(big.Int).Exp(sig.S, new(big.Int).Sub(curveN, big.NewInt(2)), curveN)
	u := new(big.Int).Mul(z, sInv)
	u.Mod(u, curveN)
	v := new(big.Int).Mul(sig.R, sInv)
	v.Mod(v, curveN)

	total := generator.ScalarMul(u).Add(p.ScalarMul(v))
	if total.IsInfinity() {
		return false
	}
	x := new(big.Int).Mod(total.x.num, curveN)
	return x.Cmp(sig.R) == 0
}

// Hash160 returns hash160 of the SEC encoding of p.
func (p *Point) Hash160(compressed bool) []byte {
	return wire.Hash160(p.SEC(compressed))
}

// Address returns the base58check P2PKH address for p.
func (p *Point) Address(compressed, testnet bool) string {
	return AddressFromHash160(p.Hash160(compressed), testnet)
}

// AddressFromHash160 returns the base58check P2PKH address for a 20-byte
// public key hash.
func AddressFromHash160(h160 []byte, testnet bool) string {
	prefix := byte(0x00)
	if testnet {
		prefix = 0x6f
	}
	return wire.EncodeBase58Check(append([]byte{prefix}, h160...))
}
