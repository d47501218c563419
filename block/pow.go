package block

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/bitfsorg/libbtc-go/wire"
)

// MaxBits is the compact form of the easiest mainnet target, the
// genesis difficulty.
const MaxBits uint32 = 0x1d00ffff

// two256 is 2^256, the size of the hash space.
var two256 = new(big.Int).Lsh(big.NewInt(1), 256)

// BitsToTarget expands a compact target: the low three bytes are the
// coefficient and the top byte the base-256 exponent, so
// target = coefficient * 256^(exponent-3). A set sign bit yields zero.
func BitsToTarget(bits uint32) *big.Int {
	exponent := bits >> 24
	coefficient := int64(bits & 0x007fffff)
	if bits&0x00800000 != 0 {
		coefficient = 0
	}

	target := big.NewInt(coefficient)
	if exponent <= 3 {
		return target.Rsh(target, uint(8*(3-exponent)))
	}
	return target.Lsh(target, uint(8*(exponent-3)))
}

// TargetToBits returns the compact form of target, dropping precision
// below the three most significant bytes. A leading byte above 0x7f would
// read as the sign bit, so the coefficient is shifted right by one byte.
func TargetToBits(target *big.Int) uint32 {
	if target.Sign() <= 0 {
		return 0
	}
	raw := target.Bytes()
	exponent := uint32(len(raw))
	if raw[0] > 0x7f {
		raw = append([]byte{0x00}, raw...)
		exponent++
	}
	var coefficient uint32
	for i := range 3 {
		coefficient <<= 8
		if i < len(raw) {
			coefficient |= uint32(raw[i])
		}
	}
	return exponent<<24 | coefficient
}

// Target returns the proof-of-work target the header commits to.
func (h *Header) Target() *big.Int {
	return BitsToTarget(h.Bits)
}

// Difficulty returns how many times harder the header's target is than
// the genesis target.
func (h *Header) Difficulty() float64 {
	target := h.Target()
	if target.Sign() == 0 {
		return 0
	}
	d, _ := new(big.Rat).SetFrac(BitsToTarget(MaxBits), target).Float64()
	return d
}

// CheckPoW reports whether the header hash, read as a little-endian
// integer, is below the target.
func (h *Header) CheckPoW() bool {
	sum := h.hash()
	proof := new(big.Int).SetBytes(wire.Reverse(sum[:]))
	return proof.Cmp(h.Target()) < 0
}

// Work returns the expected number of hashes needed to meet the header's
// target: 2^256 / (target + 1).
func (h *Header) Work() *big.Int {
	target := h.Target()
	if target.Sign() <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Div(two256, new(big.Int).Add(target, big.NewInt(1)))
}

// VerifyHeaderChain checks that headers, in ascending order, each meet
// their own target and link to their predecessor. It returns the
// cumulative work of the chain.
func VerifyHeaderChain(headers []*Header) (*big.Int, error) {
	total := new(big.Int)
	for i, h := range headers {
		if h == nil {
			return nil, fmt.Errorf("%w: nil header at index %d", ErrNilParam, i)
		}
		if !h.CheckPoW() {
			return nil, fmt.Errorf("header %d: %w", i, ErrInsufficientPoW)
		}
		if i > 0 {
			prev := headers[i-1].ID()
			if !bytes.Equal(h.PrevBlock[:], prev[:]) {
				return nil, fmt.Errorf("%w: header %d does not extend header %d", ErrChainBroken, i, i-1)
			}
		}
		total.Add(total, h.Work())
	}
	return total, nil
}
