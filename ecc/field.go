// Package ecc implements prime field arithmetic, short Weierstrass curve
// points and ECDSA over secp256k1.
//
// All values are immutable: every operation returns a new element or point.
// Combining elements of different fields, or points of different curves,
// is a programming error and panics.
package ecc

import (
	"fmt"
	"math/big"
)

// FieldElement is an integer modulo a prime.
type FieldElement struct {
	num   *big.Int
	prime *big.Int
}

// NewFieldElement returns num as an element of the field of order prime.
func NewFieldElement(num, prime *big.Int) (*FieldElement, error) {
	if num.Sign() < 0 || num.Cmp(prime) >= 0 {
		return nil, fmt.Errorf("%w: %s not in [0, %s)", ErrFieldRange, num, prime)
	}
	return newElement(num, prime), nil
}

// newElement skips the range check; num must already be reduced.
func newElement(num, prime *big.Int) *FieldElement {
	return &FieldElement{num: new(big.Int).Set(num), prime: prime}
}

// Num returns a copy of the element's value.
func (f *FieldElement) Num() *big.Int { return new(big.Int).Set(f.num) }

// Prime returns a copy of the field order.
func (f *FieldElement) Prime() *big.Int { return new(big.Int).Set(f.prime) }

// Equal reports whether f and o are the same element of the same field.
func (f *FieldElement) Equal(o *FieldElement) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.num.Cmp(o.num) == 0 && f.prime.Cmp(o.prime) == 0
}

// IsZero reports whether f is the additive identity.
func (f *FieldElement) IsZero() bool { return f.num.Sign() == 0 }

// Add returns f + o.
func (f *FieldElement) Add(o *FieldElement) *FieldElement {
	f.mustMatch(o, "add")
	n := new(big.Int).Add(f.num, o.num)
	return &FieldElement{num: n.Mod(n, f.prime), prime: f.prime}
}

// Sub returns f - o.
func (f *FieldElement) Sub(o *FieldElement) *FieldElement {
	f.mustMatch(o, "subtract")
	n := new(big.Int).Sub(f.num, o.num)
	return &FieldElement{num: n.Mod(n, f.prime), prime: f.prime}
}

// Mul returns f * o.
func (f *FieldElement) Mul(o *FieldElement) *FieldElement {
	f.mustMatch(o, "multiply")
	n := new(big.Int).Mul(f.num, o.num)
	return &FieldElement{num: n.Mod(n, f.prime), prime: f.prime}
}

// Scale returns c * f for an integer c.
func (f *FieldElement) Scale(c int64) *FieldElement {
	n := new(big.Int).Mul(f.num, big.NewInt(c))
	return &FieldElement{num: n.Mod(n, f.prime), prime: f.prime}
}

// Pow returns f^exp. Negative exponents are reduced modulo prime-1 first,
// which by Fermat's little theorem gives the inverse power.
func (f *FieldElement) Pow(exp *big.Int) *FieldElement {
	order := new(big.Int).Sub(f.prime, big.NewInt(1))
	e := new(big.Int).Mod(exp, order)
	return &FieldElement{num: new(big.Int).Exp(f.num, e, f.prime), prime: f.prime}
}

// Div returns f / o, computed as f * o^(prime-2). Division by zero panics.
func (f *FieldElement) Div(o *FieldElement) *FieldElement {
	f.mustMatch(o, "divide")
	if o.IsZero() {
		panic("ecc: division by zero field element")
	}
	e := new(big.Int).Sub(f.prime, big.NewInt(2))
	inv := new(big.Int).Exp(o.num, e, f.prime)
	n := inv.Mul(inv, f.num)
	return &FieldElement{num: n.Mod(n, f.prime), prime: f.prime}
}

func (f *FieldElement) String() string {
	return fmt.Sprintf("FieldElement_%s(%s)", f.prime, f.num)
}

func (f *FieldElement) mustMatch(o *FieldElement, op string) {
	if f.prime.Cmp(o.prime) != 0 {
		panic(fmt.Sprintf("ecc: cannot %s elements of fields %s and %s", op, f.prime, o.prime))
	}
}
