package ecc

import (
	"fmt"
	"math/big"
)

// Point is a point on the curve y^2 = x^3 + ax + b over a prime field, or
// the point at infinity when x and y are both nil.
type Point struct {
	x, y *FieldElement
	a, b *FieldElement
}

// NewPoint returns the point (x, y) on the curve with coefficients a and b.
// Passing nil for both x and y yields the point at infinity.
func NewPoint(x, y, a, b *FieldElement) (*Point, error) {
	if x == nil && y == nil {
		return Infinity(a, b), nil
	}
	if x == nil || y == nil {
		return nil, fmt.Errorf("%w: only one coordinate given", ErrNotOnCurve)
	}
	lhs := y.Mul(y)
	rhs := x.Mul(x).Mul(x).Add(a.Mul(x)).Add(b)
	if !lhs.Equal(rhs) {
		return nil, fmt.Errorf("%w: (%s, %s)", ErrNotOnCurve, x.num.Text(16), y.num.Text(16))
	}
	return &Point{x: x, y: y, a: a, b: b}, nil
}

// Infinity returns the identity point of the curve with coefficients a and b.
func Infinity(a, b *FieldElement) *Point {
	return &Point{a: a, b: b}
}

// IsInfinity reports whether p is the identity point.
func (p *Point) IsInfinity() bool { return p.x == nil }

// X returns the x coordinate, nil at infinity.
func (p *Point) X() *FieldElement { return p.x }

// Y returns the y coordinate, nil at infinity.
func (p *Point) Y() *FieldElement { return p.y }

// Equal reports whether p and q are the same point on the same curve.
func (p *Point) Equal(q *Point) bool {
	if p == nil || q == nil {
		return p == q
	}
	return p.a.Equal(q.a) && p.b.Equal(q.b) && p.x.Equal(q.x) && p.y.Equal(q.y)
}

// Add returns p + q under the group law.
func (p *Point) Add(q *Point) *Point {
	if !p.a.Equal(q.a) || !p.b.Equal(q.b) {
		panic(fmt.Sprintf("ecc: points %s and %s are not on the same curve", p, q))
	}

	switch {
	case p.IsInfinity():
		return q
	case q.IsInfinity():
		return p
	case p.x.Equal(q.x) && !p.y.Equal(q.y):
		// Vertical line.
		return Infinity(p.a, p.b)
	case p.x.Equal(q.x) && p.y.IsZero():
		// Tangent is vertical.
		return Infinity(p.a, p.b)
	case p.x.Equal(q.x):
		// s = (3x^2 + a) / 2y
		s := p.x.Mul(p.x).Scale(3).Add(p.a).Div(p.y.Scale(2))
		x3 := s.Mul(s).Sub(p.x.Scale(2))
		y3 := s.Mul(p.x.Sub(x3)).Sub(p.y)
		return &Point{x: x3, y: y3, a: p.a, b: p.b}
	default:
		// s = (y2 - y1) / (x2 - x1)
		s := q.y.Sub(p.y).Div(q.x.Sub(p.x))
		x3 := s.Mul(s).Sub(p.x).Sub(q.x)
		y3 := s.Mul(p.x.Sub(x3)).Sub(p.y)
		return &Point{x: x3, y: y3, a: p.a, b: p.b}
	}
}

// ScalarMul returns k*p by binary double-and-add. On secp256k1 the scalar
// is first reduced modulo the group order. Negative scalars on other
// curves panic.
func (p *Point) ScalarMul(k *big.Int) *Point {
	coef := new(big.Int).Set(k)
	if p.onSecp256k1() {
		coef.Mod(coef, curveN)
	} else if coef.Sign() < 0 {
		panic("ecc: negative scalar")
	}

	result := Infinity(p.a, p.b)
	current := p
	for i := 0; i < coef.BitLen(); i++ {
		if coef.Bit(i) == 1 {
			result = result.Add(current)
		}
		current = current.Add(current)
	}
	return result
}

func (p *Point) String() string {
	if p.IsInfinity() {
		return "Point(infinity)"
	}
	return fmt.Sprintf("Point(%s, %s)_%s_%s", p.x.num.Text(16), p.y.num.Text(16), p.a.num, p.b.num)
}

func (p *Point) onSecp256k1() bool {
	return p.a.prime.Cmp(curveP) == 0 && p.a.num.Sign() == 0 && p.b.num.Cmp(curveB) == 0
}
