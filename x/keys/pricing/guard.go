package pricing

import (
	"math/bits"

	"github.com/solsocial/socialkeys/x/keys/types"
)

// Add returns a+b or ErrOverflow.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, types.ErrOverflow.Wrapf("%d + %d", a, b)
	}
	return sum, nil
}

// Sub returns a-b or ErrUnderflow.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, types.ErrUnderflow.Wrapf("%d - %d", a, b)
	}
	return diff, nil
}

// Mul returns a*b or ErrOverflow.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, types.ErrOverflow.Wrapf("%d * %d", a, b)
	}
	return lo, nil
}

// Div returns a/b or ErrDivideByZero.
func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, types.ErrDivideByZero.Wrapf("%d / 0", a)
	}
	return a / b, nil
}

// MulDiv returns floor(a*b/d) using a 128-bit intermediate.
func MulDiv(a, b, d uint64) (uint64, error) {
	q, _, err := mulDivRem(a, b, d)
	return q, err
}

// MulDivCeil returns ceil(a*b/d) using a 128-bit intermediate.
func MulDivCeil(a, b, d uint64) (uint64, error) {
	q, rem, err := mulDivRem(a, b, d)
	if err != nil {
		return 0, err
	}
	if rem != 0 {
		return Add(q, 1)
	}
	return q, nil
}

func mulDivRem(a, b, d uint64) (uint64, uint64, error) {
	if d == 0 {
		return 0, 0, types.ErrDivideByZero.Wrapf("%d * %d / 0", a, b)
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, 0, types.ErrOverflow.Wrapf("%d * %d / %d", a, b, d)
	}
	q, rem := bits.Div64(hi, lo, d)
	return q, rem, nil
}

// Square returns x² or ErrOverflow.
func Square(x uint64) (uint64, error) {
	return Mul(x, x)
}

// Cube returns x³ or ErrOverflow.
func Cube(x uint64) (uint64, error) {
	sq, err := Square(x)
	if err != nil {
		return 0, err
	}
	return Mul(sq, x)
}

// BpsOf returns floor(v*bps/10000).
func BpsOf(v, bps uint64) (uint64, error) {
	return MulDiv(v, bps, types.BpsBase)
}

// AbsDiff returns |a-b|.
func AbsDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// SumOfSquares returns Σ_{i=0}^{k} i² = k(k+1)(2k+1)/6.
func SumOfSquares(k uint64) (uint64, error) {
	a := k
	b, err := Add(k, 1)
	if err != nil {
		return 0, err
	}
	twice, err := Mul(2, k)
	if err != nil {
		return 0, err
	}
	c, err := Add(twice, 1)
	if err != nil {
		return 0, err
	}

	// One of k, k+1 is even and exactly one of k, k+1, 2k+1 is a multiple of three.
	if a%2 == 0 {
		a /= 2
	} else {
		b /= 2
	}
	switch {
	case a%3 == 0:
		a /= 3
	case b%3 == 0:
		b /= 3
	default:
		c /= 3
	}

	ab, err := Mul(a, b)
	if err != nil {
		return 0, err
	}
	return Mul(ab, c)
}
