package pricing

import (
	"github.com/solsocial/socialkeys/x/keys/types"
)

// Curve prices units of a single asset. It holds no supply state.
type Curve struct {
	params types.CurveParams
}

// NewCurve validates params and rejects curves whose full range cannot be priced in u64.
func NewCurve(params types.CurveParams) (Curve, error) {
	if err := params.ValidateBasic(); err != nil {
		return Curve{}, err
	}
	c := Curve{params: params}
	if _, err := c.SpotPrice(params.MaxSupply); err != nil {
		return Curve{}, types.ErrInvalidCurveParams.Wrapf("spot price at max supply: %s", err)
	}
	if params.MaxSupply > 1 {
		if _, err := c.rangeValue(1, params.MaxSupply, true); err != nil {
			return Curve{}, types.ErrInvalidCurveParams.Wrapf("cost of full supply: %s", err)
		}
	}
	return c, nil
}

// MustNewCurve is NewCurve for params known to be valid.
func MustNewCurve(params types.CurveParams) Curve {
	c, err := NewCurve(params)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Curve) Params() types.CurveParams {
	return c.params
}

func (c Curve) MaxSupply() uint64 {
	return c.params.MaxSupply
}

// SpotPrice returns the price of the unit at index s.
func (c Curve) SpotPrice(s uint64) (uint64, error) {
	sq, err := Square(s)
	if err != nil {
		return 0, err
	}
	var curve uint64
	switch c.params.Kind {
	case types.CurveQuadratic:
		curve, err = Div(sq, c.params.CurveFactor)
	case types.CurveSumOfSquares:
		curve, err = MulDiv(sq, types.DiscreteScale, c.params.CurveFactor)
	default:
		return 0, types.ErrInvalidCurveParams.Wrapf("unsupported curve kind %q", c.params.Kind)
	}
	if err != nil {
		return 0, err
	}
	return Add(c.params.BasePrice, curve)
}

// BuyCost returns the curve value of units [s, s+n). The founding unit is free.
func (c Curve) BuyCost(s, n uint64) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	to, err := Add(s, n)
	if err != nil {
		return 0, err
	}
	if to > c.params.MaxSupply {
		return 0, types.ErrSupplyExceedsMax.Wrapf("supply %d + %d exceeds max %d", s, n, c.params.MaxSupply)
	}
	return c.rangeValue(skipFounding(s), to, true)
}

// SellProceeds returns the curve value of units [s-n, s).
func (c Curve) SellProceeds(s, n uint64) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if n > s {
		return 0, types.ErrInsufficientSupply.Wrapf("cannot sell %d of supply %d", n, s)
	}
	return c.rangeValue(skipFounding(s-n), s, false)
}

// MarketCap returns spot price times supply.
func (c Curve) MarketCap(s uint64) (uint64, error) {
	price, err := c.SpotPrice(s)
	if err != nil {
		return 0, err
	}
	return Mul(price, s)
}

// PriceImpact returns |spot(s±n) - spot(s)| scaled by Precision relative to spot(s).
func (c Curve) PriceImpact(s, n uint64, direction types.TradeDirection) (uint64, error) {
	before, err := c.SpotPrice(s)
	if err != nil {
		return 0, err
	}
	var target uint64
	switch direction {
	case types.TradeBuy:
		if target, err = Add(s, n); err != nil {
			return 0, err
		}
		if target > c.params.MaxSupply {
			return 0, types.ErrSupplyExceedsMax.Wrapf("supply %d + %d exceeds max %d", s, n, c.params.MaxSupply)
		}
	case types.TradeSell:
		if target, err = Sub(s, n); err != nil {
			return 0, types.ErrInsufficientSupply.Wrapf("cannot sell %d of supply %d", n, s)
		}
	default:
		return 0, types.ErrInvalidAmount.Wrapf("unknown trade direction %q", direction)
	}
	after, err := c.SpotPrice(target)
	if err != nil {
		return 0, err
	}
	return MulDiv(AbsDiff(after, before), types.Precision, before)
}

// rangeValue prices units [a, b) with a >= 1. Buys round the curve term up, sells down.
func (c Curve) rangeValue(a, b uint64, roundUp bool) (uint64, error) {
	if a >= b {
		return 0, nil
	}
	units, err := Sub(b, a)
	if err != nil {
		return 0, err
	}
	linear, err := Mul(c.params.BasePrice, units)
	if err != nil {
		return 0, err
	}

	var numerator, scale, denominator uint64
	switch c.params.Kind {
	case types.CurveQuadratic:
		// ∫ x²/f dx over [a, b] = (b³ - a³) / 3f
		hi, err := Cube(b)
		if err != nil {
			return 0, err
		}
		lo, err := Cube(a)
		if err != nil {
			return 0, err
		}
		if numerator, err = Sub(hi, lo); err != nil {
			return 0, err
		}
		if denominator, err = Mul(3, c.params.CurveFactor); err != nil {
			return 0, err
		}
		scale = 1
	case types.CurveSumOfSquares:
		// Σ_{i=a}^{b-1} i² · scale / f
		hi, err := SumOfSquares(b - 1)
		if err != nil {
			return 0, err
		}
		lo, err := SumOfSquares(a - 1)
		if err != nil {
			return 0, err
		}
		if numerator, err = Sub(hi, lo); err != nil {
			return 0, err
		}
		scale, denominator = types.DiscreteScale, c.params.CurveFactor
	default:
		return 0, types.ErrInvalidCurveParams.Wrapf("unsupported curve kind %q", c.params.Kind)
	}

	var curve uint64
	if roundUp {
		curve, err = MulDivCeil(numerator, scale, denominator)
	} else {
		curve, err = MulDiv(numerator, scale, denominator)
	}
	if err != nil {
		return 0, err
	}
	return Add(linear, curve)
}

func skipFounding(from uint64) uint64 {
	if from == 0 {
		return 1
	}
	return from
}
