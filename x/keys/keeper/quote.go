package keeper

import (
	"context"

	"github.com/solsocial/socialkeys/x/keys/pricing"
	"github.com/solsocial/socialkeys/x/keys/types"
)

// curveFor validates params once per distinct curve. Curve params of an asset
// never change, so cached curves stay valid.
func (k Keeper) curveFor(params types.CurveParams) (pricing.Curve, error) {
	if k.curves != nil {
		if curve, ok := k.curves.Get(params); ok {
			return curve, nil
		}
	}
	curve, err := pricing.NewCurve(params)
	if err != nil {
		return pricing.Curve{}, err
	}
	if k.curves != nil {
		k.curves.Add(params, curve)
	}
	return curve, nil
}

func (k Keeper) assetCurve(ctx context.Context, assetID string) (types.Asset, pricing.Curve, error) {
	asset, err := k.GetAsset(ctx, assetID)
	if err != nil {
		return types.Asset{}, pricing.Curve{}, err
	}
	curve, err := k.curveFor(asset.CurveParams)
	if err != nil {
		return types.Asset{}, pricing.Curve{}, err
	}
	return asset, curve, nil
}

// QuoteBuy returns the curve value of buying amount units at the current supply.
func (k Keeper) QuoteBuy(ctx context.Context, assetID string, amount uint64) (uint64, error) {
	asset, curve, err := k.assetCurve(ctx, assetID)
	if err != nil {
		return 0, err
	}
	return curve.BuyCost(asset.TotalSupply, amount)
}

// QuoteSell returns the curve value of selling amount units at the current supply.
func (k Keeper) QuoteSell(ctx context.Context, assetID string, amount uint64) (uint64, error) {
	asset, curve, err := k.assetCurve(ctx, assetID)
	if err != nil {
		return 0, err
	}
	return curve.SellProceeds(asset.TotalSupply, amount)
}

// QuoteTrade prices a trade including fees without touching state.
func (k Keeper) QuoteTrade(ctx context.Context, assetID string, direction types.TradeDirection, amount uint64) (types.Quote, error) {
	if amount == 0 {
		return types.Quote{}, types.ErrInvalidAmount.Wrap("amount must be positive")
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Quote{}, err
	}
	asset, curve, err := k.assetCurve(ctx, assetID)
	if err != nil {
		return types.Quote{}, err
	}
	return quoteTrade(curve, asset, params, direction, amount)
}

// QuoteTokensForBudget returns the most units a buyer can get for budget, fees included.
func (k Keeper) QuoteTokensForBudget(ctx context.Context, assetID string, budget uint64) (uint64, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	asset, curve, err := k.assetCurve(ctx, assetID)
	if err != nil {
		return 0, err
	}
	if asset.TotalSupply >= curve.MaxSupply() {
		return 0, nil
	}
	n, _ := pricing.MaxAffordable(curve.MaxSupply()-asset.TotalSupply, budget, func(n uint64) (uint64, error) {
		if n == 0 {
			return 0, nil
		}
		quote, err := quoteTrade(curve, asset, params, types.TradeBuy, n)
		if err != nil {
			return 0, err
		}
		return quote.Total, nil
	})
	return n, nil
}

// SpotPrice returns the price of the next unit.
func (k Keeper) SpotPrice(ctx context.Context, assetID string) (uint64, error) {
	asset, curve, err := k.assetCurve(ctx, assetID)
	if err != nil {
		return 0, err
	}
	return curve.SpotPrice(asset.TotalSupply)
}

// MarketCap returns spot price times supply.
func (k Keeper) MarketCap(ctx context.Context, assetID string) (uint64, error) {
	asset, curve, err := k.assetCurve(ctx, assetID)
	if err != nil {
		return 0, err
	}
	return curve.MarketCap(asset.TotalSupply)
}
