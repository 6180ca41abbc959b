package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/solsocial/socialkeys/x/keys/pricing"
	"github.com/solsocial/socialkeys/x/keys/types"
)

// tradeRequest is a validated trade: every record it touches has been loaded and
// every stateless and stateful precondition holds.
type tradeRequest struct {
	direction  types.TradeDirection
	trader     string
	amount     uint64
	bound      uint64
	params     types.Params
	asset      types.Asset
	curve      pricing.Curve
	holding    types.Holding
	hasHolding bool
}

// pricedTrade is a validated trade with its curve value and fee split.
type pricedTrade struct {
	tradeRequest
	quote types.Quote
}

// Buy mints amount units of an asset to the buyer.
func (k Keeper) Buy(ctx context.Context, msg types.MsgBuyKeys) (types.Trade, error) {
	trade, err := k.executeTrade(ctx, types.TradeBuy, msg.Buyer, msg.AssetID, msg.Amount, msg.MaxCost, msg.ValidateBasic)
	if err != nil {
		k.metrics.recordRejection(types.TradeBuy, err)
		k.Logger(ctx).Debug("buy rejected", "asset", msg.AssetID, "buyer", msg.Buyer, "amount", msg.Amount, "err", err)
	}
	return trade, err
}

// Sell burns amount units of an asset from the seller.
func (k Keeper) Sell(ctx context.Context, msg types.MsgSellKeys) (types.Trade, error) {
	trade, err := k.executeTrade(ctx, types.TradeSell, msg.Seller, msg.AssetID, msg.Amount, msg.MinProceeds, msg.ValidateBasic)
	if err != nil {
		k.metrics.recordRejection(types.TradeSell, err)
		k.Logger(ctx).Debug("sell rejected", "asset", msg.AssetID, "seller", msg.Seller, "amount", msg.Amount, "err", err)
	}
	return trade, err
}

func (k Keeper) executeTrade(
	ctx context.Context,
	direction types.TradeDirection,
	trader, assetID string,
	amount, bound uint64,
	validateBasic func() error,
) (types.Trade, error) {
	if err := validateBasic(); err != nil {
		return types.Trade{}, err
	}
	req, err := k.validateTrade(ctx, direction, trader, assetID, amount, bound)
	if err != nil {
		return types.Trade{}, err
	}
	priced, err := priceTrade(req)
	if err != nil {
		return types.Trade{}, err
	}
	if err := priced.checkSlippage(); err != nil {
		return types.Trade{}, err
	}

	var trade types.Trade
	err = k.settle(ctx, func(cacheCtx sdk.Context) error {
		var err error
		trade, err = k.settleTrade(cacheCtx, priced)
		return err
	})
	if err != nil {
		return types.Trade{}, err
	}

	k.metrics.recordTrade(trade)
	k.Logger(ctx).Info("trade settled",
		"id", trade.ID,
		"asset", trade.AssetID,
		"direction", trade.Direction,
		"amount", trade.Amount,
		"gross", trade.GrossPrice,
		"supply_after", trade.SupplyAfter,
	)
	return trade, nil
}

func (k Keeper) validateTrade(
	ctx context.Context,
	direction types.TradeDirection,
	trader, assetID string,
	amount, bound uint64,
) (tradeRequest, error) {
	if amount == 0 {
		return tradeRequest{}, types.ErrInvalidAmount.Wrap("amount must be positive")
	}
	if k.IsTradingHalted(ctx) {
		return tradeRequest{}, types.ErrTradingHalted
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return tradeRequest{}, err
	}
	asset, err := k.GetAsset(ctx, assetID)
	if err != nil {
		return tradeRequest{}, err
	}
	if !asset.IsActive {
		return tradeRequest{}, types.ErrAssetInactive.Wrapf("asset %s", asset.AssetID)
	}
	curve, err := k.curveFor(asset.CurveParams)
	if err != nil {
		return tradeRequest{}, err
	}
	holding, hasHolding, err := k.GetHolding(ctx, trader, asset.AssetID)
	if err != nil {
		return tradeRequest{}, err
	}

	switch direction {
	case types.TradeBuy:
		after, err := pricing.Add(asset.TotalSupply, amount)
		if err != nil {
			return tradeRequest{}, err
		}
		if after > asset.CurveParams.MaxSupply {
			return tradeRequest{}, types.ErrSupplyExceedsMax.Wrapf(
				"supply %d + %d exceeds max %d", asset.TotalSupply, amount, asset.CurveParams.MaxSupply)
		}
		if asset.TotalSupply == 0 && trader != asset.CreatorID {
			return tradeRequest{}, types.ErrFoundingUnitReserved.Wrapf("asset %s", asset.AssetID)
		}
	case types.TradeSell:
		if !hasHolding || holding.Balance < amount {
			return tradeRequest{}, types.ErrInsufficientBalance.Wrapf(
				"%s holds %d of %s, cannot sell %d", trader, holding.Balance, asset.AssetID, amount)
		}
		if amount > asset.TotalSupply {
			return tradeRequest{}, types.ErrInsufficientSupply.Wrapf(
				"cannot sell %d of supply %d", amount, asset.TotalSupply)
		}
	default:
		return tradeRequest{}, types.ErrInvalidAmount.Wrapf("unknown trade direction %q", direction)
	}

	return tradeRequest{
		direction:  direction,
		trader:     trader,
		amount:     amount,
		bound:      bound,
		params:     params,
		asset:      asset,
		curve:      curve,
		holding:    holding,
		hasHolding: hasHolding,
	}, nil
}

func priceTrade(req tradeRequest) (pricedTrade, error) {
	quote, err := quoteTrade(req.curve, req.asset, req.params, req.direction, req.amount)
	if err != nil {
		return pricedTrade{}, err
	}
	if req.direction == types.TradeSell && quote.GrossPrice > req.asset.UnitReserve {
		return pricedTrade{}, types.ErrInsufficientReserve.Wrapf(
			"proceeds %d exceed reserve %d", quote.GrossPrice, req.asset.UnitReserve)
	}
	return pricedTrade{tradeRequest: req, quote: quote}, nil
}

// quoteTrade prices amount units against the asset's current supply. A zero
// price is only accepted for the founding unit.
func quoteTrade(
	curve pricing.Curve,
	asset types.Asset,
	params types.Params,
	direction types.TradeDirection,
	amount uint64,
) (types.Quote, error) {
	supply := asset.TotalSupply
	var (
		gross, supplyAfter uint64
		foundingOnly       bool
		err                error
	)
	switch direction {
	case types.TradeBuy:
		if gross, err = curve.BuyCost(supply, amount); err != nil {
			return types.Quote{}, err
		}
		supplyAfter = supply + amount
		foundingOnly = supply == 0 && amount == 1
	case types.TradeSell:
		if gross, err = curve.SellProceeds(supply, amount); err != nil {
			return types.Quote{}, err
		}
		supplyAfter = supply - amount
		foundingOnly = supply == 1 && amount == 1
	default:
		return types.Quote{}, types.ErrInvalidAmount.Wrapf("unknown trade direction %q", direction)
	}
	if gross == 0 && !foundingOnly {
		return types.Quote{}, types.ErrInvalidAmount.Wrapf("%s of %d units prices at zero", direction, amount)
	}

	impact, err := curve.PriceImpact(supply, amount, direction)
	if err != nil {
		return types.Quote{}, err
	}
	fee, err := pricing.ComputeTradeFee(gross, impact, params.TradeFeeBps)
	if err != nil {
		return types.Quote{}, err
	}
	split, err := pricing.Split(fee.Total(), asset.FeeConfig)
	if err != nil {
		return types.Quote{}, err
	}

	var total uint64
	if direction == types.TradeBuy {
		total, err = pricing.Add(gross, fee.Total())
	} else {
		total, err = pricing.Sub(gross, fee.Total())
	}
	if err != nil {
		return types.Quote{}, err
	}

	return types.Quote{
		Direction:    direction,
		Amount:       amount,
		GrossPrice:   gross,
		PriceImpact:  impact,
		BaseFee:      fee.BaseFee,
		ImpactFee:    fee.ImpactFee,
		ProtocolFee:  split.ProtocolFee,
		CreatorFee:   split.CreatorFee,
		HolderReward: split.HolderReward,
		Total:        total,
		SupplyAfter:  supplyAfter,
	}, nil
}

func (p pricedTrade) checkSlippage() error {
	switch p.direction {
	case types.TradeBuy:
		if p.bound > 0 && p.quote.Total > p.bound {
			return types.ErrCostExceeded.Wrapf("cost %d exceeds max cost %d", p.quote.Total, p.bound)
		}
	case types.TradeSell:
		if p.quote.Total < p.bound {
			return types.ErrProceedsBelowMinimum.Wrapf("proceeds %d below minimum %d", p.quote.Total, p.bound)
		}
	}
	return nil
}

// settleTrade applies a priced trade. It must run inside a cached context.
func (k Keeper) settleTrade(ctx sdk.Context, p pricedTrade) (types.Trade, error) {
	_, now := contextNow(ctx)
	asset, holding, q := p.asset, p.holding, p.quote
	params := p.params

	if err := k.moveTradeFunds(ctx, p); err != nil {
		return types.Trade{}, err
	}

	var err error
	switch p.direction {
	case types.TradeBuy:
		// Existing holders, not the incoming units, earn this trade's holder reward.
		if err = poolHolderReward(&asset, q.HolderReward); err != nil {
			return types.Trade{}, err
		}
		if err = settleHolding(asset, &holding); err != nil {
			return types.Trade{}, err
		}
		if !p.hasHolding {
			holding = types.Holding{
				HolderID:                  p.trader,
				AssetID:                   asset.AssetID,
				LastClaimedRewardsPerUnit: asset.RewardIndex(),
				FirstAcquiredAtUnix:       now,
			}
			if asset.HoldersCount, err = pricing.Add(asset.HoldersCount, 1); err != nil {
				return types.Trade{}, err
			}
		}
		if holding.Balance, err = pricing.Add(holding.Balance, p.amount); err != nil {
			return types.Trade{}, err
		}
		if holding.TotalSpent, err = pricing.Add(holding.TotalSpent, q.Total); err != nil {
			return types.Trade{}, err
		}
		if holding.PurchaseCount, err = pricing.Add(holding.PurchaseCount, 1); err != nil {
			return types.Trade{}, err
		}
		holding.LastPurchasePrice = q.GrossPrice
		if asset.TotalSupply, err = pricing.Add(asset.TotalSupply, p.amount); err != nil {
			return types.Trade{}, err
		}
		if asset.UnitReserve, err = pricing.Add(asset.UnitReserve, q.GrossPrice); err != nil {
			return types.Trade{}, err
		}

	case types.TradeSell:
		if err = settleHolding(asset, &holding); err != nil {
			return types.Trade{}, err
		}
		if holding.Balance, err = pricing.Sub(holding.Balance, p.amount); err != nil {
			return types.Trade{}, types.ErrInsufficientBalance.Wrap(err.Error())
		}
		if holding.TotalEarned, err = pricing.Add(holding.TotalEarned, q.Total); err != nil {
			return types.Trade{}, err
		}
		if holding.SaleCount, err = pricing.Add(holding.SaleCount, 1); err != nil {
			return types.Trade{}, err
		}
		if asset.TotalSupply, err = pricing.Sub(asset.TotalSupply, p.amount); err != nil {
			return types.Trade{}, types.ErrInsufficientSupply.Wrap(err.Error())
		}
		if asset.UnitReserve, err = pricing.Sub(asset.UnitReserve, q.GrossPrice); err != nil {
			return types.Trade{}, types.ErrInsufficientReserve.Wrap(err.Error())
		}
		// Remaining holders, including the seller's leftover units, earn the reward.
		if err = poolHolderReward(&asset, q.HolderReward); err != nil {
			return types.Trade{}, err
		}
	}
	holding.LastTradeAtUnix = now

	if err := accumulateFees(&asset, q.ProtocolFee, q.CreatorFee, q.HolderReward); err != nil {
		return types.Trade{}, err
	}
	if asset.TotalVolume, err = pricing.Add(asset.TotalVolume, q.GrossPrice); err != nil {
		return types.Trade{}, err
	}

	if holding.Balance == 0 {
		if err := k.closeHolding(ctx, params, &asset, holding); err != nil {
			return types.Trade{}, err
		}
	} else if err := k.setHolding(ctx, holding); err != nil {
		return types.Trade{}, err
	}
	if err := k.setAsset(ctx, asset); err != nil {
		return types.Trade{}, err
	}
	if err := k.recordPlatformTrade(ctx, q); err != nil {
		return types.Trade{}, err
	}

	trade, err := k.appendTrade(ctx, types.Trade{
		TraderID:      p.trader,
		AssetID:       asset.AssetID,
		Direction:     p.direction,
		Amount:        p.amount,
		GrossPrice:    q.GrossPrice,
		ProtocolFee:   q.ProtocolFee,
		CreatorFee:    q.CreatorFee,
		HolderReward:  q.HolderReward,
		ImpactFee:     q.ImpactFee,
		PriceImpact:   q.PriceImpact,
		Total:         q.Total,
		SupplyAfter:   asset.TotalSupply,
		TimestampUnix: now,
	})
	if err != nil {
		return types.Trade{}, err
	}

	eventType := "keys_bought"
	if p.direction == types.TradeSell {
		eventType = "keys_sold"
	}
	emitEventIfPossible(ctx, sdk.NewEvent(
		eventType,
		sdk.NewAttribute("trade_id", strconv.FormatUint(trade.ID, 10)),
		sdk.NewAttribute("asset_id", trade.AssetID),
		sdk.NewAttribute("trader", trade.TraderID),
		sdk.NewAttribute("amount", strconv.FormatUint(trade.Amount, 10)),
		sdk.NewAttribute("gross_price", strconv.FormatUint(trade.GrossPrice, 10)),
		sdk.NewAttribute("protocol_fee", strconv.FormatUint(trade.ProtocolFee, 10)),
		sdk.NewAttribute("creator_fee", strconv.FormatUint(trade.CreatorFee, 10)),
		sdk.NewAttribute("holder_reward", strconv.FormatUint(trade.HolderReward, 10)),
		sdk.NewAttribute("total", strconv.FormatUint(trade.Total, 10)),
		sdk.NewAttribute("supply_after", strconv.FormatUint(trade.SupplyAfter, 10)),
	))
	return trade, nil
}

// moveTradeFunds settles value with the transfer service. Buys pay the curve value
// and holder reward into the vault; sells pay out of it. The holder reward of a sell
// stays in the vault for claims.
func (k Keeper) moveTradeFunds(ctx context.Context, p pricedTrade) error {
	q := p.quote
	vault, platform, creator := p.params.VaultAccount, p.params.PlatformAccount, p.asset.CreatorID

	if p.direction == types.TradeBuy {
		intoVault, err := pricing.Add(q.GrossPrice, q.HolderReward)
		if err != nil {
			return err
		}
		if err := k.transfer(ctx, p.trader, vault, intoVault); err != nil {
			return err
		}
		if err := k.transfer(ctx, p.trader, creator, q.CreatorFee); err != nil {
			return err
		}
		return k.transfer(ctx, p.trader, platform, q.ProtocolFee)
	}

	if err := k.transfer(ctx, vault, p.trader, q.Total); err != nil {
		return err
	}
	if err := k.transfer(ctx, vault, creator, q.CreatorFee); err != nil {
		return err
	}
	return k.transfer(ctx, vault, platform, q.ProtocolFee)
}

// closeHolding pays out any unclaimed reward and deletes an emptied holding.
func (k Keeper) closeHolding(ctx sdk.Context, params types.Params, asset *types.Asset, holding types.Holding) error {
	if holding.UnclaimedRewards > 0 {
		if err := k.transfer(ctx, params.VaultAccount, holding.HolderID, holding.UnclaimedRewards); err != nil {
			return err
		}
		k.metrics.recordClaim(holding.UnclaimedRewards)
	}
	if asset.HoldersCount > 0 {
		asset.HoldersCount--
	}
	return k.removeHolding(ctx, holding)
}

func accumulateFees(asset *types.Asset, protocolFee, creatorFee, holderReward uint64) error {
	var err error
	if asset.AccumulatedProtocolFees, err = pricing.Add(asset.AccumulatedProtocolFees, protocolFee); err != nil {
		return err
	}
	if asset.AccumulatedCreatorFees, err = pricing.Add(asset.AccumulatedCreatorFees, creatorFee); err != nil {
		return err
	}
	asset.AccumulatedHolderRewards, err = pricing.Add(asset.AccumulatedHolderRewards, holderReward)
	return err
}

func (k Keeper) recordPlatformTrade(ctx context.Context, q types.Quote) error {
	state, err := k.GetPlatformState(ctx)
	if err != nil {
		return err
	}
	if state.TotalTrades, err = pricing.Add(state.TotalTrades, 1); err != nil {
		return err
	}
	if state.TotalVolume, err = pricing.Add(state.TotalVolume, q.GrossPrice); err != nil {
		return err
	}
	if err := addPlatformFees(&state, q.ProtocolFee, q.CreatorFee, q.HolderReward); err != nil {
		return err
	}
	return k.setPlatformState(ctx, state)
}

func addPlatformFees(state *types.PlatformState, protocolFee, creatorFee, holderReward uint64) error {
	var err error
	if state.TotalProtocolFees, err = pricing.Add(state.TotalProtocolFees, protocolFee); err != nil {
		return err
	}
	if state.TotalCreatorFees, err = pricing.Add(state.TotalCreatorFees, creatorFee); err != nil {
		return err
	}
	state.TotalHolderRewards, err = pricing.Add(state.TotalHolderRewards, holderReward)
	return err
}
