package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/solsocial/socialkeys/x/keys/keeper"
	"github.com/solsocial/socialkeys/x/keys/ledger"
	"github.com/solsocial/socialkeys/x/keys/pricing"
	"github.com/solsocial/socialkeys/x/keys/types"
)

type stateSnapshot struct {
	asset    types.Asset
	holdings []types.Holding
	trades   []types.Trade
	platform types.PlatformState
	balances map[string]uint64
}

func (f fixture) snapshot(t *testing.T) stateSnapshot {
	t.Helper()
	holdings, err := f.keeper.GetAllHoldings(f.ctx)
	require.NoError(t, err)
	trades, err := f.keeper.GetAllTrades(f.ctx)
	require.NoError(t, err)
	platform, err := f.keeper.GetPlatformState(f.ctx)
	require.NoError(t, err)

	balances := make(map[string]uint64)
	for _, account := range []string{creator, alice, bob, f.params.VaultAccount, f.params.PlatformAccount} {
		balances[account] = f.balance(t, account)
	}
	return stateSnapshot{
		asset:    f.asset(t),
		holdings: holdings,
		trades:   trades,
		platform: platform,
		balances: balances,
	}
}

func TestFoundingUnitIsFreeAndReserved(t *testing.T) {
	f := setupKeeper(t)
	f.createAsset(t)
	f.fund(t, alice, 100_000)

	_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 1})
	require.ErrorIs(t, err, types.ErrFoundingUnitReserved)

	trade, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: creator, AssetID: creator, Amount: 1})
	require.NoError(t, err)
	require.Zero(t, trade.GrossPrice)
	require.Zero(t, trade.Fee())
	require.Zero(t, trade.Total)
	require.EqualValues(t, 1, trade.SupplyAfter)
	require.EqualValues(t, 1, trade.ID)

	holding, found, err := f.keeper.GetHolding(f.ctx, creator, creator)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, holding.Balance)

	asset := f.asset(t)
	require.EqualValues(t, 1, asset.TotalSupply)
	require.EqualValues(t, 1, asset.HoldersCount)
	require.Zero(t, asset.UnitReserve)

	cost, err := f.keeper.QuoteBuy(f.ctx, creator, 1)
	require.NoError(t, err)
	require.Greater(t, cost, uint64(0))
}

func TestBuyChargesCurveValueAndFees(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 100_000)

	trade, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 1})
	require.NoError(t, err)
	require.EqualValues(t, 1001, trade.GrossPrice)
	require.EqualValues(t, 5, trade.ProtocolFee)
	require.EqualValues(t, 5, trade.CreatorFee)
	require.EqualValues(t, 90, trade.HolderReward)
	require.Zero(t, trade.ImpactFee)
	require.EqualValues(t, 1101, trade.Total)
	require.EqualValues(t, 2, trade.SupplyAfter)
	require.Equal(t, f.ctx.BlockTime().Unix(), trade.TimestampUnix)

	require.EqualValues(t, 100_000-1101, f.balance(t, alice))
	require.EqualValues(t, 1001+90, f.balance(t, f.params.VaultAccount))
	require.EqualValues(t, 5, f.balance(t, creator))
	require.EqualValues(t, 5, f.balance(t, f.params.PlatformAccount))

	asset := f.asset(t)
	require.EqualValues(t, 2, asset.TotalSupply)
	require.EqualValues(t, 1001, asset.UnitReserve)
	require.EqualValues(t, 2, asset.HoldersCount)
	require.EqualValues(t, 1001, asset.TotalVolume)
	require.EqualValues(t, 5, asset.AccumulatedProtocolFees)
	require.EqualValues(t, 5, asset.AccumulatedCreatorFees)
	require.EqualValues(t, 90, asset.AccumulatedHolderRewards)

	holding, found, err := f.keeper.GetHolding(f.ctx, alice, creator)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, holding.Balance)
	require.EqualValues(t, 1101, holding.TotalSpent)
	require.EqualValues(t, 1001, holding.LastPurchasePrice)
	require.EqualValues(t, 1, holding.PurchaseCount)

	// The incoming buyer does not earn its own holder reward.
	claimable, err := f.keeper.ClaimableRewards(f.ctx, creator, alice)
	require.NoError(t, err)
	require.Zero(t, claimable)
	claimable, err = f.keeper.ClaimableRewards(f.ctx, creator, creator)
	require.NoError(t, err)
	require.EqualValues(t, 90, claimable)

	stored, err := f.keeper.GetTrade(f.ctx, trade.ID)
	require.NoError(t, err)
	require.Equal(t, trade, stored)

	state, err := f.keeper.GetPlatformState(f.ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, state.TotalTrades)
	require.EqualValues(t, 1001, state.TotalVolume)

	var bought bool
	for _, event := range f.ctx.EventManager().Events() {
		bought = bought || event.Type == "keys_bought"
	}
	require.True(t, bought)
}

func TestQuoteMatchesSettlement(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 100_000)

	quote, err := f.keeper.QuoteTrade(f.ctx, creator, types.TradeBuy, 3)
	require.NoError(t, err)
	require.EqualValues(t, 3001, quote.GrossPrice)
	require.EqualValues(t, 300, quote.BaseFee)
	require.EqualValues(t, 3301, quote.Total)

	n, err := f.keeper.QuoteTokensForBudget(f.ctx, creator, 3301)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
	n, err = f.keeper.QuoteTokensForBudget(f.ctx, creator, 3300)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	trade, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 3, MaxCost: quote.Total})
	require.NoError(t, err)
	require.Equal(t, quote.Total, trade.Total)
	require.Equal(t, quote.HolderReward, trade.HolderReward)

	sellQuote, err := f.keeper.QuoteTrade(f.ctx, creator, types.TradeSell, 3)
	require.NoError(t, err)
	require.EqualValues(t, 3000, sellQuote.GrossPrice)
	require.EqualValues(t, 2700, sellQuote.Total)
	require.Less(t, sellQuote.GrossPrice, quote.GrossPrice)

	_, err = f.keeper.QuoteTrade(f.ctx, creator, types.TradeBuy, 0)
	require.ErrorIs(t, err, types.ErrInvalidAmount)
	_, err = f.keeper.QuoteTrade(f.ctx, "nobody", types.TradeBuy, 1)
	require.ErrorIs(t, err, types.ErrAssetNotFound)

	capValue, err := f.keeper.MarketCap(f.ctx, creator)
	require.NoError(t, err)
	require.EqualValues(t, 4000, capValue)
}

func TestSellMoreThanHeldLeavesStateUnchanged(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 100_000)
	_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 3})
	require.NoError(t, err)

	before := f.snapshot(t)

	_, err = f.keeper.Sell(f.ctx, types.MsgSellKeys{Seller: alice, AssetID: creator, Amount: 4})
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	_, err = f.keeper.Sell(f.ctx, types.MsgSellKeys{Seller: bob, AssetID: creator, Amount: 1})
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	require.Equal(t, before, f.snapshot(t))
}

func TestBuyAboveMaxCostLeavesStateUnchanged(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 100_000)

	before := f.snapshot(t)
	ctx := f.ctx.WithEventManager(sdk.NewEventManager())

	_, err := f.keeper.Buy(ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 3, MaxCost: 3300})
	require.ErrorIs(t, err, types.ErrCostExceeded)
	require.True(t, types.IsSlippage(err))
	require.Empty(t, ctx.EventManager().Events())

	require.Equal(t, before, f.snapshot(t))
}

func TestSellBelowMinProceedsIsRejected(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 100_000)
	_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 3})
	require.NoError(t, err)

	before := f.snapshot(t)
	_, err = f.keeper.Sell(f.ctx, types.MsgSellKeys{Seller: alice, AssetID: creator, Amount: 3, MinProceeds: 2701})
	require.ErrorIs(t, err, types.ErrProceedsBelowMinimum)
	require.Equal(t, before, f.snapshot(t))

	trade, err := f.keeper.Sell(f.ctx, types.MsgSellKeys{Seller: alice, AssetID: creator, Amount: 3, MinProceeds: 2700})
	require.NoError(t, err)
	require.EqualValues(t, 2700, trade.Total)
}

func TestBuyValidation(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 100_000_000)

	_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 0})
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: "missing", Amount: 1})
	require.ErrorIs(t, err, types.ErrAssetNotFound)

	_, err = f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 1000})
	require.ErrorIs(t, err, types.ErrSupplyExceedsMax)

	trade, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 999})
	require.NoError(t, err)
	require.EqualValues(t, 1000, trade.SupplyAfter)

	_, err = f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 1})
	require.ErrorIs(t, err, types.ErrSupplyExceedsMax)
	require.True(t, types.IsValidation(err))
}

func TestBuyWithoutFundsFails(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 1100)

	before := f.snapshot(t)
	_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 1})
	require.ErrorIs(t, err, types.ErrTransferFailure)
	require.Equal(t, before, f.snapshot(t))
}

func TestTransferFailureRollsBackTrade(t *testing.T) {
	var failing *failingTransfers
	f := setupKeeperWith(t, func(l ledger.Ledger) types.TransferService {
		failing = &failingTransfers{inner: l}
		return failing
	})
	f.launch(t)
	f.fund(t, alice, 100_000)

	before := f.snapshot(t)
	// The vault leg succeeds inside the cache; the creator leg fails.
	failing.failOn = failing.calls + 2

	_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 3})
	require.ErrorIs(t, err, types.ErrTransferFailure)
	require.Equal(t, "transfer", types.RejectReason(err))
	require.Equal(t, before, f.snapshot(t))

	_, found, err := f.keeper.GetHolding(f.ctx, alice, creator)
	require.NoError(t, err)
	require.False(t, found)

	trade, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 3})
	require.NoError(t, err)
	require.EqualValues(t, 2, trade.ID)
}

func TestCreatorBuyAtZeroSupplyParksHolderReward(t *testing.T) {
	f := setupKeeper(t)
	f.createAsset(t)
	f.fund(t, creator, 10_000)

	trade, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: creator, AssetID: creator, Amount: 3})
	require.NoError(t, err)
	require.EqualValues(t, 2001, trade.GrossPrice)
	require.EqualValues(t, 10, trade.ProtocolFee)
	require.EqualValues(t, 10, trade.CreatorFee)
	require.EqualValues(t, 180, trade.HolderReward)
	require.EqualValues(t, 2201, trade.Total)

	asset := f.asset(t)
	require.EqualValues(t, 180, asset.PendingCreatorRewards)
	require.True(t, asset.RewardIndex().IsZero())

	// The creator fee leg is a self transfer.
	require.EqualValues(t, 10_000-2181-10, f.balance(t, creator))
	require.EqualValues(t, 2181, f.balance(t, f.params.VaultAccount))

	_, err = f.keeper.ClaimCreatorRewards(f.ctx, types.MsgClaimCreatorRewards{Creator: alice})
	require.ErrorIs(t, err, types.ErrAssetNotFound)

	paid, err := f.keeper.ClaimCreatorRewards(f.ctx, types.MsgClaimCreatorRewards{Creator: creator})
	require.NoError(t, err)
	require.EqualValues(t, 180, paid)
	require.EqualValues(t, 10_000-2181-10+180, f.balance(t, creator))
	require.Zero(t, f.asset(t).PendingCreatorRewards)

	paid, err = f.keeper.ClaimCreatorRewards(f.ctx, types.MsgClaimCreatorRewards{Creator: creator})
	require.NoError(t, err)
	require.Zero(t, paid)
}

func TestSellingFoundingUnitIsFree(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)

	trade, err := f.keeper.Sell(f.ctx, types.MsgSellKeys{Seller: creator, AssetID: creator, Amount: 1})
	require.NoError(t, err)
	require.Zero(t, trade.GrossPrice)
	require.Zero(t, trade.Total)

	asset := f.asset(t)
	require.Zero(t, asset.TotalSupply)
	require.Zero(t, asset.HoldersCount)
	_, found, err := f.keeper.GetHolding(f.ctx, creator, creator)
	require.NoError(t, err)
	require.False(t, found)
}

func TestPaddedTraderIDIsRejected(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 100_000)

	before := f.snapshot(t)
	for i := 0; i < 2; i++ {
		_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: " " + alice, AssetID: creator, Amount: 3})
		require.ErrorIs(t, err, types.ErrInvalidAddress)
	}
	_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator + " ", Amount: 1})
	require.ErrorIs(t, err, types.ErrInvalidAddress)
	_, err = f.keeper.Sell(f.ctx, types.MsgSellKeys{Seller: creator + "\t", AssetID: creator, Amount: 1})
	require.ErrorIs(t, err, types.ErrInvalidAddress)
	_, err = f.keeper.ClaimHolderRewards(f.ctx, types.MsgClaimHolderRewards{Holder: " " + creator, AssetID: creator})
	require.ErrorIs(t, err, types.ErrInvalidAddress)
	require.Equal(t, before, f.snapshot(t))

	// Repeated buys under the canonical id accumulate on one holding.
	for _, amount := range []uint64{3, 2} {
		_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: amount})
		require.NoError(t, err)
	}
	holding, found, err := f.keeper.GetHolding(f.ctx, alice, creator)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 5, holding.Balance)
	require.EqualValues(t, 2, holding.PurchaseCount)

	asset := f.asset(t)
	require.EqualValues(t, 6, asset.TotalSupply)
	require.EqualValues(t, 2, asset.HoldersCount)

	msg, broken := keeper.SupplyMatchesHoldingsInvariant(f.keeper)(f.ctx)
	require.False(t, broken, msg)
}

func TestTradeFeeIsSplitNotGrossPrice(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 100_000)

	trade, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 10})
	require.NoError(t, err)

	fee := trade.Fee()
	baseFee, err := pricing.BpsOf(trade.GrossPrice, f.params.TradeFeeBps)
	require.NoError(t, err)
	require.Equal(t, baseFee+trade.ImpactFee, fee)
	require.Equal(t, trade.GrossPrice+fee, trade.Total)

	split, err := pricing.Split(fee, f.asset(t).FeeConfig)
	require.NoError(t, err)
	require.Equal(t, split, pricing.FeeSplit{
		ProtocolFee:  trade.ProtocolFee,
		CreatorFee:   trade.CreatorFee,
		HolderReward: trade.HolderReward,
	})
	require.Less(t, fee, trade.GrossPrice)

	// A full trade fee makes the split apply to the whole curve value.
	params := f.params
	params.TradeFeeBps = types.BpsBase
	require.NoError(t, f.keeper.SetParams(f.ctx, params))

	trade, err = f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 1})
	require.NoError(t, err)
	require.Equal(t, trade.GrossPrice, trade.Fee())
	require.Zero(t, trade.ImpactFee)
	split, err = pricing.Split(trade.GrossPrice, types.DefaultFeeConfig())
	require.NoError(t, err)
	require.Equal(t, split.ProtocolFee, trade.ProtocolFee)
	require.Equal(t, split.CreatorFee, trade.CreatorFee)
	require.Equal(t, split.HolderReward, trade.HolderReward)
	require.Equal(t, 2*trade.GrossPrice, trade.Total)
}

func TestZeroMaxCostIsUnbounded(t *testing.T) {
	f := setupKeeper(t)
	f.launch(t)
	f.fund(t, alice, 100_000)

	quote, err := f.keeper.QuoteTrade(f.ctx, creator, types.TradeBuy, 2)
	require.NoError(t, err)
	require.Positive(t, quote.Total)

	before := f.snapshot(t)
	_, err = f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 2, MaxCost: 1})
	require.ErrorIs(t, err, types.ErrCostExceeded)
	_, err = f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 2, MaxCost: quote.Total - 1})
	require.ErrorIs(t, err, types.ErrCostExceeded)
	require.Equal(t, before, f.snapshot(t))

	trade, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 2, MaxCost: quote.Total})
	require.NoError(t, err)
	require.Equal(t, quote.Total, trade.Total)

	trade, err = f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 2})
	require.NoError(t, err)
	require.Greater(t, trade.Total, quote.Total)
}
