package keeper_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/solsocial/socialkeys/x/keys/keeper"
	"github.com/solsocial/socialkeys/x/keys/types"
)

func TestMetricsRecordKeeperActivity(t *testing.T) {
	f := setupKeeper(t)
	reg := prometheus.NewRegistry()
	metrics, err := keeper.NewMetrics(reg)
	require.NoError(t, err)
	f.keeper.SetMetrics(metrics)

	f.launch(t)
	f.fund(t, alice, 100_000)
	f.fund(t, bob, 100_000)

	_, err = f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 3})
	require.NoError(t, err)
	_, err = f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 1, MaxCost: 1})
	require.ErrorIs(t, err, types.ErrCostExceeded)
	_, err = f.keeper.Sell(f.ctx, types.MsgSellKeys{Seller: bob, AssetID: creator, Amount: 1})
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	_, err = f.keeper.DistributeEngagementReward(f.ctx, types.MsgDistributeEngagementReward{
		Actor: bob, AssetID: creator, Kind: types.EngagementComment,
	})
	require.NoError(t, err)
	_, err = f.keeper.ClaimHolderRewards(f.ctx, types.MsgClaimHolderRewards{Holder: creator, AssetID: creator})
	require.NoError(t, err)

	require.EqualValues(t, 1, testutil.ToFloat64(metrics.AssetsCreated))
	require.EqualValues(t, 2, testutil.ToFloat64(metrics.TradesSettled.WithLabelValues("buy")))
	require.EqualValues(t, 3001, testutil.ToFloat64(metrics.TradeVolume.WithLabelValues("buy")))
	require.EqualValues(t, 1, testutil.ToFloat64(metrics.TradesRejected.WithLabelValues("buy", "slippage")))
	require.EqualValues(t, 1, testutil.ToFloat64(metrics.TradesRejected.WithLabelValues("sell", "validation")))
	require.EqualValues(t, 2000, testutil.ToFloat64(metrics.RewardsDistributed))
	require.EqualValues(t, 270+1800, testutil.ToFloat64(metrics.FeesCollected.WithLabelValues("holders")))
	// The creator held every unit before the buy and a quarter of supply during the comment.
	require.EqualValues(t, 270+450, testutil.ToFloat64(metrics.RewardsClaimed))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Positive(t, count)
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := keeper.NewMetrics(reg)
	require.NoError(t, err)
	_, err = keeper.NewMetrics(reg)
	require.Error(t, err)
}
