package keeper_test

import (
	"encoding/json"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/solsocial/socialkeys/x/keys/keeper"
	"github.com/solsocial/socialkeys/x/keys/types"
)

type routeRecorder struct {
	routes map[string]sdk.Invariant
}

func (r *routeRecorder) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes[moduleName+"/"+route] = invar
}

func (f fixture) tradedAsset(t *testing.T) {
	t.Helper()
	f.launch(t)
	f.fund(t, alice, 100_000)
	f.fund(t, bob, 100_000)
	_, err := f.keeper.Buy(f.ctx, types.MsgBuyKeys{Buyer: alice, AssetID: creator, Amount: 3})
	require.NoError(t, err)
	_, err = f.keeper.DistributeEngagementReward(f.ctx, types.MsgDistributeEngagementReward{
		Actor: bob, AssetID: creator, Kind: types.EngagementTip, RewardAmount: 5000,
	})
	require.NoError(t, err)
	_, err = f.keeper.Sell(f.ctx, types.MsgSellKeys{Seller: alice, AssetID: creator, Amount: 1})
	require.NoError(t, err)
}

func (f fixture) overwriteAsset(t *testing.T, mutate func(*types.Asset)) {
	t.Helper()
	asset := f.asset(t)
	mutate(&asset)
	raw, err := json.Marshal(asset)
	require.NoError(t, err)
	require.NoError(t, f.keeper.Assets.Set(f.ctx, asset.AssetID, string(raw)))
}

func TestRegisterInvariants(t *testing.T) {
	f := setupKeeper(t)
	recorder := &routeRecorder{routes: map[string]sdk.Invariant{}}
	keeper.RegisterInvariants(recorder, f.keeper)

	require.Len(t, recorder.routes, 4)
	for route, invariant := range recorder.routes {
		msg, broken := invariant(f.ctx)
		require.False(t, broken, "%s: %s", route, msg)
	}
}

func TestInvariantsHoldAfterTrading(t *testing.T) {
	f := setupKeeper(t)
	f.tradedAsset(t)

	msg, broken := keeper.AllInvariants(f.keeper)(f.ctx)
	require.False(t, broken, msg)
}

func TestInvariantsDetectCorruption(t *testing.T) {
	cases := []struct {
		name      string
		invariant func(keeper.Keeper) sdk.Invariant
		corrupt   func(t *testing.T, f fixture)
	}{
		{
			name:      "supply drift",
			invariant: keeper.SupplyMatchesHoldingsInvariant,
			corrupt: func(t *testing.T, f fixture) {
				f.overwriteAsset(t, func(a *types.Asset) { a.TotalSupply++ })
			},
		},
		{
			name:      "holders count drift",
			invariant: keeper.SupplyMatchesHoldingsInvariant,
			corrupt: func(t *testing.T, f fixture) {
				f.overwriteAsset(t, func(a *types.Asset) { a.HoldersCount = 7 })
			},
		},
		{
			name:      "drained reserve",
			invariant: keeper.ReserveCoversSupplyInvariant,
			corrupt: func(t *testing.T, f fixture) {
				f.overwriteAsset(t, func(a *types.Asset) { a.UnitReserve = 0 })
			},
		},
		{
			name:      "fee split over 100%",
			invariant: keeper.AssetConfigInvariant,
			corrupt: func(t *testing.T, f fixture) {
				f.overwriteAsset(t, func(a *types.Asset) { a.FeeConfig.HolderBps = types.BpsBase })
			},
		},
		{
			name:      "platform volume drift",
			invariant: keeper.PlatformTotalsInvariant,
			corrupt: func(t *testing.T, f fixture) {
				state, err := f.keeper.GetPlatformState(f.ctx)
				require.NoError(t, err)
				state.TotalVolume += 10
				raw, err := json.Marshal(state)
				require.NoError(t, err)
				require.NoError(t, f.keeper.Platform.Set(f.ctx, string(raw)))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupKeeper(t)
			f.tradedAsset(t)

			_, broken := tc.invariant(f.keeper)(f.ctx)
			require.False(t, broken)

			tc.corrupt(t, f)
			msg, broken := tc.invariant(f.keeper)(f.ctx)
			require.True(t, broken)
			require.Contains(t, msg, "INVARIANT BROKEN")

			_, broken = keeper.AllInvariants(f.keeper)(f.ctx)
			require.True(t, broken)
		})
	}
}
