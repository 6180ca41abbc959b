package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solsocial/socialkeys/x/keys/types"
)

func TestGenesisRoundTrip(t *testing.T) {
	f := setupKeeper(t)
	f.tradedAsset(t)
	require.NoError(t, f.keeper.HaltTrading(f.ctx, types.MsgHaltTrading{Authority: authority, Reason: "upgrade"}))

	exported, err := f.keeper.ExportGenesis(f.ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Assets, 1)
	require.Len(t, exported.Holdings, 2)
	require.Len(t, exported.Trades, 3)
	require.Len(t, exported.Engagements, 1)
	require.True(t, exported.HaltState.Active)

	g := setupKeeper(t)
	require.NoError(t, g.keeper.InitGenesis(g.ctx, *exported))

	reexported, err := g.keeper.ExportGenesis(g.ctx)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)

	// Sequences resume after the imported records.
	require.NoError(t, g.keeper.ResumeTrading(g.ctx, authority))
	g.fund(t, bob, 100_000)
	trade, err := g.keeper.Buy(g.ctx, types.MsgBuyKeys{Buyer: bob, AssetID: creator, Amount: 1})
	require.NoError(t, err)
	require.EqualValues(t, 4, trade.ID)
}

func TestDefaultGenesis(t *testing.T) {
	f := setupKeeper(t)
	require.NoError(t, f.keeper.InitGenesis(f.ctx, *types.DefaultGenesis()))

	exported, err := f.keeper.ExportGenesis(f.ctx)
	require.NoError(t, err)
	require.Equal(t, types.DefaultGenesis(), exported)
	require.False(t, f.keeper.IsTradingHalted(f.ctx))
}

func TestInitGenesisRejectsInconsistentState(t *testing.T) {
	f := setupKeeper(t)
	f.tradedAsset(t)
	exported, err := f.keeper.ExportGenesis(f.ctx)
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(gs *types.GenesisState)
	}{
		{"supply mismatch", func(gs *types.GenesisState) { gs.Assets[0].TotalSupply++ }},
		{"empty holding", func(gs *types.GenesisState) { gs.Holdings[0].Balance = 0 }},
		{"orphan holding", func(gs *types.GenesisState) { gs.Holdings[0].AssetID = "ghost" }},
		{"duplicate asset", func(gs *types.GenesisState) { gs.Assets = append(gs.Assets, gs.Assets[0]) }},
		{"bad params", func(gs *types.GenesisState) { gs.Params.TradeFeeBps = types.BpsBase + 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gs := *exported
			gs.Assets = append([]types.Asset(nil), exported.Assets...)
			gs.Holdings = append([]types.Holding(nil), exported.Holdings...)
			tc.mutate(&gs)

			g := setupKeeper(t)
			require.Error(t, g.keeper.InitGenesis(g.ctx, gs))
		})
	}
}
