package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/solsocial/socialkeys/x/keys/types"
)

// InitGenesis loads module state from genesis.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}
	if err := k.setPlatformState(ctx, gs.PlatformState); err != nil {
		return err
	}
	if err := k.setHaltState(ctx, gs.HaltState); err != nil {
		return err
	}
	for _, asset := range gs.Assets {
		if err := k.setAsset(ctx, asset); err != nil {
			return fmt.Errorf("import asset %s: %w", asset.AssetID, err)
		}
	}
	for _, holding := range gs.Holdings {
		if err := k.setHolding(ctx, holding); err != nil {
			return fmt.Errorf("import holding %s/%s: %w", holding.HolderID, holding.AssetID, err)
		}
	}

	var lastTrade uint64
	for _, trade := range gs.Trades {
		raw, err := json.Marshal(trade)
		if err != nil {
			return err
		}
		if err := k.Trades.Set(ctx, trade.ID, string(raw)); err != nil {
			return err
		}
		lastTrade = max(lastTrade, trade.ID)
	}
	if err := k.TradeCount.Set(ctx, lastTrade); err != nil {
		return err
	}

	var lastEngagement uint64
	for _, record := range gs.Engagements {
		raw, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if err := k.Engagements.Set(ctx, record.ID, string(raw)); err != nil {
			return err
		}
		lastEngagement = max(lastEngagement, record.ID)
	}
	return k.EngagementCount.Set(ctx, lastEngagement)
}

// ExportGenesis returns the module state.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	platform, err := k.GetPlatformState(ctx)
	if err != nil {
		return nil, err
	}
	halt, err := k.GetHaltState(ctx)
	if err != nil {
		return nil, err
	}
	assets, err := k.GetAllAssets(ctx)
	if err != nil {
		return nil, err
	}
	holdings, err := k.GetAllHoldings(ctx)
	if err != nil {
		return nil, err
	}
	trades, err := k.GetAllTrades(ctx)
	if err != nil {
		return nil, err
	}
	engagements, err := k.GetAllEngagements(ctx)
	if err != nil {
		return nil, err
	}

	gs := types.DefaultGenesis()
	gs.Params = params
	gs.PlatformState = platform
	gs.HaltState = halt
	gs.Assets = append(gs.Assets, assets...)
	gs.Holdings = append(gs.Holdings, holdings...)
	gs.Trades = append(gs.Trades, trades...)
	gs.Engagements = append(gs.Engagements, engagements...)
	return gs, nil
}
