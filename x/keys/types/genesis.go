package types

import "fmt"

// GenesisState is the exported module state.
type GenesisState struct {
	Params        Params             `json:"params"`
	PlatformState PlatformState      `json:"platform_state"`
	HaltState     HaltState          `json:"halt_state"`
	Assets        []Asset            `json:"assets"`
	Holdings      []Holding          `json:"holdings"`
	Trades        []Trade            `json:"trades"`
	Engagements   []EngagementReward `json:"engagements"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		Assets:      []Asset{},
		Holdings:    []Holding{},
		Trades:      []Trade{},
		Engagements: []EngagementReward{},
	}
}

// Validate performs stateless genesis validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	assets := make(map[string]Asset, len(gs.Assets))
	for i, asset := range gs.Assets {
		if err := requireID("asset id", asset.AssetID); err != nil {
			return fmt.Errorf("invalid asset at index %d: %w", i, err)
		}
		if _, dup := assets[asset.AssetID]; dup {
			return fmt.Errorf("duplicate asset %s", asset.AssetID)
		}
		if err := asset.CurveParams.ValidateBasic(); err != nil {
			return fmt.Errorf("invalid asset %s: %w", asset.AssetID, err)
		}
		if err := asset.FeeConfig.Validate(); err != nil {
			return fmt.Errorf("invalid asset %s: %w", asset.AssetID, err)
		}
		if asset.TotalSupply > asset.CurveParams.MaxSupply {
			return fmt.Errorf("asset %s: %w", asset.AssetID, ErrSupplyExceedsMax)
		}
		assets[asset.AssetID] = asset
	}

	sums := make(map[string]uint64, len(assets))
	seen := make(map[string]struct{}, len(gs.Holdings))
	for i, holding := range gs.Holdings {
		if err := requireID("holder id", holding.HolderID); err != nil {
			return fmt.Errorf("invalid holding at index %d: %w", i, err)
		}
		asset, ok := assets[holding.AssetID]
		if !ok {
			return fmt.Errorf("holding at index %d references unknown asset %s", i, holding.AssetID)
		}
		key := holding.HolderID + "\x00" + holding.AssetID
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate holding %s/%s", holding.HolderID, holding.AssetID)
		}
		seen[key] = struct{}{}
		if holding.Balance == 0 {
			return fmt.Errorf("holding %s/%s has zero balance", holding.HolderID, holding.AssetID)
		}
		if holding.Balance > asset.TotalSupply {
			return fmt.Errorf("holding %s/%s exceeds supply", holding.HolderID, holding.AssetID)
		}
		sums[holding.AssetID] += holding.Balance
	}
	for id, asset := range assets {
		if sums[id] != asset.TotalSupply {
			return fmt.Errorf("asset %s supply %d does not match holdings %d", id, asset.TotalSupply, sums[id])
		}
	}
	return nil
}
