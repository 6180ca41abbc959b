package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/solsocial/socialkeys/x/keys/types"
)

// RegisterInvariants registers all module invariants with the invariant registry.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "supply-matches-holdings", SupplyMatchesHoldingsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "reserve-covers-supply", ReserveCoversSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "asset-config", AssetConfigInvariant(k))
	ir.RegisterRoute(types.ModuleName, "platform-totals", PlatformTotalsInvariant(k))
}

// AllInvariants runs all invariants of the keys module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		invariants := []sdk.Invariant{
			SupplyMatchesHoldingsInvariant(k),
			ReserveCoversSupplyInvariant(k),
			AssetConfigInvariant(k),
			PlatformTotalsInvariant(k),
		}

		for _, inv := range invariants {
			if msg, broken := inv(ctx); broken {
				return msg, broken
			}
		}
		return "", false
	}
}

// SupplyMatchesHoldingsInvariant checks that every asset's supply equals the sum of
// its holdings and that no holding is empty or larger than supply.
func SupplyMatchesHoldingsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		assets, err := k.GetAllAssets(ctx)
		if err != nil {
			return fmt.Sprintf("INVARIANT BROKEN: cannot load assets: %v\n", err), true
		}
		holdings, err := k.GetAllHoldings(ctx)
		if err != nil {
			return fmt.Sprintf("INVARIANT BROKEN: cannot load holdings: %v\n", err), true
		}

		supply := make(map[string]uint64, len(assets))
		sums := make(map[string]sdkmath.Int, len(assets))
		counts := make(map[string]uint64, len(assets))
		for _, asset := range assets {
			supply[asset.AssetID] = asset.TotalSupply
			sums[asset.AssetID] = sdkmath.ZeroInt()
		}
		for _, holding := range holdings {
			total, ok := supply[holding.AssetID]
			if !ok {
				msg += fmt.Sprintf("INVARIANT BROKEN: holding %s/%s references unknown asset\n", holding.HolderID, holding.AssetID)
				broken = true
				continue
			}
			if holding.Balance == 0 {
				msg += fmt.Sprintf("INVARIANT BROKEN: holding %s/%s has zero balance\n", holding.HolderID, holding.AssetID)
				broken = true
			}
			if holding.Balance > total {
				msg += fmt.Sprintf("INVARIANT BROKEN: holding %s/%s balance %d exceeds supply %d\n",
					holding.HolderID, holding.AssetID, holding.Balance, total)
				broken = true
			}
			sums[holding.AssetID] = sums[holding.AssetID].Add(sdkmath.NewIntFromUint64(holding.Balance))
			counts[holding.AssetID]++
		}
		for _, asset := range assets {
			if !sums[asset.AssetID].Equal(sdkmath.NewIntFromUint64(asset.TotalSupply)) {
				msg += fmt.Sprintf("INVARIANT BROKEN: asset %s supply %d but holdings sum to %s\n",
					asset.AssetID, asset.TotalSupply, sums[asset.AssetID])
				broken = true
			}
			if counts[asset.AssetID] != asset.HoldersCount {
				msg += fmt.Sprintf("INVARIANT BROKEN: asset %s counts %d holders but has %d holdings\n",
					asset.AssetID, asset.HoldersCount, counts[asset.AssetID])
				broken = true
			}
		}
		return msg, broken
	}
}

// ReserveCoversSupplyInvariant checks that each asset's reserve can buy back its
// whole supply along the curve.
func ReserveCoversSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		assets, err := k.GetAllAssets(ctx)
		if err != nil {
			return fmt.Sprintf("INVARIANT BROKEN: cannot load assets: %v\n", err), true
		}
		for _, asset := range assets {
			curve, err := k.curveFor(asset.CurveParams)
			if err != nil {
				msg += fmt.Sprintf("INVARIANT BROKEN: asset %s has invalid curve: %v\n", asset.AssetID, err)
				broken = true
				continue
			}
			buyback, err := curve.SellProceeds(asset.TotalSupply, asset.TotalSupply)
			if err != nil {
				msg += fmt.Sprintf("INVARIANT BROKEN: asset %s cannot price buyback: %v\n", asset.AssetID, err)
				broken = true
				continue
			}
			if asset.UnitReserve < buyback {
				msg += fmt.Sprintf("INVARIANT BROKEN: asset %s reserve %d below buyback value %d\n",
					asset.AssetID, asset.UnitReserve, buyback)
				broken = true
			}
		}
		return msg, broken
	}
}

// AssetConfigInvariant checks fee splits and supply bounds of every asset.
func AssetConfigInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		assets, err := k.GetAllAssets(ctx)
		if err != nil {
			return fmt.Sprintf("INVARIANT BROKEN: cannot load assets: %v\n", err), true
		}
		for _, asset := range assets {
			if err := asset.FeeConfig.Validate(); err != nil {
				msg += fmt.Sprintf("INVARIANT BROKEN: asset %s fee config: %v\n", asset.AssetID, err)
				broken = true
			}
			if asset.TotalSupply > asset.CurveParams.MaxSupply {
				msg += fmt.Sprintf("INVARIANT BROKEN: asset %s supply %d exceeds max %d\n",
					asset.AssetID, asset.TotalSupply, asset.CurveParams.MaxSupply)
				broken = true
			}
		}
		return msg, broken
	}
}

// PlatformTotalsInvariant checks that platform totals equal the sum over assets.
func PlatformTotalsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		assets, err := k.GetAllAssets(ctx)
		if err != nil {
			return fmt.Sprintf("INVARIANT BROKEN: cannot load assets: %v\n", err), true
		}
		state, err := k.GetPlatformState(ctx)
		if err != nil {
			return fmt.Sprintf("INVARIANT BROKEN: cannot load platform state: %v\n", err), true
		}

		volume, protocol, creator, holders := sdkmath.ZeroInt(), sdkmath.ZeroInt(), sdkmath.ZeroInt(), sdkmath.ZeroInt()
		for _, asset := range assets {
			volume = volume.Add(sdkmath.NewIntFromUint64(asset.TotalVolume))
			protocol = protocol.Add(sdkmath.NewIntFromUint64(asset.AccumulatedProtocolFees))
			creator = creator.Add(sdkmath.NewIntFromUint64(asset.AccumulatedCreatorFees))
			holders = holders.Add(sdkmath.NewIntFromUint64(asset.AccumulatedHolderRewards))
		}

		var msg string
		broken := false
		check := func(name string, want sdkmath.Int, got uint64) {
			if !want.Equal(sdkmath.NewIntFromUint64(got)) {
				msg += fmt.Sprintf("INVARIANT BROKEN: platform %s %d but assets sum to %s\n", name, got, want)
				broken = true
			}
		}
		check("volume", volume, state.TotalVolume)
		check("protocol fees", protocol, state.TotalProtocolFees)
		check("creator fees", creator, state.TotalCreatorFees)
		check("holder rewards", holders, state.TotalHolderRewards)
		if uint64(len(assets)) != state.TotalAssetsCreated {
			msg += fmt.Sprintf("INVARIANT BROKEN: platform counts %d assets but %d exist\n", state.TotalAssetsCreated, len(assets))
			broken = true
		}
		return msg, broken
	}
}
