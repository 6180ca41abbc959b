package keeper

import (
	"context"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/solsocial/socialkeys/x/keys/pricing"
	"github.com/solsocial/socialkeys/x/keys/types"
)

// CreateAsset creates the creator's asset with zero supply and returns its id.
// The curve variant chosen here never changes.
func (k Keeper) CreateAsset(ctx context.Context, msg types.MsgCreateAsset) (string, error) {
	if err := msg.ValidateBasic(); err != nil {
		return "", err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return "", err
	}

	curveParams := params.DefaultCurve
	if msg.CurveParams != nil {
		curveParams = *msg.CurveParams
	}
	if _, err := k.curveFor(curveParams); err != nil {
		return "", err
	}
	feeConfig := params.DefaultFeeConfig
	if msg.FeeConfig != nil {
		feeConfig = *msg.FeeConfig
	}
	if err := feeConfig.Validate(); err != nil {
		return "", err
	}

	assetID := strings.TrimSpace(msg.Creator)
	has, err := k.Assets.Has(ctx, assetID)
	if err != nil {
		return "", err
	}
	if has {
		return "", types.ErrAssetExists.Wrapf("creator %s already has an asset", assetID)
	}

	err = k.settle(ctx, func(cacheCtx sdk.Context) error {
		_, now := contextNow(cacheCtx)
		asset := types.Asset{
			AssetID:        assetID,
			CreatorID:      assetID,
			CurveParams:    curveParams,
			FeeConfig:      feeConfig,
			RewardsPerUnit: sdkmath.ZeroInt(),
			IsActive:       true,
			CreatedAtUnix:  now,
		}
		if err := k.setAsset(cacheCtx, asset); err != nil {
			return err
		}
		state, err := k.GetPlatformState(cacheCtx)
		if err != nil {
			return err
		}
		if state.TotalAssetsCreated, err = pricing.Add(state.TotalAssetsCreated, 1); err != nil {
			return err
		}
		if err := k.setPlatformState(cacheCtx, state); err != nil {
			return err
		}
		emitEventIfPossible(cacheCtx, sdk.NewEvent(
			"keys_asset_created",
			sdk.NewAttribute("asset_id", assetID),
			sdk.NewAttribute("curve_kind", string(curveParams.Kind)),
			sdk.NewAttribute("base_price", strconv.FormatUint(curveParams.BasePrice, 10)),
			sdk.NewAttribute("max_supply", strconv.FormatUint(curveParams.MaxSupply, 10)),
		))
		return nil
	})
	if err != nil {
		return "", err
	}

	k.metrics.recordAssetCreated()
	k.Logger(ctx).Info("asset created", "asset", assetID, "curve", curveParams.Kind)
	return assetID, nil
}

// DeactivateAsset stops trading and engagement on an asset. Holdings and pending
// rewards remain claimable.
func (k Keeper) DeactivateAsset(ctx context.Context, msg types.MsgDeactivateAsset) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if !k.isAuthority(msg.Authority) {
		return types.ErrUnauthorized.Wrap("asset deactivation requires the module authority")
	}
	asset, err := k.GetAsset(ctx, msg.AssetID)
	if err != nil {
		return err
	}
	if !asset.IsActive {
		return nil
	}
	asset.IsActive = false
	if err := k.setAsset(ctx, asset); err != nil {
		return err
	}

	sdkCtx, _ := unwrapSDKContext(ctx)
	emitEventIfPossible(sdkCtx, sdk.NewEvent(
		"keys_asset_deactivated",
		sdk.NewAttribute("asset_id", asset.AssetID),
		sdk.NewAttribute("reason", strings.TrimSpace(msg.Reason)),
	))
	k.Logger(ctx).Info("asset deactivated", "asset", asset.AssetID, "reason", msg.Reason)
	return nil
}
