package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/solsocial/socialkeys/x/keys/pricing"
	"github.com/solsocial/socialkeys/x/keys/types"
)

// poolHolderReward adds amount to the asset's holder pool. With no supply the
// reward is parked for the creator instead.
func poolHolderReward(asset *types.Asset, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if asset.TotalSupply == 0 {
		pending, err := pricing.Add(asset.PendingCreatorRewards, amount)
		if err != nil {
			return err
		}
		asset.PendingCreatorRewards = pending
		return nil
	}
	accrual, err := pricing.AccrueRewards(asset.RewardIndex(), asset.UndistributedRewards, amount, asset.TotalSupply)
	if err != nil {
		return err
	}
	asset.RewardsPerUnit = accrual.RewardsPerUnit
	asset.UndistributedRewards = accrual.Carried
	return nil
}

// settleHolding moves what the holding earned since its checkpoint into
// UnclaimedRewards and advances the checkpoint. Call before any balance change.
func settleHolding(asset types.Asset, holding *types.Holding) error {
	accrued, err := pricing.AccruedRewards(asset.RewardIndex(), holding.RewardCheckpoint(), holding.Balance)
	if err != nil {
		return err
	}
	if holding.UnclaimedRewards, err = pricing.Add(holding.UnclaimedRewards, accrued); err != nil {
		return err
	}
	holding.LastClaimedRewardsPerUnit = asset.RewardIndex()
	return nil
}

// ClaimableRewards returns what the holder could claim now.
func (k Keeper) ClaimableRewards(ctx context.Context, assetID, holderID string) (uint64, error) {
	asset, err := k.GetAsset(ctx, assetID)
	if err != nil {
		return 0, err
	}
	holding, found, err := k.GetHolding(ctx, holderID, asset.AssetID)
	if err != nil || !found {
		return 0, err
	}
	if err := settleHolding(asset, &holding); err != nil {
		return 0, err
	}
	return holding.UnclaimedRewards, nil
}

// ClaimHolderRewards pays the holder's accrued rewards from the vault and returns
// the amount paid. A holder with nothing accrued is paid zero.
func (k Keeper) ClaimHolderRewards(ctx context.Context, msg types.MsgClaimHolderRewards) (uint64, error) {
	if err := msg.ValidateBasic(); err != nil {
		return 0, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	asset, err := k.GetAsset(ctx, msg.AssetID)
	if err != nil {
		return 0, err
	}
	holding, found, err := k.GetHolding(ctx, msg.Holder, asset.AssetID)
	if err != nil || !found {
		return 0, err
	}
	if err := settleHolding(asset, &holding); err != nil {
		return 0, err
	}
	amount := holding.UnclaimedRewards
	if amount == 0 {
		return 0, nil
	}

	err = k.settle(ctx, func(cacheCtx sdk.Context) error {
		if err := k.transfer(cacheCtx, params.VaultAccount, holding.HolderID, amount); err != nil {
			return err
		}
		holding.UnclaimedRewards = 0
		var err error
		if holding.TotalClaimed, err = pricing.Add(holding.TotalClaimed, amount); err != nil {
			return err
		}
		if err := k.setHolding(cacheCtx, holding); err != nil {
			return err
		}
		emitEventIfPossible(cacheCtx, sdk.NewEvent(
			"keys_rewards_claimed",
			sdk.NewAttribute("asset_id", asset.AssetID),
			sdk.NewAttribute("holder", holding.HolderID),
			sdk.NewAttribute("amount", strconv.FormatUint(amount, 10)),
		))
		return nil
	})
	if err != nil {
		return 0, err
	}

	k.metrics.recordClaim(amount)
	k.Logger(ctx).Info("holder rewards claimed", "asset", asset.AssetID, "holder", holding.HolderID, "amount", amount)
	return amount, nil
}

// ClaimCreatorRewards pays the creator the holder rewards that arrived while the
// asset had no supply.
func (k Keeper) ClaimCreatorRewards(ctx context.Context, msg types.MsgClaimCreatorRewards) (uint64, error) {
	if err := msg.ValidateBasic(); err != nil {
		return 0, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	asset, err := k.GetAsset(ctx, msg.Creator)
	if err != nil {
		return 0, err
	}
	if asset.CreatorID != msg.Creator {
		return 0, types.ErrUnauthorized.Wrapf("%s is not the creator of %s", msg.Creator, asset.AssetID)
	}
	amount := asset.PendingCreatorRewards
	if amount == 0 {
		return 0, nil
	}

	err = k.settle(ctx, func(cacheCtx sdk.Context) error {
		if err := k.transfer(cacheCtx, params.VaultAccount, asset.CreatorID, amount); err != nil {
			return err
		}
		asset.PendingCreatorRewards = 0
		if err := k.setAsset(cacheCtx, asset); err != nil {
			return err
		}
		emitEventIfPossible(cacheCtx, sdk.NewEvent(
			"keys_creator_rewards_claimed",
			sdk.NewAttribute("asset_id", asset.AssetID),
			sdk.NewAttribute("creator", asset.CreatorID),
			sdk.NewAttribute("amount", strconv.FormatUint(amount, 10)),
		))
		return nil
	})
	if err != nil {
		return 0, err
	}

	k.metrics.recordClaim(amount)
	return amount, nil
}
