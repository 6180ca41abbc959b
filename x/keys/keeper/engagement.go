package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/solsocial/socialkeys/x/keys/pricing"
	"github.com/solsocial/socialkeys/x/keys/types"
)

// DistributeEngagementReward charges the actor for an engagement and splits the
// reward between platform, creator and holders of the asset.
func (k Keeper) DistributeEngagementReward(
	ctx context.Context,
	msg types.MsgDistributeEngagementReward,
) (types.EngagementReward, error) {
	if err := msg.ValidateBasic(); err != nil {
		return types.EngagementReward{}, err
	}
	if k.IsTradingHalted(ctx) {
		return types.EngagementReward{}, types.ErrTradingHalted
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.EngagementReward{}, err
	}
	asset, err := k.GetAsset(ctx, msg.AssetID)
	if err != nil {
		return types.EngagementReward{}, err
	}
	if !asset.IsActive {
		return types.EngagementReward{}, types.ErrAssetInactive.Wrapf("asset %s", asset.AssetID)
	}

	amount := msg.RewardAmount
	if amount == 0 {
		amount = params.EngagementRewards.For(msg.Kind)
	}
	if amount == 0 {
		return types.EngagementReward{}, types.ErrInvalidAmount.Wrapf("no reward configured for %s", msg.Kind)
	}
	if msg.Kind == types.EngagementTip {
		if amount > params.MaxTipAmount {
			return types.EngagementReward{}, types.ErrInvalidEngagement.Wrapf(
				"tip %d exceeds max %d", amount, params.MaxTipAmount)
		}
		if uint64(len(msg.Message)) > params.MaxTipMessageLength {
			return types.EngagementReward{}, types.ErrInvalidEngagement.Wrapf(
				"tip message longer than %d bytes", params.MaxTipMessageLength)
		}
	}

	split, err := pricing.Split(amount, asset.FeeConfig)
	if err != nil {
		return types.EngagementReward{}, err
	}

	var record types.EngagementReward
	err = k.settle(ctx, func(cacheCtx sdk.Context) error {
		_, now := contextNow(cacheCtx)
		if err := k.transfer(cacheCtx, msg.Actor, params.VaultAccount, split.HolderReward); err != nil {
			return err
		}
		if err := k.transfer(cacheCtx, msg.Actor, asset.CreatorID, split.CreatorFee); err != nil {
			return err
		}
		if err := k.transfer(cacheCtx, msg.Actor, params.PlatformAccount, split.ProtocolFee); err != nil {
			return err
		}

		if err := poolHolderReward(&asset, split.HolderReward); err != nil {
			return err
		}
		if err := accumulateFees(&asset, split.ProtocolFee, split.CreatorFee, split.HolderReward); err != nil {
			return err
		}
		if err := k.setAsset(cacheCtx, asset); err != nil {
			return err
		}

		state, err := k.GetPlatformState(cacheCtx)
		if err != nil {
			return err
		}
		if state.TotalEngagementRewards, err = pricing.Add(state.TotalEngagementRewards, amount); err != nil {
			return err
		}
		if err := addPlatformFees(&state, split.ProtocolFee, split.CreatorFee, split.HolderReward); err != nil {
			return err
		}
		if err := k.setPlatformState(cacheCtx, state); err != nil {
			return err
		}

		record, err = k.appendEngagement(cacheCtx, types.EngagementReward{
			ActorID:       msg.Actor,
			CreatorID:     asset.CreatorID,
			AssetID:       asset.AssetID,
			Kind:          msg.Kind,
			RewardAmount:  amount,
			ProtocolFee:   split.ProtocolFee,
			CreatorFee:    split.CreatorFee,
			HolderReward:  split.HolderReward,
			Message:       msg.Message,
			TimestampUnix: now,
		})
		if err != nil {
			return err
		}

		emitEventIfPossible(cacheCtx, sdk.NewEvent(
			"keys_engagement_rewarded",
			sdk.NewAttribute("engagement_id", strconv.FormatUint(record.ID, 10)),
			sdk.NewAttribute("asset_id", asset.AssetID),
			sdk.NewAttribute("actor", msg.Actor),
			sdk.NewAttribute("kind", string(msg.Kind)),
			sdk.NewAttribute("reward_amount", strconv.FormatUint(amount, 10)),
			sdk.NewAttribute("holder_reward", strconv.FormatUint(split.HolderReward, 10)),
		))
		return nil
	})
	if err != nil {
		k.Logger(ctx).Debug("engagement rejected", "asset", msg.AssetID, "actor", msg.Actor, "err", err)
		return types.EngagementReward{}, err
	}

	k.metrics.recordEngagement(record)
	k.Logger(ctx).Info("engagement rewarded", "asset", asset.AssetID, "kind", msg.Kind, "amount", amount)
	return record, nil
}
