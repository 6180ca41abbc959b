package keeper

import (
	"context"
	"fmt"

	"github.com/solsocial/socialkeys/x/keys/types"
)

// MsgServer routes keys messages to keeper operations.
type MsgServer struct {
	Keeper
}

// NewMsgServerImpl returns a MsgServer over keeper.
func NewMsgServerImpl(keeper Keeper) MsgServer {
	return MsgServer{Keeper: keeper}
}

// Handle executes msg and returns its operation result.
func (s MsgServer) Handle(ctx context.Context, msg any) (any, error) {
	switch m := msg.(type) {
	case types.MsgCreateAsset:
		return s.CreateAsset(ctx, m)
	case types.MsgBuyKeys:
		return s.Buy(ctx, m)
	case types.MsgSellKeys:
		return s.Sell(ctx, m)
	case types.MsgDistributeEngagementReward:
		return s.DistributeEngagementReward(ctx, m)
	case types.MsgClaimHolderRewards:
		return s.ClaimHolderRewards(ctx, m)
	case types.MsgClaimCreatorRewards:
		return s.ClaimCreatorRewards(ctx, m)
	case types.MsgDeactivateAsset:
		return nil, s.DeactivateAsset(ctx, m)
	case types.MsgHaltTrading:
		return nil, s.HaltTrading(ctx, m)
	case types.MsgResumeTrading:
		if err := m.ValidateBasic(); err != nil {
			return nil, err
		}
		return nil, s.ResumeTrading(ctx, m.Authority)
	case types.MsgUpdateParams:
		return nil, s.UpdateParams(ctx, m)
	default:
		return nil, fmt.Errorf("unrecognized %s message type %T", types.ModuleName, msg)
	}
}
