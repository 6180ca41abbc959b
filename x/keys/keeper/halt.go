package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/solsocial/socialkeys/x/keys/types"
)

// HaltTrading pauses buys, sells and engagement rewards on every asset.
func (k Keeper) HaltTrading(ctx context.Context, msg types.MsgHaltTrading) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if !k.isAuthority(msg.Authority) {
		return types.ErrUnauthorized.Wrap("unauthorized trading halt")
	}

	sdkCtx, now := contextNow(ctx)
	state := types.HaltState{
		Active:            true,
		Reason:            strings.TrimSpace(msg.Reason),
		TriggeredBy:       strings.TrimSpace(msg.Authority),
		TriggeredAtHeight: sdkCtx.BlockHeight(),
		TriggeredAtUnix:   now,
	}
	if err := k.setHaltState(ctx, state); err != nil {
		return err
	}

	emitEventIfPossible(sdkCtx, sdk.NewEvent(
		"keys_trading_halted",
		sdk.NewAttribute("reason", state.Reason),
		sdk.NewAttribute("authority", state.TriggeredBy),
	))
	k.Logger(ctx).Info("trading halted", "reason", state.Reason)
	return nil
}

// ResumeTrading clears the halt.
func (k Keeper) ResumeTrading(ctx context.Context, requester string) error {
	if !k.isAuthority(requester) {
		return types.ErrUnauthorized.Wrap("unauthorized trading resume")
	}
	if err := k.setHaltState(ctx, types.HaltState{}); err != nil {
		return err
	}
	sdkCtx, _ := unwrapSDKContext(ctx)
	emitEventIfPossible(sdkCtx, sdk.NewEvent(
		"keys_trading_resumed",
		sdk.NewAttribute("authority", strings.TrimSpace(requester)),
	))
	k.Logger(ctx).Info("trading resumed")
	return nil
}

// GetHaltState returns the current halt, inactive when none was ever set.
func (k Keeper) GetHaltState(ctx context.Context) (types.HaltState, error) {
	raw, err := k.Halt.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.HaltState{}, nil
	}
	if err != nil {
		return types.HaltState{}, err
	}
	var state types.HaltState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return types.HaltState{}, fmt.Errorf("decode halt state: %w", err)
	}
	return state, nil
}

func (k Keeper) IsTradingHalted(ctx context.Context) bool {
	state, err := k.GetHaltState(ctx)
	if err != nil {
		return true
	}
	return state.Active
}

func (k Keeper) setHaltState(ctx context.Context, state types.HaltState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return k.Halt.Set(ctx, string(raw))
}

// UpdateParams replaces module params. Existing assets keep their curve and fees.
func (k Keeper) UpdateParams(ctx context.Context, msg types.MsgUpdateParams) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if !k.isAuthority(msg.Authority) {
		return types.ErrUnauthorized.Wrap("unauthorized params update")
	}
	return k.SetParams(ctx, msg.Params)
}

// SetParams validates and stores params.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if _, err := k.curveFor(params.DefaultCurve); err != nil {
		return err
	}
	return k.setParams(ctx, params)
}
