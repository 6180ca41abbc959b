package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/solsocial/socialkeys/x/keys/types"
)

// BankTransferService settles keys value as coins of a single denom through x/bank.
// Accounts are bech32 addresses; use ModuleAccountAddress for the vault.
type BankTransferService struct {
	bank  types.BankKeeper
	denom string
}

func NewBankTransferService(bank types.BankKeeper, denom string) BankTransferService {
	return BankTransferService{bank: bank, denom: denom}
}

// ModuleAccountAddress returns the bech32 address of a module-owned account.
func ModuleAccountAddress(name string) string {
	return authtypes.NewModuleAddress(name).String()
}

// Transfer implements types.TransferService.
func (s BankTransferService) Transfer(ctx context.Context, from, to string, amount uint64) error {
	fromAddr, err := sdk.AccAddressFromBech32(from)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("sender %s: %s", from, err)
	}
	toAddr, err := sdk.AccAddressFromBech32(to)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("recipient %s: %s", to, err)
	}
	value := sdkmath.NewIntFromUint64(amount)
	if spendable := s.bank.SpendableCoins(ctx, fromAddr).AmountOf(s.denom); spendable.LT(value) {
		return types.ErrTransferFailure.Wrapf("%s has %s%s spendable, needs %s%s", from, spendable, s.denom, value, s.denom)
	}
	if err := s.bank.SendCoins(ctx, fromAddr, toAddr, sdk.NewCoins(sdk.NewCoin(s.denom, value))); err != nil {
		return types.ErrTransferFailure.Wrap(err.Error())
	}
	return nil
}
