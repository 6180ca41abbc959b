package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TransferService moves value between accounts atomically.
type TransferService interface {
	Transfer(ctx context.Context, from, to string, amount uint64) error
}

// BankKeeper is the subset of x/bank used by the bank-backed transfer service.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	SpendableCoins(ctx context.Context, addr sdk.AccAddress) sdk.Coins
}
