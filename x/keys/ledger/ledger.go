// Package ledger is a KV-backed balance ledger that settles keys value for hosts
// without x/bank. Balances live in the caller's store, so transfers made inside a
// cached context are discarded with it.
package ledger

import (
	"context"
	"errors"
	"strings"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkmath "cosmossdk.io/math"

	"github.com/solsocial/socialkeys/x/keys/pricing"
	"github.com/solsocial/socialkeys/x/keys/types"
)

// Ledger holds one uint64 balance per account.
type Ledger struct {
	Balances collections.Map[string, uint64]
}

func NewLedger(storeService store.KVStoreService) Ledger {
	sb := collections.NewSchemaBuilder(storeService)
	return Ledger{
		Balances: collections.NewMap(
			sb,
			collections.NewPrefix(types.LedgerBalanceKeyPrefix),
			"ledger_balances",
			collections.StringKey,
			collections.Uint64Value,
		),
	}
}

// Balance returns the balance of account, zero if it never held value.
func (l Ledger) Balance(ctx context.Context, account string) (uint64, error) {
	balance, err := l.Balances.Get(ctx, strings.TrimSpace(account))
	if errors.Is(err, collections.ErrNotFound) {
		return 0, nil
	}
	return balance, err
}

// Mint credits amount to account.
func (l Ledger) Mint(ctx context.Context, account string, amount uint64) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return types.ErrInvalidAddress.Wrap("account cannot be empty")
	}
	balance, err := l.Balance(ctx, account)
	if err != nil {
		return err
	}
	if balance, err = pricing.Add(balance, amount); err != nil {
		return err
	}
	return l.Balances.Set(ctx, account, balance)
}

// Transfer implements types.TransferService.
func (l Ledger) Transfer(ctx context.Context, from, to string, amount uint64) error {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return types.ErrTransferFailure.Wrap("transfer accounts cannot be empty")
	}
	if amount == 0 || from == to {
		return nil
	}
	fromBalance, err := l.Balance(ctx, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return types.ErrTransferFailure.Wrapf("%s has %d, needs %d", from, fromBalance, amount)
	}
	toBalance, err := l.Balance(ctx, to)
	if err != nil {
		return err
	}
	if toBalance, err = pricing.Add(toBalance, amount); err != nil {
		return types.ErrTransferFailure.Wrapf("credit %s: %s", to, err)
	}

	if fromBalance-amount == 0 {
		if err := l.Balances.Remove(ctx, from); err != nil {
			return err
		}
	} else if err := l.Balances.Set(ctx, from, fromBalance-amount); err != nil {
		return err
	}
	return l.Balances.Set(ctx, to, toBalance)
}

// Supply returns the sum of all balances.
func (l Ledger) Supply(ctx context.Context) (sdkmath.Int, error) {
	total := sdkmath.ZeroInt()
	err := l.Balances.Walk(ctx, nil, func(_ string, balance uint64) (bool, error) {
		total = total.Add(sdkmath.NewIntFromUint64(balance))
		return false, nil
	})
	return total, err
}
