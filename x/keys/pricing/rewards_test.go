package pricing

import (
	"math"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/solsocial/socialkeys/x/keys/types"
)

func TestAccrualIsProportionalAcrossDistributions(t *testing.T) {
	const supply = 700
	balance := uint64(130)
	r1, r2 := uint64(1_234_567), uint64(89_101)

	first, err := AccrueRewards(sdkmath.ZeroInt(), 0, r1, supply)
	require.NoError(t, err)
	second, err := AccrueRewards(first.RewardsPerUnit, first.Carried, r2, supply)
	require.NoError(t, err)

	claimable, err := AccruedRewards(second.RewardsPerUnit, sdkmath.ZeroInt(), balance)
	require.NoError(t, err)

	exact := balance * (r1 + r2) / supply
	require.LessOrEqual(t, claimable, exact)
	require.LessOrEqual(t, exact-claimable, uint64(2))
}

func TestAccrualCarriesUnrepresentableDust(t *testing.T) {
	acc, err := AccrueRewards(sdkmath.ZeroInt(), 0, 10, 3)
	require.NoError(t, err)
	require.Equal(t, int64(3_333_333), acc.RewardsPerUnit.Int64())
	require.EqualValues(t, 10, acc.Distributed+acc.Carried)

	var claimed uint64
	for i := 0; i < 3; i++ {
		share, err := AccruedRewards(acc.RewardsPerUnit, sdkmath.ZeroInt(), 1)
		require.NoError(t, err)
		claimed += share
	}
	require.LessOrEqual(t, claimed, acc.Distributed)
}

func TestAccrualTreatsNilAccumulatorAsZero(t *testing.T) {
	acc, err := AccrueRewards(sdkmath.Int{}, 0, 10, 2)
	require.NoError(t, err)
	require.Equal(t, int64(5*types.Precision), acc.RewardsPerUnit.Int64())

	amount, err := AccruedRewards(acc.RewardsPerUnit, sdkmath.Int{}, 2)
	require.NoError(t, err)
	require.EqualValues(t, 10, amount)
}

func TestAccrualRequiresSupply(t *testing.T) {
	_, err := AccrueRewards(sdkmath.ZeroInt(), 0, 10, 0)
	require.ErrorIs(t, err, types.ErrDivideByZero)
}

func TestAccruedRewardsCheckpoint(t *testing.T) {
	amount, err := AccruedRewards(sdkmath.NewInt(5*types.Precision), sdkmath.NewInt(2*types.Precision), 10)
	require.NoError(t, err)
	require.EqualValues(t, 30, amount)

	_, err = AccruedRewards(sdkmath.OneInt(), sdkmath.NewInt(2), 10)
	require.ErrorIs(t, err, types.ErrUnderflow)
}

// Large rewards over a single unit push the accumulator far past u64 while each
// holder's claim still fits.
func TestAccrualPastU64AtSingleUnitSupply(t *testing.T) {
	const maxTipHolderShare = 900_000_000_000 // 90% of a 1e12 tip
	rpu := sdkmath.ZeroInt()
	for i := 0; i < 25; i++ {
		acc, err := AccrueRewards(rpu, 0, maxTipHolderShare, 1)
		require.NoError(t, err)
		require.EqualValues(t, maxTipHolderShare, acc.Distributed)
		require.Zero(t, acc.Carried)
		rpu = acc.RewardsPerUnit
	}
	require.False(t, rpu.IsUint64())

	checkpoint := rpu.Sub(sdkmath.NewInt(maxTipHolderShare).MulRaw(types.Precision))
	amount, err := AccruedRewards(rpu, checkpoint, 1)
	require.NoError(t, err)
	require.EqualValues(t, maxTipHolderShare, amount)

	// A single pool larger than u64/precision still accrues.
	acc, err := AccrueRewards(sdkmath.ZeroInt(), 0, math.MaxUint64, 1)
	require.NoError(t, err)
	require.EqualValues(t, uint64(math.MaxUint64), acc.Distributed)

	// A claim that exceeds u64 is reported, not wrapped.
	huge := sdkmath.NewIntFromUint64(math.MaxUint64).MulRaw(types.Precision).MulRaw(2)
	_, err = AccruedRewards(huge, sdkmath.ZeroInt(), 1)
	require.ErrorIs(t, err, types.ErrOverflow)
}
