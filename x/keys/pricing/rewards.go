package pricing

import (
	sdkmath "cosmossdk.io/math"

	"github.com/solsocial/socialkeys/x/keys/types"
)

// Accrual is the accumulator state after pooling a reward.
type Accrual struct {
	RewardsPerUnit sdkmath.Int
	Carried        uint64
	Distributed    uint64
}

// AccrueRewards pools amount plus previously carried dust over supply units. The part
// of the pool that cannot be represented in the accumulator is carried forward.
// The accumulator is unbounded in u64 terms; only the pool and the carry are u64.
func AccrueRewards(rewardsPerUnit sdkmath.Int, carried, amount, supply uint64) (Accrual, error) {
	if supply == 0 {
		return Accrual{}, types.ErrDivideByZero.Wrap("reward pool has no supply")
	}
	if rewardsPerUnit.IsNil() {
		rewardsPerUnit = sdkmath.ZeroInt()
	}
	pool, err := Add(amount, carried)
	if err != nil {
		return Accrual{}, err
	}

	units := sdkmath.NewIntFromUint64(supply)
	increment := sdkmath.NewIntFromUint64(pool).MulRaw(types.Precision).Quo(units)
	// ceil(increment * supply / precision) never exceeds pool.
	scaled := increment.Mul(units)
	distributedInt := scaled.QuoRaw(types.Precision)
	if !scaled.ModRaw(types.Precision).IsZero() {
		distributedInt = distributedInt.AddRaw(1)
	}
	if !distributedInt.IsUint64() {
		return Accrual{}, types.ErrOverflow.Wrapf("distributed %s exceeds u64", distributedInt)
	}
	distributed := distributedInt.Uint64()
	rest, err := Sub(pool, distributed)
	if err != nil {
		return Accrual{}, err
	}

	next, err := rewardsPerUnit.SafeAdd(increment)
	if err != nil {
		return Accrual{}, types.ErrOverflow.Wrap(err.Error())
	}
	return Accrual{RewardsPerUnit: next, Carried: rest, Distributed: distributed}, nil
}

// AccruedRewards returns what balance earned since checkpoint.
func AccruedRewards(rewardsPerUnit, checkpoint sdkmath.Int, balance uint64) (uint64, error) {
	if rewardsPerUnit.IsNil() {
		rewardsPerUnit = sdkmath.ZeroInt()
	}
	if checkpoint.IsNil() {
		checkpoint = sdkmath.ZeroInt()
	}
	if rewardsPerUnit.LT(checkpoint) {
		return 0, types.ErrUnderflow.Wrapf("accumulator %s behind checkpoint %s", rewardsPerUnit, checkpoint)
	}
	accrued, err := rewardsPerUnit.Sub(checkpoint).SafeMul(sdkmath.NewIntFromUint64(balance))
	if err != nil {
		return 0, types.ErrOverflow.Wrap(err.Error())
	}
	accrued = accrued.QuoRaw(types.Precision)
	if !accrued.IsUint64() {
		return 0, types.ErrOverflow.Wrapf("accrued rewards %s exceed u64", accrued)
	}
	return accrued.Uint64(), nil
}
