package pricing

import (
	"github.com/solsocial/socialkeys/x/keys/types"
)

// ImpactThreshold is the price impact above which the impact surcharge applies (1%).
const ImpactThreshold = types.Precision / 100

// FeeSplit is the decomposition of a fee value or tip.
type FeeSplit struct {
	ProtocolFee  uint64 `json:"protocol_fee"`
	CreatorFee   uint64 `json:"creator_fee"`
	HolderReward uint64 `json:"holder_reward"`
}

// Total returns the sum of all parts, which always equals the split value.
func (s FeeSplit) Total() uint64 {
	return s.ProtocolFee + s.CreatorFee + s.HolderReward
}

// Split divides v into protocol and creator fees with the remainder going to holders.
// When holders do not participate the remainder goes to the creator.
func Split(v uint64, cfg types.FeeConfig) (FeeSplit, error) {
	if err := cfg.Validate(); err != nil {
		return FeeSplit{}, err
	}
	protocol, err := BpsOf(v, cfg.ProtocolBps)
	if err != nil {
		return FeeSplit{}, err
	}
	creator, err := BpsOf(v, cfg.CreatorBps)
	if err != nil {
		return FeeSplit{}, err
	}
	net, err := Sub(v, protocol)
	if err != nil {
		return FeeSplit{}, err
	}
	if net, err = Sub(net, creator); err != nil {
		return FeeSplit{}, err
	}

	if !cfg.HoldersParticipate() {
		if creator, err = Add(creator, net); err != nil {
			return FeeSplit{}, err
		}
		net = 0
	}
	return FeeSplit{ProtocolFee: protocol, CreatorFee: creator, HolderReward: net}, nil
}

// TradeFee is the fee charged on a trade's curve value.
type TradeFee struct {
	BaseFee   uint64 `json:"base_fee"`
	ImpactFee uint64 `json:"impact_fee"`
}

func (f TradeFee) Total() uint64 {
	return f.BaseFee + f.ImpactFee
}

// ComputeTradeFee charges feeBps of value plus a surcharge proportional to the price
// impact above ImpactThreshold. The total never exceeds value.
func ComputeTradeFee(value, impact, feeBps uint64) (TradeFee, error) {
	if feeBps > types.BpsBase {
		return TradeFee{}, types.ErrInvalidFeeSplit.Wrapf("trade fee bps %d exceeds %d", feeBps, types.BpsBase)
	}
	base, err := BpsOf(value, feeBps)
	if err != nil {
		return TradeFee{}, err
	}
	var surcharge uint64
	if impact > ImpactThreshold {
		if surcharge, err = MulDiv(value, impact-ImpactThreshold, types.Precision*10); err != nil {
			return TradeFee{}, err
		}
		if headroom := value - base; surcharge > headroom {
			surcharge = headroom
		}
	}
	return TradeFee{BaseFee: base, ImpactFee: surcharge}, nil
}
