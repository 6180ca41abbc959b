package types

// MsgCreateAsset creates the creator's asset. Nil curve or fee config selects the params default.
type MsgCreateAsset struct {
	Creator     string       `json:"creator"`
	CurveParams *CurveParams `json:"curve_params,omitempty"`
	FeeConfig   *FeeConfig   `json:"fee_config,omitempty"`
}

func (m MsgCreateAsset) ValidateBasic() error {
	if err := requireID("creator", m.Creator); err != nil {
		return err
	}
	if m.CurveParams != nil {
		if err := m.CurveParams.ValidateBasic(); err != nil {
			return err
		}
	}
	if m.FeeConfig != nil {
		return m.FeeConfig.Validate()
	}
	return nil
}

// MsgBuyKeys buys amount units. MaxCost bounds the buyer's total including fees.
// A zero MaxCost means no bound, so callers wanting a bound must send a positive one.
type MsgBuyKeys struct {
	Buyer   string `json:"buyer"`
	AssetID string `json:"asset_id"`
	Amount  uint64 `json:"amount"`
	MaxCost uint64 `json:"max_cost"`
}

func (m MsgBuyKeys) ValidateBasic() error {
	if err := requireID("buyer", m.Buyer); err != nil {
		return err
	}
	if err := requireID("asset id", m.AssetID); err != nil {
		return err
	}
	if m.Amount == 0 {
		return ErrInvalidAmount.Wrap("amount must be positive")
	}
	return nil
}

// MsgSellKeys sells amount units. MinProceeds bounds the seller's net; zero accepts any proceeds.
type MsgSellKeys struct {
	Seller      string `json:"seller"`
	AssetID     string `json:"asset_id"`
	Amount      uint64 `json:"amount"`
	MinProceeds uint64 `json:"min_proceeds"`
}

func (m MsgSellKeys) ValidateBasic() error {
	if err := requireID("seller", m.Seller); err != nil {
		return err
	}
	if err := requireID("asset id", m.AssetID); err != nil {
		return err
	}
	if m.Amount == 0 {
		return ErrInvalidAmount.Wrap("amount must be positive")
	}
	return nil
}

// MsgDistributeEngagementReward pays an engagement reward from the actor into the asset.
type MsgDistributeEngagementReward struct {
	Actor        string         `json:"actor"`
	AssetID      string         `json:"asset_id"`
	Kind         EngagementKind `json:"kind"`
	RewardAmount uint64         `json:"reward_amount"`
	Message      string         `json:"message,omitempty"`
}

func (m MsgDistributeEngagementReward) ValidateBasic() error {
	if err := requireID("actor", m.Actor); err != nil {
		return err
	}
	if err := requireID("asset id", m.AssetID); err != nil {
		return err
	}
	if !m.Kind.IsValid() {
		return ErrInvalidEngagement.Wrapf("unknown engagement kind %q", m.Kind)
	}
	if m.Kind == EngagementTip && m.RewardAmount == 0 {
		return ErrInvalidAmount.Wrap("tip amount must be positive")
	}
	if m.Kind != EngagementTip && m.Message != "" {
		return ErrInvalidEngagement.Wrap("only tips carry a message")
	}
	return nil
}

// MsgClaimHolderRewards withdraws a holder's accrued rewards.
type MsgClaimHolderRewards struct {
	Holder  string `json:"holder"`
	AssetID string `json:"asset_id"`
}

func (m MsgClaimHolderRewards) ValidateBasic() error {
	if err := requireID("holder", m.Holder); err != nil {
		return err
	}
	return requireID("asset id", m.AssetID)
}

// MsgClaimCreatorRewards withdraws rewards that accrued while the asset had no supply.
type MsgClaimCreatorRewards struct {
	Creator string `json:"creator"`
}

func (m MsgClaimCreatorRewards) ValidateBasic() error {
	return requireID("creator", m.Creator)
}

// MsgDeactivateAsset permanently stops trading of an asset.
type MsgDeactivateAsset struct {
	Authority string `json:"authority"`
	AssetID   string `json:"asset_id"`
	Reason    string `json:"reason"`
}

func (m MsgDeactivateAsset) ValidateBasic() error {
	if err := requireID("authority", m.Authority); err != nil {
		return err
	}
	return requireID("asset id", m.AssetID)
}

// MsgHaltTrading pauses trades and engagement rewards platform-wide.
type MsgHaltTrading struct {
	Authority string `json:"authority"`
	Reason    string `json:"reason"`
}

func (m MsgHaltTrading) ValidateBasic() error {
	if err := requireID("authority", m.Authority); err != nil {
		return err
	}
	if normalizeID(m.Reason) == "" {
		return ErrInvalidParams.Wrap("halt reason cannot be empty")
	}
	return nil
}

// MsgUpdateParams replaces module parameters.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

func (m MsgUpdateParams) ValidateBasic() error {
	if err := requireID("authority", m.Authority); err != nil {
		return err
	}
	return m.Params.Validate()
}

// MsgResumeTrading clears a trading halt.
type MsgResumeTrading struct {
	Authority string `json:"authority"`
}

func (m MsgResumeTrading) ValidateBasic() error {
	return requireID("authority", m.Authority)
}
