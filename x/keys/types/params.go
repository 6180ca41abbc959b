package types

import "strings"

// EngagementRewards are the default reward amounts per engagement kind.
type EngagementRewards struct {
	Like    uint64 `json:"like" yaml:"like"`
	Share   uint64 `json:"share" yaml:"share"`
	Comment uint64 `json:"comment" yaml:"comment"`
}

// For returns the default reward for kind. Tips have no default.
func (r EngagementRewards) For(kind EngagementKind) uint64 {
	switch kind {
	case EngagementLike:
		return r.Like
	case EngagementShare:
		return r.Share
	case EngagementComment:
		return r.Comment
	}
	return 0
}

// Params are the module parameters.
type Params struct {
	// TradeFeeBps is the base fee charged on a trade's curve value.
	TradeFeeBps         uint64            `json:"trade_fee_bps" yaml:"trade_fee_bps"`
	DefaultFeeConfig    FeeConfig         `json:"default_fee_config" yaml:"default_fee_config"`
	DefaultCurve        CurveParams       `json:"default_curve" yaml:"default_curve"`
	EngagementRewards   EngagementRewards `json:"engagement_rewards" yaml:"engagement_rewards"`
	MaxTipAmount        uint64            `json:"max_tip_amount" yaml:"max_tip_amount"`
	MaxTipMessageLength uint64            `json:"max_tip_message_length" yaml:"max_tip_message_length"`
	PlatformAccount     string            `json:"platform_account" yaml:"platform_account"`
	VaultAccount        string            `json:"vault_account" yaml:"vault_account"`
}

// DefaultParams returns default module parameters.
func DefaultParams() Params {
	return Params{
		TradeFeeBps:      1000, // 10%
		DefaultFeeConfig: DefaultFeeConfig(),
		DefaultCurve:     DefaultQuadraticCurve(),
		EngagementRewards: EngagementRewards{
			Like:    1000,
			Share:   5000,
			Comment: 2000,
		},
		MaxTipAmount:        1_000_000_000_000,
		MaxTipMessageLength: 280,
		PlatformAccount:     PlatformAccount,
		VaultAccount:        VaultAccount,
	}
}

func (p Params) Validate() error {
	if p.TradeFeeBps > BpsBase {
		return ErrInvalidParams.Wrapf("trade fee bps %d exceeds %d", p.TradeFeeBps, BpsBase)
	}
	if err := p.DefaultFeeConfig.Validate(); err != nil {
		return err
	}
	if err := p.DefaultCurve.ValidateBasic(); err != nil {
		return err
	}
	if p.MaxTipAmount == 0 {
		return ErrInvalidParams.Wrap("max tip amount must be positive")
	}
	if strings.TrimSpace(p.PlatformAccount) == "" {
		return ErrInvalidParams.Wrap("platform account cannot be empty")
	}
	if strings.TrimSpace(p.VaultAccount) == "" {
		return ErrInvalidParams.Wrap("vault account cannot be empty")
	}
	if p.PlatformAccount == p.VaultAccount {
		return ErrInvalidParams.Wrap("platform and vault accounts must differ")
	}
	return nil
}
