package types

import (
	"strings"

	sdkmath "cosmossdk.io/math"
)

const (
	// BpsBase is 100% in basis points.
	BpsBase = 10000

	// Precision scales price impact and the rewards-per-unit accumulator.
	Precision = 1_000_000

	// DiscreteScale multiplies summed squares before division by the curve factor.
	DiscreteScale = 1_000_000
)

// CurveKind selects the pricing formula of an asset. It is fixed at creation.
type CurveKind string

const (
	// CurveQuadratic prices units at base + s²/factor and integrates the cubic.
	CurveQuadratic CurveKind = "quadratic"

	// CurveSumOfSquares prices whole units by a scaled partial sum of squares.
	CurveSumOfSquares CurveKind = "sum_of_squares"
)

// SupportedCurveKinds returns the accepted curve variants.
func SupportedCurveKinds() []CurveKind {
	return []CurveKind{CurveQuadratic, CurveSumOfSquares}
}

func (k CurveKind) IsSupported() bool {
	for _, kind := range SupportedCurveKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// CurveParams parameterizes a bonding curve.
type CurveParams struct {
	Kind        CurveKind `json:"kind" yaml:"kind"`
	BasePrice   uint64    `json:"base_price" yaml:"base_price"`
	CurveFactor uint64    `json:"curve_factor" yaml:"curve_factor"`
	MaxSupply   uint64    `json:"max_supply" yaml:"max_supply"`
}

// DefaultQuadraticCurve returns the default cubic-integral curve.
func DefaultQuadraticCurve() CurveParams {
	return CurveParams{
		Kind:        CurveQuadratic,
		BasePrice:   1000,
		CurveFactor: 1_000_000,
		MaxSupply:   2_000_000,
	}
}

// DefaultSumOfSquaresCurve returns the default whole-unit key curve.
func DefaultSumOfSquaresCurve() CurveParams {
	return CurveParams{
		Kind:        CurveSumOfSquares,
		BasePrice:   1000,
		CurveFactor: 16000,
		MaxSupply:   500_000,
	}
}

// ValidateBasic checks field presence. Overflow bounds are checked by the pricing package.
func (p CurveParams) ValidateBasic() error {
	if !p.Kind.IsSupported() {
		return ErrInvalidCurveParams.Wrapf("unsupported curve kind %q", p.Kind)
	}
	if p.BasePrice == 0 {
		return ErrInvalidCurveParams.Wrap("base price must be positive")
	}
	if p.CurveFactor == 0 {
		return ErrInvalidCurveParams.Wrap("curve factor must be positive")
	}
	if p.MaxSupply == 0 {
		return ErrInvalidCurveParams.Wrap("max supply must be positive")
	}
	return nil
}

// FeeConfig splits a fee value between platform, creator and holders.
type FeeConfig struct {
	ProtocolBps uint64 `json:"protocol_bps" yaml:"protocol_bps"`
	CreatorBps  uint64 `json:"creator_bps" yaml:"creator_bps"`
	HolderBps   uint64 `json:"holder_bps" yaml:"holder_bps"`
}

// DefaultFeeConfig returns the default 5% / 5% / 90% split.
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{ProtocolBps: 500, CreatorBps: 500, HolderBps: 9000}
}

func (c FeeConfig) Validate() error {
	if c.ProtocolBps > BpsBase || c.CreatorBps > BpsBase || c.HolderBps > BpsBase {
		return ErrInvalidFeeSplit.Wrapf("bps values must not exceed %d", BpsBase)
	}
	if total := c.ProtocolBps + c.CreatorBps + c.HolderBps; total > BpsBase {
		return ErrInvalidFeeSplit.Wrapf("total bps %d exceeds %d", total, BpsBase)
	}
	return nil
}

// HoldersParticipate reports whether holder rewards are pooled for this config.
func (c FeeConfig) HoldersParticipate() bool {
	return c.HolderBps > 0
}

// Asset is a creator's bonded social token.
type Asset struct {
	AssetID                  string      `json:"asset_id"`
	CreatorID                string      `json:"creator_id"`
	TotalSupply              uint64      `json:"total_supply"`
	UnitReserve              uint64      `json:"unit_reserve"`
	CurveParams              CurveParams `json:"curve_params"`
	FeeConfig                FeeConfig   `json:"fee_config"`
	AccumulatedProtocolFees  uint64      `json:"accumulated_protocol_fees"`
	AccumulatedCreatorFees   uint64      `json:"accumulated_creator_fees"`
	AccumulatedHolderRewards uint64      `json:"accumulated_holder_rewards"`
	RewardsPerUnit           sdkmath.Int `json:"rewards_per_unit"`
	UndistributedRewards     uint64      `json:"undistributed_rewards"`
	PendingCreatorRewards    uint64      `json:"pending_creator_rewards"`
	HoldersCount             uint64      `json:"holders_count"`
	TotalVolume              uint64      `json:"total_volume"`
	IsActive                 bool        `json:"is_active"`
	CreatedAtUnix            int64       `json:"created_at_unix"`
}

// Holding is a holder's balance in one asset.
type Holding struct {
	HolderID                  string      `json:"holder_id"`
	AssetID                   string      `json:"asset_id"`
	Balance                   uint64      `json:"balance"`
	TotalSpent                uint64      `json:"total_spent"`
	TotalEarned               uint64      `json:"total_earned"`
	TotalClaimed              uint64      `json:"total_claimed"`
	UnclaimedRewards          uint64      `json:"unclaimed_rewards"`
	LastClaimedRewardsPerUnit sdkmath.Int `json:"last_claimed_rewards_per_unit"`
	LastPurchasePrice         uint64      `json:"last_purchase_price"`
	PurchaseCount             uint64      `json:"purchase_count"`
	SaleCount                 uint64      `json:"sale_count"`
	FirstAcquiredAtUnix       int64       `json:"first_acquired_at_unix"`
	LastTradeAtUnix           int64       `json:"last_trade_at_unix"`
}

// RewardIndex returns the asset's rewards-per-unit accumulator. An absent
// accumulator reads as zero.
func (a Asset) RewardIndex() sdkmath.Int {
	return intOrZero(a.RewardsPerUnit)
}

// RewardCheckpoint returns the accumulator value the holding was last settled at.
func (h Holding) RewardCheckpoint() sdkmath.Int {
	return intOrZero(h.LastClaimedRewardsPerUnit)
}

func intOrZero(v sdkmath.Int) sdkmath.Int {
	if v.IsNil() {
		return sdkmath.ZeroInt()
	}
	return v
}

type TradeDirection string

const (
	TradeBuy  TradeDirection = "buy"
	TradeSell TradeDirection = "sell"
)

// Trade is the immutable record of a settled buy or sell.
//
// GrossPrice is the curve value. The trade fee is TradeFeeBps of GrossPrice plus
// ImpactFee, and the asset's fee config splits that fee, not GrossPrice, into
// ProtocolFee, CreatorFee and HolderReward. Total is GrossPrice plus the fee for a
// buy and GrossPrice minus the fee for a sell.
type Trade struct {
	ID            uint64         `json:"id"`
	TraderID      string         `json:"trader_id"`
	AssetID       string         `json:"asset_id"`
	Direction     TradeDirection `json:"direction"`
	Amount        uint64         `json:"amount"`
	GrossPrice    uint64         `json:"gross_price"`
	ProtocolFee   uint64         `json:"protocol_fee"`
	CreatorFee    uint64         `json:"creator_fee"`
	HolderReward  uint64         `json:"holder_reward"`
	ImpactFee     uint64         `json:"impact_fee"`
	PriceImpact   uint64         `json:"price_impact"`
	Total         uint64         `json:"total"`
	SupplyAfter   uint64         `json:"supply_after"`
	TimestampUnix int64          `json:"timestamp_unix"`
}

// Fee returns the fee value that was split on this trade.
func (t Trade) Fee() uint64 {
	return t.ProtocolFee + t.CreatorFee + t.HolderReward
}

type EngagementKind string

const (
	EngagementLike    EngagementKind = "like"
	EngagementShare   EngagementKind = "share"
	EngagementComment EngagementKind = "comment"
	EngagementTip     EngagementKind = "tip"
)

func (k EngagementKind) IsValid() bool {
	switch k {
	case EngagementLike, EngagementShare, EngagementComment, EngagementTip:
		return true
	}
	return false
}

// EngagementReward is the immutable record of a rewarded engagement.
type EngagementReward struct {
	ID            uint64         `json:"id"`
	ActorID       string         `json:"actor_id"`
	CreatorID     string         `json:"creator_id"`
	AssetID       string         `json:"asset_id"`
	Kind          EngagementKind `json:"kind"`
	RewardAmount  uint64         `json:"reward_amount"`
	ProtocolFee   uint64         `json:"protocol_fee"`
	CreatorFee    uint64         `json:"creator_fee"`
	HolderReward  uint64         `json:"holder_reward"`
	Message       string         `json:"message,omitempty"`
	TimestampUnix int64          `json:"timestamp_unix"`
}

// PlatformState aggregates platform-wide totals.
type PlatformState struct {
	TotalAssetsCreated     uint64 `json:"total_assets_created"`
	TotalTrades            uint64 `json:"total_trades"`
	TotalVolume            uint64 `json:"total_volume"`
	TotalProtocolFees      uint64 `json:"total_protocol_fees"`
	TotalCreatorFees       uint64 `json:"total_creator_fees"`
	TotalHolderRewards     uint64 `json:"total_holder_rewards"`
	TotalEngagementRewards uint64 `json:"total_engagement_rewards"`
}

// HaltState records an authority pause of trading and engagement.
type HaltState struct {
	Active            bool   `json:"active"`
	Reason            string `json:"reason,omitempty"`
	TriggeredBy       string `json:"triggered_by,omitempty"`
	TriggeredAtHeight int64  `json:"triggered_at_height,omitempty"`
	TriggeredAtUnix   int64  `json:"triggered_at_unix,omitempty"`
}

func normalizeID(id string) string {
	return strings.TrimSpace(id)
}

func requireID(field, id string) error {
	if normalizeID(id) == "" {
		return ErrInvalidAddress.Wrapf("%s cannot be empty", field)
	}
	// Ids are store keys: a padded id would address a different record than its
	// trimmed lookup.
	if normalizeID(id) != id {
		return ErrInvalidAddress.Wrapf("%s %q has surrounding whitespace", field, id)
	}
	if strings.ContainsRune(id, 0) {
		return ErrInvalidAddress.Wrapf("%s contains reserved characters", field)
	}
	return nil
}

// Quote is a priced but unsettled trade.
type Quote struct {
	Direction    TradeDirection `json:"direction"`
	Amount       uint64         `json:"amount"`
	GrossPrice   uint64         `json:"gross_price"`
	PriceImpact  uint64         `json:"price_impact"`
	BaseFee      uint64         `json:"base_fee"`
	ImpactFee    uint64         `json:"impact_fee"`
	ProtocolFee  uint64         `json:"protocol_fee"`
	CreatorFee   uint64         `json:"creator_fee"`
	HolderReward uint64         `json:"holder_reward"`
	Total        uint64         `json:"total"`
	SupplyAfter  uint64         `json:"supply_after"`
}
