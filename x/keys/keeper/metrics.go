package keeper

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solsocial/socialkeys/x/keys/types"
)

// Metrics holds the prometheus collectors of the keys module.
type Metrics struct {
	TradesSettled      *prometheus.CounterVec
	TradesRejected     *prometheus.CounterVec
	TradeVolume        *prometheus.CounterVec
	FeesCollected      *prometheus.CounterVec
	RewardsDistributed prometheus.Counter
	RewardsClaimed     prometheus.Counter
	AssetsCreated      prometheus.Counter
	PriceImpact        prometheus.Histogram
}

// NewMetrics builds the collectors and registers them with reg when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		TradesSettled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "socialkeys_trades_settled_total",
				Help: "Settled trades by direction",
			},
			[]string{"direction"},
		),
		TradesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "socialkeys_trades_rejected_total",
				Help: "Rejected trades by direction and reason",
			},
			[]string{"direction", "reason"},
		),
		TradeVolume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "socialkeys_trade_volume_total",
				Help: "Gross curve value settled by direction",
			},
			[]string{"direction"},
		),
		FeesCollected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "socialkeys_fees_collected_total",
				Help: "Fees collected by recipient bucket",
			},
			[]string{"bucket"},
		),
		RewardsDistributed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "socialkeys_engagement_rewards_total",
				Help: "Engagement reward value distributed",
			},
		),
		RewardsClaimed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "socialkeys_rewards_claimed_total",
				Help: "Holder and creator rewards paid out",
			},
		),
		AssetsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "socialkeys_assets_created_total",
				Help: "Assets created",
			},
		),
		PriceImpact: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "socialkeys_trade_price_impact_ratio",
				Help:    "Price impact of settled trades as a fraction of spot price",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.TradesSettled, m.TradesRejected, m.TradeVolume, m.FeesCollected,
		m.RewardsDistributed, m.RewardsClaimed, m.AssetsCreated, m.PriceImpact,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordTrade(trade types.Trade) {
	if m == nil {
		return
	}
	direction := string(trade.Direction)
	m.TradesSettled.WithLabelValues(direction).Inc()
	m.TradeVolume.WithLabelValues(direction).Add(float64(trade.GrossPrice))
	m.FeesCollected.WithLabelValues("protocol").Add(float64(trade.ProtocolFee))
	m.FeesCollected.WithLabelValues("creator").Add(float64(trade.CreatorFee))
	m.FeesCollected.WithLabelValues("holders").Add(float64(trade.HolderReward))
	m.PriceImpact.Observe(float64(trade.PriceImpact) / types.Precision)
}

func (m *Metrics) recordRejection(direction types.TradeDirection, err error) {
	if m == nil {
		return
	}
	m.TradesRejected.WithLabelValues(string(direction), types.RejectReason(err)).Inc()
}

func (m *Metrics) recordEngagement(record types.EngagementReward) {
	if m == nil {
		return
	}
	m.RewardsDistributed.Add(float64(record.RewardAmount))
	m.FeesCollected.WithLabelValues("protocol").Add(float64(record.ProtocolFee))
	m.FeesCollected.WithLabelValues("creator").Add(float64(record.CreatorFee))
	m.FeesCollected.WithLabelValues("holders").Add(float64(record.HolderReward))
}

func (m *Metrics) recordClaim(amount uint64) {
	if m == nil {
		return
	}
	m.RewardsClaimed.Add(float64(amount))
}

func (m *Metrics) recordAssetCreated() {
	if m == nil {
		return
	}
	m.AssetsCreated.Inc()
}
