package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solsocial/socialkeys/x/keys/pricing"
	"github.com/solsocial/socialkeys/x/keys/types"
)

const quoteAssetID = "quote"

type quoteResult struct {
	Curve           types.CurveParams `json:"curve"`
	FeeConfig       types.FeeConfig   `json:"fee_config"`
	Supply          uint64            `json:"supply"`
	SpotPrice       uint64            `json:"spot_price"`
	MarketCap       uint64            `json:"market_cap"`
	Quote           *types.Quote      `json:"quote,omitempty"`
	TokensForBudget *uint64           `json:"tokens_for_budget,omitempty"`
}

func quoteCommand() *cobra.Command {
	var (
		curve     = types.DefaultQuadraticCurve()
		fees      = types.DefaultFeeConfig()
		params    = types.DefaultParams()
		kind      string
		direction string
		supply    uint64
		amount    uint64
		budget    uint64
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a trade on a bonding curve",
		Long: `Price a buy or sell of --amount units against an asset at --supply, fees included.

With --budget the command also reports how many units the budget buys.
Supply includes the founding unit, so --supply 0 prices the creator's first buy.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			curve.Kind = types.CurveKind(kind)
			if amount == 0 && budget == 0 {
				return fmt.Errorf("one of --amount or --budget is required")
			}

			env, err := newSimEnv(commandLogger(cmd), time.Unix(0, 0))
			if err != nil {
				return err
			}
			if err := seedQuoteAsset(env, params, curve, fees, supply); err != nil {
				return err
			}

			res := quoteResult{Curve: curve, FeeConfig: fees, Supply: supply}
			if res.SpotPrice, err = env.keeper.SpotPrice(env.ctx, quoteAssetID); err != nil {
				return err
			}
			if res.MarketCap, err = env.keeper.MarketCap(env.ctx, quoteAssetID); err != nil {
				return err
			}
			if amount > 0 {
				quote, err := env.keeper.QuoteTrade(env.ctx, quoteAssetID, types.TradeDirection(direction), amount)
				if err != nil {
					return err
				}
				res.Quote = &quote
			}
			if budget > 0 {
				n, err := env.keeper.QuoteTokensForBudget(env.ctx, quoteAssetID, budget)
				if err != nil {
					return err
				}
				res.TokensForBudget = &n
			}
			return writeJSON(cmd, res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&kind, "kind", string(curve.Kind), "Curve kind: quadratic|sum_of_squares")
	f.Uint64Var(&curve.BasePrice, "base-price", curve.BasePrice, "Curve base price")
	f.Uint64Var(&curve.CurveFactor, "curve-factor", curve.CurveFactor, "Curve factor")
	f.Uint64Var(&curve.MaxSupply, "max-supply", curve.MaxSupply, "Curve max supply")
	f.Uint64Var(&fees.ProtocolBps, "protocol-bps", fees.ProtocolBps, "Protocol share of fees in bps")
	f.Uint64Var(&fees.CreatorBps, "creator-bps", fees.CreatorBps, "Creator share of fees in bps")
	f.Uint64Var(&fees.HolderBps, "holder-bps", fees.HolderBps, "Holder share of fees in bps")
	f.Uint64Var(&params.TradeFeeBps, "trade-fee-bps", params.TradeFeeBps, "Base trade fee in bps")
	f.StringVar(&direction, "direction", string(types.TradeBuy), "Trade direction: buy|sell")
	f.Uint64Var(&supply, "supply", 1, "Circulating supply before the trade")
	f.Uint64Var(&amount, "amount", 0, "Units to trade")
	f.Uint64Var(&budget, "budget", 0, "Budget to spend on a buy, fees included")
	return cmd
}

// seedQuoteAsset loads an asset at supply through genesis. The reserve is the
// curve's buyback value and a single market holder owns every unit.
func seedQuoteAsset(env *simEnv, params types.Params, curve types.CurveParams, fees types.FeeConfig, supply uint64) error {
	c, err := pricing.NewCurve(curve)
	if err != nil {
		return err
	}
	if supply > c.MaxSupply() {
		return types.ErrSupplyExceedsMax.Wrapf("supply %d exceeds max %d", supply, c.MaxSupply())
	}
	reserve, err := c.SellProceeds(supply, supply)
	if err != nil {
		return err
	}

	gs := types.DefaultGenesis()
	gs.Params = params
	gs.PlatformState.TotalAssetsCreated = 1
	gs.Assets = append(gs.Assets, types.Asset{
		AssetID:     quoteAssetID,
		CreatorID:   quoteAssetID,
		TotalSupply: supply,
		UnitReserve: reserve,
		CurveParams: curve,
		FeeConfig:   fees,
		IsActive:    true,
	})
	if supply > 0 {
		gs.Assets[0].HoldersCount = 1
		gs.Holdings = append(gs.Holdings, types.Holding{HolderID: "market", AssetID: quoteAssetID, Balance: supply})
	}
	return env.keeper.InitGenesis(env.ctx, *gs)
}
