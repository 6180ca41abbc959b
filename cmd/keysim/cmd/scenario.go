package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/solsocial/socialkeys/x/keys/types"
)

const defaultBlockInterval = 6 * time.Second

// Scenario is a scripted sequence of keys operations.
type Scenario struct {
	Name          string            `yaml:"name"`
	Start         time.Time         `yaml:"start"`
	BlockInterval time.Duration     `yaml:"block_interval"`
	Params        yaml.Node         `yaml:"params"`
	Accounts      map[string]uint64 `yaml:"accounts"`
	Steps         []Step            `yaml:"steps"`
}

// Step is one operation. Actor is the signer of the operation: the creator,
// trader, holder or authority depending on Op. Expect names the rejection
// reason the step must fail with; empty means it must succeed.
type Step struct {
	Op      string               `yaml:"op"`
	Actor   string               `yaml:"actor"`
	Asset   string               `yaml:"asset"`
	Amount  uint64               `yaml:"amount"`
	Bound   uint64               `yaml:"bound"`
	Kind    types.EngagementKind `yaml:"kind"`
	Message string               `yaml:"message"`
	Reason  string               `yaml:"reason"`
	Curve   *types.CurveParams   `yaml:"curve"`
	Fees    *types.FeeConfig     `yaml:"fees"`
	Expect  string               `yaml:"expect"`
}

// LoadScenario decodes a scenario and the params it runs with. Params given in
// the scenario override the defaults field by field.
func LoadScenario(r io.Reader) (Scenario, types.Params, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return Scenario{}, types.Params{}, fmt.Errorf("scenario is empty")
		}
		return Scenario{}, types.Params{}, fmt.Errorf("decode scenario: %w", err)
	}

	params := types.DefaultParams()
	if !sc.Params.IsZero() {
		if err := sc.Params.Decode(&params); err != nil {
			return Scenario{}, types.Params{}, fmt.Errorf("decode params: %w", err)
		}
	}
	if err := params.Validate(); err != nil {
		return Scenario{}, types.Params{}, err
	}

	if sc.BlockInterval == 0 {
		sc.BlockInterval = defaultBlockInterval
	}
	if sc.Start.IsZero() {
		sc.Start = time.Unix(1_700_000_000, 0)
	}
	if len(sc.Steps) == 0 {
		return Scenario{}, types.Params{}, fmt.Errorf("scenario has no steps")
	}
	for i, step := range sc.Steps {
		if _, err := step.Msg(); err != nil {
			return Scenario{}, types.Params{}, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return sc, params, nil
}

// Msg converts the step into the keys message it executes.
func (s Step) Msg() (any, error) {
	actor := strings.TrimSpace(s.Actor)
	asset := strings.TrimSpace(s.Asset)
	switch s.Op {
	case "create_asset":
		return types.MsgCreateAsset{Creator: actor, CurveParams: s.Curve, FeeConfig: s.Fees}, nil
	case "buy":
		return types.MsgBuyKeys{Buyer: actor, AssetID: asset, Amount: s.Amount, MaxCost: s.Bound}, nil
	case "sell":
		return types.MsgSellKeys{Seller: actor, AssetID: asset, Amount: s.Amount, MinProceeds: s.Bound}, nil
	case "engage":
		return types.MsgDistributeEngagementReward{
			Actor:        actor,
			AssetID:      asset,
			Kind:         s.Kind,
			RewardAmount: s.Amount,
			Message:      s.Message,
		}, nil
	case "claim":
		return types.MsgClaimHolderRewards{Holder: actor, AssetID: asset}, nil
	case "claim_creator":
		return types.MsgClaimCreatorRewards{Creator: actor}, nil
	case "deactivate":
		return types.MsgDeactivateAsset{Authority: authorityOrDefault(actor), AssetID: asset, Reason: s.Reason}, nil
	case "halt":
		return types.MsgHaltTrading{Authority: authorityOrDefault(actor), Reason: s.Reason}, nil
	case "resume":
		return types.MsgResumeTrading{Authority: authorityOrDefault(actor)}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", s.Op)
	}
}

func authorityOrDefault(actor string) string {
	if actor == "" {
		return simAuthority
	}
	return actor
}
