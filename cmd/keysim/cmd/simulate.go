package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solsocial/socialkeys/x/keys/keeper"
	"github.com/solsocial/socialkeys/x/keys/types"
)

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Index  int    `json:"index"`
	Op     string `json:"op"`
	Height int64  `json:"height"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// InvariantReport is the result of running every module invariant.
type InvariantReport struct {
	Broken  bool   `json:"broken"`
	Message string `json:"message,omitempty"`
}

// Report is the final state of a simulated scenario.
type Report struct {
	Scenario   string              `json:"scenario,omitempty"`
	Steps      []StepResult        `json:"steps"`
	Balances   map[string]uint64   `json:"balances"`
	Assets     []types.Asset       `json:"assets"`
	Holders    map[string][]string `json:"holders"`
	Platform   types.PlatformState `json:"platform"`
	Invariants InvariantReport     `json:"invariants"`
	Metrics    map[string]float64  `json:"metrics,omitempty"`
}

func simulateCommand() *cobra.Command {
	var (
		scenarioFile string
		withMetrics  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay a YAML scenario against an in-memory keys module",
		Long: `Replay a YAML scenario against an in-memory keys module.

The scenario file holds:
- name, start, block_interval (optional)
- params (optional; overrides module defaults field by field)
- accounts (ledger balances minted before the first step)
- steps (op is one of create_asset, buy, sell, engage, claim, claim_creator,
  deactivate, halt, resume; expect names the rejection reason when the step
  must fail: validation, slippage, config, arithmetic, transfer, halted, unauthorized)`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if scenarioFile == "" {
				return fmt.Errorf("--scenario is required")
			}
			file, err := os.Open(scenarioFile)
			if err != nil {
				return fmt.Errorf("open scenario: %w", err)
			}
			defer file.Close()

			sc, params, err := LoadScenario(file)
			if err != nil {
				return err
			}
			report, err := RunScenario(cmd, sc, params)
			if err != nil {
				return err
			}
			if !withMetrics {
				report.Metrics = nil
			}
			if err := writeJSON(cmd, report); err != nil {
				return err
			}
			if report.Invariants.Broken {
				return fmt.Errorf("invariants broken after scenario: %s", report.Invariants.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioFile, "scenario", "", "Path to YAML scenario")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Include module metrics in the report")
	return cmd
}

// RunScenario executes every step of sc in its own block. A step whose outcome
// differs from its expectation stops the run.
func RunScenario(cmd *cobra.Command, sc Scenario, params types.Params) (*Report, error) {
	env, err := newSimEnv(commandLogger(cmd), sc.Start)
	if err != nil {
		return nil, err
	}
	if err := env.keeper.SetParams(env.ctx, params); err != nil {
		return nil, err
	}
	for account, amount := range sc.Accounts {
		if err := env.ledger.Mint(env.ctx, account, amount); err != nil {
			return nil, fmt.Errorf("fund %s: %w", account, err)
		}
	}

	report := &Report{Scenario: sc.Name, Steps: make([]StepResult, 0, len(sc.Steps))}
	for i, step := range sc.Steps {
		env.advance(sc.BlockInterval)
		msg, err := step.Msg()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		res, err := env.server.Handle(env.ctx, msg)
		result := StepResult{Index: i, Op: step.Op, Height: env.ctx.BlockHeight(), Result: res}
		if err != nil {
			result.Result = nil
			result.Error = err.Error()
			result.Reason = types.RejectReason(err)
		}
		report.Steps = append(report.Steps, result)

		if result.Reason != step.Expect {
			return nil, fmt.Errorf("step %d (%s): expected %q, got %q: %s",
				i, step.Op, expectation(step.Expect), expectation(result.Reason), result.Error)
		}
	}

	if report.Balances, err = env.balances(); err != nil {
		return nil, err
	}
	if report.Assets, err = env.keeper.GetAllAssets(env.ctx); err != nil {
		return nil, err
	}
	report.Holders = make(map[string][]string, len(report.Assets))
	for _, asset := range report.Assets {
		holdings, err := env.keeper.GetHoldingsByAsset(env.ctx, asset.AssetID)
		if err != nil {
			return nil, err
		}
		for _, holding := range holdings {
			report.Holders[asset.AssetID] = append(report.Holders[asset.AssetID], holding.HolderID)
		}
	}
	if report.Platform, err = env.keeper.GetPlatformState(env.ctx); err != nil {
		return nil, err
	}
	msg, broken := keeper.AllInvariants(env.keeper)(env.ctx)
	report.Invariants = InvariantReport{Broken: broken, Message: msg}
	if report.Metrics, err = env.gatherMetrics(); err != nil {
		return nil, err
	}
	return report, nil
}

func expectation(reason string) string {
	if reason == "" {
		return "success"
	}
	return reason
}
