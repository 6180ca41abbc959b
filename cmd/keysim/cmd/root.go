package cmd

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
)

const (
	flagVerbose = "verbose"
	flagPretty  = "pretty"
)

// NewRootCmd creates the root command for keysim.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "keysim",
		Short: "Price and simulate social key markets",
		Long: `keysim runs the keys module against an in-memory store.

quote prices a single trade on a curve at a given supply.
simulate replays a YAML scenario of creates, trades, engagements and claims
and reports balances, asset state, invariants and metrics.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool(flagVerbose, false, "Log keeper activity to stderr")
	rootCmd.PersistentFlags().Bool(flagPretty, true, "Pretty-print JSON output")

	rootCmd.AddCommand(
		quoteCommand(),
		simulateCommand(),
	)
	return rootCmd
}

func commandLogger(cmd *cobra.Command) log.Logger {
	if verbose, _ := cmd.Flags().GetBool(flagVerbose); verbose {
		return log.NewLogger(cmd.ErrOrStderr())
	}
	return log.NewNopLogger()
}

func writeJSON(cmd *cobra.Command, v any) error {
	pretty, _ := cmd.Flags().GetBool(flagPretty)

	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(append(out, '\n'))
	return err
}
