package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/solsocial/socialkeys/cmd/keysim/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		log.NewLogger(os.Stderr).Error("failure when running keysim", "err", err)
		os.Exit(1)
	}
}
