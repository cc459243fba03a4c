package main

import (
	"errors"
	"os"

	"github.com/ctxpack/ctxpack/cmd/cli"
	"github.com/ctxpack/ctxpack/pkg/engine"
	"github.com/ctxpack/ctxpack/pkg/version"
)

func main() {
	cli.RootCmd.Version = version.GetVersion()
	cli.RootCmd.SetVersionTemplate(version.GetInfo().String() + "\n")
	if err := cli.RootCmd.Execute(); err != nil {
		// Cobra already printed the error; pick the exit code.
		if errors.Is(err, engine.ErrEmptySelection) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
