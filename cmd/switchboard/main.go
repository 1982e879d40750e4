// Command switchboard referees a two-team word-deduction game.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/roach88/switchboard/internal/cli"
)

func main() {
	// A .env file in the working directory may set SWITCHBOARD_* defaults.
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
