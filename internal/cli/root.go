// Package cli implements the kudos command-line interface using Cobra.
// Each subcommand maps to one service capability (serve, evaluate, tags).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kudos",
	Short: "kudos: compliments and buddy nudges for learning communities",
	Long: `kudos decides when a learner deserves a compliment and which quiet
study buddies they should reach out to.

Run "kudos serve" for the HTTP API, or "kudos evaluate" to score a single
request offline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Service config file (default $KUDOS_HOME/config.toml)")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
