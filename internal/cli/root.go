// Package cli implements the Mindscape command-line interface using Cobra.
// Each subcommand maps to a daemon capability (serve, rotation, stats, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mindscape",
	Short: "Mindscape: mindful breaks that build a city",
	Long: `Mindscape turns screen breaks into a cozy city builder.
Complete short mindful activities, earn city items, and keep your streak alive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
