// Package cmd provides the command-line interface of pcsma.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pcsma",
	Short: "pcsma simulates a shared channel under slotted p-persistent CSMA.",
	Long: `pcsma simulates stations that contend for one shared channel ` +
		`with slotted p-persistent CSMA and reports the throughput, the ` +
		`offered load and the collisions of the run.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
