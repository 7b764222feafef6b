// Command triagectl runs one classification from the terminal using the same
// configuration as the server.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "triagectl",
	Short:         "Classify lawsuit filings from the command line",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	rootCmd.AddCommand(classifyCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
