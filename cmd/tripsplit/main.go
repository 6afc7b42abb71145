package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripsplit/internal/buildinfo"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "tripsplit",
		Short:   "Shared trip expenses and settlements",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tripsplit", buildinfo.String())
		},
	}

	rootCmd.AddCommand(newServeCmd(), newWorkerCmd(), newSettleCmd(), versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
