package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripsplit/internal/report"
)

func newSettleCmd() *cobra.Command {
	var (
		file         string
		currencyCode string
	)
	cmd := &cobra.Command{
		Use:   "settle --file trip.json",
		Short: "Compute balances and settlements for a trip file",
		Long: `Reads a trip described as JSON (members, expenses, payments) and prints
every member's balance and the transfers that settle the trip. Use "-" to
read from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatter, err := report.NewFormatter(currencyCode)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open trip file: %w", err)
				}
				defer f.Close()
				in = f
			}

			trip, err := report.Load(in)
			if err != nil {
				return err
			}
			res, err := report.Settle(trip)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), res, formatter)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Trip JSON file, or - for stdin")
	cmd.Flags().StringVar(&currencyCode, "currency", "USD", "ISO 4217 currency code for output")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
