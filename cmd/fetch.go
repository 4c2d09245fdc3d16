package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"topic-pulse/internal/metrics"
)

var fetchJSON bool

// fetchCmd runs one aggregation pass and prints the merged document.
var fetchCmd = &cobra.Command{
	Use:   "fetch <topic>",
	Short: "Aggregate one topic and print the merged document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		pl, err := newPipeline(cfg, nil, metrics.New())
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		d, err := pl.Run(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if fetchJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}
		fmt.Fprint(out, d.Document)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the full digest as JSON")
}
