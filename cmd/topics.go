package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"topic-pulse/internal/pipeline"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List configured topics and their sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl := pipeline.NewTopicTable(GetConfig().Topics)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tSOURCES\tDESCRIPTION")
		for _, t := range tbl.Topics() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, strings.Join(t.Sources, ","), t.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
