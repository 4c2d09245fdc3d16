package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"topic-pulse/internal/export"
	"topic-pulse/internal/markdown"
)

var showReportCmd = &cobra.Command{
	Use:   "show-report <markdown_path>",
	Short: "Parse an exported report and print its metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := markdown.ParseFile(args[0])
		if err != nil {
			return err
		}
		var fm export.Frontmatter
		if err := doc.Decode(&fm); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "title:    %s\n", fm.Title)
		fmt.Fprintf(out, "topic:    %s\n", fm.Topic)
		fmt.Fprintf(out, "datetime: %s\n", fm.Datetime)
		fmt.Fprintf(out, "sources:  %v\n", fm.Sources)
		fmt.Fprintf(out, "items:    %d\n", fm.Items)
		fmt.Fprintf(out, "body bytes: %d\n", len(doc.Body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showReportCmd)
}
