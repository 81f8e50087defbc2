package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/stylemark/internal/ui"
	"github.com/tsawler/stylemark/model"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Show document statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", "text", "Output format: text or json")
}

func runStats(cmd *cobra.Command, args []string) error {
	path := guidePath(args)
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	stats := model.Collect(doc)
	switch statsFormat {
	case "json":
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "text":
		fmt.Print(ui.RenderStats(path, stats, noColor))
	default:
		return fmt.Errorf("unknown format %q", statsFormat)
	}
	return nil
}
