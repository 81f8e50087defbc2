package main

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/stylemark/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [file]",
	Short: "Browse the guide's sections interactively",
	Long: `Opens an interactive browser over the guide's section tree. Pick a
section to read it rendered for the terminal; "/" filters the list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(guidePath(args))
	if err != nil {
		return err
	}
	return ui.Browse(doc)
}
