package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/stylemark/toc"
)

var (
	tocWrite bool
	tocDepth int
)

var tocCmd = &cobra.Command{
	Use:   "toc [file]",
	Short: "Generate or rewrite the table of contents",
	Long: `Prints the table of contents generated from the document's headings.
With --write the block in the document is replaced in place; the rest
of the file is left byte for byte as it was.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTOC,
}

func init() {
	tocCmd.Flags().BoolVar(&tocWrite, "write", false, "Rewrite the document's TOC block in place")
	tocCmd.Flags().IntVar(&tocDepth, "depth", 0, "Heading levels to cover (default 1)")
}

func runTOC(cmd *cobra.Command, args []string) error {
	path := guidePath(args)
	r, doc, err := loadSource(path)
	if err != nil {
		return err
	}

	opts := toc.DefaultOptions()
	if tocDepth > 0 {
		opts.Depth = tocDepth
	}

	if !tocWrite {
		entries := toc.Generate(doc.Sections, opts)
		fmt.Print(toc.RenderWith(entries, opts))
		return nil
	}

	out, changed, err := toc.Rewrite(r.Source(), doc, opts)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("table of contents already up to date")
		return nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("updated table of contents in %s\n", path)
	return nil
}
