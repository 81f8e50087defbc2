package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/stylemark/epub"
	"github.com/tsawler/stylemark/render"
)

var (
	renderFormat string
	renderOutput string
	renderAuthor string
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render the document as HTML, EPUB or for the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderFormat, "format", "html", "Output format: html, epub or term")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write to file instead of stdout")
	renderCmd.Flags().StringVar(&renderAuthor, "author", "", "Author metadata for EPUB output")
}

func runRender(cmd *cobra.Command, args []string) error {
	path := guidePath(args)
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	switch renderFormat {
	case "html":
		page, err := render.HTML(doc, render.Options{
			Title:          cfg.Render.Title,
			NumberSections: cfg.Render.SectionNumbers,
		})
		if err != nil {
			return err
		}
		return writeOutput(renderOutput, []byte(page))

	case "epub":
		out := renderOutput
		if out == "" {
			out = strings.TrimSuffix(path, filepath.Ext(path)) + ".epub"
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		opts := epub.Options{Title: cfg.Render.Title, Author: renderAuthor}
		if err := epub.Write(f, doc, opts); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", out)
		return nil

	case "term":
		page, err := render.Terminal(doc, 100)
		if err != nil {
			return err
		}
		fmt.Print(page)
		return nil

	default:
		return fmt.Errorf("unknown format %q", renderFormat)
	}
}
