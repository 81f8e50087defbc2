package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/stylemark/rules"
)

var (
	rulesFormat string
	rulesOutput string
)

var rulesCmd = &cobra.Command{
	Use:   "rules [file]",
	Short: "Extract the rule inventory",
	Long: `Extracts the guide's rules: each piece of advice with its anchor,
section trail and labeled code examples.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesFormat, "format", "json", "Output format: json or yaml")
	rulesCmd.Flags().StringVarP(&rulesOutput, "output", "o", "", "Write to file instead of stdout")
}

func runRules(cmd *cobra.Command, args []string) error {
	path := guidePath(args)
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	inv, err := rules.NewExtractor().Extract(doc)
	if err != nil {
		return err
	}

	var data []byte
	switch rulesFormat {
	case "json":
		data, err = json.MarshalIndent(inv, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case "yaml":
		data, err = yaml.Marshal(inv)
	default:
		return fmt.Errorf("unknown format %q", rulesFormat)
	}
	if err != nil {
		return err
	}
	return writeOutput(rulesOutput, data)
}
