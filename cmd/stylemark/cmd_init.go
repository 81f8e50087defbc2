package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tsawler/stylemark/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .stylemark.yaml",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stylemark version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stylemark %s (%s)\n", appVersion, runtime.Version())
	},
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := config.Scaffold(".")
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
