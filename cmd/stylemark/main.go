// Package main implements the stylemark command line interface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tsawler/stylemark/internal/config"
	"github.com/tsawler/stylemark/internal/store"
	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/outline"
	"github.com/tsawler/stylemark/reader"
)

const appVersion = "1.0.0"

var (
	// Persistent flags
	cfgPath string
	verbose bool
	noColor bool

	// Shared state built in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger

	// exitCode is the process status when no command error occurred.
	// Lint findings and broken links raise it without aborting.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "stylemark",
	Short: "Style guide toolkit for Markdown documents",
	Long: `stylemark checks, analyzes and renders Markdown style guides.

It verifies the mechanics of a guide: a table of contents in sync with
the headings, anchors that resolve, balanced code fences, labeled
bad/good examples and working external links. The advice itself is
never judged.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		// version and init must work with a broken or absent config.
		if cmd.Name() == "version" || cmd.Name() == "init" {
			cfg = config.Default()
			return nil
		}

		cfg, err = config.Load(cfgPath)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default: nearest .stylemark.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(tocCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stylemark: %v\n", err)
		os.Exit(3)
	}
	os.Exit(exitCode)
}

// guidePath resolves the document argument: an explicit argument wins,
// then the configured guide, then README.md.
func guidePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg.Guide != "" {
		return cfg.Guide
	}
	return "README.md"
}

// loadSource opens the document and applies the outline analysis every
// command relies on. The reader keeps the raw bytes for commands that
// rewrite or re-render the source.
func loadSource(path string) (*reader.Reader, *model.Document, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, nil, err
	}
	doc, warnings, err := r.Document()
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		logger.Debug("reader warning",
			zap.String("path", path),
			zap.Int("line", w.Line),
			zap.String("message", w.Message))
	}
	outline.NewAnalyzer().Analyze(doc).Apply(doc)
	return r, doc, nil
}

func loadDocument(path string) (*model.Document, error) {
	_, doc, err := loadSource(path)
	return doc, err
}

// writeOutput writes data to the named file, or to stdout when the
// name is empty.
func writeOutput(name string, data []byte) error {
	if name == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// recordRun appends to the run history, best effort. A missing or
// unwritable cache database never fails the command.
func recordRun(run store.Run) {
	st, err := store.Open(cfg.CachePath())
	if err != nil {
		logger.Debug("run history unavailable", zap.Error(err))
		return
	}
	defer st.Close()
	if err := st.RecordRun(run); err != nil {
		logger.Debug("recording run", zap.Error(err))
	}
}
