package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/stylemark/internal/store"
	"github.com/tsawler/stylemark/internal/ui"
	"github.com/tsawler/stylemark/internal/watch"
	"github.com/tsawler/stylemark/lint"
	"github.com/tsawler/stylemark/plugins"
)

var (
	lintFormat      string
	lintMinSeverity string
	lintChecks      []string
	lintDisable     []string
	lintWatch       bool
	lintStrict      bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Run the style guide checks",
	Long: `Runs the built-in checks and any configured plugin checks against
the document.

Exit status: 0 when clean or info only, 1 for warnings under --strict,
2 for errors, 3 for usage or I/O problems.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringVar(&lintFormat, "format", "text", "Output format: text or json")
	lintCmd.Flags().StringVar(&lintMinSeverity, "min-severity", "", "Drop findings below this level: info, warning or error")
	lintCmd.Flags().StringSliceVar(&lintChecks, "checks", nil, "Run only these checks")
	lintCmd.Flags().StringSliceVar(&lintDisable, "disable", nil, "Skip these checks")
	lintCmd.Flags().BoolVar(&lintWatch, "watch", false, "Re-run on file changes until interrupted")
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Exit nonzero on warnings too")
}

func runLint(cmd *cobra.Command, args []string) error {
	path := guidePath(args)

	res, err := lintOnce(path)
	if err != nil {
		return err
	}
	exitCode = lintExitCode(res)

	if !lintWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(path, func() {
		res, err := lintOnce(path)
		if err != nil {
			logger.Warn("lint failed", zap.String("path", path), zap.Error(err))
			return
		}
		exitCode = lintExitCode(res)
	})
	if err != nil {
		return err
	}
	w.SetLogger(logger)
	if err := w.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "watching %s, press ctrl+c to stop\n", path)
	<-ctx.Done()
	w.Stop()
	exitCode = 0
	return nil
}

// lintOnce loads the document, runs the checks and prints the result.
func lintOnce(path string) (*lint.Result, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	runner, err := buildLintRunner()
	if err != nil {
		return nil, err
	}
	res := runner.Run(doc)

	if err := printLintResult(res); err != nil {
		return nil, err
	}

	recordRun(store.Run{
		ID:       uuid.NewString(),
		Kind:     "lint",
		Source:   path,
		Started:  time.Now(),
		Findings: len(res.Findings),
	})
	return res, nil
}

// buildLintRunner assembles the check runner from the configuration,
// the plugin directory and the command line flags. Flags win over the
// config file.
func buildLintRunner() (*lint.Runner, error) {
	r := lint.NewRunnerWithConfig(cfg.LintConfig())

	checks, err := loadPluginChecks()
	if err != nil {
		return nil, err
	}
	r.Add(checks...)

	switch {
	case len(lintChecks) > 0:
		r.Only(lintChecks...)
	case len(cfg.Lint.Enable) > 0:
		r.Only(cfg.Lint.Enable...)
	}
	r.Disable(cfg.Lint.Disable...)
	r.Disable(lintDisable...)

	min := cfg.MinSeverity()
	if lintMinSeverity != "" {
		s, err := lint.ParseSeverity(lintMinSeverity)
		if err != nil {
			return nil, err
		}
		min = s
	}
	r.MinSeverity(min)
	return r, nil
}

// loadPluginChecks compiles the YAML and Go check definitions from the
// configured plugin directory. A missing directory is not an error.
func loadPluginChecks() ([]lint.Check, error) {
	dir := cfg.Plugins.Dir
	files, err := plugins.LoadDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	goFiles, err := plugins.LoadGoDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	files = append(files, goFiles...)
	if len(files) == 0 {
		return nil, nil
	}

	checks, err := plugins.Compile(files)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded plugin checks", zap.String("dir", dir), zap.Int("count", len(checks)))
	return checks, nil
}

func printLintResult(res *lint.Result) error {
	switch lintFormat {
	case "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "text":
		fmt.Print(ui.RenderFindings(res, noColor))
	default:
		return fmt.Errorf("unknown format %q", lintFormat)
	}
	return nil
}

func lintExitCode(res *lint.Result) int {
	switch {
	case res.Worst() == lint.Error:
		return 2
	case res.Worst() == lint.Warning && lintStrict:
		return 1
	default:
		return 0
	}
}
