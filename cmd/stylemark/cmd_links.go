package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/stylemark/internal/store"
	"github.com/tsawler/stylemark/internal/ui"
	"github.com/tsawler/stylemark/linkcheck"
)

var (
	linksFormat      string
	linksTimeout     time.Duration
	linksConcurrency int
	linksNoCache     bool
	linksExclude     []string
	linksInsecure    bool
)

var linksCmd = &cobra.Command{
	Use:   "links [file]",
	Short: "Check the document's external links",
	Long: `Checks every external link in the document over HTTP. Results are
cached, so unchanged links are not refetched within the cache TTL.

Exit status: 0 when every link resolves, 1 when some errored without a
verdict, 2 when links are broken, 3 for usage or I/O problems.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLinks,
}

func init() {
	linksCmd.Flags().StringVar(&linksFormat, "format", "text", "Output format: text or json")
	linksCmd.Flags().DurationVar(&linksTimeout, "timeout", 0, "Per-request timeout (default from config)")
	linksCmd.Flags().IntVar(&linksConcurrency, "concurrency", 0, "Parallel requests (default from config)")
	linksCmd.Flags().BoolVar(&linksNoCache, "no-cache", false, "Skip the link cache")
	linksCmd.Flags().StringSliceVar(&linksExclude, "exclude", nil, "URL substrings or globs to skip")
	linksCmd.Flags().BoolVar(&linksInsecure, "insecure", false, "Skip TLS certificate verification")
}

func runLinks(cmd *cobra.Command, args []string) error {
	path := guidePath(args)
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	opts := cfg.LinkOptions()
	if linksTimeout > 0 {
		opts.Timeout = linksTimeout
	}
	if linksConcurrency > 0 {
		opts.Concurrency = linksConcurrency
	}
	opts.Exclude = append(opts.Exclude, linksExclude...)
	if linksInsecure {
		opts.Insecure = true
	}

	checker := linkcheck.NewWithOptions(opts)
	defer checker.CloseIdleConnections()

	if !linksNoCache {
		if st, err := store.Open(cfg.CachePath()); err != nil {
			logger.Debug("link cache unavailable", zap.Error(err))
		} else {
			checker.SetCache(st)
			defer st.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep := checker.CheckDocument(ctx, doc)

	switch linksFormat {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "text":
		fmt.Print(ui.RenderLinkReport(&rep, noColor))
	default:
		return fmt.Errorf("unknown format %q", linksFormat)
	}

	recordRun(store.Run{
		ID:      rep.RunID.String(),
		Kind:    "links",
		Source:  path,
		Started: rep.Started,
		Broken:  rep.Broken,
	})

	switch {
	case rep.Broken > 0:
		exitCode = 2
	case rep.Errored > 0:
		exitCode = 1
	}
	return nil
}
