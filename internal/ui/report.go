package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/tsawler/stylemark/linkcheck"
	"github.com/tsawler/stylemark/lint"
	"github.com/tsawler/stylemark/model"
)

// RenderFindings formats a lint result for the terminal. Findings are
// listed one per line under their document path, followed by a summary
// of the counts and the number of checks that ran. With plain set the
// output carries no color codes.
func RenderFindings(res *lint.Result, plain bool) string {
	if res == nil {
		return ""
	}

	var b strings.Builder

	if len(res.Unknown) > 0 {
		line := "unknown checks: " + strings.Join(res.Unknown, ", ")
		b.WriteString(styled(warnStyle, line, plain))
		b.WriteString("\n\n")
	}

	if len(res.Findings) == 0 {
		b.WriteString(styled(okStyle, "✓ no problems found", plain))
		b.WriteString(styled(dimStyle, fmt.Sprintf(" · %d checks ran", len(res.Checked)), plain))
		b.WriteString("\n")
		return b.String()
	}

	lastPath := ""
	for _, f := range res.Findings {
		if f.Path != lastPath {
			if lastPath != "" {
				b.WriteString("\n")
			}
			b.WriteString(styled(headStyle, f.Path, plain))
			b.WriteString("\n")
			lastPath = f.Path
		}
		b.WriteString(fmt.Sprintf("  %4d  %s  %s  %s\n",
			f.Line,
			severityLabel(f.Severity, plain),
			f.Message,
			styled(dimStyle, "("+f.Check+")", plain)))
	}

	b.WriteString("\n")
	b.WriteString(findingSummary(res, plain))
	b.WriteString("\n")
	return b.String()
}

func findingSummary(res *lint.Result, plain bool) string {
	var parts []string
	if n := res.Count(lint.Error); n > 0 {
		parts = append(parts, plural(n, "error"))
	}
	if n := res.Count(lint.Warning); n > 0 {
		parts = append(parts, plural(n, "warning"))
	}
	if n := res.Count(lint.Info); n > 0 {
		parts = append(parts, fmt.Sprintf("%d info", n))
	}

	total := plural(len(res.Findings), "problem")
	if len(parts) > 0 {
		total += " (" + strings.Join(parts, ", ") + ")"
	}

	style := warnStyle
	if res.Worst() == lint.Error {
		style = errStyle
	}
	return styled(style, total, plain) +
		styled(dimStyle, fmt.Sprintf(" · %d checks ran", len(res.Checked)), plain)
}

// RenderLinkReport formats a link check report for the terminal. Only
// broken and errored links are listed individually; healthy and skipped
// links appear in the summary counts. With plain set the output carries
// no color codes.
func RenderLinkReport(rep *linkcheck.Report, plain bool) string {
	if rep == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styled(headStyle, rep.Path, plain))
	b.WriteString(styled(dimStyle, fmt.Sprintf(" · %s checked", plural(len(rep.Results), "link")), plain))
	b.WriteString("\n")

	for _, r := range rep.Results {
		if r.Status != linkcheck.StatusBroken && r.Status != linkcheck.StatusErrored {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s  %s", statusLabel(r.Status, plain), r.URL))
		switch {
		case r.Status == linkcheck.StatusBroken && r.Code > 0:
			b.WriteString(fmt.Sprintf(" (HTTP %d)", r.Code))
		case r.Err != "":
			b.WriteString(": " + r.Err)
		}
		if r.Cached {
			b.WriteString(styled(dimStyle, " (cached)", plain))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(linkSummary(rep, plain))
	b.WriteString("\n")
	return b.String()
}

// RenderStats formats document statistics as a two-column table.
func RenderStats(path string, stats model.Stats, plain bool) string {
	rows := []struct {
		label string
		value int
	}{
		{"lines", stats.Lines},
		{"words", stats.Words},
		{"sections", stats.Sections},
		{"headings", stats.Headings},
		{"max heading depth", stats.MaxHeadingDepth},
		{"code blocks", stats.CodeBlocks},
		{"tagged code blocks", stats.TaggedCodeBlocks},
		{"code lines", stats.CodeLines},
		{"links", stats.Links},
		{"internal links", stats.InternalLinks},
		{"external links", stats.ExternalLinks},
		{"relative links", stats.RelativeLinks},
		{"images", stats.Images},
		{"tables", stats.Tables},
		{"list items", stats.ListItems},
		{"toc entries", stats.TOCEntries},
	}

	var b strings.Builder
	b.WriteString(styled(headStyle, path, plain))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-18s  %6d\n", row.label, row.value))
	}
	return b.String()
}

func linkSummary(rep *linkcheck.Report, plain bool) string {
	elapsed := styled(dimStyle, " · "+rep.Elapsed.Round(time.Millisecond).String(), plain)

	if rep.Broken == 0 && rep.Errored == 0 {
		line := fmt.Sprintf("✓ all %s ok", plural(rep.OK, "link"))
		if rep.Skipped > 0 {
			line += fmt.Sprintf(" (%d skipped)", rep.Skipped)
		}
		return styled(okStyle, line, plain) + elapsed
	}

	counts := fmt.Sprintf("%d ok, %d broken, %d errored, %d skipped",
		rep.OK, rep.Broken, rep.Errored, rep.Skipped)
	return styled(errStyle, counts, plain) + elapsed
}
