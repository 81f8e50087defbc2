package stylemark

import "github.com/tsawler/stylemark/lint"

// analyzeOptions holds configuration accumulated through the fluent
// chain before a terminal operation runs.
type analyzeOptions struct {
	// Check selection
	checks  []string
	disable []string

	// Finding filtering
	minSeverity lint.Severity

	// Example marker words ("" means the built-in defaults)
	badMarker  string
	goodMarker string

	// Line length for long-lines (0 disables the check)
	lineLength int

	// Heading depth the table of contents covers
	tocDepth int
}

// defaultAnalyzeOptions returns the default analysis options.
func defaultAnalyzeOptions() analyzeOptions {
	return analyzeOptions{
		checks:      nil, // nil means all built-in checks
		disable:     nil,
		minSeverity: lint.Info,
		badMarker:   "",
		goodMarker:  "",
		lineLength:  0,
		tocDepth:    1,
	}
}

// clone creates a deep copy of analyzeOptions.
func (o analyzeOptions) clone() analyzeOptions {
	newOpts := analyzeOptions{
		minSeverity: o.minSeverity,
		badMarker:   o.badMarker,
		goodMarker:  o.goodMarker,
		lineLength:  o.lineLength,
		tocDepth:    o.tocDepth,
	}

	// Deep copy the id slices
	if o.checks != nil {
		newOpts.checks = make([]string, len(o.checks))
		copy(newOpts.checks, o.checks)
	}
	if o.disable != nil {
		newOpts.disable = make([]string, len(o.disable))
		copy(newOpts.disable, o.disable)
	}

	return newOpts
}

// lintConfig translates the options into a lint runner configuration.
// Unset marker words fall back to the runner's defaults.
func (o analyzeOptions) lintConfig() lint.Config {
	config := lint.DefaultConfig()
	if o.badMarker != "" {
		config.BadMarkers = []string{o.badMarker}
	}
	if o.goodMarker != "" {
		config.GoodMarkers = []string{o.goodMarker}
	}
	config.TOCDepth = o.tocDepth
	config.LineLength = o.lineLength
	return config
}
