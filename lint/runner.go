package lint

import (
	"sort"

	"github.com/tsawler/stylemark/model"
)

// Runner executes a set of checks over a document and aggregates the
// findings.
type Runner struct {
	config   Config
	checks   []Check
	disabled map[string]bool
	only     map[string]bool
	min      Severity
}

// NewRunner creates a runner with the default configuration, all
// built-in checks and any globally registered extras.
func NewRunner() *Runner {
	return NewRunnerWithConfig(DefaultConfig())
}

// NewRunnerWithConfig creates a runner with a custom configuration.
func NewRunnerWithConfig(config Config) *Runner {
	r := &Runner{
		config:   config,
		disabled: make(map[string]bool),
		min:      Info,
	}
	r.checks = BuiltinChecks(config)

	// Pick up plugin checks registered after init.
	builtin := make(map[string]bool, len(r.checks))
	for _, c := range r.checks {
		builtin[c.ID()] = true
	}
	for _, id := range ListChecks() {
		if !builtin[id] {
			r.checks = append(r.checks, GetCheck(id))
		}
	}
	return r
}

// Add appends extra checks to the runner.
func (r *Runner) Add(checks ...Check) {
	r.checks = append(r.checks, checks...)
}

// Disable turns off the named checks.
func (r *Runner) Disable(ids ...string) {
	for _, id := range ids {
		r.disabled[id] = true
	}
}

// Only restricts the runner to the named checks.
func (r *Runner) Only(ids ...string) {
	if r.only == nil {
		r.only = make(map[string]bool)
	}
	for _, id := range ids {
		r.only[id] = true
	}
}

// MinSeverity drops findings below s.
func (r *Runner) MinSeverity(s Severity) {
	r.min = s
}

// Result holds the outcome of a lint run.
type Result struct {
	// Findings sorted by line, then check ID.
	Findings []Finding `json:"findings"`

	// Checked lists the IDs of the checks that ran.
	Checked []string `json:"checked"`

	// Unknown lists requested check IDs that matched nothing.
	Unknown []string `json:"unknown,omitempty"`

	// Stats are the document statistics at run time.
	Stats model.Stats `json:"stats"`
}

// Worst returns the highest severity among the findings, or Info when
// there are none.
func (r *Result) Worst() Severity {
	worst := Info
	for _, f := range r.Findings {
		if f.Severity > worst {
			worst = f.Severity
		}
	}
	return worst
}

// Count returns the number of findings with severity s.
func (r *Result) Count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Run executes the enabled checks against doc.
func (r *Runner) Run(doc *model.Document) *Result {
	res := &Result{Stats: model.Collect(doc)}

	known := make(map[string]bool, len(r.checks))
	for _, c := range r.checks {
		known[c.ID()] = true
	}
	for id := range r.only {
		if !known[id] {
			res.Unknown = append(res.Unknown, id)
		}
	}
	for id := range r.disabled {
		if !known[id] {
			res.Unknown = append(res.Unknown, id)
		}
	}
	sort.Strings(res.Unknown)

	for _, c := range r.checks {
		if r.disabled[c.ID()] {
			continue
		}
		if r.only != nil && !r.only[c.ID()] {
			continue
		}
		res.Checked = append(res.Checked, c.ID())
		for _, f := range c.Run(doc) {
			if f.Severity < r.min {
				continue
			}
			if f.Check == "" {
				f.Check = c.ID()
			}
			if f.Path == "" {
				f.Path = doc.Path
			}
			res.Findings = append(res.Findings, f)
		}
	}

	sort.SliceStable(res.Findings, func(i, j int) bool {
		if res.Findings[i].Line != res.Findings[j].Line {
			return res.Findings[i].Line < res.Findings[j].Line
		}
		return res.Findings[i].Check < res.Findings[j].Check
	})
	return res
}
