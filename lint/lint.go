package lint

import (
	"fmt"
	"strings"

	"github.com/tsawler/stylemark/model"
)

// Severity classifies how serious a finding is.
type Severity int

const (
	// Info findings are stylistic observations.
	Info Severity = iota

	// Warning findings are likely mistakes that do not break links or
	// rendering.
	Warning

	// Error findings break the reading experience.
	Error
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity converts a severity name to a Severity. Accepted values
// are "info", "warning" and "error" in any case.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info":
		return Info, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	default:
		return Info, fmt.Errorf("unknown severity %q", name)
	}
}

// MarshalJSON encodes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSeverity(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Finding is a single problem located in a document.
type Finding struct {
	// Check is the ID of the check that produced the finding.
	Check string `json:"check"`

	// Severity of the problem.
	Severity Severity `json:"severity"`

	// Message describes the problem.
	Message string `json:"message"`

	// Path of the document.
	Path string `json:"path,omitempty"`

	// Line in the original source (1-indexed). Zero when the finding
	// applies to the document as a whole.
	Line int `json:"line,omitempty"`
}

// Check is the interface for document checks.
type Check interface {
	// ID returns the check's stable identifier
	ID() string

	// Description returns a one-line description
	Description() string

	// Run inspects the document and reports findings
	Run(doc *model.Document) []Finding
}

// Config holds check configuration.
type Config struct {
	// Marker words opening a bad example inside a code block
	BadMarkers []string

	// Marker words opening a good example
	GoodMarkers []string

	// Comment syntaxes a marker may appear behind
	CommentPrefixes []string

	// Section depth the table of contents must cover, counted from the
	// first content level
	TOCDepth int

	// Maximum line length for long-lines. Zero disables the check.
	LineLength int

	// Directory relative links resolve against. Empty means the
	// document's own directory.
	BaseDir string
}

// DefaultConfig returns the configuration used by style guides in the
// wild: "# bad" / "# good" marker comments and a one-level table of
// contents.
func DefaultConfig() Config {
	return Config{
		BadMarkers:      []string{"bad"},
		GoodMarkers:     []string{"good", "okish"},
		CommentPrefixes: []string{"#", "//", "--", ";"},
		TOCDepth:        1,
		LineLength:      0,
	}
}

// BuiltinChecks returns all built-in checks configured with config, in
// their canonical run order.
func BuiltinChecks(config Config) []Check {
	return []Check{
		NewTOCAnchorsCheck(),
		NewFenceBalanceCheck(),
		NewFenceLanguageCheck(),
		NewExamplePairsCheck(config),
		NewHeadingJumpsCheck(),
		NewDuplicateHeadingsCheck(),
		NewTOCSyncCheck(config),
		NewReferenceLinksCheck(),
		NewTableShapeCheck(),
		NewRelativeFilesCheck(config),
		NewImageFilesCheck(config),
		NewTrailingWhitespaceCheck(),
		NewHardTabsCheck(),
		NewLongLinesCheck(config),
	}
}

// Registry holds registered checks.
type Registry struct {
	checks map[string]Check
	order  []string
}

// NewRegistry creates a new check registry.
func NewRegistry() *Registry {
	return &Registry{
		checks: make(map[string]Check),
	}
}

// Register registers a check. Registering an ID twice replaces the
// earlier check but keeps its position.
func (r *Registry) Register(check Check) {
	if _, ok := r.checks[check.ID()]; !ok {
		r.order = append(r.order, check.ID())
	}
	r.checks[check.ID()] = check
}

// Get retrieves a check by ID, or nil.
func (r *Registry) Get(id string) Check {
	return r.checks[id]
}

// List returns all registered check IDs in registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterCheck registers a check globally. Plugin-defined checks use
// this to become available to every runner.
func RegisterCheck(check Check) {
	globalRegistry.Register(check)
}

// GetCheck retrieves a globally registered check by ID.
func GetCheck(id string) Check {
	return globalRegistry.Get(id)
}

// ListChecks returns all globally registered check IDs.
func ListChecks() []string {
	return globalRegistry.List()
}

func init() {
	// Register default checks
	for _, c := range BuiltinChecks(DefaultConfig()) {
		RegisterCheck(c)
	}
}
