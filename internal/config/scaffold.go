package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultYAML is the commented configuration Scaffold writes.
const DefaultYAML = `# stylemark configuration. Values here are overridden by STYLEMARK_*
# environment variables and command line flags.

# Document commands default to when no file argument is given.
guide: README.md

lint:
  # Run only these checks. Empty means all.
  enable: []
  # Checks to skip.
  disable: []
  # Lowest severity worth reporting: info, warning or error.
  min_severity: info
  # Maximum prose line length. 0 disables the check.
  line_length: 0
  # Comment words opening bad and good example blocks. Empty keeps the
  # built-in markers.
  bad_marker: ""
  good_marker: ""

links:
  # Per-request timeout.
  timeout: 10s
  # Parallel requests.
  concurrency: 8
  # Extra attempts after a failed request.
  retries: 2
  # How long cached link results stay fresh.
  cache_ttl: 24h
  # URL substrings or globs to skip.
  exclude: []
  # User-Agent header. Empty uses the built-in default.
  user_agent: ""

render:
  # Page title. Empty uses the document's own title.
  title: ""
  # Number sections in HTML output.
  section_numbers: false

plugins:
  # Directory of user-defined checks (*.yaml and *.go).
  dir: .stylemark/checks

# Where the link cache database lives.
cache_dir: .stylemark
`

// Scaffold writes the commented default configuration into dir and
// returns its path. It refuses to overwrite an existing file.
func Scaffold(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(DefaultYAML), 0644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}
