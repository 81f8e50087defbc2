package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tsawler/stylemark/internal/config"
	"github.com/tsawler/stylemark/lint"
	"github.com/tsawler/stylemark/rules"
)

// setupCLI points the globals at a fresh temp directory the way
// PersistentPreRunE would for a real invocation.
func setupCLI(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.Default()
	exitCode = 0
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeGuide(t *testing.T, name, src string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(src), 0o644))
	return name
}

func TestRunLintClean(t *testing.T) {
	setupCLI(t)
	path := writeGuide(t, "guide.md", "# Guide\n\nShort and tidy.\n")

	err := runLint(&cobra.Command{}, []string{path})

	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
}

func TestRunLintErrorExit(t *testing.T) {
	setupCLI(t)
	path := writeGuide(t, "guide.md", "# Guide\n\n```ruby\nx = 1\n")

	err := runLint(&cobra.Command{}, []string{path})

	require.NoError(t, err)
	assert.Equal(t, 2, exitCode)
}

func TestRunLintStrictWarnings(t *testing.T) {
	setupCLI(t)
	// A closed fence without a language tag is a warning-level finding.
	path := writeGuide(t, "guide.md", "# Guide\n\n```\nx = 1\n```\n")

	err := runLint(&cobra.Command{}, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)

	lintStrict = true
	defer func() { lintStrict = false }()

	err = runLint(&cobra.Command{}, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, exitCode)
}

func TestRunLintMissingFile(t *testing.T) {
	setupCLI(t)

	err := runLint(&cobra.Command{}, []string{"nope.md"})

	require.Error(t, err)
}

func TestRunLinksNoExternal(t *testing.T) {
	setupCLI(t)
	path := writeGuide(t, "guide.md", "# Guide\n\nSee [Strings](#strings).\n\n## Strings\n\nFine.\n")

	err := runLinks(&cobra.Command{}, []string{path})

	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
}

func TestRunTOCWrite(t *testing.T) {
	setupCLI(t)
	src := "# Guide\n" +
		"\n" +
		"## Table of Contents\n" +
		"\n" +
		"- [Old](#old)\n" +
		"\n" +
		"## Strings\n" +
		"\n" +
		"Prefer single quotes.\n"
	path := writeGuide(t, "guide.md", src)

	tocWrite = true
	defer func() { tocWrite = false }()

	require.NoError(t, runTOC(&cobra.Command{}, []string{path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Strings](#strings)")
	assert.NotContains(t, string(data), "#old")

	// A second run finds nothing to change.
	require.NoError(t, runTOC(&cobra.Command{}, []string{path}))
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestRunRules(t *testing.T) {
	setupCLI(t)
	path := writeGuide(t, "guide.md", "# Guide\n\n## Strings\n\n* Prefer single quotes.\n")

	rulesOutput = "rules.json"
	defer func() { rulesOutput = "" }()

	require.NoError(t, runRules(&cobra.Command{}, []string{path}))

	data, err := os.ReadFile("rules.json")
	require.NoError(t, err)
	var inv rules.Inventory
	require.NoError(t, json.Unmarshal(data, &inv))
	require.NotEmpty(t, inv.Rules)
	assert.Equal(t, []string{"Guide", "Strings"}, inv.Rules[0].Section)
}

func TestRunRenderHTML(t *testing.T) {
	setupCLI(t)
	path := writeGuide(t, "guide.md", "# Guide\n\n## Strings\n\nPrefer single quotes.\n")

	renderOutput = "guide.html"
	defer func() { renderOutput = "" }()

	require.NoError(t, runRender(&cobra.Command{}, []string{path}))

	data, err := os.ReadFile("guide.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h2 id=\"strings\">")
}

func TestRunRenderEPUB(t *testing.T) {
	setupCLI(t)
	path := writeGuide(t, "guide.md", "# Guide\n\n## Strings\n\nPrefer single quotes.\n")

	renderFormat = "epub"
	defer func() { renderFormat = "html" }()

	require.NoError(t, runRender(&cobra.Command{}, []string{path}))

	data, err := os.ReadFile("guide.epub")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "PK"), "EPUB should be a zip archive")
}

func TestRunRenderUnknownFormat(t *testing.T) {
	setupCLI(t)
	path := writeGuide(t, "guide.md", "# Guide\n\nText.\n")

	renderFormat = "docx"
	defer func() { renderFormat = "html" }()

	require.Error(t, runRender(&cobra.Command{}, []string{path}))
}

func TestRunStats(t *testing.T) {
	setupCLI(t)
	path := writeGuide(t, "guide.md", "# Guide\n\nSome prose here.\n")

	require.NoError(t, runStats(&cobra.Command{}, []string{path}))
}

func TestRunInit(t *testing.T) {
	setupCLI(t)

	require.NoError(t, runInit(&cobra.Command{}, nil))
	_, err := os.Stat(config.FileName)
	require.NoError(t, err)

	require.Error(t, runInit(&cobra.Command{}, nil), "second init must refuse to overwrite")
}

func TestGuidePath(t *testing.T) {
	setupCLI(t)

	assert.Equal(t, "STYLE.md", guidePath([]string{"STYLE.md"}))
	assert.Equal(t, "README.md", guidePath(nil))

	cfg.Guide = "docs/guide.md"
	assert.Equal(t, "docs/guide.md", guidePath(nil))
	assert.Equal(t, "other.md", guidePath([]string{"other.md"}))
}

func TestLintExitCode(t *testing.T) {
	errRes := &lint.Result{Findings: []lint.Finding{{Severity: lint.Error}}}
	warnRes := &lint.Result{Findings: []lint.Finding{{Severity: lint.Warning}}}
	clean := &lint.Result{}

	assert.Equal(t, 2, lintExitCode(errRes))
	assert.Equal(t, 0, lintExitCode(warnRes))
	assert.Equal(t, 0, lintExitCode(clean))

	lintStrict = true
	defer func() { lintStrict = false }()
	assert.Equal(t, 1, lintExitCode(warnRes))
	assert.Equal(t, 2, lintExitCode(errRes))
}

func TestWriteOutput(t *testing.T) {
	setupCLI(t)

	require.NoError(t, writeOutput("out.txt", []byte("hello")))
	data, err := os.ReadFile("out.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.Error(t, writeOutput(filepath.Join("missing", "dir", "out.txt"), []byte("x")))
}
