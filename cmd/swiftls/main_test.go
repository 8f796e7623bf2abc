package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kelly-lin/swift-lang-server/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const shapesSource = `struct Square {
    let side: Double

    func area() -> Double {
        return side * side
    }
}
`

// Runs the root command with args against an empty config file and returns
// stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "swiftls.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("format:\n  indent_width: 4\n"), 0o644))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSwiftFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestParse(t *testing.T) {
	dir := t.TempDir()

	t.Run("s-expression", func(t *testing.T) {
		path := writeSwiftFile(t, dir, "main.swift", "import Foundation")
		stdout, stderr, err := run(t, "parse", path)
		require.NoError(t, err)
		assert.Equal(t, "(source_file (import_declaration (identifier (simple_identifier))))\n", stdout)
		assert.Empty(t, stderr)
	})

	t.Run("tree", func(t *testing.T) {
		path := writeSwiftFile(t, dir, "main.swift", "import Foundation")
		stdout, _, err := run(t, "parse", "--tree", path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		assert.Equal(t, "source_file [1:1-1:18]", lines[0])
		assert.Equal(t, `      simple_identifier [1:8-1:18] "Foundation"`, lines[len(lines)-1])
	})

	t.Run("syntax errors", func(t *testing.T) {
		path := writeSwiftFile(t, dir, "broken.swift", "func f( {\n}")
		_, stderr, err := run(t, "parse", path)
		assert.Error(t, err)
		assert.Contains(t, stderr, path+":")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "parse", filepath.Join(dir, "missing.swift"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDef(t *testing.T) {
	dir := t.TempDir()
	shapes := writeSwiftFile(t, dir, "Shapes.swift", shapesSource)
	other := writeSwiftFile(t, dir, "Other.swift", "let x = 1\n")

	stdout, _, err := run(t, "def", "area", other, shapes)
	require.NoError(t, err)
	assert.Equal(t, shapes+":4:10\n", stdout)

	_, _, err = run(t, "def", "volume", shapes)
	assert.ErrorIs(t, err, parser.ErrNoDefinition)
}

func TestSymbols(t *testing.T) {
	path := writeSwiftFile(t, t.TempDir(), "Shapes.swift", shapesSource)
	want := []symbolOutput{{
		Name:    "Square",
		Kind:    "struct",
		Detail:  "struct Square",
		Line:    1,
		Column:  8,
		EndLine: 7,
		Children: []symbolOutput{
			{Name: "side", Kind: "property", Detail: "let side: Double", Line: 2, Column: 9, EndLine: 2, Container: "Square"},
			{Name: "area", Kind: "method", Detail: "func area() -> Double", Line: 4, Column: 10, EndLine: 6, Container: "Square", Complexity: 1},
		},
	}}

	t.Run("json", func(t *testing.T) {
		stdout, _, err := run(t, "symbols", path)
		require.NoError(t, err)
		var got []symbolOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, want, got)
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, _, err := run(t, "symbols", "-o", "yaml", path)
		require.NoError(t, err)
		var got []symbolOutput
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, want, got)
	})

	t.Run("flat", func(t *testing.T) {
		stdout, _, err := run(t, "symbols", "--flat", path)
		require.NoError(t, err)
		var got []symbolOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		require.Len(t, got, 3)
		assert.Equal(t, "area", got[2].Name)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := run(t, "symbols", "-o", "xml", path)
		assert.Error(t, err)
	})
}

func TestIndex(t *testing.T) {
	dir := t.TempDir()
	writeSwiftFile(t, dir, "Shapes.swift", shapesSource)
	dbPath := filepath.Join(t.TempDir(), "index.db")

	stdout, _, err := run(t, "index", "--db", dbPath, "-q", "area", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "files: 1 indexed: 1 skipped: 0 removed: 0 symbols: 3", lines[0])
	assert.Contains(t, lines[1], "area")
	assert.Contains(t, lines[1], "method")
	assert.Contains(t, lines[1], "Shapes.swift:4:10")

	stdout, _, err = run(t, "index", "--db", dbPath, dir)
	require.NoError(t, err)
	assert.Equal(t, "files: 1 indexed: 0 skipped: 1 removed: 0 symbols: 0\n", stdout)
}

func TestFmt(t *testing.T) {
	const unformatted = "func f() {\nreturn  \n}\n"
	const formatted = "func f() {\n    return\n}\n"

	t.Run("print", func(t *testing.T) {
		path := writeSwiftFile(t, t.TempDir(), "main.swift", unformatted)
		stdout, _, err := run(t, "fmt", path)
		require.NoError(t, err)
		assert.Equal(t, formatted, stdout)
	})

	t.Run("indent width", func(t *testing.T) {
		path := writeSwiftFile(t, t.TempDir(), "main.swift", unformatted)
		stdout, _, err := run(t, "fmt", "--indent-width", "2", path)
		require.NoError(t, err)
		assert.Equal(t, "func f() {\n  return\n}\n", stdout)
	})

	t.Run("list", func(t *testing.T) {
		dir := t.TempDir()
		bad := writeSwiftFile(t, dir, "bad.swift", unformatted)
		good := writeSwiftFile(t, dir, "good.swift", formatted)
		stdout, _, err := run(t, "fmt", "-l", bad, good)
		require.NoError(t, err)
		assert.Equal(t, bad+"\n", stdout)
	})

	t.Run("write", func(t *testing.T) {
		path := writeSwiftFile(t, t.TempDir(), "main.swift", unformatted)
		stdout, _, err := run(t, "fmt", "-w", path)
		require.NoError(t, err)
		assert.Empty(t, stdout)
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, formatted, string(got))
	})
}
