package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxpack/ctxpack/pkg/logging"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func relPaths(t *testing.T, s *Scanner) []string {
	t.Helper()
	candidates, err := s.Scan()
	require.NoError(t, err)
	var rels []string
	for _, c := range candidates {
		rels = append(rels, c.RelPath)
	}
	return rels
}

func TestScanFindsFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "sub/util.go", "package sub")

	s, err := New(Options{Root: root}, logging.NewDisabledLogger())
	require.NoError(t, err)

	rels := relPaths(t, s)
	assert.ElementsMatch(t, []string{"main.go", "sub/util.go"}, rels)
}

func TestScanNewestFirst(t *testing.T) {
	root := t.TempDir()
	oldPath := writeFile(t, root, "old.go", "package a")
	writeFile(t, root, "new.go", "package b")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	s, err := New(Options{Root: root}, logging.NewDisabledLogger())
	require.NoError(t, err)

	rels := relPaths(t, s)
	assert.Equal(t, []string{"new.go", "old.go"}, rels)
}

func TestScanTiebreakByPath(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "b.go", "package x")
	b := writeFile(t, root, "a.go", "package x")

	when := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(a, when, when))
	require.NoError(t, os.Chtimes(b, when, when))

	s, err := New(Options{Root: root}, logging.NewDisabledLogger())
	require.NoError(t, err)

	rels := relPaths(t, s)
	assert.Equal(t, []string{"a.go", "b.go"}, rels)
}

func TestScanIncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.ts", "let a = 1")
	writeFile(t, root, "drop.md", "# doc")
	writeFile(t, root, "sub/keep2.ts", "let b = 2")
	writeFile(t, root, "sub/secret.ts", "let c = 3")

	s, err := New(Options{
		Root:    root,
		Include: []string{"**/*.ts"},
		Exclude: []string{"**/secret.*"},
	}, logging.NewDisabledLogger())
	require.NoError(t, err)

	rels := relPaths(t, s)
	assert.ElementsMatch(t, []string{"keep.ts", "sub/keep2.ts"}, rels)
}

func TestScanInvalidPattern(t *testing.T) {
	_, err := New(Options{Root: ".", Include: []string{"[bad"}}, logging.NewDisabledLogger())
	assert.Error(t, err)
}

func TestScanSizeCeiling(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", "tiny")
	writeFile(t, root, "large.txt", string(make([]byte, 100)))

	s, err := New(Options{Root: root, MaxFileSizeBytes: 50}, logging.NewDisabledLogger())
	require.NoError(t, err)

	rels := relPaths(t, s)
	assert.Equal(t, []string{"small.txt"}, rels)
}

func TestScanSkipsBinary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "text.txt", "hello")
	writeFile(t, root, "blob.bin", "abc\x00def")

	s, err := New(Options{Root: root}, logging.NewDisabledLogger())
	require.NoError(t, err)

	rels := relPaths(t, s)
	assert.Equal(t, []string{"text.txt"}, rels)
}

func TestScanSkipsDefaultDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.ts", "let a = 1")
	writeFile(t, root, "node_modules/pkg/index.js", "module.exports = {}")
	writeFile(t, root, ".git/config", "[core]")

	s, err := New(Options{Root: root}, logging.NewDisabledLogger())
	require.NoError(t, err)

	rels := relPaths(t, s)
	assert.Equal(t, []string{"app.ts"}, rels)
}

func TestScanSinceCutoff(t *testing.T) {
	root := t.TempDir()
	oldPath := writeFile(t, root, "old.go", "package a")
	writeFile(t, root, "recent.go", "package b")

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	s, err := New(Options{Root: root, Since: time.Now().Add(-time.Hour)}, logging.NewDisabledLogger())
	require.NoError(t, err)

	rels := relPaths(t, s)
	assert.Equal(t, []string{"recent.go"}, rels)
}

func TestScanGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.log\nbuild-out/\n/anchored.txt\n# comment\n!negated.log\n")
	writeFile(t, root, "app.ts", "let a = 1")
	writeFile(t, root, "debug.log", "noise")
	writeFile(t, root, "sub/trace.log", "noise")
	writeFile(t, root, "build-out/bundle.js", "var x")
	writeFile(t, root, "anchored.txt", "x")

	s, err := New(Options{Root: root, UseGitignore: true}, logging.NewDisabledLogger())
	require.NoError(t, err)

	rels := relPaths(t, s)
	assert.ElementsMatch(t, []string{".gitignore", "app.ts"}, rels)
}
