// Package output writes rendered parts to their destination: files on disk,
// stdout or the system clipboard. It owns the write-target safety check that
// must pass before the first byte of any output is produced.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"

	"github.com/ctxpack/ctxpack/pkg/fileops"
	"github.com/ctxpack/ctxpack/pkg/logging"
)

// SafetyError reports an output path that resolves inside the scanned source
// tree. It is fatal and aborts the run before anything is written.
type SafetyError struct {
	OutputPath string
	SourceRoot string
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("output path %s resolves inside the source tree %s; writing there would feed the pack back into itself",
		e.OutputPath, e.SourceRoot)
}

// CheckWriteTarget verifies that outputPath lies outside sourceRoot. Paths
// are resolved to absolute form, following symlinks on the directory part
// when it exists, so a link cannot smuggle the output back into the tree.
func CheckWriteTarget(outputPath, sourceRoot string) error {
	absOut, err := resolveDir(outputPath)
	if err != nil {
		return fmt.Errorf("resolving output path %s: %w", outputPath, err)
	}
	absRoot, err := filepath.Abs(sourceRoot)
	if err != nil {
		return fmt.Errorf("resolving source root %s: %w", sourceRoot, err)
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	rel, err := filepath.Rel(absRoot, absOut)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &SafetyError{OutputPath: outputPath, SourceRoot: sourceRoot}
	}
	return nil
}

// resolveDir resolves the output file's directory (which may not contain the
// file yet) and rejoins the base name.
func resolveDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(abs)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}

// PartName returns the file name for one part. A single-part run keeps the
// base name; a partitioned run inserts the 1-based ordinal before the
// extension, in part-seal order.
func PartName(base string, partIndex, partCount int) string {
	if partCount <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s-%d%s", stem, partIndex, ext)
}

// Writer sends rendered documents to the configured sink.
type Writer struct {
	fileops fileops.Manager
	log     logging.Logger
	stdout  io.Writer
}

// NewWriter creates a writer over the default file manager.
func NewWriter(log logging.Logger) *Writer {
	return NewWriterTo(log, os.Stdout)
}

// NewWriterTo creates a writer whose stdout sink streams to w.
func NewWriterTo(log logging.Logger, w io.Writer) *Writer {
	return &Writer{
		fileops: fileops.NewFileOpsManager(),
		log:     log,
		stdout:  w,
	}
}

// WriteFile writes one part document to disk and returns the path written.
func (w *Writer) WriteFile(path, content string) (string, error) {
	if err := w.fileops.WriteFile(path, []byte(content)); err != nil {
		return "", err
	}
	w.log.Debug("wrote part", "path", path, "bytes", len(content))
	return path, nil
}

// WriteStdout streams one part document to standard output. Parts are
// separated by a blank line when several end up on the same stream.
func (w *Writer) WriteStdout(content string) error {
	_, err := io.WriteString(w.stdout, content)
	return err
}

// WriteClipboard places the document on the system clipboard.
func (w *Writer) WriteClipboard(content string) error {
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// StdoutIsTerminal reports whether the stdout sink is an interactive
// terminal. Pipes, files and in-memory sinks report false.
func (w *Writer) StdoutIsTerminal() bool {
	f, ok := w.stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
