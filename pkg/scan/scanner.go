// Package scan walks a source tree and produces the ordered candidate
// sequence the engine consumes: filtered for globs, size, binary content and
// gitignore rules, sorted newest-first.
package scan

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ctxpack/ctxpack/pkg/engine"
	"github.com/ctxpack/ctxpack/pkg/logging"
)

// Options configures one scan.
type Options struct {
	Root             string
	Include          []string  // doublestar globs against the relative path; empty means everything
	Exclude          []string  // doublestar globs against the relative path
	MaxFileSizeBytes int64     // 0 = no ceiling
	Since            time.Time // zero = no cutoff
	UseGitignore     bool
}

// defaultExcludedDirs are skipped without descending regardless of patterns.
var defaultExcludedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".next":        true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
	"__pycache__":  true,
}

const binarySniffBytes = 512

// Scanner produces candidates for the pipeline.
type Scanner struct {
	opts    Options
	ignores []string
	log     logging.Logger
}

// New creates a scanner. Patterns are validated up front so a bad glob fails
// the run before any walking happens.
func New(opts Options, log logging.Logger) (*Scanner, error) {
	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid file pattern %q", p)
		}
	}
	s := &Scanner{opts: opts, log: log}
	if opts.UseGitignore {
		s.ignores = loadGitignore(filepath.Join(opts.Root, ".gitignore"), log)
	}
	return s, nil
}

// Scan walks the root and returns candidates sorted by descending
// modification time, path ascending as the tiebreak for determinism. All
// results are tagged OriginDirect.
func (s *Scanner) Scan() ([]engine.Candidate, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root %s: %w", s.opts.Root, err)
	}

	var candidates []engine.Candidate
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			s.log.Debug("walk error, skipping entry", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if defaultExcludedDirs[d.Name()] || s.ignored(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if !s.wanted(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.log.Debug("stat failed, skipping", "path", rel, "error", err)
			return nil
		}
		if s.opts.MaxFileSizeBytes > 0 && info.Size() > s.opts.MaxFileSizeBytes {
			s.log.Debug("skipping oversized file", "path", rel, "size", info.Size())
			return nil
		}
		if !s.opts.Since.IsZero() && info.ModTime().Before(s.opts.Since) {
			return nil
		}
		if looksBinary(path) {
			s.log.Debug("skipping binary file", "path", rel)
			return nil
		}

		candidates = append(candidates, engine.Candidate{
			Path:      path,
			RelPath:   rel,
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
			Origin:    engine.OriginDirect,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].ModTime.Equal(candidates[j].ModTime) {
			return candidates[i].ModTime.After(candidates[j].ModTime)
		}
		return candidates[i].RelPath < candidates[j].RelPath
	})

	s.log.Debug("scan complete", "root", root, "candidates", len(candidates))
	return candidates, nil
}

func (s *Scanner) wanted(rel string) bool {
	if s.ignored(rel) {
		return false
	}
	for _, p := range s.opts.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	if len(s.opts.Include) == 0 {
		return true
	}
	for _, p := range s.opts.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) ignored(rel string) bool {
	isDir := strings.HasSuffix(rel, "/")
	rel = strings.TrimSuffix(rel, "/")
	for _, p := range s.ignores {
		dirOnly := strings.HasSuffix(p, "/")
		if dirOnly && !isDir {
			// A "name/" rule still covers files below that directory;
			// the walk prunes the directory itself, so only the prefix
			// forms below matter for files.
			continue
		}
		p = strings.TrimSuffix(p, "/")
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}

// loadGitignore reads root-level .gitignore patterns and translates them into
// doublestar globs. Negation rules are not supported and are skipped with a
// debug note; nested .gitignore files are not consulted.
func loadGitignore(path string, log logging.Logger) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "!") {
			log.Debug("gitignore negation not supported, skipping", "pattern", line)
			continue
		}
		if strings.HasPrefix(line, "/") {
			// Anchored to the root.
			patterns = append(patterns, strings.TrimPrefix(line, "/"))
			continue
		}
		// Unanchored rules match at any depth.
		patterns = append(patterns, line, "**/"+line)
	}
	return patterns
}

// looksBinary sniffs the first bytes of a file for a NUL, the same heuristic
// git uses to decide a file is not text.
func looksBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, binarySniffBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}
