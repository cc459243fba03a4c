package engine

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ctxpack/ctxpack/pkg/logging"
)

// Extractor pulls import-like path references out of source text. Keeping it
// behind a narrow interface keeps the augmentation algorithm language-agnostic
// and testable against plain string fixtures.
type Extractor interface {
	Extract(content string) []string
}

// ScriptExtractor handles the JS/TS language family: quoted relative paths
// following import, export-from and require tokens.
type ScriptExtractor struct{}

var scriptRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)\bimport\b(?:[^'"` + "`" + `\n]*\bfrom\b)?\s*['"](\.\.?/[^'"]+)['"]`),
	regexp.MustCompile(`(?m)\bexport\b[^'"\n]*\bfrom\s*['"](\.\.?/[^'"]+)['"]`),
	regexp.MustCompile(`\brequire\s*\(\s*['"](\.\.?/[^'"]+)['"]`),
}

// Extract returns the relative references in discovery order, de-duplicated.
func (ScriptExtractor) Extract(content string) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, re := range scriptRefPatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			ref := m[1]
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// resolveExtensions is the fixed, ordered extension set tried when a
// reference does not name a file directly.
var resolveExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// scriptExtensions are the file types the ScriptExtractor is applied to.
var scriptExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".mjs": true, ".cjs": true, ".vue": true, ".svelte": true,
}

// Augmenter performs single-pass, non-transitive dependency expansion: it
// scans the already-classified candidates for import references, resolves
// them on disk and appends newly discovered files to the end of the
// sequence. Files it adds are never themselves scanned in the same run; that
// bounds the pass and avoids cyclic expansion at the cost of missing
// transitive dependencies, which is an accepted limitation.
type Augmenter struct {
	root      string
	extractor Extractor
	readFile  func(string) ([]byte, error)
	statFile  func(string) (os.FileInfo, error)
	log       logging.Logger
}

// NewAugmenter creates an augmenter rooted at the scanned source directory.
func NewAugmenter(root string, log logging.Logger) *Augmenter {
	return &Augmenter{
		root:      root,
		extractor: ScriptExtractor{},
		readFile:  os.ReadFile,
		statFile:  os.Stat,
		log:       log,
	}
}

// Augment returns the input sequence plus any newly resolved import-derived
// candidates appended in discovery order. Already-present files (by cleaned
// absolute path) are not re-added; unresolvable references are dropped
// silently.
func (a *Augmenter) Augment(candidates []Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[filepath.Clean(c.Path)] = true
	}

	for _, c := range candidates {
		if !scriptExtensions[strings.ToLower(filepath.Ext(c.Path))] {
			continue
		}
		content, err := a.readFile(c.Path)
		if err != nil {
			a.log.Debug("skipping import scan, unreadable file", "path", c.Path, "error", err)
			continue
		}
		for _, ref := range a.extractor.Extract(string(content)) {
			resolved, info, ok := a.resolve(filepath.Dir(c.Path), ref)
			if !ok {
				a.log.Debug("import reference did not resolve", "ref", ref, "from", c.RelPath)
				continue
			}
			if seen[resolved] {
				continue
			}
			seen[resolved] = true

			rel, err := filepath.Rel(a.root, resolved)
			if err != nil {
				rel = resolved
			}
			out = append(out, Candidate{
				Path:      resolved,
				RelPath:   filepath.ToSlash(rel),
				SizeBytes: info.Size(),
				ModTime:   info.ModTime(),
				Origin:    OriginImport,
			})
			a.log.Debug("added import-derived candidate", "path", rel, "from", c.RelPath)
		}
	}
	return out
}

// resolve tries the fixed candidate order for a reference: the literal path,
// the literal path with each known extension appended, then an index file
// with each extension inside a directory named after the literal path. The
// first existing regular file wins.
func (a *Augmenter) resolve(fromDir, ref string) (string, os.FileInfo, bool) {
	literal := filepath.Clean(filepath.Join(fromDir, filepath.FromSlash(ref)))

	tries := make([]string, 0, 1+2*len(resolveExtensions))
	tries = append(tries, literal)
	for _, ext := range resolveExtensions {
		tries = append(tries, literal+ext)
	}
	for _, ext := range resolveExtensions {
		tries = append(tries, filepath.Join(literal, "index"+ext))
	}

	for _, try := range tries {
		info, err := a.statFile(try)
		if err == nil && info.Mode().IsRegular() {
			return filepath.Clean(try), info, true
		}
	}
	return "", nil, false
}
