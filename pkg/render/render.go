// Package render turns sealed parts into output documents.
package render

import (
	"fmt"
	"path"
	"strings"

	"github.com/ctxpack/ctxpack/pkg/engine"
)

// File is one emitted file: candidate metadata plus the content to write,
// after truncation and redaction have been applied.
type File struct {
	RelPath    string
	Origin     engine.Origin
	Content    string
	Tokens     int
	Truncated  bool
	ReadFailed bool
}

// Part is the render-ready form of one sealed engine part.
type Part struct {
	Index      int
	Total      int // number of parts in the run
	SourceRoot string
	Files      []File
	TokenTotal int
}

// Renderer produces one output document per part.
type Renderer interface {
	Render(part Part) (string, error)
	Extension() string
}

// New returns the renderer for a configured format name.
func New(format string) (Renderer, error) {
	switch format {
	case "markdown":
		return &Markdown{}, nil
	case "plain":
		return &Plain{}, nil
	case "json":
		return &JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown render format %q", format)
	}
}

// languageHints maps file extensions to fenced-code-block language tags.
var languageHints = map[string]string{
	".go":   "go",
	".ts":   "ts",
	".tsx":  "tsx",
	".js":   "js",
	".jsx":  "jsx",
	".mjs":  "js",
	".cjs":  "js",
	".py":   "python",
	".rb":   "ruby",
	".rs":   "rust",
	".java": "java",
	".kt":   "kotlin",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".sh":   "bash",
	".sql":  "sql",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".md":   "markdown",
	".html": "html",
	".css":  "css",
	".vue":  "vue",
}

func languageHint(relPath string) string {
	return languageHints[strings.ToLower(path.Ext(relPath))]
}
