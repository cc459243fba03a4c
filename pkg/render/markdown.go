package render

import (
	"fmt"
	"strings"

	"github.com/ctxpack/ctxpack/pkg/engine"
)

// Markdown renders a part as a markdown document with one fenced code block
// per file.
type Markdown struct{}

func (r *Markdown) Extension() string { return ".md" }

func (r *Markdown) Render(part Part) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "<!-- ctxpack part %d/%d | %d files | ~%d tokens | source: %s -->\n\n",
		part.Index, part.Total, len(part.Files), part.TokenTotal, part.SourceRoot)

	for i, f := range part.Files {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n", f.RelPath)

		var notes []string
		if f.Origin != engine.OriginDirect {
			notes = append(notes, f.Origin.String())
		}
		if f.Truncated {
			notes = append(notes, "truncated")
		}
		if len(notes) > 0 {
			fmt.Fprintf(&b, "<!-- %s -->\n", strings.Join(notes, ", "))
		}
		b.WriteString("\n")

		fence := "```"
		// Widen the fence when the content itself contains one.
		for strings.Contains(f.Content, fence) {
			fence += "`"
		}
		fmt.Fprintf(&b, "%s%s\n", fence, languageHint(f.RelPath))
		b.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(fence + "\n")
	}

	return b.String(), nil
}
