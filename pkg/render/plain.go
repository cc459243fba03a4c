package render

import (
	"fmt"
	"strings"
)

// Plain renders a part as plain text with separator lines between files.
type Plain struct{}

func (r *Plain) Extension() string { return ".txt" }

func (r *Plain) Render(part Part) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "ctxpack part %d/%d | %d files | ~%d tokens\nsource: %s\n",
		part.Index, part.Total, len(part.Files), part.TokenTotal, part.SourceRoot)

	for _, f := range part.Files {
		fmt.Fprintf(&b, "\n=== %s (%s, ~%d tokens) ===\n", f.RelPath, f.Origin, f.Tokens)
		b.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}
