package render

import (
	"encoding/json"
	"fmt"
)

// JSON renders a part as a structured document for downstream tooling.
type JSON struct{}

func (r *JSON) Extension() string { return ".json" }

type jsonFile struct {
	Path      string `json:"path"`
	Origin    string `json:"origin"`
	Tokens    int    `json:"tokens"`
	Truncated bool   `json:"truncated,omitempty"`
	ReadError bool   `json:"read_error,omitempty"`
	Content   string `json:"content"`
}

type jsonPart struct {
	Part       int        `json:"part"`
	TotalParts int        `json:"total_parts"`
	Source     string     `json:"source"`
	Tokens     int        `json:"tokens"`
	Files      []jsonFile `json:"files"`
}

func (r *JSON) Render(part Part) (string, error) {
	doc := jsonPart{
		Part:       part.Index,
		TotalParts: part.Total,
		Source:     part.SourceRoot,
		Tokens:     part.TokenTotal,
		Files:      make([]jsonFile, 0, len(part.Files)),
	}
	for _, f := range part.Files {
		doc.Files = append(doc.Files, jsonFile{
			Path:      f.RelPath,
			Origin:    f.Origin.String(),
			Tokens:    f.Tokens,
			Truncated: f.Truncated,
			ReadError: f.ReadFailed,
			Content:   f.Content,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding part %d: %w", part.Index, err)
	}
	return string(data) + "\n", nil
}
