// Package pack wires the pipeline end to end: scan, classify, augment,
// select, partition, render, write. Stages hand each other immutable
// sequences; the only mutable state is the report accumulator owned here.
package pack

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ctxpack/ctxpack/pkg/config"
	"github.com/ctxpack/ctxpack/pkg/engine"
	"github.com/ctxpack/ctxpack/pkg/fileops"
	"github.com/ctxpack/ctxpack/pkg/logging"
	"github.com/ctxpack/ctxpack/pkg/output"
	"github.com/ctxpack/ctxpack/pkg/redact"
	"github.com/ctxpack/ctxpack/pkg/render"
	"github.com/ctxpack/ctxpack/pkg/scan"
)

// PartSummary describes one sealed part in the run report.
type PartSummary struct {
	Index  int
	Files  int
	Tokens int
	Path   string // empty for stdout/clipboard sinks
}

// Report is the run summary handed back to the caller.
type Report struct {
	Scanned     int // candidates produced by the scanner
	Augmented   int // import-derived candidates appended
	Selected    int
	Skipped     int
	Truncated   int
	ReadErrors  int
	Redactions  int
	TotalTokens int
	Parts       []PartSummary
}

// Runner executes one packing run for a resolved configuration.
type Runner struct {
	cfg     config.Config
	log     logging.Logger
	fileops fileops.Manager
	writer  *output.Writer
}

// NewRunner creates a runner. The configuration is validated in Run, not
// here, so construction never fails.
func NewRunner(cfg config.Config, log logging.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		log:     log,
		fileops: fileops.NewFileOpsManager(),
		writer:  output.NewWriter(log),
	}
}

// Run executes the pipeline and returns the report. Fatal conditions
// (config errors, the write-target safety check, an empty selection)
// propagate as errors; per-file read failures are absorbed into the report.
func (r *Runner) Run() (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	sourceRoot, err := filepath.Abs(r.cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("resolving source %s: %w", r.cfg.Source, err)
	}

	// The safety check runs before any stage that could produce output.
	toFile := r.cfg.Output != "-" && !r.cfg.Clipboard
	if toFile {
		if err := output.CheckWriteTarget(r.cfg.Output, sourceRoot); err != nil {
			return nil, err
		}
	}

	since, err := r.cfg.SinceTime()
	if err != nil {
		return nil, err
	}

	scanner, err := scan.New(scan.Options{
		Root:             sourceRoot,
		Include:          r.cfg.Include,
		Exclude:          r.cfg.Exclude,
		MaxFileSizeBytes: r.cfg.MaxFileSizeBytes,
		Since:            since,
		UseGitignore:     r.cfg.UseGitignore,
	}, r.log)
	if err != nil {
		return nil, err
	}
	candidates, err := scanner.Scan()
	if err != nil {
		return nil, err
	}
	scanned := len(candidates)

	matcher, err := engine.NewBoostMatcher(r.cfg.Boost)
	if err != nil {
		return nil, err
	}
	candidates = engine.Classify(candidates, matcher)

	if r.cfg.FollowImports {
		candidates = engine.NewAugmenter(sourceRoot, r.log).Augment(candidates)
	}
	augmented := len(candidates) - scanned

	budget := r.cfg.Budget()
	ledger, err := engine.NewSelector(budget, r.log).Select(candidates)
	if err != nil {
		return nil, err
	}
	parts := engine.Partition(ledger, budget)

	report := &Report{
		Scanned:     scanned,
		Augmented:   augmented,
		Selected:    len(ledger.Files),
		Skipped:     ledger.Skipped,
		TotalTokens: ledger.TotalTokens,
	}

	renderer, err := render.New(r.cfg.Format)
	if err != nil {
		return nil, err
	}

	// An output name without an extension takes the format's own.
	outName := r.cfg.Output
	if toFile && filepath.Ext(outName) == "" {
		outName += renderer.Extension()
	}

	if !toFile && !r.cfg.Clipboard && r.writer.StdoutIsTerminal() {
		r.log.Warn("stdout is a terminal; the pack will print inline, pipe it or pass --output to capture it")
	}

	var scrubber *redact.Scanner
	if r.cfg.RedactSecrets {
		scrubber = redact.NewScanner(nil)
	}

	var clipboardParts []string
	for _, part := range parts {
		doc := r.emitPart(part, len(parts), sourceRoot, budget, scrubber, report)

		rendered, err := renderer.Render(doc)
		if err != nil {
			return nil, err
		}

		summary := PartSummary{Index: part.Index, Files: len(part.Files), Tokens: part.TokenTotal}
		switch {
		case r.cfg.Clipboard:
			clipboardParts = append(clipboardParts, rendered)
		case r.cfg.Output == "-":
			if err := r.writer.WriteStdout(rendered); err != nil {
				return nil, err
			}
		default:
			name := output.PartName(outName, part.Index, len(parts))
			path, err := r.writer.WriteFile(name, rendered)
			if err != nil {
				return nil, err
			}
			summary.Path = path
		}
		report.Parts = append(report.Parts, summary)
	}

	if r.cfg.Clipboard {
		if err := r.writer.WriteClipboard(strings.Join(clipboardParts, "\n")); err != nil {
			return nil, err
		}
	}

	r.logSummary(report)
	return report, nil
}

// emitPart reads, scrubs and truncates each member file and builds the
// render-ready document. Unreadable files become placeholders and count as
// read errors; the run continues.
func (r *Runner) emitPart(part engine.Part, totalParts int, sourceRoot string, budget engine.Budget, scrubber *redact.Scanner, report *Report) render.Part {
	doc := render.Part{
		Index:      part.Index,
		Total:      totalParts,
		SourceRoot: sourceRoot,
		TokenTotal: part.TokenTotal,
		Files:      make([]render.File, 0, len(part.Files)),
	}

	for _, c := range part.Files {
		file := render.File{
			RelPath: c.RelPath,
			Origin:  c.Origin,
			Tokens:  budget.Contribution(c.EstimatedTokens()),
		}

		raw, err := r.fileops.ReadFile(c.Path)
		if err != nil {
			r.log.Warn("could not read selected file, emitting placeholder", "path", c.RelPath, "error", err)
			file.Content = fmt.Sprintf("[unreadable: %s]", c.RelPath)
			file.ReadFailed = true
			report.ReadErrors++
			doc.Files = append(doc.Files, file)
			continue
		}

		content := string(raw)
		if scrubber != nil {
			var n int
			content, n = scrubber.Apply(content)
			report.Redactions += n
		}

		content, truncated := engine.Truncate(content, budget.MaxFileTokens)
		if truncated {
			file.Truncated = true
			report.Truncated++
		}
		file.Content = content
		doc.Files = append(doc.Files, file)
	}
	return doc
}

func (r *Runner) logSummary(report *Report) {
	r.log.Info("pack complete",
		"scanned", report.Scanned,
		"augmented", report.Augmented,
		"selected", report.Selected,
		"skipped", report.Skipped,
		"truncated", report.Truncated,
		"read_errors", report.ReadErrors,
		"redactions", report.Redactions,
		"tokens", report.TotalTokens,
		"parts", len(report.Parts))
	for _, p := range report.Parts {
		r.log.Info("part sealed", "part", p.Index, "files", p.Files, "tokens", p.Tokens, "path", p.Path)
	}
}
