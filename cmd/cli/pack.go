package cli

import (
	"github.com/spf13/cobra"

	"github.com/ctxpack/ctxpack/pkg/config"
	"github.com/ctxpack/ctxpack/pkg/logging"
	"github.com/ctxpack/ctxpack/pkg/pack"
)

var flags struct {
	output            string
	format            string
	maxTokens         int
	maxFileTokens     int
	splitTokens       int
	overflowTolerance int
	boost             []string
	followImports     bool
	include           []string
	exclude           []string
	maxFileSize       int64
	since             string
	noGitignore       bool
	redact            bool
	clipboard         bool
}

func addPackFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output file name; - for stdout (default context + format extension)")
	f.StringVarP(&flags.format, "format", "f", "", "output format: markdown, plain or json")
	f.IntVar(&flags.maxTokens, "max-tokens", 0, "total token budget, 0 = unlimited")
	f.IntVar(&flags.maxFileTokens, "max-file-tokens", 0, "per-file token cap, 0 = unlimited")
	f.IntVar(&flags.splitTokens, "split-tokens", 0, "per-part token budget, 0 = single output")
	f.IntVar(&flags.overflowTolerance, "overflow-tolerance", 0, "slack beyond the total budget for one admission")
	f.StringArrayVar(&flags.boost, "boost", nil, "glob pattern for files to place first (repeatable)")
	f.BoolVar(&flags.followImports, "follow-imports", false, "append files referenced by imports in selected files")
	f.StringArrayVar(&flags.include, "include", nil, "glob pattern for files to include (repeatable)")
	f.StringArrayVar(&flags.exclude, "exclude", nil, "glob pattern for files to exclude (repeatable)")
	f.Int64Var(&flags.maxFileSize, "max-file-size", 0, "skip files larger than this many bytes")
	f.StringVar(&flags.since, "since", "", "only include files modified after this date")
	f.BoolVar(&flags.noGitignore, "no-gitignore", false, "do not honor the root .gitignore")
	f.BoolVar(&flags.redact, "redact", false, "redact secret-shaped values from content")
	f.BoolVarP(&flags.clipboard, "clipboard", "c", false, "copy the output to the clipboard instead of writing files")
}

// runPack resolves configuration (file, env, then flags) and executes the
// pipeline.
func runPack(cmd *cobra.Command, args []string) error {
	source := "."
	if len(args) == 1 {
		source = args[0]
	}

	cfg, err := config.Load(source)
	if err != nil {
		return err
	}
	cfg.Source = source
	applyFlagOverrides(cmd, &cfg)

	_, err = pack.NewRunner(cfg, logging.NewComponentLogger("pack")).Run()
	return err
}

// applyFlagOverrides layers explicitly set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Output = flags.output
	}
	if f.Changed("format") {
		cfg.Format = flags.format
	}
	if f.Changed("max-tokens") {
		cfg.MaxTokens = flags.maxTokens
	}
	if f.Changed("max-file-tokens") {
		cfg.MaxFileTokens = flags.maxFileTokens
	}
	if f.Changed("split-tokens") {
		cfg.SplitTokens = flags.splitTokens
	}
	if f.Changed("overflow-tolerance") {
		cfg.OverflowTolerance = flags.overflowTolerance
	}
	if f.Changed("boost") {
		cfg.Boost = flags.boost
	}
	if f.Changed("follow-imports") {
		cfg.FollowImports = flags.followImports
	}
	if f.Changed("include") {
		cfg.Include = flags.include
	}
	if f.Changed("exclude") {
		cfg.Exclude = flags.exclude
	}
	if f.Changed("max-file-size") {
		cfg.MaxFileSizeBytes = flags.maxFileSize
	}
	if f.Changed("since") {
		cfg.Since = flags.since
	}
	if f.Changed("no-gitignore") {
		cfg.UseGitignore = !flags.noGitignore
	}
	if f.Changed("redact") {
		cfg.RedactSecrets = flags.redact
	}
	if f.Changed("clipboard") {
		cfg.Clipboard = flags.clipboard
	}
}
