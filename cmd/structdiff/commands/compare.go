package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/src-d/enry/v2"

	"github.com/randlee/structdiff/internal/cache"
	"github.com/randlee/structdiff/internal/config"
	"github.com/randlee/structdiff/internal/render"
	"github.com/randlee/structdiff/pkg/diff"
	"github.com/randlee/structdiff/pkg/observability"
	"github.com/randlee/structdiff/pkg/version"
)

// compareArgCount is the number of positional arguments of the compare
// command.
const compareArgCount = 2

// csharpLanguage is the enry language name inputs must classify as.
const csharpLanguage = "C#"

// Sentinel errors for the compare command.
var (
	ErrUnsupportedFileType = errors.New("input does not look like C# (use --force to override)")
	ErrUnsupportedFormat   = errors.New("unsupported format")
)

// CompareCommand holds the flags for the compare command.
type CompareCommand struct {
	configFile *string

	output            string
	format            string
	whitespace        string
	minImpact         string
	includeFormatting bool
	ignoreComments    bool
	parallelThreshold int
	timeout           time.Duration
	force             bool
	cacheDir          string
	noColor           bool
}

// NewCompareCommand creates and configures the compare command.
func NewCompareCommand(configFile *string) *cobra.Command {
	cc := &CompareCommand{configFile: configFile}

	cobraCmd := &cobra.Command{
		Use:   "compare OLD NEW",
		Short: "Compare two C# files and report semantic changes",
		Long: `Compare two versions of a C# source file and report a hierarchical
list of semantic changes classified by API-impact severity.

Examples:
  structdiff compare old.cs new.cs
  structdiff compare -f json old.cs new.cs
  structdiff compare --min-impact breaking-internal old.cs new.cs`,
		Args: cobra.ExactArgs(compareArgCount),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cc.Run(cobraCmd.Context(), args[0], args[1])
		},
	}

	flags := cobraCmd.Flags()
	flags.StringVarP(&cc.output, "output", "o", "", "output file (default: stdout)")
	flags.StringVarP(&cc.format, "format", "f", "", "output format: terminal, json, or html")
	flags.StringVar(&cc.whitespace, "whitespace", "", "whitespace mode: exact, ignore-leading-trailing, ignore-all, language-aware")
	flags.StringVar(&cc.minImpact, "min-impact", "", "drop changes below this impact level")
	flags.BoolVar(&cc.includeFormatting, "include-formatting", true, "keep formatting-only changes")
	flags.BoolVar(&cc.ignoreComments, "ignore-comments", false, "exclude comment-only differences")
	flags.IntVar(&cc.parallelThreshold, "parallel-threshold", 0, "minimum sibling pairs before parallel comparison (0: config default)")
	flags.DurationVar(&cc.timeout, "timeout", 0, "abort the comparison after this duration")
	flags.BoolVar(&cc.force, "force", false, "skip the input language check")
	flags.StringVar(&cc.cacheDir, "cache-dir", "", "directory for the on-disk result cache")
	flags.BoolVar(&cc.noColor, "no-color", false, "disable colored output")

	return cobraCmd
}

// Run executes the compare command.
func (cc *CompareCommand) Run(ctx context.Context, oldPath, newPath string) error {
	cfg, opts, err := cc.resolveOptions()
	if err != nil {
		return err
	}

	providers, err := observability.Init(cfg.ObservabilityOptions(observability.ModeCLI, version.Version))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	oldSrc, err := cc.readInput(oldPath)
	if err != nil {
		return err
	}

	newSrc, err := cc.readInput(newPath)
	if err != nil {
		return err
	}

	store, err := cc.openCache(cfg)
	if err != nil {
		return err
	}

	service, err := NewService(providers, opts, store)
	if err != nil {
		return err
	}

	if cc.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cc.timeout)
		defer cancel()
	}

	report, err := service.CompareBytes(ctx, oldSrc, newSrc, oldPath, newPath)
	if err != nil {
		return err
	}

	return cc.renderReport(cfg, report)
}

// resolveOptions layers command flags over the loaded configuration.
func (cc *CompareCommand) resolveOptions() (*config.Config, diff.Options, error) {
	cfg, err := config.Load(*cc.configFile)
	if err != nil {
		return nil, diff.Options{}, err //nolint:wrapcheck // Config errors are already descriptive.
	}

	if cc.whitespace != "" {
		cfg.Diff.Whitespace = cc.whitespace
	}

	if cc.minImpact != "" {
		cfg.Diff.MinimumImpact = cc.minImpact
	}

	if cc.parallelThreshold > 0 {
		cfg.Diff.ParallelThreshold = cc.parallelThreshold
	}

	cfg.Diff.IncludeFormatting = cc.includeFormatting

	if cc.ignoreComments {
		cfg.Diff.IgnoreComments = true
	}

	if cc.format != "" {
		cfg.Output.Format = cc.format
	}

	if cc.cacheDir != "" {
		cfg.Cache.Dir = cc.cacheDir
	}

	opts, err := cfg.DiffOptions()
	if err != nil {
		return nil, diff.Options{}, err //nolint:wrapcheck // Config errors are already descriptive.
	}

	return cfg, opts, nil
}

// readInput loads one input file, verifying it classifies as C# unless
// forced.
func (cc *CompareCommand) readInput(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if !cc.force {
		lang := enry.GetLanguage(path, content)
		if lang != csharpLanguage {
			return nil, fmt.Errorf("%w: %s detected as %q", ErrUnsupportedFileType, path, lang)
		}
	}

	return content, nil
}

func (cc *CompareCommand) openCache(cfg *config.Config) (*cache.Store, error) {
	if cfg.Cache.Dir == "" {
		return nil, nil //nolint:nilnil // Absent cache is a valid state.
	}

	store, err := cache.NewStore(cfg.Cache.Dir)
	if err != nil {
		return nil, err //nolint:wrapcheck // Cache errors are already descriptive.
	}

	return store, nil
}

func (cc *CompareCommand) renderReport(cfg *config.Config, report *render.Report) error {
	var writer io.Writer = os.Stdout

	if cc.output != "" {
		outputFile, err := os.Create(cc.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer outputFile.Close()

		writer = outputFile
	}

	switch cfg.Output.Format {
	case "json":
		return render.JSON(writer, report)
	case "html":
		return render.HTML(writer, report)
	case "terminal", "":
		tr := &render.TerminalRenderer{NoColor: cc.noColor || !cfg.Output.Color}

		return tr.Render(writer, report)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, cfg.Output.Format)
	}
}
