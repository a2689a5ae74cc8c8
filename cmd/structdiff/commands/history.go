package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/randlee/structdiff/internal/config"
	"github.com/randlee/structdiff/internal/gitsrc"
	"github.com/randlee/structdiff/internal/render"
	"github.com/randlee/structdiff/pkg/observability"
	"github.com/randlee/structdiff/pkg/version"
)

// historyArgCount is the number of positional arguments of the history
// command.
const historyArgCount = 3

// HistoryCommand holds the flags for the history command.
type HistoryCommand struct {
	configFile *string

	repoPath string
	output   string
	format   string
	noColor  bool
}

// NewHistoryCommand creates and configures the history command.
func NewHistoryCommand(configFile *string) *cobra.Command {
	hc := &HistoryCommand{configFile: configFile}

	cobraCmd := &cobra.Command{
		Use:   "history REV1 REV2 PATH",
		Short: "Compare one file across two git revisions",
		Long: `Compare one file between two revisions of a git repository without
checking either revision out.

Examples:
  structdiff history HEAD~1 HEAD src/Billing.cs
  structdiff history v1.0.0 v2.0.0 src/Billing.cs -f json`,
		Args: cobra.ExactArgs(historyArgCount),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return hc.Run(cobraCmd.Context(), args[0], args[1], args[2])
		},
	}

	flags := cobraCmd.Flags()
	flags.StringVar(&hc.repoPath, "repo", ".", "path inside the git repository")
	flags.StringVarP(&hc.output, "output", "o", "", "output file (default: stdout)")
	flags.StringVarP(&hc.format, "format", "f", "", "output format: terminal, json, or html")
	flags.BoolVar(&hc.noColor, "no-color", false, "disable colored output")

	return cobraCmd
}

// Run executes the history command.
func (hc *HistoryCommand) Run(ctx context.Context, oldRev, newRev, path string) error {
	cfg, err := config.Load(*hc.configFile)
	if err != nil {
		return err //nolint:wrapcheck // Config errors are already descriptive.
	}

	if hc.format != "" {
		cfg.Output.Format = hc.format
	}

	opts, err := cfg.DiffOptions()
	if err != nil {
		return err //nolint:wrapcheck // Config errors are already descriptive.
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

	repo, err := gitsrc.Open(hc.repoPath)
	if err != nil {
		return err //nolint:wrapcheck // Repository errors are already descriptive.
	}

	oldSrc, err := repo.FileAt(oldRev, path)
	if err != nil {
		return err //nolint:wrapcheck // Revision errors are already descriptive.
	}

	newSrc, err := repo.FileAt(newRev, path)
	if err != nil {
		return err //nolint:wrapcheck // Revision errors are already descriptive.
	}

	service, err := NewService(providers, opts, nil)
	if err != nil {
		return err
	}

	report, err := service.CompareBytes(ctx, oldSrc, newSrc,
		fmt.Sprintf("%s@%s", path, oldRev),
		fmt.Sprintf("%s@%s", path, newRev))
	if err != nil {
		return err
	}

	return hc.renderReport(cfg, report)
}

func (hc *HistoryCommand) renderReport(cfg *config.Config, report *render.Report) error {
	var writer io.Writer = os.Stdout

	if hc.output != "" {
		outputFile, err := os.Create(hc.output)
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
		tr := &render.TerminalRenderer{NoColor: hc.noColor || !cfg.Output.Color}

		return tr.Render(writer, report)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, cfg.Output.Format)
	}
}
