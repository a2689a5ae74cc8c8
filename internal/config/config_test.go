package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randlee/structdiff/pkg/diff"
	"github.com/randlee/structdiff/pkg/observability"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "structdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	opts, err := cfg.DiffOptions()
	require.NoError(t, err)

	require.Equal(t, diff.Exact, opts.Whitespace)
	require.True(t, opts.IncludeFormatting)
	require.Equal(t, diff.FormattingOnly, opts.MinimumImpact)
	require.Equal(t, diff.DefaultParallelThreshold, opts.ParallelThreshold)
	require.Equal(t, DefaultFormat, cfg.Output.Format)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
diff:
  whitespace: ignore-all
  minimum_impact: breaking-internal
  parallel_threshold: 8
output:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	opts, err := cfg.DiffOptions()
	require.NoError(t, err)

	require.Equal(t, diff.IgnoreAll, opts.Whitespace)
	require.Equal(t, diff.BreakingInternalAPI, opts.MinimumImpact)
	require.Equal(t, 8, opts.ParallelThreshold)
	require.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_BadEnumValue(t *testing.T) {
	path := writeConfig(t, "diff:\n  whitespace: sometimes\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.DiffOptions()
	require.Error(t, err)
}

func TestObservabilityOptions_Mapping(t *testing.T) {
	path := writeConfig(t, `
observability:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  log_level: debug
  log_json: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	obs := cfg.ObservabilityOptions(observability.ModeMCP, "1.2.3")

	require.Equal(t, "localhost:4317", obs.OTLPEndpoint)
	require.True(t, obs.OTLPInsecure)
	require.True(t, obs.LogJSON)
	require.Equal(t, observability.ModeMCP, obs.Mode)
	require.Equal(t, "1.2.3", obs.ServiceVersion)
}

func TestValidateBytes_Valid(t *testing.T) {
	t.Parallel()

	valid := `
diff:
  whitespace: language-aware
  include_formatting: false
output:
  format: html
`

	require.NoError(t, ValidateBytes([]byte(valid)))
}

func TestValidateBytes_UnknownKey(t *testing.T) {
	t.Parallel()

	err := ValidateBytes([]byte("surprises:\n  enabled: true\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateBytes_BadEnum(t *testing.T) {
	t.Parallel()

	err := ValidateBytes([]byte("diff:\n  whitespace: sometimes\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateBytes_Empty(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateBytes(nil))
}
