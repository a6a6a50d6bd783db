//go:build basic

// Package integration contains integration tests for gauge.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analysisOutput struct {
	ProjectKey string `json:"project_key"`
	Components []struct {
		Key      string `json:"key"`
		Measures []struct {
			Metric     string     `json:"metric"`
			Value      string     `json:"value"`
			Variations []*float64 `json:"variations"`
		} `json:"measures"`
	} `json:"components"`
}

func measure(t *testing.T, out analysisOutput, component, metric string) (string, []*float64) {
	t.Helper()
	for _, c := range out.Components {
		if c.Key != component {
			continue
		}
		for _, m := range c.Measures {
			if m.Metric == metric {
				return m.Value, m.Variations
			}
		}
	}
	t.Fatalf("measure %s not found on %s", metric, component)
	return "", nil
}

// TestAnalyzeTwiceWithSQLite archives two analyses and checks the aggregated values and variations.
func TestAnalyzeTwiceWithSQLite(t *testing.T) {
	dir := t.TempDir()
	env := []string{
		"GAUGE_ANALYSIS_BACKEND=sqlite",
		"GAUGE_ANALYSIS_DB_CONNECT=" + filepath.Join(dir, "archive.db"),
	}

	first := writeShopReport(t, dir, "first.json", "2024-03-01T10:00:00Z", 100, 50)
	_, err := runGauge(t, env, "analyze", first, "--output", "json")
	require.NoError(t, err)

	second := writeShopReport(t, dir, "second.json", "2024-03-08T10:00:00Z", 120, 50)
	stdout, err := runGauge(t, env, "analyze", second, "--output", "json")
	require.NoError(t, err)

	var results []analysisOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 1)

	value, variations := measure(t, results[0], "shop", "ncloc")
	assert.Equal(t, "170", value)
	require.NotEmpty(t, variations)
	require.NotNil(t, variations[0])
	assert.Equal(t, 20.0, *variations[0])

	value, _ = measure(t, results[0], "shop:src", "violations")
	assert.Equal(t, "3", value)

	stdout, err = runGauge(t, env, "history", "--project", "shop", "--metric", "ncloc", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, stdout, "150")
	assert.Contains(t, stdout, "170")
}

// TestCheckFailsOnGateError checks the exit code of the check command.
func TestCheckFailsOnGateError(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "quality.yaml")
	require.NoError(t, writeFile(profile, `
gate:
  name: size
  conditions:
    - metric: ncloc
      op: GT
      error: "160"
`))
	env := []string{"GAUGE_ANALYSIS_BACKEND=none"}

	small := writeShopReport(t, dir, "small.json", "2024-03-01T10:00:00Z", 100, 50)
	_, err := runGauge(t, env, "check", small, "--profile", profile)
	require.NoError(t, err)

	large := writeShopReport(t, dir, "large.json", "2024-03-01T10:00:00Z", 120, 50)
	_, err = runGauge(t, env, "check", large, "--profile", profile)
	require.Error(t, err)
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}
