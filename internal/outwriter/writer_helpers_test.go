package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 1", precision: 1, value: 87.25, expected: "87.2"},
		{name: "precision 0", precision: 0, value: 12.7, expected: "13"},
		{name: "negative value", precision: 2, value: -3.456, expected: "-3.46"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"metric": "ncloc", "value": 42}))
	assert.Equal(t, "{\n  \"metric\": \"ncloc\",\n  \"value\": 42\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteTOON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTOON(&buf, map[string]any{"metric": "ncloc", "value": 42}))
	out := buf.String()
	assert.Contains(t, out, "metric: ncloc")
	assert.Contains(t, out, "value: 42")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:     "measures",
			header:   []string{"component", "metric", "value"},
			rows:     [][]string{{"proj", "ncloc", "120"}, {"proj:src/a.go", "ncloc", "40"}},
			expected: "component,metric,value\nproj,ncloc,120\nproj:src/a.go,ncloc,40\n",
		},
		{
			name:     "header only",
			header:   []string{"component", "metric"},
			expected: "component,metric\n",
		},
		{
			name:     "quoted alert text",
			header:   []string{"metric", "alert_text"},
			rows:     [][]string{{"coverage", "Coverage < 80, was 75"}},
			expected: "metric,alert_text\ncoverage,\"Coverage < 80, was 75\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, func(w *csv.Writer) error {
				for _, row := range tt.rows {
					if err := w.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}

	err := writeCSVWithHeader(io.Discard, []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(io.Writer) error {
			called = true
			return nil
		}, "Wrote text")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gate.json")
		err := writeWithFile(path, func(w io.Writer) error {
			return writeJSON(w, map[string]string{"level": "OK"})
		}, "Wrote JSON")
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		var got map[string]string
		require.NoError(t, json.Unmarshal(content, &got))
		assert.Equal(t, "OK", got["level"])
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote text")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/dir/out.txt", func(io.Writer) error { return nil }, "Wrote text")
		require.Error(t, err)
	})
}
