// Package main provides a performance benchmarking tool for the Gauge CLI.
// It generates synthetic reports of growing size, times 'gauge analyze' on each,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - gauge binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where reports and archives are written
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-archive average, cold run and average of warm runs).
type BenchmarkResult struct {
	Size          string
	Files         int
	NoArchiveTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	NoArchiveRuns int
	ArchiveRuns   int
	Sizes         map[string][2]int // name -> directories, files per directory
	SizeOrder     []string
}

type reportComponent struct {
	Ref      int    `json:"ref"`
	Type     string `json:"type"`
	Path     string `json:"path,omitempty"`
	Language string `json:"language,omitempty"`
	Children []int  `json:"children,omitempty"`
}

type reportMeasure struct {
	Ref    int     `json:"ref"`
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type reportDocument struct {
	ProjectKey   string            `json:"project_key"`
	Version      string            `json:"version"`
	AnalysisDate string            `json:"analysis_date"`
	Components   []reportComponent `json:"components"`
	Measures     []reportMeasure   `json:"measures"`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:       os.Args[1],
		Timeout:       5 * time.Minute,
		NoArchiveRuns: 3,
		ArchiveRuns:   4,
		Sizes: map[string][2]int{
			"small":  {10, 10},
			"medium": {50, 40},
			"large":  {200, 100},
		},
		SizeOrder: []string{"small", "medium", "large"},
	}

	if _, err := exec.LookPath("gauge"); err != nil {
		fmt.Printf("Prerequisites check failed: gauge binary not found in PATH\n")
		os.Exit(1)
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// writeReport generates a project with dirs*files files and returns the report paths, one per run.
func writeReport(config BenchmarkConfig, name string, dirs, files, runs int) ([]string, error) {
	var paths []string
	for run := range runs {
		doc := reportDocument{
			ProjectKey:   "bench-" + name,
			Version:      "1.0",
			AnalysisDate: time.Date(2024, 1, 1+run, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
		}
		root := reportComponent{Ref: 1, Type: "PROJECT"}
		ref := 2
		var components []reportComponent
		for d := range dirs {
			dir := reportComponent{Ref: ref, Type: "DIRECTORY", Path: fmt.Sprintf("pkg%d", d)}
			ref++
			root.Children = append(root.Children, dir.Ref)
			for f := range files {
				file := reportComponent{Ref: ref, Type: "FILE", Path: fmt.Sprintf("pkg%d/file%d.go", d, f), Language: "go"}
				ref++
				dir.Children = append(dir.Children, file.Ref)
				components = append(components, file)
				doc.Measures = append(doc.Measures,
					reportMeasure{Ref: file.Ref, Metric: "ncloc", Value: float64(50 + (d*f+run)%200)},
					reportMeasure{Ref: file.Ref, Metric: "complexity", Value: float64(5 + (d+f)%30)},
					reportMeasure{Ref: file.Ref, Metric: "violations", Value: float64((d + f + run) % 7)},
				)
			}
			components = append(components, dir)
		}
		doc.Components = append([]reportComponent{root}, components...)

		path := filepath.Join(config.WorkDir, fmt.Sprintf("%s-%d.json", name, run))
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// runBenchmarks executes the analyze benchmark for every report size
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, no-archive: %d runs, archive: %d runs\n",
		len(config.SizeOrder), config.Timeout, config.NoArchiveRuns, config.ArchiveRuns)

	for _, name := range config.SizeOrder {
		shape := config.Sizes[name]
		files := shape[0] * shape[1]
		fmt.Printf("Benchmarking %s (%d files)\n", name, files)

		reports, err := writeReport(config, name, shape[0], shape[1], max(config.NoArchiveRuns, config.ArchiveRuns))
		if err != nil {
			fmt.Printf("  Failed to generate reports: %v\n", err)
			continue
		}

		// Phase 1: no archive, so no variations
		noArchive := runBenchmark(config, reports[:config.NoArchiveRuns], "none", "")
		// Phase 2: fresh SQLite archive, later runs compare with earlier ones
		dbPath := filepath.Join(config.WorkDir, name+".db")
		_ = os.Remove(dbPath)
		archive := runBenchmark(config, reports[:config.ArchiveRuns], "sqlite", dbPath)

		result := BenchmarkResult{
			Size:          name,
			Files:         files,
			NoArchiveTime: average(noArchive),
			ColdTime:      "TIMEOUT",
			WarmTime:      "TIMEOUT",
		}
		if len(archive) > 0 {
			result.ColdTime = fmt.Sprintf("%.3fs", archive[0])
			result.WarmTime = average(archive[1:])
		}
		fmt.Printf("  No-archive average: %s, Cold time: %s, Warm average: %s\n", result.NoArchiveTime, result.ColdTime, result.WarmTime)
		results = append(results, result)
	}

	return results
}

// runBenchmark analyzes each report once with the given backend and returns the successful run times
func runBenchmark(config BenchmarkConfig, reports []string, backend, dbPath string) []float64 {
	var times []float64
	for _, reportPath := range reports {
		args := []string{"analyze", reportPath, "--analysis-backend", backend}
		if dbPath != "" {
			args = append(args, "--analysis-db-connect", dbPath)
		}

		start := time.Now()
		cmd := exec.Command("gauge", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}
	return times
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "completed in") && strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/gauge_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"size", "files", "no_archive_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Size, fmt.Sprint(result.Files), result.NoArchiveTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s (%6d files): No-archive: %s, Cold: %s, Warm: %s\n",
			result.Size, result.Files, result.NoArchiveTime, result.ColdTime, result.WarmTime)
	}
}
