// Package main provides a performance benchmarking tool for the polltrend CLI.
// It generates synthetic sparse poll datasets of increasing size, measures
// aggregation times across command variants, and writes CSV output for
// performance analysis and documentation.
//
// Prerequisites:
// - polltrend binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic datasets are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Workers  int
	Runs     int
	Datasets map[string]datasetSpec
}

// datasetSpec describes one synthetic dataset.
type datasetSpec struct {
	Days       int
	Candidates int
	// Density is the chance a given day has a poll at all.
	Density float64
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 2 * time.Minute,
		Workers: 8,
		Runs:    4,
		Datasets: map[string]datasetSpec{
			"small":  {Days: 90, Candidates: 2, Density: 0.4},
			"medium": {Days: 730, Candidates: 4, Density: 0.5},
			"large":  {Days: 3650, Candidates: 8, Density: 0.6},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	files, err := generateDatasets(config)
	if err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, files)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the polltrend binary exists.
func checkPrerequisites() error {
	if _, err := exec.LookPath("polltrend"); err != nil {
		return fmt.Errorf("polltrend binary not found in PATH")
	}
	return nil
}

// generateDatasets writes one synthetic raw polls CSV per dataset spec and
// returns the file paths keyed by dataset name.
func generateDatasets(config BenchmarkConfig) (map[string]string, error) {
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(42)) // fixed seed so runs are comparable
	files := make(map[string]string, len(config.Datasets))

	for name, spec := range config.Datasets {
		path := filepath.Join(config.WorkDir, fmt.Sprintf("polls_%s.csv", name))
		if err := writeSyntheticPolls(path, spec, rng); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		files[name] = path
		fmt.Printf("Generated %s dataset at %s\n", name, path)
	}

	return files, nil
}

// writeSyntheticPolls emits a raw polls CSV in the layout the --input flag reads:
// date,pollster,n followed by one share column per candidate.
func writeSyntheticPolls(path string, spec datasetSpec, rng *rand.Rand) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "pollster", "n"}
	for c := range spec.Candidates {
		header = append(header, fmt.Sprintf("Candidate%d", c+1))
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	pollsters := []string{"Acme Research", "Beta Polling", "Gamma Insights"}
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	for d := range spec.Days {
		if rng.Float64() > spec.Density {
			continue // sparse: this day has no poll
		}
		date := start.AddDate(0, 0, d)
		row := []string{
			date.Format("2006-01-02"),
			pollsters[rng.Intn(len(pollsters))],
			strconv.Itoa(500 + rng.Intn(2000)),
		}
		for range spec.Candidates {
			row = append(row, fmt.Sprintf("%.3f", 0.2+rng.Float64()*0.4))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// runBenchmarks executes all benchmark variants across the generated datasets.
func runBenchmarks(config BenchmarkConfig, files map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	variants := []struct {
		name string
		args []string
	}{
		{"trends-mean", []string{"trends", "--agg-type", "mean"}},
		{"trends-median", []string{"trends", "--agg-type", "median"}},
		{"trends-always", []string{"trends", "--interpolation", "always", "--lead-time", "7"}},
		{"trends-weekly", []string{"trends", "--increment-days", "7"}},
		{"polls", []string{"polls"}},
	}

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, %d runs per variant\n",
		len(files), config.Timeout, config.Workers, config.Runs)

	for name, path := range files {
		fmt.Printf("Benchmarking %s\n", name)
		for _, v := range variants {
			result := runBenchmarkSuite(config, name, path, v.name, v.args)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs one command variant repeatedly against one dataset.
func runBenchmarkSuite(config BenchmarkConfig, dataset, inputPath, command string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	cold, times := runBenchmark(config, inputPath, extraArgs)

	coldTimeStr := "TIMEOUT"
	if cold > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cold)
	}

	warmAvg := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  command,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a polltrend command multiple times and returns the
// cold time plus the warm times.
func runBenchmark(config BenchmarkConfig, inputPath string, extraArgs []string) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, extraArgs...)
	args = append(args,
		"--input", inputPath,
		"--cache-backend", "none",
		"--workers", strconv.Itoa(config.Workers),
	)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("polltrend", args...)

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
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Aggregated") ||
		strings.Contains(outputStr, "Retrieved")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/polltrend_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s %-16s Cold: %s, Warm: %s\n", result.Dataset, result.Command, result.ColdTime, result.WarmTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
