// Package main provides a performance benchmarking tool for the chartscope CLI.
// It measures execution times for every chart of a dataset, running each command
// several times without a state store and several times with a fresh SQLite store,
// treating the first successful run with state as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - chartscope binary installed and available in PATH
// - One or more chart_data.json files
//
// Usage: go run benchmark/main.go <chart_data.json>...
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-state average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Chart       int
	Command     string
	NoStateTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Datasets    []string
	Timeout     time.Duration
	NoStateRuns int
	StateRuns   int
	StateDir    string
}

// benchCommand is one chartscope invocation measured per chart.
type benchCommand struct {
	name    string
	args    []string
	success string // Marker in the output of a successful run
}

var commands = []benchCommand{
	{name: "inspect", args: []string{"inspect", "--left", "0.25", "--right", "0.75"}, success: "Viewport normalized in"},
	{name: "export", args: []string{"export", "--output", "csv"}, success: "segment_normalized"},
}

func main() {
	// Parse command line arguments
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s <chart_data.json>...\n", os.Args[0])
		os.Exit(1)
	}

	stateDir, err := os.MkdirTemp("", "chartscope-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create state dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(stateDir) }()

	config := BenchmarkConfig{
		Datasets:    os.Args[1:],
		Timeout:     time.Minute,
		NoStateRuns: 3,
		StateRuns:   4,
		StateDir:    stateDir,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the chartscope binary and the datasets exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("chartscope"); err != nil {
		return fmt.Errorf("chartscope binary not found in PATH")
	}
	for _, path := range config.Datasets {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("dataset %s not found: %w", path, err)
		}
	}
	return nil
}

// countCharts asks chartscope how many charts a dataset holds
func countCharts(path string) (int, error) {
	out, err := exec.Command("chartscope", "list", path, "--output", "json", "--state-backend", "none").Output()
	if err != nil {
		return 0, fmt.Errorf("failed to list charts of %s: %w", path, err)
	}
	var charts []json.RawMessage
	if err := json.Unmarshal(out, &charts); err != nil {
		return 0, fmt.Errorf("failed to decode chart list of %s: %w", path, err)
	}
	return len(charts), nil
}

// runBenchmarks executes all benchmark commands for every chart of every dataset
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-state: %d runs, state: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoStateRuns, config.StateRuns)

	for _, path := range config.Datasets {
		n, err := countCharts(path)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", path, err)
			continue
		}
		fmt.Printf("Benchmarking %s (%d charts)\n", path, n)
		for chart := range n {
			for _, c := range commands {
				results = append(results, runBenchmarkSuite(config, path, chart, c))
			}
		}
	}

	return results
}

// runBenchmarkSuite runs both no-state and state benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, path string, chart int, c benchCommand) BenchmarkResult {
	fmt.Printf("Running %s on chart %d\n", c.name, chart)

	// Every suite starts from an empty store so the first run is cold
	stateDB := filepath.Join(config.StateDir, fmt.Sprintf("state_%d_%s.db", chart, c.name))

	// Helper to run a benchmark phase
	runPhase := func(stateArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, chart, c, stateArgs, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-state runs
	_, noStateAvg := runPhase([]string{"--state-backend", "none"}, config.NoStateRuns, "No-state")

	// Phase 2: State runs
	coldTime, warmAvg := runPhase([]string{"--state-backend", "sqlite", "--state-db-connect", stateDB}, config.StateRuns, "State")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-state average: %s, Cold time: %s, Warm average: %s\n", noStateAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     filepath.Base(path),
		Chart:       chart,
		Command:     c.name,
		NoStateTime: noStateAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a chartscope command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, path string, chart int, c benchCommand, stateArgs []string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, c.args...)
	args = append(args, path, "--chart", strconv.Itoa(chart), "--color", "no")
	args = append(args, stateArgs...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("chartscope", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), c.success) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("chartscope_benchmark_%s.csv", timestamp))

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
	if err := writer.Write([]string{"dataset", "chart", "cmd", "no_state_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, r := range results {
		if err := writer.Write([]string{r.Dataset, strconv.Itoa(r.Chart), r.Command, r.NoStateTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, c := range commands {
		fmt.Printf("%s:\n", c.name)
		for _, r := range results {
			if r.Command == c.name {
				fmt.Printf("  %-20s #%-3d: No-state: %s, Cold: %s, Warm: %s\n", r.Dataset, r.Chart, r.NoStateTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
