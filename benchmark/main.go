// Package main provides a performance benchmarking tool for the taskrecon CLI.
// It generates synthetic source exports of increasing size, runs each report
// command several times against the file backend and a SQLite staging source,
// treating the first successful run as cold and averaging the rest as warm,
// and writes a CSV summary for performance analysis and documentation.
//
// Prerequisites:
// - taskrecon binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic exports and the staging database are written
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Backend  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Sizes    map[string]int
	Order    []string
	Commands []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:  os.Args[1],
		Timeout:  5 * time.Minute,
		Runs:     4,
		Sizes:    map[string]int{"small": 1_000, "medium": 20_000, "large": 200_000},
		Order:    []string{"small", "medium", "large"},
		Commands: []string{"report", "screen-open"},
	}

	if _, err := exec.LookPath("taskrecon"); err != nil {
		fmt.Printf("Prerequisites check failed: taskrecon binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks generates every dataset and benchmarks each command on both backends.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs each\n", len(config.Order), config.Timeout, config.Runs)

	for _, name := range config.Order {
		dir := filepath.Join(config.WorkDir, name)
		fmt.Printf("Generating %s dataset (%d tasks) in %s\n", name, config.Sizes[name], dir)
		if err := generateDataset(dir, config.Sizes[name]); err != nil {
			fmt.Printf("  Skipping %s: %v\n", name, err)
			continue
		}

		sqliteEnv := []string{
			"TASKRECON_SOURCE_BACKEND=sqlite",
			"TASKRECON_SOURCE_DB_CONNECT=" + filepath.Join(dir, "staging.db"),
		}
		if err := stage(dir, sqliteEnv); err != nil {
			fmt.Printf("  Staging failed for %s: %v\n", name, err)
			sqliteEnv = nil
		}

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, name, "csv", command, []string{command, dir}, nil))
			if sqliteEnv != nil {
				results = append(results, runBenchmarkSuite(config, name, "sqlite", command, []string{command}, sqliteEnv))
			}
		}
	}

	return results
}

// stage migrates the SQLite staging database and imports dir into it.
func stage(dir string, env []string) error {
	for _, args := range [][]string{{"source", "migrate"}, {"source", "import", dir}} {
		cmd := exec.Command("taskrecon", args...)
		cmd.Env = append(os.Environ(), env...)
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s: %w\n%s", strings.Join(args, " "), err, output)
		}
	}
	return nil
}

// runBenchmarkSuite runs one command repeatedly and summarizes the timings.
func runBenchmarkSuite(config BenchmarkConfig, dataset, backend, command string, args, env []string) BenchmarkResult {
	fmt.Printf("  %s on %s (%s backend)\n", command, dataset, backend)

	times := runBenchmark(config, args, env)
	coldTime, warmAvg := "TIMEOUT", "TIMEOUT"
	if len(times) > 0 {
		coldTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("    Cold time: %s, Warm average: %s\n", coldTime, warmAvg)
	return BenchmarkResult{Dataset: dataset, Backend: backend, Command: command, ColdTime: coldTime, WarmTime: warmAvg}
}

// runBenchmark executes taskrecon config.Runs times and returns the successful run times.
func runBenchmark(config BenchmarkConfig, args, env []string) []float64 {
	args = append(args, "--color", "no", "--width", "200")

	var times []float64
	for range config.Runs {
		start := time.Now()

		cmd := exec.Command("taskrecon", args...)
		cmd.Env = append(os.Environ(), env...)

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

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "completed in") && strings.Contains(outputStr, "Source backend:")
}

// generateDataset writes the six CSV collections for n synthetic tasks.
// Every third task is auto-assigned and every seventh history row carries an
// unparsable timestamp, so the slow paths get exercised too.
func generateDataset(dir string, n int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	stamp := func(minutes int) string {
		return base.Add(time.Duration(minutes) * time.Minute).Format("2006-01-02T15:04:05.000Z")
	}
	user := func(i int) string { return fmt.Sprintf("user%03d@corp.com", i%250) }

	var actions, history, logs, opens, screens [][]string
	for i := range n {
		id := fmt.Sprintf("TASK-%d", i)
		at := i * 3
		created := stamp(at)
		if i%7 == 0 {
			created = "pending"
		}
		history = append(history,
			[]string{id, "PMA", "PMA", "IN", created, user(i)},
			[]string{id, "PME", "PME", "AS", stamp(at + 10), user(i)},
			[]string{id, "PCA", "PCA", "SC", stamp(at + 55), user(i)},
		)
		if i%3 == 0 {
			logs = append(logs, []string{stamp(at + 9), fmt.Sprintf("Auto-assigned task %s to %s at %s", id, user(i), stamp(at+10))})
			screens = append(screens, []string{stamp(at + 14), user(i), ""})
		} else {
			actions = append(actions, []string{stamp(at + 12), "Submit", "45", id, user(i), ""})
		}
		opens = append(opens, []string{stamp(at + 11), fmt.Sprintf(`{"tasknum":"%s"}`, id)})
	}

	users := make([][]string, 0, 250)
	for i := range 250 {
		users = append(users, []string{user(i), fmt.Sprintf("User %03d", i)})
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"task_actions.csv", []string{"createdOn", "action", "productiveTime", "taskId", "loginEmail", "taskOpenTime"}, actions},
		{"task_history.csv", []string{"taskId", "workStatus", "mcStatus", "action", "actionTimestamp", "lastModifiedByUser"}, history},
		{"users.csv", []string{"userPrincipalName", "displayName"}, users},
		{"auto_assignment_log.csv", []string{"timestamp", "message"}, logs},
		{"open_time_telemetry.csv", []string{"timestamp", "customDimensions"}, opens},
		{"screen_open_telemetry.csv", []string{"timestamp", "email", "customDimensions"}, screens},
	}
	for _, f := range files {
		if err := writeCSV(filepath.Join(dir, f.name), f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/taskrecon_benchmark_%s.csv", timestamp)

	records := [][]string{{"dataset", "backend", "cmd", "cold_time", "warm_avg"}}
	for _, result := range results {
		records = append(records, []string{result.Dataset, result.Backend, result.Command, result.ColdTime, result.WarmTime})
	}
	if err := writeCSV(filename, records[0], records[1:]); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-7s %-6s %-12s: Cold: %s, Warm: %s\n", result.Dataset, result.Backend, result.Command, result.ColdTime, result.WarmTime)
	}
}
