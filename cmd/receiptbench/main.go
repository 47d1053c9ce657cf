package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/oleksandrenko/receiptbench/internal/bench"
	"github.com/oleksandrenko/receiptbench/internal/config"
	"github.com/oleksandrenko/receiptbench/internal/eval"
	"github.com/oleksandrenko/receiptbench/internal/gtstore"
	"github.com/oleksandrenko/receiptbench/internal/prompt"
	"github.com/oleksandrenko/receiptbench/internal/report"
	"github.com/oleksandrenko/receiptbench/pkg/types"
)

type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var ce cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "receiptbench",
		Short: "Receipt OCR extraction evaluation and benchmarking",
	}
	root.AddCommand(newEvaluateCommand())
	root.AddCommand(newBenchmarkCommand())
	root.AddCommand(newPromptsCommand())
	root.AddCommand(newReportCommand())
	return root
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newEvaluateCommand() *cobra.Command {
	var gtDir, extractionPath, receiptID, provider, version, cfgPath, outPath string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one extraction against its ground truth",
		RunE: func(_ *cobra.Command, _ []string) error {
			if gtDir == "" || extractionPath == "" || receiptID == "" {
				return fmt.Errorf("--ground-truth, --extraction, and --receipt are required")
			}
			if _, err := prompt.Parse(version); err != nil {
				return err
			}
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			evaluator, err := eval.New(cfg)
			if err != nil {
				return err
			}
			store, err := gtstore.New(gtDir)
			if err != nil {
				return err
			}
			groundTruth, err := store.Load(receiptID)
			if err != nil {
				if errors.Is(err, gtstore.ErrNotFound) {
					return cliError{code: 2, err: err}
				}
				return err
			}
			raw, err := os.ReadFile(extractionPath)
			if err != nil {
				return err
			}

			rec := evaluator.Evaluate(receiptID, groundTruth, raw, types.Metadata{
				Provider:      provider,
				PromptVersion: version,
			})
			out, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Println(string(out))
				return nil
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return err
			}
			fmt.Println(outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&gtDir, "ground-truth", "", "ground-truth directory")
	cmd.Flags().StringVar(&extractionPath, "extraction", "", "extraction JSON file")
	cmd.Flags().StringVar(&receiptID, "receipt", "", "receipt ID")
	cmd.Flags().StringVar(&provider, "provider", types.ProviderGPT4oMini, "extraction provider")
	cmd.Flags().StringVar(&version, "prompt-version", string(prompt.V1Basic), "prompt version")
	cmd.Flags().StringVar(&cfgPath, "config", "", "comparison config YAML")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	return cmd
}

// extractionJob is one benchmark input file, already named and located.
type extractionJob struct {
	index     int
	path      string
	receiptID string
	provider  string
	version   string
}

// parseExtractionName splits <receipt-id>__<provider>__<version>.json.
// Receipt IDs may themselves contain "__" so the split is from the right.
func parseExtractionName(name string) (receiptID, provider, version string, err error) {
	base := strings.TrimSuffix(name, ".json")
	if base == name {
		return "", "", "", fmt.Errorf("extraction file %s: not a .json file", name)
	}
	last := strings.LastIndex(base, "__")
	if last == -1 {
		return "", "", "", fmt.Errorf("extraction file %s: want <receipt-id>__<provider>__<version>.json", name)
	}
	version = base[last+2:]
	rest := base[:last]
	mid := strings.LastIndex(rest, "__")
	if mid == -1 {
		return "", "", "", fmt.Errorf("extraction file %s: want <receipt-id>__<provider>__<version>.json", name)
	}
	provider = rest[mid+2:]
	receiptID = rest[:mid]
	if receiptID == "" || provider == "" || version == "" {
		return "", "", "", fmt.Errorf("extraction file %s: empty name segment", name)
	}
	return receiptID, provider, version, nil
}

func collectJobs(dir string) ([]extractionJob, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read extractions dir: %w", err)
	}
	var jobs []extractionJob
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		receiptID, provider, version, err := parseExtractionName(e.Name())
		if err != nil {
			return nil, err
		}
		if _, err := prompt.Parse(version); err != nil {
			return nil, fmt.Errorf("extraction file %s: %w", e.Name(), err)
		}
		jobs = append(jobs, extractionJob{
			index:     len(jobs),
			path:      filepath.Join(dir, e.Name()),
			receiptID: receiptID,
			provider:  provider,
			version:   version,
		})
	}
	return jobs, nil
}

// runBenchmark evaluates every job with a fixed worker pool. Records land in
// an index-addressed slice, so the output order never depends on scheduling.
func runBenchmark(evaluator *eval.Evaluator, store *gtstore.Store, jobs []extractionJob, workers int) ([]types.EvaluationRecord, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	records := make([]types.EvaluationRecord, len(jobs))
	errs := make([]error, len(jobs))
	jobCh := make(chan extractionJob)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				groundTruth, err := store.Load(job.receiptID)
				if err != nil {
					errs[job.index] = err
					continue
				}
				raw, err := os.ReadFile(job.path)
				if err != nil {
					errs[job.index] = err
					continue
				}
				records[job.index] = evaluator.Evaluate(job.receiptID, groundTruth, raw, types.Metadata{
					Provider:      job.provider,
					PromptVersion: job.version,
				})
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func newBenchmarkCommand() *cobra.Command {
	var gtDir, extractionsDir, cfgPath, outDir, format string
	var workers int
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Evaluate a directory of extractions and write a benchmark report",
		RunE: func(_ *cobra.Command, _ []string) error {
			if gtDir == "" || extractionsDir == "" {
				return fmt.Errorf("--ground-truth and --extractions are required")
			}
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			evaluator, err := eval.New(cfg)
			if err != nil {
				return err
			}
			store, err := gtstore.New(gtDir)
			if err != nil {
				return err
			}
			jobs, err := collectJobs(extractionsDir)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				return fmt.Errorf("no extraction files in %s", extractionsDir)
			}

			records, err := runBenchmark(evaluator, store, jobs, workers)
			if err != nil {
				if errors.Is(err, gtstore.ErrNotFound) {
					return cliError{code: 2, err: err}
				}
				return err
			}

			agg := bench.ParallelFold(records, workers)
			summaries := agg.Summaries()
			benchReport := types.BenchmarkReport{
				RunID:        uuid.NewString(),
				GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
				TotalRecords: len(records),
				Summaries:    summaries,
				Rankings:     bench.Rank(summaries),
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			switch format {
			case "json":
				path := filepath.Join(outDir, "benchmark.json")
				if err := report.WriteJSON(path, benchReport); err != nil {
					return err
				}
				fmt.Println(path)
			case "md":
				path := filepath.Join(outDir, "benchmark.md")
				if err := report.WriteMarkdown(path, benchReport); err != nil {
					return err
				}
				fmt.Println(path)
			default:
				return fmt.Errorf("unsupported format %s", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&gtDir, "ground-truth", "", "ground-truth directory")
	cmd.Flags().StringVar(&extractionsDir, "extractions", "", "directory of <receipt-id>__<provider>__<version>.json files")
	cmd.Flags().StringVar(&cfgPath, "config", "", "comparison config YAML")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&format, "format", "json", "report format (json|md)")
	cmd.Flags().IntVar(&workers, "workers", 0, "evaluation workers (0 = NumCPU)")
	return cmd
}

func newPromptsCommand() *cobra.Command {
	promptsCmd := &cobra.Command{Use: "prompts", Short: "Prompt version catalog"}
	promptsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known prompt versions",
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, v := range prompt.Versions() {
				fmt.Println(v)
			}
			return nil
		},
	})
	return promptsCmd
}

func newReportCommand() *cobra.Command {
	var inPath, outPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a saved benchmark JSON as markdown",
		RunE: func(_ *cobra.Command, _ []string) error {
			if inPath == "" {
				return fmt.Errorf("--in is required")
			}
			raw, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}
			var r types.BenchmarkReport
			if err := json.Unmarshal(raw, &r); err != nil {
				return fmt.Errorf("parse %s: %w", inPath, err)
			}
			if outPath == "" {
				outPath = strings.TrimSuffix(inPath, ".json") + ".md"
			}
			if err := report.WriteMarkdown(outPath, r); err != nil {
				return err
			}
			fmt.Println(outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "benchmark JSON input")
	cmd.Flags().StringVar(&outPath, "out", "", "markdown output path")
	return cmd
}
