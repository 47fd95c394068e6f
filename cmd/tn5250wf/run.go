package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rob-gra/tn5250wf/clog"
	"github.com/rob-gra/tn5250wf/codepage"
	"github.com/rob-gra/tn5250wf/workflow"
)

func newRunCmd() *cobra.Command {
	var (
		toleranceProfile string
		outputDir        string
		concurrency      int
		dryRun           bool
		logLevel         string
	)

	cmd := &cobra.Command{
		Use:           "run <workflow-definition-path> <data-file-path>",
		Short:         "Run a workflow definition once per row of a data file",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(runOptions{
				definitionPath:   args[0],
				dataPath:         args[1],
				toleranceProfile: toleranceProfile,
				outputDir:        outputDir,
				concurrency:      concurrency,
				dryRun:           dryRun,
				logLevel:         logLevel,
			})
		},
	}

	cmd.Flags().StringVar(&toleranceProfile, "tolerance-profile", "", "named timing/retry profile (default, fast, lenient)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "tn5250wf-out", "directory artifacts and ledgers are written under")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "maximum rows executed concurrently (<=1 means sequential)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate the workflow and data file without connecting to a host")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "logrus level name (debug, info, warn, error); empty keeps the default")

	return cmd
}

type runOptions struct {
	definitionPath   string
	dataPath         string
	toleranceProfile string
	outputDir        string
	concurrency      int
	dryRun           bool
	logLevel         string
}

func runWorkflow(opts runOptions) error {
	defBytes, err := os.ReadFile(opts.definitionPath)
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("reading workflow definition: %w", err)}
	}
	steps, err := workflow.ParseDefinition(defBytes)
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	rows, err := loadDataRows(opts.dataPath)
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	tolerance, err := workflow.LookupToleranceProfile(opts.toleranceProfile)
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	if opts.dryRun {
		fmt.Printf("tn5250wf: %d step(s), %d data row(s) parsed and validated\n", len(steps), len(rows))
		return nil
	}

	log, err := clog.NewLoggerWithLevel("cli", opts.logLevel)
	if err != nil {
		return &exitError{code: 64, err: fmt.Errorf("parsing --log-level: %w", err)}
	}

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return &exitError{code: 4, err: fmt.Errorf("creating output directory: %w", err)}
	}

	reg, err := codepage.NewRegistry()
	if err != nil {
		return &exitError{code: 4, err: fmt.Errorf("loading codepages: %w", err)}
	}
	engine := workflow.NewEngine(reg, log)

	policy := workflow.Parallel(opts.concurrency)
	if opts.concurrency <= 1 {
		policy = workflow.Sequential()
	}

	dirs := newDirAllocator(opts.outputDir)

	batch := engine.ExecuteBatch(steps, rows, tolerance, policy,
		func(i int, row map[string]string) workflow.ArtifactCollector {
			dir := dirs.allocate(i, row)
			collector, err := newFileArtifactCollector(dir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tn5250wf: row %d: %v\n", i, err)
				return workflow.NewInMemoryArtifactCollector()
			}
			return collector
		},
		func(i int, row map[string]string) workflow.LedgerSink {
			dir := dirs.allocate(i, row)
			ledger, err := newFileLedger(dir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tn5250wf: row %d: %v\n", i, err)
				return workflow.NewInMemoryLedger()
			}
			return ledger
		},
	)

	for i, result := range batch.Rows {
		dir := dirs.allocate(i, rows[i])
		if result == nil {
			continue
		}
		if err := writeResultFile(dir, result); err != nil {
			fmt.Fprintf(os.Stderr, "tn5250wf: row %d: writing result.txt: %v\n", i, err)
		}
		if !result.Success && result.Failure != nil {
			fmt.Fprintf(os.Stderr, "tn5250wf: row %d: %s\n", i, result.Failure.Error())
		}
	}

	fmt.Printf("tn5250wf: %d succeeded, %d failed (p50=%s p95=%s p99=%s)\n",
		batch.SuccessCount, batch.FailureCount, batch.P50, batch.P95, batch.P99)

	if batch.FailureCount > 0 {
		return &exitError{code: 3, err: fmt.Errorf("%d of %d rows failed", batch.FailureCount, len(rows))}
	}
	return nil
}

// dirAllocator hands out each row's output directory exactly once,
// creating it on first request and disambiguating a name collision
// (two rows sharing a primary-key value) with a short uuid suffix
// rather than letting the second row's artifacts overwrite the first.
type dirAllocator struct {
	mu       sync.Mutex
	base     string
	assigned map[int]string
	used     map[string]bool
}

func newDirAllocator(base string) *dirAllocator {
	return &dirAllocator{base: base, assigned: make(map[int]string), used: make(map[string]bool)}
}

func (a *dirAllocator) allocate(index int, row map[string]string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if dir, ok := a.assigned[index]; ok {
		return dir
	}

	dir := rowOutputDir(a.base, index, row)
	for a.used[dir] {
		dir = dir + "-" + uuid.New().String()[:8]
	}
	a.used[dir] = true
	a.assigned[index] = dir

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "tn5250wf: creating %s: %v\n", dir, err)
	}
	return dir
}
