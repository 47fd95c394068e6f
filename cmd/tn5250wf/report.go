package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rob-gra/tn5250wf/workflow"
)

// rowOutputDir returns the per-row artifact directory name: the row's
// index, and its primary-key column value when the data has one, so a
// human can find a row's artifacts without cross-referencing the data
// file by position alone.
func rowOutputDir(outputDir string, index int, row map[string]string) string {
	name := fmt.Sprintf("%d", index)
	if pk, ok := primaryKeyColumn(row); ok && pk != "" {
		name = fmt.Sprintf("%d-%s", index, pk)
	}
	return filepath.Join(outputDir, name)
}

// fileLedger writes one line per step event to ledger.txt, ISO-8601
// timestamped, as the run progresses rather than buffering in memory.
type fileLedger struct {
	f *os.File
}

func newFileLedger(dir string) (*fileLedger, error) {
	f, err := os.Create(filepath.Join(dir, "ledger.txt"))
	if err != nil {
		return nil, err
	}
	return &fileLedger{f: f}, nil
}

func (l *fileLedger) Record(event workflow.LedgerEvent) {
	ts := event.Timestamp.Format(time.RFC3339Nano)
	switch event.Kind {
	case workflow.EventStepStarted:
		fmt.Fprintf(l.f, "%s step=%d action=%s started\n", ts, event.StepIndex, event.Action)
	case workflow.EventStepEnded:
		outcome := "ok"
		if !event.Succeeded {
			outcome = "failed"
		}
		fmt.Fprintf(l.f, "%s step=%d action=%s %s duration=%s\n", ts, event.StepIndex, event.Action, outcome, event.Duration)
		if event.Failure != nil {
			fmt.Fprintf(l.f, "%s step=%d action=%s kind=%s message=%s\n", ts, event.StepIndex, event.Action, event.Failure.Kind, event.Failure.Message)
		}
	}
}

func (l *fileLedger) Close() error { return l.f.Close() }

// fileArtifactCollector writes each captured screen dump, one line per
// screen row, to screenshots/step_<name>.txt, where <name> is the
// requested artifact name; the step index and action are not part of
// the file name. Collisions are disambiguated the same way
// workflow.InMemoryArtifactCollector does.
type fileArtifactCollector struct {
	dir  string
	seen map[string]int
}

func newFileArtifactCollector(dir string) (*fileArtifactCollector, error) {
	shotDir := filepath.Join(dir, "screenshots")
	if err := os.MkdirAll(shotDir, 0o755); err != nil {
		return nil, err
	}
	return &fileArtifactCollector{dir: dir, seen: make(map[string]int)}, nil
}

func (c *fileArtifactCollector) Record(name string, payload []byte) string {
	stored := name
	if n, ok := c.seen[name]; ok {
		n++
		stored = fmt.Sprintf("%s-%d", name, n+1)
		c.seen[name] = n
	} else {
		c.seen[name] = 0
	}

	path := filepath.Join(c.dir, "screenshots", "step_"+stored+".txt")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		// Capture failures here are reported to stderr rather than
		// aborting the workflow: a failed screenshot write must not
		// mask the underlying step's actual outcome.
		fmt.Fprintf(os.Stderr, "tn5250wf: writing artifact %s: %v\n", path, err)
	}
	return stored
}

// writeResultFile writes result.txt: the one-line outcome summary
// plus, on failure, the structured failure detail spec.md requires
// the CLI to persist alongside the human-readable stderr message.
func writeResultFile(dir string, result *workflow.ExecutionResult) error {
	f, err := os.Create(filepath.Join(dir, "result.txt"))
	if err != nil {
		return err
	}
	defer f.Close()

	if result.Success {
		fmt.Fprintf(f, "SUCCESS elapsed=%s\n", result.Elapsed)
		return nil
	}

	fail := result.Failure
	fmt.Fprintf(f, "FAILURE elapsed=%s\n", result.Elapsed)
	if fail != nil {
		fmt.Fprintf(f, "step=%d action=%s kind=%s\n", fail.StepIndex, fail.Action, fail.Kind)
		fmt.Fprintf(f, "message=%s\n", fail.Message)
		if fail.Column != "" {
			fmt.Fprintf(f, "column=%s\n", fail.Column)
		}
		fmt.Fprintf(f, "screen:\n%s\n", fail.ScreenText)
	}
	return nil
}
