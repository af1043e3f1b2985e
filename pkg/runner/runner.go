package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/rubynest/internal/logging"
	"github.com/yaklabco/rubynest/pkg/console"
)

// Runner checks files with an Analyzer.
type Runner struct {
	analyzer *console.Analyzer
}

// New creates a Runner. Console commands do not apply to files, so the
// analyzer is used without any.
func New(analyzer *console.Analyzer) *Runner {
	return &Runner{
		analyzer: console.NewAnalyzer(console.Options{
			IndentWidth: analyzer.IndentWidth(),
			Commands:    []string{},
			Locals:      analyzer.Locals(),
		}),
	}
}

// Run discovers files under opts.Paths and processes them on a bounded
// worker pool. Outcomes come back in path order whatever order workers
// finish in.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))
	logger.Debug("starting workers", logging.FieldJobs, jobs)

	// Workers fill their own slots, so the outcomes stay in path order.
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = r.processLogged(ctx, files[i], opts)
				done[i] = true
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome)
		}
	}

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldSnippets, result.Stats.SnippetsChecked,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// processLogged processes one file with a logger that names it.
func (r *Runner) processLogged(ctx context.Context, path string, opts Options) FileOutcome {
	ctx = logging.WithFields(ctx, logging.FieldPath, path)
	outcome := r.ProcessFile(ctx, path, opts)
	if outcome.Error != nil {
		logging.FromContext(ctx).Debug("file failed", logging.FieldError, outcome.Error)
	}
	return outcome
}
