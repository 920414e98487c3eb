package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/backlogmd/internal/logging"
	"github.com/yaklabco/backlogmd/pkg/config"
	"github.com/yaklabco/backlogmd/pkg/verify"
)

// Runner converts a set of discovered files on a pool of workers.
type Runner struct {
	// NewConverter is called once per worker.
	NewConverter ConverterFactory
}

func New(factory ConverterFactory) *Runner {
	return &Runner{NewConverter: factory}
}

// Run discovers the sources for opts and converts them on up to opts.Jobs
// workers. Outcomes come back in source path order whatever order the
// workers finish in. On cancellation the partial result is returned along
// with the context error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	sources, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(sources)),
	}
	result.Stats.FilesDiscovered = len(sources)

	logger := logging.FromContext(ctx)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(sources))

	if len(sources) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(sources))

	cfg := opts.effectiveConfig()
	queue, conflicts := partitionConflicts(sources, cfg, workDir)

	workCh := make(chan Source)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		w := &worker{
			converter: r.NewConverter(),
			cfg:       cfg,
			workDir:   workDir,
		}
		if config.Enabled(cfg.Verify) {
			w.checker = verify.New()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, src := range queue {
			select {
			case <-ctx.Done():
				return
			case workCh <- src:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers may complete out of order.
	outcomes := make(map[string]FileOutcome, len(sources))
	for _, outcome := range conflicts {
		outcomes[outcome.Path] = outcome
	}
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, src := range sources {
		if outcome, ok := outcomes[src.Path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (w *worker) run(ctx context.Context, workCh <-chan Source, outCh chan<- FileOutcome) {
	for src := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := w.process(ctx, src)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// partitionConflicts splits sources into those to convert and failed
// outcomes for sources whose output path an earlier source already claims.
func partitionConflicts(sources []Source, cfg *config.Config, workDir string) ([]Source, []FileOutcome) {
	if cfg.Stdout {
		return sources, nil
	}

	claimed := make(map[string]string, len(sources))
	queue := make([]Source, 0, len(sources))
	var conflicts []FileOutcome

	for _, src := range sources {
		out := OutputPath(src, cfg.OutputExtension, cfg.OutputDir, workDir)
		if first, ok := claimed[out]; ok {
			conflicts = append(conflicts, FileOutcome{
				Path:       src.Path,
				OutputPath: out,
				Status:     StatusFailed,
				Error:      fmt.Errorf("%w: %s", ErrOutputConflict, first),
			})
			continue
		}
		claimed[out] = src.Path
		queue = append(queue, src)
	}

	return queue, conflicts
}
