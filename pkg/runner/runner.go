package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/diffprep/pkg/config"
	"github.com/yaklabco/diffprep/pkg/langdetect"
	"github.com/yaklabco/diffprep/pkg/source"
)

// Runner orchestrates multi-file ingestion.
type Runner struct{}

// New creates a new Runner.
func New() *Runner {
	return &Runner{}
}

// Run discovers files under opts.Paths and ingests them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Ingests files concurrently using a worker pool
//   - Aggregates results into a single Result with statistics
//   - Respects context cancellation
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	// Determine job count.
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if jobs > len(files) {
		jobs = len(files)
	}

	ingest := opts.Ingest
	if ingest == nil {
		ingest = config.NewOptions()
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, ingest)
		}()
	}

	// Feed work in a separate goroutine.
	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	// Close outCh when all workers are done.
	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Collect results.
	// Use a map to maintain order since workers may complete out of order.
	outcomes := make(map[string]FileOutcome, len(files))

	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	// Build result in deterministic order.
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker ingests files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	ingest *config.Options,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.ingestFile(ctx, path, ingest)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ingestFile runs the ingestion pipeline for one file with a private copy of
// the shared options.
func (r *Runner) ingestFile(ctx context.Context, path string, ingest *config.Options) FileOutcome {
	fileOpts := *ingest

	sd := source.New(&fileOpts)
	defer sd.Destroy()

	sd.BindToFile(path)
	warnings := sd.LoadAndPreprocess(ctx)

	outcome := FileOutcome{
		Path:                 path,
		Kind:                 sd.Kind(),
		LineEndStyle:         sd.LineEndStyle(),
		Lines:                sd.SizeLines(),
		Bytes:                sd.SizeBytes(),
		IncompleteConversion: sd.IsIncompleteConversion(),
		Warnings:             warnings,
	}
	if codec := sd.Encoding(); codec != nil {
		outcome.Encoding = codec.Name()
	}
	if sd.IsText() {
		outcome.Language = langdetect.DetectFile(path, sd.RawBytes())
	}
	if !sd.IsValid() {
		outcome.Error = fmt.Errorf("cannot read %s", path)
	}
	return outcome
}
