package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/yaklabco/diffprep/pkg/config"
	"github.com/yaklabco/diffprep/pkg/runner"
	"github.com/yaklabco/diffprep/pkg/source"
)

func TestRun_IngestsFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, []string{"a.txt", "b.txt", "sub/c.txt"})

	r := runner.New()
	result, err := r.Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 3 {
		t.Errorf("FilesDiscovered = %d, want 3", result.Stats.FilesDiscovered)
	}
	if result.Stats.FilesIngested != 3 {
		t.Errorf("FilesIngested = %d, want 3", result.Stats.FilesIngested)
	}
	if result.Stats.FilesErrored != 0 {
		t.Errorf("FilesErrored = %d, want 0", result.Stats.FilesErrored)
	}
	if result.HasFailures() {
		t.Error("HasFailures() = true, want false")
	}

	// Each file holds "content\n": one line, eight bytes.
	if result.Stats.LinesTotal != 3 {
		t.Errorf("LinesTotal = %d, want 3", result.Stats.LinesTotal)
	}
	if result.Stats.BytesTotal != 24 {
		t.Errorf("BytesTotal = %d, want 24", result.Stats.BytesTotal)
	}

	for _, f := range result.Files {
		if f.Kind != source.KindText {
			t.Errorf("%s Kind = %v, want text", f.Path, f.Kind)
		}
		if f.Encoding == "" {
			t.Errorf("%s Encoding is empty", f.Path)
		}
		if f.LineEndStyle != source.LineEndUnix {
			t.Errorf("%s LineEndStyle = %v, want unix", f.Path, f.LineEndStyle)
		}
	}
}

func TestRun_DeterministicOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	names := []string{"zeta.txt", "alpha.txt", "mid.txt", "beta.txt"}
	writeTree(t, dir, names)

	r := runner.New()

	// Parallel workers must not change the reported order.
	for _, jobs := range []int{1, 4} {
		result, err := r.Run(context.Background(), runner.Options{
			Paths:      []string{"."},
			WorkingDir: dir,
			Jobs:       jobs,
		})
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}

		got := make([]string, 0, len(result.Files))
		for _, f := range result.Files {
			got = append(got, f.Path)
		}
		if !sort.StringsAreSorted(got) {
			t.Errorf("Run(jobs=%d) order = %v, want sorted", jobs, got)
		}
	}
}

func TestRun_CountsBinaryFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, []string{"text.txt"})
	blob := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(blob, []byte("MZ\x00\x01\x02payload\x00"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	r := runner.New()
	result, err := r.Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesIngested != 1 {
		t.Errorf("FilesIngested = %d, want 1", result.Stats.FilesIngested)
	}
	if result.Stats.FilesBinary != 1 {
		t.Errorf("FilesBinary = %d, want 1", result.Stats.FilesBinary)
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	t.Parallel()

	r := runner.New()
	result, err := r.Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 0 {
		t.Errorf("FilesDiscovered = %d, want 0", result.Stats.FilesDiscovered)
	}
	if len(result.Files) != 0 {
		t.Errorf("Files = %v, want empty", result.Files)
	}
}

func TestRun_SoftFailureStaysPerFile(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("test drives POSIX shell utilities")
	}

	dir := t.TempDir()
	writeTree(t, dir, []string{"a.txt", "b.txt", "c.txt"})

	opts := config.NewOptions()
	opts.PreProcessorCmd = "false"

	r := runner.New()
	result, err := r.Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Jobs:       1,
		Ingest:     opts,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Every file sees its own options copy, so the failing command is
	// reported per file instead of being disabled globally mid-run.
	if result.Stats.WarningsTotal != 3 {
		t.Errorf("WarningsTotal = %d, want 3", result.Stats.WarningsTotal)
	}
	if !result.HasWarnings() {
		t.Error("HasWarnings() = false, want true")
	}
	if opts.PreProcessorCmd != "false" {
		t.Errorf("shared PreProcessorCmd = %q, want untouched", opts.PreProcessorCmd)
	}

	// Content still ingested via the fallback path.
	if result.Stats.FilesIngested != 3 {
		t.Errorf("FilesIngested = %d, want 3", result.Stats.FilesIngested)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, []string{"a.txt"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.New()
	if _, err := r.Run(ctx, runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	}); err == nil {
		t.Fatal("Run() error = nil, want cancellation")
	}
}
