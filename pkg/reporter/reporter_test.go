package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/yaklabco/diffprep/pkg/reporter"
	"github.com/yaklabco/diffprep/pkg/runner"
	"github.com/yaklabco/diffprep/pkg/source"
)

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:         "/work/a.txt",
				Kind:         source.KindText,
				Encoding:     "UTF-8",
				LineEndStyle: source.LineEndUnix,
				Language:     "text",
				Lines:        3,
				Bytes:        18,
			},
			{
				Path:  "/work/blob.bin",
				Kind:  source.KindBinary,
				Bytes: 64,
			},
			{
				Path: "/work/filtered.txt",
				Kind: source.KindText,
				Warnings: []string{
					"Preprocessing possibly failed. Check this command:\n\n  false",
				},
				Encoding:     "UTF-8",
				LineEndStyle: source.LineEndDos,
				Lines:        1,
				Bytes:        7,
			},
			{
				Path:  "/work/gone.txt",
				Error: errors.New("cannot read /work/gone.txt"),
			},
		},
		Stats: runner.Stats{
			FilesDiscovered: 4,
			FilesIngested:   2,
			FilesBinary:     1,
			FilesErrored:    1,
			WarningsTotal:   1,
			LinesTotal:      4,
			BytesTotal:      89,
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    reporter.Format
		wantErr bool
	}{
		{in: "", want: reporter.FormatText},
		{in: "text", want: reporter.FormatText},
		{in: "json", want: reporter.FormatJSON},
		{in: "sarif", wantErr: true},
		{in: "bogus", wantErr: true},
	}

	for _, tc := range cases {
		got, err := reporter.ParseFormat(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) error = nil, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	t.Run("per-file lines and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r, err := reporter.New(reporter.Options{
			Writer:      &buf,
			Format:      reporter.FormatText,
			Color:       "never",
			ShowSummary: true,
			WorkingDir:  "/work",
		})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		warnings, err := r.Report(context.Background(), sampleResult())
		if err != nil {
			t.Fatalf("Report() error = %v", err)
		}
		if warnings != 1 {
			t.Errorf("warnings = %d, want 1", warnings)
		}

		out := buf.String()
		for _, want := range []string{
			"a.txt", "UTF-8", "unix",
			"blob.bin", "binary",
			"error: cannot read /work/gone.txt",
			"Preprocessing possibly failed",
			"2 files ingested (1 binary, 1 errored)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}

		// Paths shortened relative to the working directory.
		if strings.Contains(out, "/work/a.txt") {
			t.Error("output should use relative paths under WorkingDir")
		}
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := reporter.NewTextReporter(reporter.Options{
			Writer:      &buf,
			Color:       "never",
			ShowSummary: true,
		})

		if _, err := r.Report(context.Background(), &runner.Result{}); err != nil {
			t.Fatalf("Report() error = %v", err)
		}
		if !strings.Contains(buf.String(), "No files to ingest.") {
			t.Errorf("output = %q, want no-files notice", buf.String())
		}
	})
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := reporter.New(reporter.Options{
		Writer: &buf,
		Format: reporter.FormatJSON,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := r.Report(context.Background(), sampleResult()); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var out reporter.JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(out.Files) != 4 {
		t.Fatalf("files = %d, want 4", len(out.Files))
	}
	if out.Files[0].Kind != "text" || out.Files[0].Encoding != "UTF-8" {
		t.Errorf("file[0] = %+v, want text/UTF-8", out.Files[0])
	}
	if out.Files[0].Language != "text" {
		t.Errorf("file[0].Language = %q, want text", out.Files[0].Language)
	}
	if out.Files[1].Kind != "binary" || out.Files[1].Encoding != "" {
		t.Errorf("file[1] = %+v, want binary with no encoding", out.Files[1])
	}
	if out.Files[3].Error == "" {
		t.Error("file[3] should carry its error")
	}
	if out.Summary.FilesIngested != 2 || out.Summary.WarningsTotal != 1 {
		t.Errorf("summary = %+v", out.Summary)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := reporter.New(reporter.Options{Format: "sarif"}); err == nil {
		t.Fatal("New() error = nil, want unsupported format")
	}
}
