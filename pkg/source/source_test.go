package source_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/yaklabco/diffprep/pkg/config"
	"github.com/yaklabco/diffprep/pkg/source"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
	return path
}

func mustLoad(t *testing.T, sd *source.SourceData) {
	t.Helper()

	if msgs := sd.LoadAndPreprocess(context.Background()); len(msgs) != 0 {
		t.Fatalf("LoadAndPreprocess() diagnostics = %v, want none", msgs)
	}
}

func requirePOSIX(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test drives POSIX shell utilities")
	}
}

func TestLoadPlainFile(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "plain.txt", "first\nsecond\nthird\n")

	sd := source.New(config.NewOptions())
	sd.BindToFile(path)
	mustLoad(t, sd)

	if sd.Kind() != source.KindText {
		t.Fatalf("Kind() = %v, want text", sd.Kind())
	}
	if sd.SizeLines() != 3 {
		t.Errorf("SizeLines() = %d, want 3", sd.SizeLines())
	}
	if sd.LineEndStyle() != source.LineEndUnix {
		t.Errorf("LineEndStyle() = %v, want unix", sd.LineEndStyle())
	}

	v := sd.DisplayLineView()
	if v == nil {
		t.Fatal("DisplayLineView() = nil, want view")
	}
	if got := v.Text(1); got != "second" {
		t.Errorf("line 1 = %q, want %q", got, "second")
	}

	// Without filters the compare view falls back to the display view.
	if cv := sd.CompareLineView(); cv == nil || cv.Text(1) != "second" {
		t.Error("CompareLineView() should fall back to the display view")
	}
}

func TestLoadStates(t *testing.T) {
	t.Parallel()

	t.Run("unbound role", func(t *testing.T) {
		t.Parallel()

		sd := source.New(nil)
		mustLoad(t, sd)

		if sd.Kind() != source.KindUnloaded {
			t.Errorf("Kind() = %v, want unloaded", sd.Kind())
		}
		if !sd.IsEmpty() || !sd.IsValid() {
			t.Error("unbound role should be empty and valid")
		}
		if sd.DisplayLineView() != nil {
			t.Error("DisplayLineView() should be nil before any load")
		}
	})

	t.Run("nonexistent file", func(t *testing.T) {
		t.Parallel()

		sd := source.New(config.NewOptions())
		sd.BindToFile(filepath.Join(t.TempDir(), "missing.txt"))
		mustLoad(t, sd)

		if sd.Kind() != source.KindUnloaded {
			t.Errorf("Kind() = %v, want unloaded", sd.Kind())
		}
		if sd.IsValid() {
			t.Error("IsValid() = true, want false for a bound but unread role")
		}
	})

	t.Run("directory input", func(t *testing.T) {
		t.Parallel()

		sd := source.New(config.NewOptions())
		sd.BindToFile(t.TempDir())

		msgs := sd.LoadAndPreprocess(context.Background())
		if len(msgs) != 1 {
			t.Fatalf("diagnostics = %v, want exactly one", msgs)
		}
		if !strings.Contains(msgs[0], "not a normal file") {
			t.Errorf("diagnostic = %q, want a not-a-normal-file message", msgs[0])
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "empty.txt", "")

		sd := source.New(config.NewOptions())
		sd.BindToFile(path)
		mustLoad(t, sd)

		if sd.Kind() != source.KindText {
			t.Errorf("Kind() = %v, want text", sd.Kind())
		}
		if sd.SizeLines() != 0 {
			t.Errorf("SizeLines() = %d, want 0", sd.SizeLines())
		}
	})

	t.Run("binary content", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "blob.bin", "MZ\x00\x01\x02\x03random\x00bytes")

		sd := source.New(config.NewOptions())
		sd.BindToFile(path)
		mustLoad(t, sd)

		if sd.Kind() != source.KindBinary {
			t.Errorf("Kind() = %v, want binary", sd.Kind())
		}
		if !sd.LikelyBinary() {
			t.Error("LikelyBinary() = false, want true")
		}
	})
}

func TestBindToText(t *testing.T) {
	t.Parallel()

	sd := source.New(config.NewOptions())
	defer sd.Destroy()

	if err := sd.BindToText(context.Background(), "pasted\ncontent\n"); err != nil {
		t.Fatalf("BindToText() error = %v", err)
	}
	mustLoad(t, sd)

	if !sd.IsFromBuffer() {
		t.Error("IsFromBuffer() = false, want true")
	}
	if got := sd.AliasName(); got != "From Clipboard" {
		t.Errorf("AliasName() = %q, want %q", got, "From Clipboard")
	}
	if sd.SizeLines() != 2 {
		t.Errorf("SizeLines() = %d, want 2", sd.SizeLines())
	}
	if got := sd.DisplayLineView().Text(0); got != "pasted" {
		t.Errorf("line 0 = %q, want %q", got, "pasted")
	}
}

func TestPreProcessor(t *testing.T) {
	t.Parallel()

	t.Run("command output replaces the display view", func(t *testing.T) {
		t.Parallel()
		requirePOSIX(t)

		path := writeTestFile(t, "in.txt", "keep\ndrop me\nkeep too\n")

		opts := config.NewOptions()
		opts.PreProcessorCmd = "grep keep"

		sd := source.New(opts)
		sd.BindToFile(path)
		mustLoad(t, sd)

		if sd.SizeLines() != 2 {
			t.Fatalf("SizeLines() = %d, want 2", sd.SizeLines())
		}
		if got := sd.DisplayLineView().Text(1); got != "keep too" {
			t.Errorf("line 1 = %q, want %q", got, "keep too")
		}
	})

	t.Run("failing command falls back and is disabled", func(t *testing.T) {
		t.Parallel()
		requirePOSIX(t)

		const content = "original\ncontent\n"
		path := writeTestFile(t, "in.txt", content)

		opts := config.NewOptions()
		opts.PreProcessorCmd = "false"

		sd := source.New(opts)
		sd.BindToFile(path)

		msgs := sd.LoadAndPreprocess(context.Background())
		if len(msgs) != 1 {
			t.Fatalf("diagnostics = %v, want exactly one", msgs)
		}
		if !strings.Contains(msgs[0], "Preprocessing possibly failed") {
			t.Errorf("diagnostic = %q, want a preprocessing-failed message", msgs[0])
		}

		// The display view must equal the unfiltered input.
		v := sd.DisplayLineView()
		if v == nil || v.Count() != 2 || v.Text(0) != "original" {
			t.Error("display view does not match the unfiltered input")
		}

		// The command was disabled on the shared options and must not be
		// retried: a second load is clean.
		if opts.PreProcessorCmd != "" {
			t.Errorf("PreProcessorCmd = %q, want cleared", opts.PreProcessorCmd)
		}
		mustLoad(t, sd)
	})

	t.Run("command emitting nothing counts as a failure", func(t *testing.T) {
		t.Parallel()
		requirePOSIX(t)

		path := writeTestFile(t, "in.txt", "something\n")

		opts := config.NewOptions()
		opts.PreProcessorCmd = "true" // exits zero but writes no output

		sd := source.New(opts)
		sd.BindToFile(path)

		msgs := sd.LoadAndPreprocess(context.Background())
		if len(msgs) != 1 {
			t.Fatalf("diagnostics = %v, want exactly one", msgs)
		}
		if got := sd.DisplayLineView().Text(0); got != "something" {
			t.Errorf("line 0 = %q, want the unfiltered input", got)
		}
	})
}

func TestLineMatchingPreProcessor(t *testing.T) {
	t.Parallel()

	t.Run("deleted lines are padded in the compare view", func(t *testing.T) {
		t.Parallel()
		requirePOSIX(t)

		var b strings.Builder
		for _, line := range []string{
			"one", "two", "three", "four", "five",
			"six", "seven", "eight", "nine", "ten",
		} {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		path := writeTestFile(t, "ten.txt", b.String())

		opts := config.NewOptions()
		opts.LineMatchingPreProcessorCmd = "head -n 8"

		sd := source.New(opts)
		sd.BindToFile(path)
		mustLoad(t, sd)

		if sd.SizeLines() != 10 {
			t.Fatalf("SizeLines() = %d, want 10", sd.SizeLines())
		}

		cv := sd.CompareLineView()
		if cv == nil {
			t.Fatal("CompareLineView() = nil, want view")
		}
		if cv.Count() != 10 {
			t.Fatalf("compare Count() = %d, want 10 after padding", cv.Count())
		}
		if got := cv.Text(7); got != "eight" {
			t.Errorf("compare line 7 = %q, want %q", got, "eight")
		}
		for _, i := range []int{8, 9} {
			if rec := cv.Record(i); rec.Length != 0 {
				t.Errorf("compare record %d Length = %d, want 0 (padding)", i, rec.Length)
			}
			if got := cv.Text(i); got != "" {
				t.Errorf("compare line %d = %q, want empty", i, got)
			}
		}

		// The display view is untouched by the line-matching stage.
		if got := sd.DisplayLineView().Text(9); got != "ten" {
			t.Errorf("display line 9 = %q, want %q", got, "ten")
		}
	})

	t.Run("failing command falls back to its input", func(t *testing.T) {
		t.Parallel()
		requirePOSIX(t)

		path := writeTestFile(t, "in.txt", "a\nb\n")

		opts := config.NewOptions()
		opts.LineMatchingPreProcessorCmd = "false"

		sd := source.New(opts)
		sd.BindToFile(path)

		msgs := sd.LoadAndPreprocess(context.Background())
		if len(msgs) != 1 {
			t.Fatalf("diagnostics = %v, want exactly one", msgs)
		}
		if !strings.Contains(msgs[0], "line-matching-preprocessing possibly failed") {
			t.Errorf("diagnostic = %q, want a line-matching failure message", msgs[0])
		}
		if opts.LineMatchingPreProcessorCmd != "" {
			t.Errorf("LineMatchingPreProcessorCmd = %q, want cleared",
				opts.LineMatchingPreProcessorCmd)
		}
		if cv := sd.CompareLineView(); cv == nil || cv.Count() != 2 || cv.Text(0) != "a" {
			t.Error("compare view does not match the unfiltered input")
		}
	})
}

func TestCompareFolding(t *testing.T) {
	t.Parallel()

	t.Run("ignore case folds only the compare view", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "in.txt", "Mixed Case\n")

		opts := config.NewOptions()
		opts.IgnoreCase = true

		sd := source.New(opts)
		sd.BindToFile(path)
		mustLoad(t, sd)

		if got := sd.CompareLineView().Text(0); got != "MIXED CASE" {
			t.Errorf("compare line 0 = %q, want folded", got)
		}
		if got := sd.DisplayLineView().Text(0); got != "Mixed Case" {
			t.Errorf("display line 0 = %q, want original", got)
		}
	})

	t.Run("ignore comments propagates purity to the display view", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "in.c", "int x;\n// nothing else\nint y;\n")

		opts := config.NewOptions()
		opts.IgnoreComments = true

		sd := source.New(opts)
		sd.BindToFile(path)
		mustLoad(t, sd)

		v := sd.DisplayLineView()
		if v.Record(1).PureComment != true {
			t.Error("display record 1 PureComment = false, want true")
		}
		if v.Record(0).PureComment || v.Record(2).PureComment {
			t.Error("code lines must not be flagged as pure comments")
		}
		// Display text keeps the comment; only the compare copy drops it.
		if got := v.Text(1); got != "// nothing else" {
			t.Errorf("display line 1 = %q, want the comment kept", got)
		}
		if got := sd.CompareLineView().Text(1); got != "" {
			t.Errorf("compare line 1 = %q, want stripped", got)
		}
	})
}

func TestIsBinaryIdenticalTo(t *testing.T) {
	t.Parallel()

	load := func(t *testing.T, path string) *source.SourceData {
		t.Helper()
		sd := source.New(config.NewOptions())
		sd.BindToFile(path)
		mustLoad(t, sd)
		return sd
	}

	t.Run("two empty files compare equal", func(t *testing.T) {
		t.Parallel()

		a := load(t, writeTestFile(t, "a", ""))
		b := load(t, writeTestFile(t, "b", ""))
		if !a.IsBinaryIdenticalTo(b) {
			t.Error("IsBinaryIdenticalTo() = false, want true for two empty files")
		}
	})

	t.Run("identical content compares equal", func(t *testing.T) {
		t.Parallel()

		a := load(t, writeTestFile(t, "a", "same\nbytes\n"))
		b := load(t, writeTestFile(t, "b", "same\nbytes\n"))
		if !a.IsBinaryIdenticalTo(b) {
			t.Error("IsBinaryIdenticalTo() = false, want true")
		}
	})

	t.Run("size mismatch compares unequal", func(t *testing.T) {
		t.Parallel()

		a := load(t, writeTestFile(t, "a", "short\n"))
		b := load(t, writeTestFile(t, "b", "rather longer\n"))
		if a.IsBinaryIdenticalTo(b) {
			t.Error("IsBinaryIdenticalTo() = true, want false")
		}
	})

	t.Run("buffer-bound input never compares equal", func(t *testing.T) {
		t.Parallel()

		a := load(t, writeTestFile(t, "a", "x\n"))

		b := source.New(config.NewOptions())
		defer b.Destroy()
		if err := b.BindToText(context.Background(), "x\n"); err != nil {
			t.Fatalf("BindToText() error = %v", err)
		}
		mustLoad(t, b)

		if a.IsBinaryIdenticalTo(b) || b.IsBinaryIdenticalTo(a) {
			t.Error("clipboard input must not report binary identity")
		}
	})
}

func TestSaveNormalDataAs(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "in.txt", "save\nme\n")

	sd := source.New(config.NewOptions())
	sd.BindToFile(path)
	mustLoad(t, sd)

	out := filepath.Join(t.TempDir(), "out.txt")
	if err := sd.SaveNormalDataAs(context.Background(), out); err != nil {
		t.Fatalf("SaveNormalDataAs() error = %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(got) != "save\nme\n" {
		t.Errorf("saved content = %q, want %q", got, "save\nme\n")
	}
}

func TestRebindClearsState(t *testing.T) {
	t.Parallel()

	first := writeTestFile(t, "first.txt", "one\n")
	second := writeTestFile(t, "second.txt", "uno\ndos\n")

	sd := source.New(config.NewOptions())
	sd.BindToFile(first)
	mustLoad(t, sd)

	sd.SetAliasName("custom")
	sd.BindToFile(second)
	mustLoad(t, sd)

	if got := sd.AliasName(); got == "custom" {
		t.Error("AliasName() kept a stale alias across rebind")
	}
	if sd.SizeLines() != 2 {
		t.Errorf("SizeLines() = %d, want 2", sd.SizeLines())
	}

	sd.BindToFile("")
	if !sd.IsEmpty() || sd.Kind() != source.KindUnloaded {
		t.Error("BindToFile(\"\") must fully reset the role")
	}
}
