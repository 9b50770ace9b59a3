package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/diffprep/internal/cli"
)

func testBuildInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "diffprep" {
		t.Errorf("expected Use to be 'diffprep', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo())

	expectedSubcommands := []string{"ingest", "detect", "init", "version"}

	for _, name := range expectedSubcommands {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestIngestCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo())
	ingestCmd, _, err := cmd.Find([]string{"ingest"})
	if err != nil {
		t.Fatalf("ingest command not found: %v", err)
	}

	expectedFlags := []string{
		"pp-cmd",
		"lmpp-cmd",
		"pp-encoding",
		"encoding",
		"auto-detect",
		"ignore-comments",
		"ignore-case",
		"ignore-numbers",
		"format",
		"jobs",
		"exclude",
		"strict",
	}

	for _, flagName := range expectedFlags {
		flag := ingestCmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("expected flag %q to exist on ingest command", flagName)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo())

	expectedFlags := []string{"debug", "config", "color"}

	for _, flagName := range expectedFlags {
		flag := cmd.PersistentFlags().Lookup(flagName)
		if flag == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo())
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
}

func TestDetectCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bomFile := filepath.Join(dir, "bom.txt")
	if err := os.WriteFile(bomFile, []byte{0xFF, 0xFE, 'h', 0x00}, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	plainFile := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(plainFile, []byte("hello\n"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cmd := cli.NewRootCommand(testBuildInfo())
	cmd.SetArgs([]string{"detect", "--color", "never", bomFile, plainFile})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("detect command failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"UTF-16LE", "byte order mark", "UTF-8", "fallback"} {
		if !bytes.Contains([]byte(got), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDetectCommandRequiresArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo())
	cmd.SetArgs([]string{"detect"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err == nil {
		t.Fatal("detect with no args should fail")
	}
}

func TestIngestCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo())
	ingestCmd, _, err := cmd.Find([]string{"ingest"})
	if err != nil {
		t.Fatalf("ingest command not found: %v", err)
	}

	if err := ingestCmd.Args(ingestCmd, []string{"old.c", "new.c", "src/"}); err != nil {
		t.Errorf("ingest command should accept arbitrary args, got error: %v", err)
	}
}
