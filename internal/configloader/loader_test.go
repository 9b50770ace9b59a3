package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/diffprep/pkg/config"
)

func (o LoadOptions) load(ctx context.Context) (*LoadResult, error) {
	return Load(ctx, o)
}

func baseLoadOptions(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	result, err := baseLoadOptions(tmpDir).load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Options == nil {
		t.Fatal("Load() returned nil options")
	}
	if result.Options.Encoding != "UTF-8" {
		t.Errorf("Encoding = %q, want UTF-8 default", result.Options.Encoding)
	}
	if !result.Options.AutoDetectUnicode {
		t.Error("AutoDetectUnicode = false, want default true")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("LoadedFrom = %v, want empty", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configContent := `
encoding: ISO-8859-1
ignore_comments: true
auto_detect_unicode: false
`
	configPath := filepath.Join(tmpDir, ".diffprep.yml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	result, err := baseLoadOptions(tmpDir).load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Options.Encoding != "ISO-8859-1" {
		t.Errorf("Encoding = %q, want ISO-8859-1", result.Options.Encoding)
	}
	if !result.Options.IgnoreComments {
		t.Error("IgnoreComments = false, want true")
	}
	// An explicit false must override the default true.
	if result.Options.AutoDetectUnicode {
		t.Error("AutoDetectUnicode = true, want explicit false from file")
	}
	if len(result.LoadedFrom) != 1 || result.LoadedFrom[0] != configPath {
		t.Errorf("LoadedFrom = %v, want [%s]", result.LoadedFrom, configPath)
	}
}

func TestLoad_ProjectConfigFoundUpward(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	configPath := filepath.Join(tmpDir, ".diffprep.yml")
	if err := os.WriteFile(configPath, []byte("ignore_case: true\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	result, err := baseLoadOptions(subDir).load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !result.Options.IgnoreCase {
		t.Error("IgnoreCase = false, want true from parent config")
	}
}

func TestLoad_UpwardSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".diffprep.yml")
	if err := os.WriteFile(configPath, []byte("ignore_case: true\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	repoDir := filepath.Join(tmpDir, "repo")
	if err := os.MkdirAll(filepath.Join(repoDir, ".git"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := baseLoadOptions(repoDir).load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// The config above the VCS root must not leak in.
	if result.Options.IgnoreCase {
		t.Error("IgnoreCase = true, want search stopped at the VCS root")
	}
}

func TestLoad_ExplicitConfigOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	projectPath := filepath.Join(tmpDir, ".diffprep.yml")
	if err := os.WriteFile(projectPath, []byte("encoding: ISO-8859-1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	explicitPath := filepath.Join(tmpDir, "override.yml")
	if err := os.WriteFile(explicitPath, []byte("encoding: UTF-16LE\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	opts := baseLoadOptions(tmpDir)
	opts.ExplicitPath = explicitPath

	result, err := opts.load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Options.Encoding != "UTF-16LE" {
		t.Errorf("Encoding = %q, want explicit UTF-16LE", result.Options.Encoding)
	}
	if len(result.LoadedFrom) != 2 {
		t.Errorf("LoadedFrom = %v, want project then explicit", result.LoadedFrom)
	}
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, ".diffprep.yml")
	if err := os.WriteFile(configPath, []byte("encoding: ISO-8859-1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DIFFPREP_ENCODING", "UTF-8")
	t.Setenv("DIFFPREP_IGNORE_NUMBERS", "true")

	opts := baseLoadOptions(tmpDir)
	opts.IgnoreEnv = false

	result, err := opts.load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Options.Encoding != "UTF-8" {
		t.Errorf("Encoding = %q, want env override UTF-8", result.Options.Encoding)
	}
	if !result.Options.IgnoreNumbers {
		t.Error("IgnoreNumbers = false, want env true")
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".diffprep.yml")
	if err := os.WriteFile(configPath, []byte("encodings: UTF-8\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := baseLoadOptions(tmpDir).load(context.Background()); err == nil {
		t.Fatal("Load() error = nil, want unknown key rejection")
	}
}

func TestLoad_RejectsUnknownEncoding(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".diffprep.yml")
	if err := os.WriteFile(configPath, []byte("encoding: KLINGON-8\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := baseLoadOptions(tmpDir).load(context.Background()); err == nil {
		t.Fatal("Load() error = nil, want unknown encoding rejection")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("clean defaults", func(t *testing.T) {
		t.Parallel()

		result := Validate(config.NewOptions())
		if !result.Valid() {
			t.Errorf("Validate() errors = %v, want none", result.Errors)
		}
	})

	t.Run("negative jobs", func(t *testing.T) {
		t.Parallel()

		opts := config.NewOptions()
		opts.Jobs = -1
		if Validate(opts).Valid() {
			t.Error("Validate() accepted negative jobs")
		}
	})

	t.Run("untokenizable command warns", func(t *testing.T) {
		t.Parallel()

		opts := config.NewOptions()
		opts.PreProcessorCmd = `sed "s/a/b`
		result := Validate(opts)
		if !result.Valid() {
			t.Errorf("Validate() errors = %v, want none", result.Errors)
		}
		if len(result.Warnings) != 1 {
			t.Errorf("warnings = %v, want one tokenize warning", result.Warnings)
		}
	})
}
