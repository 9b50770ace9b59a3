// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, and validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/diffprep/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// It is merged on top of any discovered project config.
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Options is the final merged configuration.
	Options *config.Options

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. Environment variables (DIFFPREP_*)
//  2. Explicit config file (opts.ExplicitPath)
//  3. Project config (.diffprep.yml upward search)
//  4. User config ($XDG_CONFIG_HOME/diffprep/config.yaml)
//  5. System config (/etc/diffprep/config.yaml)
//  6. Defaults
//
// CLI flags override the result in the command layer, where flag presence is
// known.
func Load(ctx context.Context, loadOpts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{
		Paths: &ConfigPaths{},
	}

	workDir := loadOpts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	// Start with defaults
	opts := config.NewOptions()

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	result.Paths = paths

	if loadOpts.ExplicitPath != "" {
		result.Paths.Explicit = loadOpts.ExplicitPath
	}

	// Load and merge in order (lowest to highest precedence)

	// 1. System config
	if !loadOpts.IgnoreSystemConfig && paths.System != "" {
		layer, err := loadConfigFile(paths.System)
		if err != nil {
			return nil, fmt.Errorf("load system config: %w", err)
		}
		layer.apply(opts)
		result.LoadedFrom = append(result.LoadedFrom, paths.System)
	}

	// 2. User config
	if !loadOpts.IgnoreUserConfig && paths.User != "" {
		layer, err := loadConfigFile(paths.User)
		if err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
		layer.apply(opts)
		result.LoadedFrom = append(result.LoadedFrom, paths.User)
	}

	// 3. Project config
	if !loadOpts.IgnoreProjectConfig && paths.Project != "" {
		layer, err := loadConfigFile(paths.Project)
		if err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
		layer.apply(opts)
		result.LoadedFrom = append(result.LoadedFrom, paths.Project)
	}

	// 4. Explicit config (--config flag)
	if loadOpts.ExplicitPath != "" {
		layer, err := loadConfigFile(loadOpts.ExplicitPath)
		if err != nil {
			return nil, fmt.Errorf("load explicit config: %w", err)
		}
		layer.apply(opts)
		result.LoadedFrom = append(result.LoadedFrom, loadOpts.ExplicitPath)
	}

	// 5. Environment variables
	if !loadOpts.IgnoreEnv {
		if err := LoadFromEnv(opts); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	// Validate final configuration
	validation := Validate(opts)
	if !validation.Valid() {
		// Return first error
		return nil, &validation.Errors[0]
	}

	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	result.Options = opts
	return result, nil
}
