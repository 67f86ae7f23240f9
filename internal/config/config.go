// Package config loads and validates toolkit configuration from .ramc.kdl
// files, following the same two-tier (global then project) load-and-merge
// strategy and KDL document format the teacher used for its own config.
package config

import (
	"os"

	"github.com/ramtk/ram/internal/types"
)

// Config is the fully resolved toolkit configuration.
type Config struct {
	Version   int
	Project   Project
	Workspace Workspace
	VM        VM
	Registry  Registry
	Analysis  Analysis
	Include   []string
	Exclude   []string
}

// Project identifies the workspace root being compiled.
type Project struct {
	Root string
	Name string
}

// Workspace controls how the query engine discovers and watches .ram
// source files.
type Workspace struct {
	FollowSymlinks  bool
	WatchMode       bool // enable fsnotify-based reindexing on file change
	WatchDebounceMs int
	DefaultFileDurability types.Durability
}

// VM configures the virtual machine's runtime limits.
type VM struct {
	MaxSteps           int // 0 disables the step budget
	MaxSparseAddresses int // guards against unbounded sparse memory growth
}

// Registry configures the instruction registry's plugin loading and lookup
// behavior.
type Registry struct {
	CaseSensitive bool     // match teacher instruction names case-sensitively
	PluginPaths   []string // paths to additional instruction-set plugins
}

// Analysis configures which HIR analysis passes run by default.
type Analysis struct {
	DisabledPasses []string // pass names to skip, e.g. "constant_propagation"
	FuzzySuggestThreshold float64 // go-edlib similarity threshold for "did you mean" on Custom instructions
}

const (
	// DefaultFuzzySuggestThreshold is the minimum go-edlib Jaro-Winkler
	// similarity for suggesting a known instruction name as a typo fix.
	DefaultFuzzySuggestThreshold = 0.75
)

// Load resolves configuration by merging ~/.ramc.kdl (if present) with
// <rootDir>/.ramc.kdl (if present), falling back to built-in defaults when
// neither exists.
func Load(rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	var projectConfig *Config
	if kdlCfg, err := LoadKDL(searchDir); err != nil {
		return nil, err
	} else if kdlCfg != nil {
		projectConfig = kdlCfg
	}

	switch {
	case baseConfig != nil && projectConfig != nil:
		return mergeConfigs(baseConfig, projectConfig), nil
	case projectConfig != nil:
		return projectConfig, nil
	case baseConfig != nil:
		baseConfig.Project.Root = searchDir
		return baseConfig, nil
	}

	return defaultConfig(searchDir), nil
}

func defaultConfig(root string) *Config {
	cwd := root
	if abs, err := os.Getwd(); err == nil && root == "." {
		cwd = abs
	}

	return &Config{
		Version: 1,
		Project: Project{Root: cwd},
		Workspace: Workspace{
			FollowSymlinks:        false,
			WatchMode:             true,
			WatchDebounceMs:       300,
			DefaultFileDurability: types.DurabilityLow,
		},
		VM: VM{
			MaxSteps:           types.DefaultVMMaxSteps,
			MaxSparseAddresses: 1_000_000,
		},
		Registry: Registry{
			CaseSensitive: false,
			PluginPaths:   []string{},
		},
		Analysis: Analysis{
			DisabledPasses:        []string{},
			FuzzySuggestThreshold: DefaultFuzzySuggestThreshold,
		},
		Include: []string{"**/*.ram"},
		Exclude: []string{
			"**/.git/**",
			"**/.*/**",
		},
	}
}

// mergeConfigs merges a base (global) config with a project config. The
// project config takes precedence everywhere except Exclude, where the two
// sets are unioned so a global exclusion can never be silently dropped by a
// project file.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		seen := make(map[string]bool, len(base.Exclude)+len(project.Exclude))
		merged.Exclude = make([]string, 0, len(base.Exclude)+len(project.Exclude))
		for _, pattern := range base.Exclude {
			if !seen[pattern] {
				seen[pattern] = true
				merged.Exclude = append(merged.Exclude, pattern)
			}
		}
		for _, pattern := range project.Exclude {
			if !seen[pattern] {
				seen[pattern] = true
				merged.Exclude = append(merged.Exclude, pattern)
			}
		}
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}

	return &merged
}

// DeduplicatePatterns removes duplicate glob patterns while preserving
// first-seen order.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

