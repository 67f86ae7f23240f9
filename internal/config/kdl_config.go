package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/ramtk/ram/internal/types"
)

// LoadKDL attempts to load configuration from a .ramc.kdl file under
// projectRoot. Returns (nil, nil) if no such file exists.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ".ramc.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .ramc.kdl: %w", err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	if cfg.Project.Root != "" {
		if filepath.IsAbs(cfg.Project.Root) {
			cfg.Project.Root = filepath.Clean(cfg.Project.Root)
		} else {
			cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
		}
	} else if abs, err := filepath.Abs(projectRoot); err == nil {
		cfg.Project.Root = abs
	} else {
		cfg.Project.Root = projectRoot
	}

	return cfg, nil
}

func parseKDL(content string) (*Config, error) {
	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	cfg := defaultConfig(cwd)

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "workspace":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Workspace.FollowSymlinks = b
					}
				case "watch_mode":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Workspace.WatchMode = b
					}
				case "watch_debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Workspace.WatchDebounceMs = v
					}
				case "default_file_durability":
					if s, ok := firstStringArg(cn); ok {
						if d, ok := parseDurability(s); ok {
							cfg.Workspace.DefaultFileDurability = d
						}
					}
				}
			}
		case "vm":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_steps":
					if v, ok := firstIntArg(cn); ok {
						cfg.VM.MaxSteps = v
					}
				case "max_sparse_addresses":
					if v, ok := firstIntArg(cn); ok {
						cfg.VM.MaxSparseAddresses = v
					}
				}
			}
		case "registry":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "case_sensitive":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Registry.CaseSensitive = b
					}
				case "plugin_paths":
					cfg.Registry.PluginPaths = append(cfg.Registry.PluginPaths, collectStringArgs(cn)...)
				}
			}
		case "analysis":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "disabled_passes":
					cfg.Analysis.DisabledPasses = append(cfg.Analysis.DisabledPasses, collectStringArgs(cn)...)
				case "fuzzy_suggest_threshold":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Analysis.FuzzySuggestThreshold = v
					}
				}
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		}
	}

	cfg.Exclude = DeduplicatePatterns(cfg.Exclude)
	return cfg, nil
}

func parseDurability(s string) (types.Durability, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return types.DurabilityLow, true
	case "medium":
		return types.DurabilityMedium, true
	case "high":
		return types.DurabilityHigh, true
	default:
		return 0, false
	}
}

// Helper functions against the kdl-go document model.

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
