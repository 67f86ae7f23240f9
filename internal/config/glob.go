package config

import "github.com/bmatcuk/doublestar/v4"

// MatchesWorkspace reports whether relPath (slash-separated, relative to
// Project.Root) should be indexed: it must match at least one Include
// pattern and no Exclude pattern. A malformed pattern never matches rather
// than erroring, since a broken glob in a config file shouldn't stop the
// whole workspace from loading.
func (c *Config) MatchesWorkspace(relPath string) bool {
	included := false
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return false
		}
	}
	return true
}
