package patterns

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// PartialFilePatterns are partial downloads and editor/office lock files,
// a ready-made list for organizer.ignorePatterns
var PartialFilePatterns = []string{
	"*.tmp",
	"*.part",
	"*.crdownload",
	"*.download",
	"~$*",
	".~lock.*",
}

// Matcher reports file names matching any ignore pattern.
// Patterns are matched against the base name only.
type Matcher struct {
	patterns []glob.Glob
	sources  []string
	mu       sync.RWMutex
}

func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	if err := m.SetPatterns(patterns); err != nil {
		return nil, err
	}
	return m, nil
}

var _ outbound.PathFilter = (*Matcher)(nil)

// SetPatterns replaces the pattern list; blank lines and # comments are skipped
func (m *Matcher) SetPatterns(patterns []string) error {
	compiled := make([]glob.Glob, 0, len(patterns))
	sources := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}

		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
		sources = append(sources, pattern)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = compiled
	m.sources = sources
	return nil
}

// IsIgnored matches case-insensitively
func (m *Matcher) IsIgnored(path string) bool {
	name := strings.ToLower(filepath.Base(path))

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, g := range m.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the active patterns as configured
func (m *Matcher) Patterns() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.sources))
	copy(out, m.sources)
	return out
}
