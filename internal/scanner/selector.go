package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Strategy names the scanning strategy a Selector picked.
type Strategy string

const (
	StrategyEager Strategy = "eager"
	StrategyLazy  Strategy = "lazy"
)

// SelectorThresholds tune when the selector switches from eager to lazy
// scanning. Zero values fall back to the defaults.
type SelectorThresholds struct {
	MaxEagerFiles int   // above this many files, go lazy
	MaxEagerBytes int64 // above this much total size, go lazy
	MaxEagerDepth int   // above this directory depth, go lazy
}

// DefaultSelectorThresholds are conservative: eager scanning reads the whole
// tree into memory, so the cutover happens early.
var DefaultSelectorThresholds = SelectorThresholds{
	MaxEagerFiles: 200,
	MaxEagerBytes: 4 << 20, // 4MB
	MaxEagerDepth: 8,
}

// Selector estimates a tree's shape with a bounded pre-walk and picks the
// scanner strategy. It is a caller-side heuristic: both scanners honor the
// same contract, so the choice only affects memory and latency.
type Selector struct {
	thresholds SelectorThresholds
}

// NewSelector creates a selector; zero fields of t use the defaults.
func NewSelector(t SelectorThresholds) *Selector {
	if t.MaxEagerFiles <= 0 {
		t.MaxEagerFiles = DefaultSelectorThresholds.MaxEagerFiles
	}
	if t.MaxEagerBytes <= 0 {
		t.MaxEagerBytes = DefaultSelectorThresholds.MaxEagerBytes
	}
	if t.MaxEagerDepth <= 0 {
		t.MaxEagerDepth = DefaultSelectorThresholds.MaxEagerDepth
	}
	return &Selector{thresholds: t}
}

// Choose inspects root and returns the recommended strategy. The pre-walk
// stops as soon as any threshold is crossed, so large trees are not paid for
// twice. Unreadable roots default to eager; the scan itself will surface the
// error.
func (s *Selector) Choose(root string, rules FilterRules) Strategy {
	absRoot, err := validateRoot(root)
	if err != nil {
		return StrategyEager
	}

	filter := NewPathFilter(rules)
	files := 0
	var bytes int64
	exceeded := false

	_ = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != absRoot && filter.PruneDir(d.Name()) {
				return filepath.SkipDir
			}
			rel, relErr := filepath.Rel(absRoot, path)
			if relErr == nil && depthOf(rel) > s.thresholds.MaxEagerDepth {
				exceeded = true
				return filepath.SkipAll
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		files++
		bytes += info.Size()
		if files > s.thresholds.MaxEagerFiles || bytes > s.thresholds.MaxEagerBytes {
			exceeded = true
			return filepath.SkipAll
		}
		return nil
	})

	if exceeded {
		return StrategyLazy
	}
	return StrategyEager
}

func depthOf(rel string) int {
	if rel == "." || rel == "" {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}
