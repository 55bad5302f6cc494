package scanner

import (
	"fmt"
	"strings"
	"testing"
)

// TestSelector_Choose covers the file-count, byte-size and depth cutovers
func TestSelector_Choose(t *testing.T) {
	thresholds := SelectorThresholds{
		MaxEagerFiles: 5,
		MaxEagerBytes: 100,
		MaxEagerDepth: 3,
	}

	t.Run("small tree goes eager", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"a.go": "short",
			"b.go": "short",
		})
		if got := NewSelector(thresholds).Choose(root, FilterRules{}); got != StrategyEager {
			t.Errorf("Expected eager, got %s", got)
		}
	})

	t.Run("too many files goes lazy", func(t *testing.T) {
		files := map[string]string{}
		for i := 0; i < 10; i++ {
			files[fmt.Sprintf("f%d.go", i)] = "x"
		}
		root := writeTree(t, files)
		if got := NewSelector(thresholds).Choose(root, FilterRules{}); got != StrategyLazy {
			t.Errorf("Expected lazy, got %s", got)
		}
	})

	t.Run("too many bytes goes lazy", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"big.go": strings.Repeat("x", 200),
		})
		if got := NewSelector(thresholds).Choose(root, FilterRules{}); got != StrategyLazy {
			t.Errorf("Expected lazy, got %s", got)
		}
	})

	t.Run("deep nesting goes lazy", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"a/b/c/d/e/f.go": "x",
		})
		if got := NewSelector(thresholds).Choose(root, FilterRules{}); got != StrategyLazy {
			t.Errorf("Expected lazy, got %s", got)
		}
	})

	t.Run("pruned folders do not count", func(t *testing.T) {
		files := map[string]string{"main.go": "x"}
		for i := 0; i < 50; i++ {
			files[fmt.Sprintf("node_modules/dep%d.js", i)] = strings.Repeat("x", 50)
		}
		root := writeTree(t, files)
		rules := FilterRules{IgnoredFolders: []string{"node_modules"}}
		if got := NewSelector(thresholds).Choose(root, rules); got != StrategyEager {
			t.Errorf("Expected eager when bulk is pruned, got %s", got)
		}
	})

	t.Run("unreadable root defaults to eager", func(t *testing.T) {
		if got := NewSelector(thresholds).Choose("/nonexistent/zz", FilterRules{}); got != StrategyEager {
			t.Errorf("Expected eager fallback, got %s", got)
		}
	})
}

func TestNewSelector_Defaults(t *testing.T) {
	s := NewSelector(SelectorThresholds{})
	if s.thresholds != DefaultSelectorThresholds {
		t.Errorf("Expected default thresholds, got %+v", s.thresholds)
	}
}

func TestDepthOf(t *testing.T) {
	tests := []struct {
		rel  string
		want int
	}{
		{".", 0},
		{"", 0},
		{"a", 1},
		{"a/b", 2},
		{"a/b/c/d", 4},
	}
	for _, tt := range tests {
		if got := depthOf(tt.rel); got != tt.want {
			t.Errorf("depthOf(%q) = %d, want %d", tt.rel, got, tt.want)
		}
	}
}
