// Package scanner turns a directory tree into the combined codebase context
// that is sent to an AI provider.
//
// Two implementations share one contract: EagerScanner reads every qualifying
// file up front and suits small projects, LazyScanner defers reads to a
// bounded content cache and suits large trees where peak memory matters. Both
// walk deterministically and must produce identical results over an unchanged
// tree.
package scanner

import (
	"errors"
	"time"
)

var (
	// ErrDirectoryNotFound is returned when the scan root does not exist or
	// is not a directory.
	ErrDirectoryNotFound = errors.New("scan root does not exist or is not a directory")

	// ErrScanCancelled is returned when a scan is cancelled via its context.
	ErrScanCancelled = errors.New("scan cancelled")
)

// FileEntry describes one candidate file under the scan root. Entries are
// immutable once created.
type FileEntry struct {
	Path      string    // absolute, normalized path
	RelPath   string    // relative to root, forward-slash separated
	SizeBytes int64     // from stat
	ModTime   time.Time // from stat
	Ext       string    // lowercase extension including the dot, or ""
}

// SkippedFile records a file that was discovered but excluded from the
// result for a reason other than filtering (unreadable, over cache limits).
type SkippedFile struct {
	RelPath string
	Reason  string
}

// ScanResult is the assembled output of one scan invocation.
//
// Files is sorted by RelPath ascending so repeated scans over an unchanged
// tree produce byte-identical CombinedContext.
type ScanResult struct {
	Files           []FileEntry
	CombinedContext string
	Truncated       bool
	TotalBytes      int64
	Skipped         []SkippedFile
}

// Progress is a point-in-time snapshot reported during a lazy scan.
type Progress struct {
	FilesScanned  int
	FilesEstimate int
	BytesScanned  int64
}

// ProgressFunc receives best-effort progress updates. Implementations should
// return quickly; slow consumers cause updates to be dropped, never to block
// the scan.
type ProgressFunc func(p Progress)

// Scanner is the shared contract behind which the eager and lazy strategies
// are interchangeable.
type Scanner interface {
	Scan(root string, rules FilterRules) (*ScanResult, error)
}
