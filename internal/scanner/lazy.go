package scanner

import (
	"context"
	"errors"
	"sync"

	"github.com/user/codechat/internal/filecache"
)

// progressInterval is the number of files between progress reports.
const progressInterval = 25

// LazyScanner walks a directory tree and serves file content through a
// bounded content cache, so successive scans over the same root re-read only
// files the cache has evicted. Peak memory is bounded by the cache policy
// regardless of tree size.
//
// A LazyScanner is safe to reuse; each Scan call is independent. The cache
// may be shared between scanners.
type LazyScanner struct {
	cache       *filecache.Cache
	progress    ProgressFunc
	keepPartial bool
}

// LazyOption configures a LazyScanner.
type LazyOption func(*LazyScanner)

// WithProgress installs a best-effort progress callback. Reports are
// delivered through a small buffer and dropped when the consumer lags; all
// delivered callbacks complete before Scan returns.
func WithProgress(fn ProgressFunc) LazyOption {
	return func(s *LazyScanner) { s.progress = fn }
}

// WithPartialOnCancel makes a cancelled Scan return the partial result
// accumulated so far alongside ErrScanCancelled, instead of discarding it.
func WithPartialOnCancel() LazyOption {
	return func(s *LazyScanner) { s.keepPartial = true }
}

// NewLazyScanner creates a lazy scanner backed by cache.
func NewLazyScanner(cache *filecache.Cache, opts ...LazyOption) *LazyScanner {
	s := &LazyScanner{cache: cache}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan implements the Scanner contract with context.Background.
func (s *LazyScanner) Scan(root string, rules FilterRules) (*ScanResult, error) {
	return s.ScanContext(context.Background(), root, rules)
}

// ScanContext walks root with the same filter semantics as EagerScanner,
// obtaining content via the cache. Cancellation is cooperative: the context
// is checked between file operations, never mid-read.
func (s *LazyScanner) ScanContext(ctx context.Context, root string, rules FilterRules) (*ScanResult, error) {
	absRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}

	filter := NewPathFilter(rules)
	result := &ScanResult{}
	contents := make(map[string]string)

	reporter := newProgressReporter(s.progress)
	defer reporter.close()

	estimate := 0
	if s.progress != nil {
		estimate = estimateFileCount(absRoot, filter)
	}

	skip := func(relPath, reason string) {
		result.Skipped = append(result.Skipped, SkippedFile{RelPath: relPath, Reason: reason})
	}

	scanned := 0
	var bytesScanned int64

	err = walkFiltered(absRoot, filter, skip, func(entry FileEntry) error {
		if ctx.Err() != nil {
			return ErrScanCancelled
		}
		content, err := s.cache.GetOrLoad(entry.RelPath, func() (string, error) {
			text, _, readErr := readFileText(entry.Path)
			return text, readErr
		})
		if errors.Is(err, filecache.ErrContentTooLarge) {
			skip(entry.RelPath, "content exceeds cache limit")
			result.Truncated = true
			return nil
		}
		if err != nil {
			skip(entry.RelPath, err.Error())
			return nil
		}

		if content == binaryPlaceholder {
			result.Truncated = true
		}
		result.Files = append(result.Files, entry)
		contents[entry.RelPath] = content
		scanned++
		bytesScanned += int64(len(content))
		if scanned%progressInterval == 0 {
			reporter.report(Progress{FilesScanned: scanned, FilesEstimate: estimate, BytesScanned: bytesScanned})
		}
		return nil
	})

	if errors.Is(err, ErrScanCancelled) || ctx.Err() != nil {
		if s.keepPartial {
			assembleResult(result, contents)
			return result, ErrScanCancelled
		}
		return nil, ErrScanCancelled
	}
	if err != nil {
		return nil, err
	}

	reporter.report(Progress{FilesScanned: scanned, FilesEstimate: estimate, BytesScanned: bytesScanned})
	assembleResult(result, contents)
	return result, nil
}

// CacheStats exposes the backing cache counters.
func (s *LazyScanner) CacheStats() filecache.Stats {
	return s.cache.Stats()
}

// Invalidate drops one file from the backing cache, forcing a fresh read on
// the next scan that includes it.
func (s *LazyScanner) Invalidate(relPath string) {
	s.cache.Invalidate(relPath)
}

// progressReporter decouples the scan loop from the progress consumer.
// Reports go through a buffered channel with a non-blocking send, so a slow
// callback drops updates rather than stalling the walk. close drains the
// channel and joins the consumer goroutine, guaranteeing every delivered
// callback finishes before the scan returns.
type progressReporter struct {
	ch   chan Progress
	done sync.WaitGroup
}

func newProgressReporter(fn ProgressFunc) *progressReporter {
	r := &progressReporter{}
	if fn == nil {
		return r
	}
	r.ch = make(chan Progress, 16)
	r.done.Add(1)
	go func() {
		defer r.done.Done()
		for p := range r.ch {
			fn(p)
		}
	}()
	return r
}

func (r *progressReporter) report(p Progress) {
	if r.ch == nil {
		return
	}
	select {
	case r.ch <- p:
	default:
	}
}

func (r *progressReporter) close() {
	if r.ch == nil {
		return
	}
	close(r.ch)
	r.done.Wait()
}

// estimateFileCount cheaply pre-counts files that would survive directory
// pruning, for progress reporting only. Capped so huge trees do not pay for
// an exhaustive pre-walk.
func estimateFileCount(root string, filter *PathFilter) int {
	const maxEstimate = 10000
	count := 0
	_ = walkFiltered(root, filter, func(string, string) {}, func(FileEntry) error {
		count++
		if count >= maxEstimate {
			return errEstimateDone
		}
		return nil
	})
	return count
}

var errEstimateDone = errors.New("estimate cap reached")
