package scanner

import (
	"sort"
	"strings"
)

// EagerScanner walks a directory tree synchronously and reads every
// qualifying file fully into memory. There is no caching layer: every scan
// reads fresh. Suited to small projects where a single pass is cheap.
type EagerScanner struct{}

// NewEagerScanner creates an eager scanner.
func NewEagerScanner() *EagerScanner {
	return &EagerScanner{}
}

// Scan walks root, filters entries, reads surviving files and assembles the
// combined context. One unreadable file does not abort the scan; it is
// recorded in Skipped instead.
func (s *EagerScanner) Scan(root string, rules FilterRules) (*ScanResult, error) {
	absRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}

	filter := NewPathFilter(rules)
	result := &ScanResult{}
	contents := make(map[string]string)

	skip := func(relPath, reason string) {
		result.Skipped = append(result.Skipped, SkippedFile{RelPath: relPath, Reason: reason})
	}

	err = walkFiltered(absRoot, filter, skip, func(entry FileEntry) error {
		content, replaced, readErr := readFileText(entry.Path)
		if readErr != nil {
			skip(entry.RelPath, readErr.Error())
			return nil
		}
		if replaced {
			result.Truncated = true
		}
		result.Files = append(result.Files, entry)
		contents[entry.RelPath] = content
		return nil
	})
	if err != nil {
		return nil, err
	}

	assembleResult(result, contents)
	return result, nil
}

// assembleResult sorts the manifest and concatenates the combined context in
// manifest order.
func assembleResult(result *ScanResult, contents map[string]string) {
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].RelPath < result.Files[j].RelPath
	})

	var sb strings.Builder
	for _, entry := range result.Files {
		content := contents[entry.RelPath]
		sb.WriteString(contextHeader(entry.RelPath))
		sb.WriteString(content)
		result.TotalBytes += int64(len(content))
	}
	result.CombinedContext = sb.String()
}
