package scanner

import "sort"

// DirectoryStats summarizes a tree without assembling any content.
type DirectoryStats struct {
	TotalFiles   int
	TotalBytes   int64
	ByExtension  map[string]int
	LargestFiles []FileEntry // up to ten, largest first
}

// CollectStats walks root with the usual filter semantics and gathers
// summary statistics. Content is never read.
func CollectStats(root string, rules FilterRules) (*DirectoryStats, error) {
	absRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}

	filter := NewPathFilter(rules)
	stats := &DirectoryStats{ByExtension: make(map[string]int)}

	err = walkFiltered(absRoot, filter, func(string, string) {}, func(entry FileEntry) error {
		stats.TotalFiles++
		stats.TotalBytes += entry.SizeBytes
		ext := entry.Ext
		if ext == "" {
			ext = "(none)"
		}
		stats.ByExtension[ext]++
		stats.LargestFiles = append(stats.LargestFiles, entry)
		sort.Slice(stats.LargestFiles, func(i, j int) bool {
			return stats.LargestFiles[i].SizeBytes > stats.LargestFiles[j].SizeBytes
		})
		if len(stats.LargestFiles) > 10 {
			stats.LargestFiles = stats.LargestFiles[:10]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
