// Package registry answers "is this pharmacist license number known to a
// chamber export?". Exports are plain-text files, one license number per
// line, shipped alongside the deployment and loaded at startup.
package registry

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// falsePositiveRate sizes the bloom filter. Misses short-circuit without
// touching the exact sets; a false positive just costs one map lookup.
const falsePositiveRate = 0.001

// Registry holds the loaded license sets.
type Registry struct {
	mu     sync.RWMutex
	sets   []*licenseSet
	filter *bloom.BloomFilter
	total  int
}

// licenseSet is one chamber export.
type licenseSet struct {
	path     string
	licenses map[string]bool
}

// fileLoadResult holds the outcome of loading a single export.
type fileLoadResult struct {
	index    int
	path     string
	licenses map[string]bool
	err      error
}

// New creates an empty registry. It answers false for everything until
// LoadFromFiles has run.
func New() *Registry {
	return &Registry{}
}

// LoadFromFiles loads license exports concurrently, one goroutine per file.
// Any file failing to load fails the whole call; a partially loaded registry
// would silently reject valid pharmacists.
func (r *Registry) LoadFromFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no license files provided")
	}

	resultChan := make(chan fileLoadResult, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(index int, filePath string) {
			defer wg.Done()

			licenses, err := loadFile(ctx, filePath)
			resultChan <- fileLoadResult{
				index:    index,
				path:     filePath,
				licenses: licenses,
				err:      err,
			}
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]fileLoadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			return fmt.Errorf("failed to load license file %d: %w", i+1, result.err)
		}
	}

	total := 0
	for _, result := range results {
		total += len(result.licenses)
	}

	capacity := total
	if capacity == 0 {
		capacity = 1 // bloom.NewWithEstimates needs a non-zero capacity
	}

	filter := bloom.NewWithEstimates(uint(capacity), falsePositiveRate)
	sets := make([]*licenseSet, len(results))
	for i, result := range results {
		sets[i] = &licenseSet{path: result.path, licenses: result.licenses}
		for license := range result.licenses {
			filter.AddString(license)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = sets
	r.filter = filter
	r.total = total
	return nil
}

// IsRegistered reports whether the license number appears in any loaded
// export. Numbers are matched case-insensitively after trimming.
func (r *Registry) IsRegistered(ctx context.Context, licenseNumber string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(licenseNumber))
	if normalized == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.filter == nil || !r.filter.TestString(normalized) {
		return false
	}

	for _, set := range r.sets {
		if set.licenses[normalized] {
			return true
		}
	}
	return false
}

// Stats returns load statistics for the monitoring endpoint.
func (r *Registry) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := map[string]interface{}{
		"total_files":    len(r.sets),
		"total_licenses": r.total,
	}
	for i, set := range r.sets {
		key := fmt.Sprintf("file_%d_licenses", i+1)
		stats[key] = len(set.licenses)
	}
	return stats
}

// loadFile reads one export, normalizing each line.
func loadFile(ctx context.Context, path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	licenses := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		licenses[line] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return licenses, nil
}
