// services/enricher.go - lazy per-row detail enrichment for visible rows
package services

import (
	"context"
	"log"
	"sync"

	"fund-admin-gateway/models"
)

// DetailFetcher is the slice of the backend client the enricher needs.
type DetailFetcher interface {
	GetSubmissionDetails(ctx context.Context, submissionID int) (*models.SubmissionDetails, error)
}

// DetailCache holds fetched detail bundles keyed by submission id. It is
// session-scoped: populated on first use, never invalidated. Merges are
// idempotent by key, so late results from concurrent fetches are harmless.
type DetailCache struct {
	mu   sync.RWMutex
	byID map[int]*models.SubmissionDetails
}

// NewDetailCache constructs an empty cache.
func NewDetailCache() *DetailCache {
	return &DetailCache{byID: make(map[int]*models.SubmissionDetails)}
}

// Get returns the cached bundle for a submission, if present.
func (c *DetailCache) Get(submissionID int) (*models.SubmissionDetails, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	detail, ok := c.byID[submissionID]
	return detail, ok
}

// Put merges one bundle into the cache.
func (c *DetailCache) Put(submissionID int, detail *models.SubmissionDetails) {
	if detail == nil || submissionID == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[submissionID] = detail
}

// Delete drops one bundle, forcing a refetch on next use.
func (c *DetailCache) Delete(submissionID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byID, submissionID)
}

// Len returns the number of cached bundles.
func (c *DetailCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// detailFetchConcurrency caps simultaneous detail requests against the
// backend. Export runs can ask for thousands of rows at once.
const detailFetchConcurrency = 8

// Enricher fetches detail bundles for the rows currently on screen, skipping
// anything already cached. Individual failures leave the row unenriched
// without blocking the rest.
type Enricher struct {
	fetcher DetailFetcher
	cache   *DetailCache
}

// NewEnricher constructs an Enricher over the given fetcher and cache.
// A nil cache gets a fresh one.
func NewEnricher(fetcher DetailFetcher, cache *DetailCache) *Enricher {
	if cache == nil {
		cache = NewDetailCache()
	}
	return &Enricher{fetcher: fetcher, cache: cache}
}

// Cache exposes the underlying cache for read-through display and export.
func (e *Enricher) Cache() *DetailCache {
	return e.cache
}

// Ensure fetches details for every row missing from the cache, concurrently.
// It returns the number of rows fetched successfully; failures are logged and
// tolerated.
func (e *Enricher) Ensure(ctx context.Context, rows []models.Submission) int {
	missing := make([]int, 0, len(rows))
	seen := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		id := row.Key()
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := e.cache.Get(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return 0
	}

	workers := detailFetchConcurrency
	if len(missing) < workers {
		workers = len(missing)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var fetched int64
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for submissionID := range jobs {
				detail, err := e.fetcher.GetSubmissionDetails(ctx, submissionID)
				if err != nil {
					log.Printf("[Enricher] detail fetch for submission %d failed: %v", submissionID, err)
					continue
				}
				e.cache.Put(submissionID, detail)
				mu.Lock()
				fetched++
				mu.Unlock()
			}
		}()
	}
	for _, id := range missing {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	return int(fetched)
}
