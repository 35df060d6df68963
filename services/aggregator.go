// services/aggregator.go - full-year submission aggregation over the paged
// listing endpoint
package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"fund-admin-gateway/backend"
	"fund-admin-gateway/models"
	"fund-admin-gateway/utils"
)

var (
	// ErrTooManyRows aborts aggregation when the backend keeps paging past
	// the safety cap.
	ErrTooManyRows = errors.New("aggregated row count exceeded safety cap")
	// ErrStaleGeneration marks a fetch that was superseded before it could
	// commit; its rows are discarded, never merged into the snapshot.
	ErrStaleGeneration = errors.New("aggregation superseded by a newer request")
)

// SubmissionLister is the slice of the backend client the aggregator needs.
type SubmissionLister interface {
	ListSubmissions(ctx context.Context, opt backend.ListOptions) (*backend.ListPage, error)
}

// Generation identifies one aggregation request for a year. Only the most
// recently begun generation for that year may commit its result.
type Generation uint64

// Statistics summarises a deduplicated row set.
type Statistics struct {
	Total         int         `json:"total_submissions"`
	ByStatus      map[int]int `json:"by_status"`
	PendingCount  int         `json:"pending_count"`
	ApprovedCount int         `json:"approved_count"`
	RejectedCount int         `json:"rejected_count"`
	RevisionCount int         `json:"revision_count"`
}

// AggregateResult is the committed outcome of one full fetch.
type AggregateResult struct {
	Generation Generation          `json:"-"`
	YearID     int                 `json:"year_id"`
	Rows       []models.Submission `json:"rows"`
	Stats      Statistics          `json:"statistics"`
}

// Aggregator drains the listing endpoint for a fiscal year into memory,
// deduplicates, computes statistics, and keeps the latest committed snapshot
// per year. Superseded fetches never overwrite a newer snapshot.
type Aggregator struct {
	lister   SubmissionLister
	statuses *utils.StatusLookup
	pageSize int
	maxRows  int

	mu        sync.Mutex
	gens      map[int]uint64
	snapshots map[int]*AggregateResult
}

// NewAggregator constructs an Aggregator. Non-positive sizes fall back to the
// defaults (page size 1000, cap 10000).
func NewAggregator(lister SubmissionLister, statuses *utils.StatusLookup, pageSize, maxRows int) *Aggregator {
	if pageSize <= 0 {
		pageSize = 1000
	}
	if maxRows <= 0 {
		maxRows = 10000
	}
	return &Aggregator{
		lister:    lister,
		statuses:  statuses,
		pageSize:  pageSize,
		maxRows:   maxRows,
		gens:      make(map[int]uint64),
		snapshots: make(map[int]*AggregateResult),
	}
}

// Begin claims a new generation for the year, invalidating in-flight fetches
// for the same year.
func (a *Aggregator) Begin(yearID int) Generation {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gens[yearID]++
	return Generation(a.gens[yearID])
}

// Current reports whether the generation is still the newest for its year.
func (a *Aggregator) Current(yearID int, g Generation) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gens[yearID] == uint64(g)
}

// Snapshot returns the latest committed result for the year, if any.
func (a *Aggregator) Snapshot(yearID int) (*AggregateResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	snapshot, ok := a.snapshots[yearID]
	return snapshot, ok
}

// Invalidate drops every committed snapshot and supersedes in-flight fetches,
// forcing fresh aggregation on the next request. Called after writes that
// change submission state.
func (a *Aggregator) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for yearID := range a.snapshots {
		delete(a.snapshots, yearID)
	}
	for yearID := range a.gens {
		a.gens[yearID]++
	}
}

// FetchAll pages through the listing endpoint until the backend signals no
// further pages, deduplicates by submission id, computes statistics, and
// commits the snapshot. yearID 0 means all years. Any page failure aborts the
// whole fetch; a fetch superseded by a newer Begin for the same year returns
// ErrStaleGeneration and commits nothing.
func (a *Aggregator) FetchAll(ctx context.Context, yearID int, g Generation) (*AggregateResult, error) {
	var accumulated []models.Submission

	page := 1
	for {
		if !a.Current(yearID, g) {
			return nil, ErrStaleGeneration
		}

		resp, err := a.lister.ListSubmissions(ctx, backend.ListOptions{
			YearID:    yearID,
			Page:      page,
			Limit:     a.pageSize,
			SortBy:    "created_at",
			SortOrder: "desc",
		})
		if err != nil {
			return nil, err
		}

		if page == 1 {
			if total, ok := resp.Pagination.Total(); ok && total > int64(a.maxRows) {
				log.Printf("[Aggregator] year=%d advertised total %d exceeds cap %d, aborting", yearID, total, a.maxRows)
				return nil, ErrTooManyRows
			}
		}

		accumulated = append(accumulated, resp.Rows...)
		if len(accumulated) > a.maxRows {
			log.Printf("[Aggregator] year=%d rows=%d exceeds cap %d, aborting", yearID, len(accumulated), a.maxRows)
			return nil, ErrTooManyRows
		}

		if len(resp.Rows) == 0 || !resp.Pagination.More(page, len(resp.Rows), a.pageSize) {
			break
		}
		page++
	}

	rows := DedupeSubmissions(accumulated)
	result := &AggregateResult{
		Generation: g,
		YearID:     yearID,
		Rows:       rows,
		Stats:      a.statistics(ctx, rows),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gens[yearID] != uint64(g) {
		return nil, ErrStaleGeneration
	}
	a.snapshots[yearID] = result
	return result, nil
}

// Refresh begins a new generation and fetches it in one step.
func (a *Aggregator) Refresh(ctx context.Context, yearID int) (*AggregateResult, error) {
	return a.FetchAll(ctx, yearID, a.Begin(yearID))
}

// DedupeSubmissions drops repeated submission ids, keeping first occurrences.
func DedupeSubmissions(rows []models.Submission) []models.Submission {
	seen := make(map[int]struct{}, len(rows))
	out := make([]models.Submission, 0, len(rows))
	for _, row := range rows {
		key := row.Key()
		if key != 0 {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, row)
	}
	return out
}

func (a *Aggregator) statistics(ctx context.Context, rows []models.Submission) Statistics {
	stats := Statistics{
		Total:    len(rows),
		ByStatus: make(map[int]int),
	}
	for _, row := range rows {
		stats.ByStatus[row.StatusID]++
	}

	if a.statuses == nil {
		return stats
	}

	countFor := func(code string) int {
		id, err := a.statuses.IDByCode(ctx, code)
		if err != nil {
			return 0
		}
		return stats.ByStatus[id]
	}
	stats.PendingCount = countFor(utils.StatusCodePending)
	stats.ApprovedCount = countFor(utils.StatusCodeApproved)
	stats.RejectedCount = countFor(utils.StatusCodeRejected)
	stats.RevisionCount = countFor(utils.StatusCodeNeedsMoreInfo)
	return stats
}
