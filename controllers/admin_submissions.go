// controllers/admin_submissions.go - aggregated admin submission listing
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"fund-admin-gateway/backend"
	"fund-admin-gateway/models"
	"fund-admin-gateway/services"

	"github.com/gin-gonic/gin"
)

// GetAdminSubmissions returns the filtered, sorted, locally paginated view
// over the full-year aggregate. The whole year is drained from the backend
// once per snapshot; filters, sorting and pagination run in the gateway.
func GetAdminSubmissions(c *gin.Context) {
	yearID, _ := strconv.Atoi(c.Query("year_id"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sortBy := c.DefaultQuery("sort_by", "created_at")
	sortOrder := c.DefaultQuery("sort_order", "desc")
	refresh := refreshRequested(c)

	snapshot, err := loadSnapshot(c, yearID, refresh)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStaleGeneration):
			c.JSON(http.StatusConflict, gin.H{"error": "A newer refresh is in progress, please retry"})
		case errors.Is(err, services.ErrTooManyRows):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Too many submissions for one view, narrow the year filter"})
		default:
			log.Printf("[GetAdminSubmissions] aggregate year=%d error: %v", yearID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		}
		return
	}

	filters := parseFilters(c)
	filtered := services.FilterSubmissions(c.Request.Context(), snapshot.Rows, filters, statusLookup)
	services.SortSubmissions(filtered, sortBy, sortOrder)

	totalCount := len(filtered)
	totalPages := (totalCount + limit - 1) / limit
	start := (page - 1) * limit
	if start > totalCount {
		start = totalCount
	}
	end := start + limit
	if end > totalCount {
		end = totalCount
	}
	visible := filtered[start:end]

	enricher.Ensure(c.Request.Context(), visible)
	details := gin.H{}
	for _, row := range visible {
		if bundle, ok := enricher.Cache().Get(row.Key()); ok {
			details[strconv.Itoa(row.Key())] = bundle
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": visible,
		"details":     details,
		"pagination": gin.H{
			"current_page": page,
			"per_page":     limit,
			"total_count":  totalCount,
			"total_pages":  totalPages,
			"has_next":     page < totalPages,
			"has_prev":     page > 1,
		},
		"statistics": snapshot.Stats,
		"filters": gin.H{
			"year_id":        yearID,
			"category_id":    c.Query("category_id"),
			"subcategory_id": c.Query("subcategory_id"),
			"status_id":      c.Query("status_id"),
			"search":         c.Query("search"),
		},
		"sorting": gin.H{
			"sort_by":    sortBy,
			"sort_order": sortOrder,
		},
	})
}

// loadSnapshot serves the committed snapshot unless a refresh is requested or
// nothing has been committed yet. A fetch superseded mid-flight falls back to
// whichever snapshot the winning fetch committed.
func loadSnapshot(c *gin.Context, yearID int, refresh bool) (*services.AggregateResult, error) {
	if !refresh {
		if snapshot, ok := aggregator.Snapshot(yearID); ok {
			return snapshot, nil
		}
	}

	snapshot, err := aggregator.Refresh(c.Request.Context(), yearID)
	if err != nil {
		if errors.Is(err, services.ErrStaleGeneration) {
			if committed, ok := aggregator.Snapshot(yearID); ok {
				return committed, nil
			}
		}
		return nil, err
	}
	return snapshot, nil
}

// refreshRequested reports whether the request forces a fresh aggregate.
func refreshRequested(c *gin.Context) bool {
	refresh := c.Query("refresh")
	return refresh == "1" || refresh == "true"
}

func parseFilters(c *gin.Context) services.Filters {
	filters := services.Filters{Search: c.Query("search")}
	if v, err := strconv.Atoi(c.Query("category_id")); err == nil && v > 0 {
		filters.CategoryID = &v
	}
	if v, err := strconv.Atoi(c.Query("subcategory_id")); err == nil && v > 0 {
		filters.SubcategoryID = &v
	}
	if v, err := strconv.Atoi(c.Query("status_id")); err == nil && v > 0 {
		filters.StatusID = &v
	}
	return filters
}

// GetAdminSubmissionDetails returns the detail bundle for one submission,
// read through the enrichment cache.
func GetAdminSubmissionDetails(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	if bundle, ok := enricher.Cache().Get(sid); ok {
		respondDetails(c, sid, bundle)
		return
	}

	bundle, err := apiClient.GetSubmissionDetails(c.Request.Context(), sid)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
			return
		}
		log.Printf("[GetAdminSubmissionDetails] fetch submission %d error: %v", sid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submission details"})
		return
	}
	enricher.Cache().Put(sid, bundle)
	respondDetails(c, sid, bundle)
}

func respondDetails(c *gin.Context, sid int, bundle *models.SubmissionDetails) {
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"submission_id": sid,
		"details":       bundle,
	})
}
