// controllers/imports.go - publication import triggers relayed upstream
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type importRequest struct {
	UserIDs []int `json:"user_ids"`
}

// TriggerScholarImport starts a Google Scholar import run on the backend.
func TriggerScholarImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := callerClient(c).TriggerScholarImport(c.Request.Context(), req.UserIDs)
	if err != nil {
		respondDecisionError(c, "TriggerScholarImport", 0, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

// TriggerScopusImport starts a Scopus import run on the backend.
func TriggerScopusImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := callerClient(c).TriggerScopusImport(c.Request.Context(), req.UserIDs)
	if err != nil {
		respondDecisionError(c, "TriggerScopusImport", 0, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

// TriggerKKUPeopleScrape starts a staff directory scrape on the backend.
func TriggerKKUPeopleScrape(c *gin.Context) {
	result, err := callerClient(c).TriggerKKUPeopleScrape(c.Request.Context())
	if err != nil {
		respondDecisionError(c, "TriggerKKUPeopleScrape", 0, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

// GetImportRunStatus relays the status of one import run.
func GetImportRunStatus(c *gin.Context) {
	runID, err := strconv.Atoi(c.Param("runId"))
	if err != nil || runID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	result, err := callerClient(c).GetImportRunStatus(c.Request.Context(), c.Param("source"), runID)
	if err != nil {
		respondDecisionError(c, "GetImportRunStatus", runID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetImportRunLogs relays the log tail of one import run.
func GetImportRunLogs(c *gin.Context) {
	runID, err := strconv.Atoi(c.Param("runId"))
	if err != nil || runID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	result, err := callerClient(c).GetImportRunLogs(c.Request.Context(), c.Param("source"), runID)
	if err != nil {
		respondDecisionError(c, "GetImportRunLogs", runID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
