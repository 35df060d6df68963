// controllers/admin_decisions.go - admin approval decisions relayed upstream
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"fund-admin-gateway/backend"

	"github.com/gin-gonic/gin"
)

// ApproveSubmission relays an approval decision with the caller's token.
func ApproveSubmission(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req backend.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := callerClient(c).ApproveSubmission(c.Request.Context(), sid, req); err != nil {
		respondDecisionError(c, "ApproveSubmission", sid, err)
		return
	}

	invalidateSubmission(sid)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Submission approved successfully",
		"submission_id": sid,
	})
}

// RejectSubmission relays a rejection; the reason is mandatory.
func RejectSubmission(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req struct {
		RejectionReason string `json:"rejection_reason"`
		Comment         string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.RejectionReason) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rejection reason is required"})
		return
	}

	if err := callerClient(c).RejectSubmission(c.Request.Context(), sid, req.RejectionReason, req.Comment); err != nil {
		respondDecisionError(c, "RejectSubmission", sid, err)
		return
	}

	invalidateSubmission(sid)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Submission rejected",
		"submission_id": sid,
	})
}

// RequestSubmissionRevision sends the submission back for more information.
func RequestSubmissionRevision(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Comment) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Revision comment is required"})
		return
	}

	if err := callerClient(c).RequestRevision(c.Request.Context(), sid, req.Comment); err != nil {
		respondDecisionError(c, "RequestSubmissionRevision", sid, err)
		return
	}

	invalidateSubmission(sid)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Revision requested",
		"submission_id": sid,
	})
}

// respondDecisionError maps upstream failures onto the gateway's responses.
// Backend rejections pass through with their original message and status.
func respondDecisionError(c *gin.Context, handler string, sid int, err error) {
	if errors.Is(err, backend.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
		return
	}
	log.Printf("[%s] submission %d error: %v", handler, sid, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reach the fund management backend"})
}
