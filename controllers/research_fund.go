// controllers/research_fund.go - research fund ledger feed and event append
package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"fund-admin-gateway/backend"
	"fund-admin-gateway/config"
	"fund-admin-gateway/models"
	"fund-admin-gateway/services"
	"fund-admin-gateway/utils"

	"github.com/gin-gonic/gin"
)

// GetResearchFundEvents returns the ledger feed with normalized totals.
func GetResearchFundEvents(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	payload, err := callerClient(c).ListResearchFundEvents(c.Request.Context(), sid)
	if err != nil {
		respondDecisionError(c, "GetResearchFundEvents", sid, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"submission_id": sid,
		"events":        payload.Events,
		"summary":       ledgerTotals(c, sid, payload),
	})
}

// CreateResearchFundEvent validates a ledger event against the current totals
// and relays it upstream as multipart. The backend's refreshed summary
// replaces any local projection in the response.
func CreateResearchFundEvent(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	comment := strings.TrimSpace(formValue(form.Value, "comment"))
	status := strings.TrimSpace(formValue(form.Value, "status"))
	if status == "" {
		status = services.EventStatusApproved
	}

	var amount float64
	if raw := strings.TrimSpace(formValue(form.Value, "amount")); raw != "" {
		parsed := utils.ParseNumber(raw)
		if parsed == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		amount = *parsed
	}

	attachments := form.File["files"]
	client := callerClient(c)

	payload, err := client.ListResearchFundEvents(c.Request.Context(), sid)
	if err != nil {
		respondDecisionError(c, "CreateResearchFundEvent", sid, err)
		return
	}
	totals := ledgerTotals(c, sid, payload)

	input := services.EventInput{
		Comment:         comment,
		Amount:          amount,
		Status:          status,
		AttachmentCount: len(attachments),
	}
	if err := services.ValidateEvent(input, totals, config.MaxEventAmount()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventForm := backend.EventForm{Comment: comment, Status: status, Files: nil}
	if amount > 0 || status == services.EventStatusApproved {
		eventForm.Amount = &amount
	}
	for _, header := range attachments {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read attachment " + header.Filename})
			return
		}
		defer file.Close()
		eventForm.Files = append(eventForm.Files, backend.MultipartFile{
			FieldName: "files",
			FileName:  header.Filename,
			Reader:    file,
		})
	}

	refreshed, err := client.CreateResearchFundEvent(c.Request.Context(), sid, eventForm)
	if err != nil {
		respondDecisionError(c, "CreateResearchFundEvent", sid, err)
		return
	}

	invalidateSubmission(sid)
	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"submission_id": sid,
		"events":        refreshed.Events,
		"summary":       ledgerTotals(c, sid, refreshed),
	})
}

// ledgerTotals normalizes the upstream summary, deriving totals from the
// event feed when the backend sends no summary block.
func ledgerTotals(c *gin.Context, sid int, payload *models.ResearchFundPayload) models.FundTotals {
	prior := models.FundTotals{ApprovedAmount: approvedAmountFor(c, sid)}

	var totals models.FundTotals
	if len(payload.Summary) == 0 {
		totals = services.TotalsFromEvents(payload.Events, prior.ApprovedAmount)
	} else {
		totals = services.NormalizeTotals(payload.Summary, &prior)
	}
	if !totals.IsClosed {
		totals.IsClosed = submissionClosed(c, sid)
	}
	return totals
}

// submissionClosed falls back to the submission's own application status when
// neither the summary nor the event feed marks the fund closed.
func submissionClosed(c *gin.Context, sid int) bool {
	bundle, ok := enricher.Cache().Get(sid)
	if !ok || bundle.Submission == nil || bundle.Submission.StatusID == 0 {
		return false
	}
	closed, err := statusLookup.IsClosed(c.Request.Context(), bundle.Submission.StatusID)
	if err != nil {
		return false
	}
	return closed
}

// approvedAmountFor resolves the approved amount for a submission from the
// enrichment cache, fetching the detail bundle on a miss. Zero when nothing
// resolves; the backend remains the authority on balance checks.
func approvedAmountFor(c *gin.Context, sid int) float64 {
	bundle, ok := enricher.Cache().Get(sid)
	if !ok {
		fetched, err := apiClient.GetSubmissionDetails(c.Request.Context(), sid)
		if err != nil {
			log.Printf("[ResearchFund] detail fetch for submission %d failed: %v", sid, err)
			return 0
		}
		enricher.Cache().Put(sid, fetched)
		bundle = fetched
	}

	if bundle.Submission != nil && bundle.Submission.ApprovedAmount != nil {
		return *bundle.Submission.ApprovedAmount
	}
	if amount := utils.NumberAt(bundle.DetailData(),
		"approved_amount", "admin_approved_amount", "approve_amount", "total_approve_amount"); amount != nil {
		return *amount
	}
	if amount := utils.NumberAt(bundle.Raw,
		"submission.approved_amount", "approved_amount"); amount != nil {
		return *amount
	}
	return 0
}

func formValue(values map[string][]string, key string) string {
	if list, ok := values[key]; ok && len(list) > 0 {
		return list[0]
	}
	return ""
}
