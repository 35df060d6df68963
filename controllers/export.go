// controllers/export.go - submission export downloads
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"fund-admin-gateway/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportSubmissions streams the filtered aggregate as a spreadsheet download.
// The export always walks the full filtered set, not the visible page, and
// enriches every row so detail-scoped columns resolve.
func ExportSubmissions(c *gin.Context) {
	yearID, _ := strconv.Atoi(c.Query("year_id"))
	format := c.DefaultQuery("format", "xlsx")
	if format != "xlsx" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or csv"})
		return
	}

	snapshot, err := loadSnapshot(c, yearID, refreshRequested(c))
	if err != nil {
		log.Printf("[ExportSubmissions] aggregate year=%d error: %v", yearID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	filtered := services.FilterSubmissions(c.Request.Context(), snapshot.Rows, parseFilters(c), statusLookup)
	services.SortSubmissions(filtered, c.DefaultQuery("sort_by", "created_at"), c.DefaultQuery("sort_order", "desc"))

	rows, err := exporter.BuildRows(c.Request.Context(), filtered)
	if err != nil {
		if errors.Is(err, services.ErrNothingToExport) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No submissions match the export filters"})
			return
		}
		log.Printf("[ExportSubmissions] build rows error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	label := yearLabel(c, yearID)
	switch format {
	case "csv":
		data, err := exporter.WriteCSV(rows)
		if err != nil {
			log.Printf("[ExportSubmissions] write csv error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export file"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+services.ExportFilename(label, "csv"))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	default:
		buffer, err := exporter.WriteXLSXBuffer(exportTitle(label), rows)
		if err != nil {
			log.Printf("[ExportSubmissions] write xlsx error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export file"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+services.ExportFilename(label, "xlsx"))
		c.Data(http.StatusOK, xlsxContentType, buffer.Bytes())
	}
}

func exportTitle(yearLabel string) string {
	if yearLabel == "all" {
		return "รายงานคำร้องทุนวิจัย (ทุกปีงบประมาณ)"
	}
	return "รายงานคำร้องทุนวิจัย ปีงบประมาณ " + yearLabel
}

// yearLabel resolves a fiscal year id to its display label, falling back to
// the numeric id and then "all".
func yearLabel(c *gin.Context, yearID int) string {
	if yearID <= 0 {
		return "all"
	}
	years, err := apiClient.GetYears(c.Request.Context())
	if err != nil {
		log.Printf("[ExportSubmissions] load years error: %v", err)
		return strconv.Itoa(yearID)
	}
	for _, year := range years {
		if year.YearID == yearID && year.Year != "" {
			return year.Year
		}
	}
	return strconv.Itoa(yearID)
}
