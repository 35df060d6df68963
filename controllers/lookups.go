// controllers/lookups.go - lookup relays for the admin UI
package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetYears relays the fiscal year lookup.
func GetYears(c *gin.Context) {
	years, err := apiClient.GetYears(c.Request.Context())
	if err != nil {
		log.Printf("[GetYears] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch years"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "years": years})
}

// GetCategories relays the fund category lookup.
func GetCategories(c *gin.Context) {
	categories, err := apiClient.GetCategories(c.Request.Context())
	if err != nil {
		log.Printf("[GetCategories] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

// GetSubcategories relays the fund subcategory lookup.
func GetSubcategories(c *gin.Context) {
	subcategories, err := apiClient.GetSubcategories(c.Request.Context())
	if err != nil {
		log.Printf("[GetSubcategories] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subcategories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subcategories": subcategories})
}

// GetStatuses relays the application status lookup through the session cache.
func GetStatuses(c *gin.Context) {
	statuses, err := apiClient.GetStatuses(c.Request.Context())
	if err != nil {
		log.Printf("[GetStatuses] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statuses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "statuses": statuses})
}
