package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/videgrenier/marketplace_backend/database"
	"github.com/videgrenier/marketplace_backend/models"
)

type CreateReportInput struct {
	ListingID uint   `json:"listing_id" binding:"required" example:"42"`
	Reason    string `json:"reason" binding:"required" example:"Counterfeit goods"`
}

// isAdmin checks the admin flag of a user
func isAdmin(userID uint) bool {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return false
	}
	return user.IsAdmin
}

// ReportListing godoc
// @Summary Report a listing
// @Description Files a moderation report against a listing
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report body CreateReportInput true "Report Creation"
// @Success 201 {object} map[string]interface{} "Report filed"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Listing not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/reports [post]
func ReportListing(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input CreateReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var listing models.Listing
	if err := database.DB.First(&listing, input.ListingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	report := models.Report{
		ListingID:  input.ListingID,
		ReporterID: userID,
		Reason:     input.Reason,
		Status:     models.ReportStatusOpen,
	}

	if err := database.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Report filed", "report": report})
}

// GetReports godoc
// @Summary List open moderation reports
// @Description Returns open reports for review (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of reports"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/admin/reports [get]
func GetReports(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	if !isAdmin(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var reports []models.Report
	if err := database.DB.
		Where("status = ?", models.ReportStatusOpen).
		Order("created_at ASC").
		Preload("Listing").
		Preload("Reporter").
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ResolveReport godoc
// @Summary Resolve a moderation report
// @Description Marks a report resolved, optionally removing the reported listing (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Param remove_listing query bool false "Also remove the reported listing"
// @Success 200 {object} map[string]interface{} "Report resolved"
// @Failure 400 {object} map[string]string "Invalid report ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/admin/reports/{id}/resolve [post]
func ResolveReport(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	if !isAdmin(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	reportID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var report models.Report
	if err := database.DB.First(&report, reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if err := database.DB.Model(&report).Update("status", models.ReportStatusResolved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve report"})
		return
	}

	if c.Query("remove_listing") == "true" {
		database.DB.Model(&models.Listing{}).
			Where("id = ?", report.ListingID).
			Update("status", models.ListingStatusRemoved)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report resolved", "report": report})
}
