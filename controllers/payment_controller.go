package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/videgrenier/marketplace_backend/database"
	"github.com/videgrenier/marketplace_backend/models"
)

type CreatePaymentInput struct {
	ListingID uint `json:"listing_id" binding:"required" example:"42"`
}

// CreatePayment godoc
// @Summary Pay for a listing
// @Description Records a payment for an active listing and marks the listing sold
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body CreatePaymentInput true "Payment Creation"
// @Success 201 {object} map[string]interface{} "Payment recorded"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Listing not found"
// @Failure 409 {object} map[string]string "Listing not available"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/payments [post]
func CreatePayment(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var listing models.Listing
	if err := database.DB.First(&listing, input.ListingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if listing.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot buy your own listing"})
		return
	}
	if listing.Status != models.ListingStatusActive {
		c.JSON(http.StatusConflict, gin.H{"error": "Listing is no longer available"})
		return
	}

	payment := models.Payment{
		Reference:   uuid.NewString(),
		ListingID:   listing.ID,
		BuyerID:     userID,
		AmountCents: listing.PriceCents,
		Status:      models.PaymentStatusPaid,
	}

	if err := database.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	if err := database.DB.Model(&listing).Update("status", models.ListingStatusSold).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark listing sold"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment recorded",
		"payment": payment,
	})
}

// GetPayments godoc
// @Summary List the authenticated user's payments
// @Description Returns payments where the user is the buyer or the seller
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of payments"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/payments [get]
func GetPayments(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var payments []models.Payment
	if err := database.DB.
		Joins("JOIN listings ON listings.id = payments.listing_id").
		Where("payments.buyer_id = ? OR listings.user_id = ?", userID, userID).
		Order("payments.created_at DESC").
		Preload("Listing").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// RefundPayment godoc
// @Summary Refund a payment
// @Description Marks a payment refunded and reactivates the listing (admin only)
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]interface{} "Payment refunded"
// @Failure 400 {object} map[string]string "Invalid payment ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/admin/payments/{id}/refund [post]
func RefundPayment(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	if !isAdmin(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var payment models.Payment
	if err := database.DB.First(&payment, paymentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	if err := database.DB.Model(&payment).Update("status", models.PaymentStatusRefunded).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refund payment"})
		return
	}

	database.DB.Model(&models.Listing{}).
		Where("id = ? AND status = ?", payment.ListingID, models.ListingStatusSold).
		Update("status", models.ListingStatusActive)

	c.JSON(http.StatusOK, gin.H{"message": "Payment refunded", "payment": payment})
}
