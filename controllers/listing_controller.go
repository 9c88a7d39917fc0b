package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/videgrenier/marketplace_backend/database"
	"github.com/videgrenier/marketplace_backend/models"
)

type CreateListingInput struct {
	Title       string `json:"title" binding:"required" example:"Vélo de course vintage"`
	Description string `json:"description" binding:"required"`
	PriceCents  int64  `json:"price_cents" binding:"required,min=0" example:"12000"`
	Category    string `json:"category" binding:"required" example:"sports"`
	Location    string `json:"location"`
}

type UpdateListingInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  *int64 `json:"price_cents"`
	Category    string `json:"category"`
	Location    string `json:"location"`
}

// GetListings godoc
// @Summary Search active listings
// @Description Returns active listings, optionally filtered by category, text query and price bounds
// @Tags listings
// @Accept json
// @Produce json
// @Param category query string false "Category"
// @Param q query string false "Text search on title"
// @Param min_price query int false "Minimum price in cents"
// @Param max_price query int false "Maximum price in cents"
// @Success 200 {object} map[string]interface{} "List of listings"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/listings [get]
func GetListings(c *gin.Context) {
	query := database.DB.Where("status = ?", models.ListingStatusActive)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("title ILIKE ?", "%"+q+"%")
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseInt(minPrice, 10, 64); err == nil {
			query = query.Where("price_cents >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseInt(maxPrice, 10, 64); err == nil {
			query = query.Where("price_cents <= ?", v)
		}
	}

	var listings []models.Listing
	if err := query.Order("created_at DESC").Preload("User").Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// GetListing godoc
// @Summary Get a single listing
// @Description Returns one listing by ID
// @Tags listings
// @Accept json
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} map[string]interface{} "Listing details"
// @Failure 400 {object} map[string]string "Invalid listing ID"
// @Failure 404 {object} map[string]string "Listing not found"
// @Router /api/listings/{id} [get]
func GetListing(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	var listing models.Listing
	if err := database.DB.Preload("User").First(&listing, listingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// CreateListing godoc
// @Summary Create a new listing
// @Description Creates a classified ad owned by the authenticated user
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param listing body CreateListingInput true "Listing Creation"
// @Success 201 {object} map[string]interface{} "Listing created successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/listings [post]
func CreateListing(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input CreateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing := models.Listing{
		Title:       input.Title,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Category:    input.Category,
		Location:    input.Location,
		Status:      models.ListingStatusActive,
		UserID:      userID,
	}

	if err := database.DB.Create(&listing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Listing created successfully",
		"listing": listing,
	})
}

// UpdateListing godoc
// @Summary Update a listing
// @Description Updates a listing owned by the authenticated user
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param listing body UpdateListingInput true "Listing Update"
// @Success 200 {object} map[string]interface{} "Listing updated successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Listing not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/listings/{id} [put]
func UpdateListing(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	var listing models.Listing
	if err := database.DB.First(&listing, listingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if listing.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the listing owner can update it"})
		return
	}

	var input UpdateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.PriceCents != nil {
		updates["price_cents"] = *input.PriceCents
	}
	if input.Category != "" {
		updates["category"] = input.Category
	}
	if input.Location != "" {
		updates["location"] = input.Location
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&listing).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing updated successfully", "listing": listing})
}

// DeleteListing godoc
// @Summary Remove a listing
// @Description Marks a listing owned by the authenticated user as removed
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} map[string]string "Listing removed successfully"
// @Failure 400 {object} map[string]string "Invalid listing ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Listing not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/listings/{id} [delete]
func DeleteListing(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	var listing models.Listing
	if err := database.DB.First(&listing, listingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if listing.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the listing owner can remove it"})
		return
	}

	// Soft delete: message threads referencing the listing stay readable
	if err := database.DB.Model(&listing).Update("status", models.ListingStatusRemoved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing removed successfully"})
}
