package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/videgrenier/marketplace_backend/database"
	"github.com/videgrenier/marketplace_backend/models"
	"github.com/videgrenier/marketplace_backend/utils"
)

type CreateMessageInput struct {
	ListingID  uint   `json:"listing_id" binding:"required" example:"42"`
	ReceiverID uint   `json:"receiver_id" binding:"required" example:"7"`
	Content    string `json:"content" binding:"required" example:"Bonjour, est-ce toujours disponible ?"`
}

// GetMessages godoc
// @Summary Get the message thread for a listing conversation
// @Description Returns the messages exchanged with another user about a listing, oldest first
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param listing_id query int true "Listing ID"
// @Param peer_id query int true "Other participant's user ID"
// @Success 200 {object} map[string]interface{} "List of messages"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/messages [get]
func GetMessages(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	listingID, err := strconv.ParseUint(c.Query("listing_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}
	peerID, err := strconv.ParseUint(c.Query("peer_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid peer ID"})
		return
	}

	var messages []models.Message
	if err := database.DB.
		Where("listing_id = ?", listingID).
		Where("(sender_id = ? AND receiver_id = ? AND deleted_by_sender = false) OR (sender_id = ? AND receiver_id = ? AND deleted_by_receiver = false)",
			userID, peerID, peerID, userID).
		Order("created_at ASC").
		Preload("Sender").
		Preload("Receiver").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	// Decrypt content for display
	for i := range messages {
		plaintext, err := utils.DecryptMessage(messages[i].Content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decrypt message"})
			return
		}
		messages[i].Content = plaintext
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// CreateMessage godoc
// @Summary Send a message about a listing
// @Description Persists a message in a listing conversation. Live delivery to the other party happens over the websocket relay, which the sender's client notifies after this call succeeds.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body CreateMessageInput true "Message Creation"
// @Success 201 {object} map[string]interface{} "Message sent successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Listing not found"
// @Failure 429 {object} map[string]string "Too many messages"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/messages [post]
func CreateMessage(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ReceiverID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}

	var listing models.Listing
	if err := database.DB.First(&listing, input.ListingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	// One side of the conversation must be the listing owner
	if listing.UserID != userID && listing.UserID != input.ReceiverID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Conversation must involve the listing owner"})
		return
	}

	encrypted, err := utils.EncryptMessage(input.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encrypt message"})
		return
	}

	message := models.Message{
		Content:    encrypted,
		ListingID:  input.ListingID,
		SenderID:   userID,
		ReceiverID: input.ReceiverID,
	}

	if err := database.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	database.DB.Preload("Sender").Preload("Receiver").First(&message, message.ID)

	// Return the plaintext copy; the sender's client applies it
	// optimistically and emits the relay event itself.
	message.Content = input.Content

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    message,
	})
}
