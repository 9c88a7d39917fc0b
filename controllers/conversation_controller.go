package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/videgrenier/marketplace_backend/database"
	"github.com/videgrenier/marketplace_backend/models"
	"github.com/videgrenier/marketplace_backend/utils"
)

// conversationKey identifies a thread: one listing, one counterpart.
type conversationKey struct {
	ListingID uint
	PeerID    uint
}

// GetConversations godoc
// @Summary List the authenticated user's conversations
// @Description Returns one entry per (listing, counterpart) pair with the latest message of each thread
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of conversations"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/conversations [get]
func GetConversations(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var messages []models.Message
	if err := database.DB.
		Where("(sender_id = ? AND deleted_by_sender = false) OR (receiver_id = ? AND deleted_by_receiver = false)", userID, userID).
		Order("created_at DESC").
		Preload("Listing").
		Preload("Sender").
		Preload("Receiver").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	// Messages are newest-first, so the first hit per thread is its latest
	seen := make(map[conversationKey]bool)
	response := []gin.H{}
	for _, msg := range messages {
		peerID := msg.SenderID
		if peerID == userID {
			peerID = msg.ReceiverID
		}

		key := conversationKey{ListingID: msg.ListingID, PeerID: peerID}
		if seen[key] {
			continue
		}
		seen[key] = true

		plaintext, err := utils.DecryptMessage(msg.Content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decrypt message"})
			return
		}
		msg.Content = plaintext

		peer := msg.Sender
		if msg.SenderID == userID {
			peer = msg.Receiver
		}

		response = append(response, gin.H{
			"listing":     msg.Listing,
			"peer":        gin.H{"id": peer.ID, "username": peer.Username},
			"lastMessage": msg,
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": response})
}

// DeleteConversation godoc
// @Summary Hide a conversation for the authenticated user
// @Description Soft-deletes the user's side of a thread; the other participant keeps their copy
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param listing_id query int true "Listing ID"
// @Param peer_id query int true "Other participant's user ID"
// @Success 200 {object} map[string]string "Conversation hidden"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/conversations [delete]
func DeleteConversation(c *gin.Context) {
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

	if err := database.DB.Model(&models.Message{}).
		Where("listing_id = ? AND sender_id = ? AND receiver_id = ?", listingID, userID, peerID).
		Update("deleted_by_sender", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide conversation"})
		return
	}

	if err := database.DB.Model(&models.Message{}).
		Where("listing_id = ? AND sender_id = ? AND receiver_id = ?", listingID, peerID, userID).
		Update("deleted_by_receiver", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation hidden"})
}
