package message

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	GetHistory(c *gin.Context)
	MarkRead(c *gin.Context)
	Unsend(c *gin.Context)
}

type messageHandler struct {
	service Service
	cfg     *config.Configuration
}

func NewMessageHandler(service Service, cfg *config.Configuration) Handler {
	return &messageHandler{
		service: service,
		cfg:     cfg,
	}
}

// GetHistory returns a page of the caller's conversation with :peerId.
func (h *messageHandler) GetHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.cfg.App.Timeout)*time.Second)
	defer cancel()

	userID := c.GetString("userId")
	peerID := c.Param("peerId")
	limit := parseIntParam(c, "limit", 0)
	offset := parseIntParam(c, "offset", 0)

	views, err := h.service.History(ctx, userID, peerID, limit, offset)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"peer_id": peerID,
		}).Error("Failed to load conversation history")
		h.sendErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": views,
		"count":    len(views),
	})
}

// MarkRead flags every unread message from :peerId to the caller as read.
func (h *messageHandler) MarkRead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.cfg.App.Timeout)*time.Second)
	defer cancel()

	userID := c.GetString("userId")
	peerID := c.Param("peerId")

	updated, err := h.service.MarkRead(ctx, userID, peerID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"peer_id": peerID,
		}).Error("Failed to mark conversation read")
		h.sendErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Unsend soft-removes one of the caller's own messages.
func (h *messageHandler) Unsend(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.cfg.App.Timeout)*time.Second)
	defer cancel()

	userID := c.GetString("userId")
	messageID := c.Param("id")

	msg, err := h.service.Unsend(ctx, userID, messageID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"message_id": messageID,
		}).Warn("Failed to unsend message")
		h.sendErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *messageHandler) sendErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
	case errors.Is(err, models.ErrReplyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Replied-to message not found"})
	case errors.Is(err, models.ErrNotMessageSender):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the sender may unsend a message"})
	case errors.Is(err, models.ErrMessageUnsent):
		c.JSON(http.StatusConflict, gin.H{"error": "Message already unsent"})
	case errors.Is(err, models.ErrInvalidMessageID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
	case errors.Is(err, models.ErrMissingParticipant):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sender and receiver are required"})
	case errors.Is(err, models.ErrEmptyMessageContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is empty"})
	case errors.Is(err, models.ErrMessageTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content exceeds limit"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseIntParam(c *gin.Context, key string, defaultValue int) int {
	value := c.Query(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}
