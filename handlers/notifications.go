package handlers

import (
	"net/http"

	"online-canteen-api/middleware"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications, newest first
func (h *Handler) GetNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	list, err := h.notifications.GetUserNotifications(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	unread, err := h.notifications.UnreadCount(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(list),
		"unread":        unread,
		"notifications": toNotifications(list),
	})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": n})
}
