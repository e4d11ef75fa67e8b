package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/transport/http/middleware"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/usecase"
)

// NotificationHandler exposes per-account notification endpoints.
type NotificationHandler struct {
	notifications *usecase.NotificationService
}

// NewNotificationHandler builds a notification handler.
func NewNotificationHandler(notifications *usecase.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

var notificationErrorCases = []ErrorCase{
	{Err: usecase.ErrNotificationNotFound, Status: http.StatusNotFound, Message: "notification not found"},
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not the recipient of this notification"},
}

// Create stores a notification. Restricted to admins via route middleware;
// most notifications are created internally by the match service.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid notification payload"))
		return
	}

	notification, err := h.notifications.Create(c.Request.Context(), usecase.CreateNotificationInput{
		RecipientID:   req.RecipientID,
		Type:          domain.NotificationType(req.Type),
		Content:       req.Content,
		RelatedUserID: req.RelatedUserID,
		Link:          req.Link,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidNotificationType, Status: http.StatusBadRequest, Message: "invalid notification type"},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "recipient not found"},
		}, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, newNotificationResponse(notification))
}

// ListByUser returns the account's notifications.
func (h *NotificationHandler) ListByUser(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	notifications, err := h.notifications.ListForAccount(c.Request.Context(), *account, c.Param("userId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "cannot read another account's notifications"},
		}, http.StatusInternalServerError, "failed to load notifications")
		return
	}

	c.JSON(http.StatusOK, newNotificationResponses(notifications))
}

// MarkRead flags a single notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	notification, err := h.notifications.MarkRead(c.Request.Context(), *account, c.Param("notificationId"))
	if err != nil {
		RespondWithMappedError(c, err, notificationErrorCases, http.StatusInternalServerError, "failed to mark notification read")
		return
	}

	c.JSON(http.StatusOK, newNotificationResponse(notification))
}

// MarkAllRead flags every unread notification of the account as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	count, err := h.notifications.MarkAllRead(c.Request.Context(), *account, c.Param("userId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "cannot modify another account's notifications"},
		}, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}

	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// Delete removes a single notification.
func (h *NotificationHandler) Delete(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), *account, c.Param("notificationId")); err != nil {
		RespondWithMappedError(c, err, notificationErrorCases, http.StatusInternalServerError, "failed to delete notification")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "notification deleted"})
}

// DeleteAll removes every notification of the account.
func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	count, err := h.notifications.DeleteAll(c.Request.Context(), *account, c.Param("userId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "cannot modify another account's notifications"},
		}, http.StatusInternalServerError, "failed to delete notifications")
		return
	}

	c.JSON(http.StatusOK, CountResponse{Count: count})
}
