package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tahmidul512/linkloop/backend/internal/models"
	"github.com/tahmidul512/linkloop/backend/internal/repositories"
)

// NotificationHandler exposes the pull side of the notification engine:
// paginated feeds, read marking and the unread badge count.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.POST("/notifications/:id/read", h.MarkAsRead)
	g.POST("/notifications/read-all", h.MarkAllAsRead)
}

// RegisterAdminRoutes registers the admin live-feed route; the group is
// expected to carry admin-only middleware.
func (h *NotificationHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetAdminFeed)
}

// EnrichedNotification includes the resolved sender summary
type EnrichedNotification struct {
	models.Notification
	Sender *models.UserCompact `json:"sender,omitempty"`
}

func (h *NotificationHandler) enrichNotifications(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[uint]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if n.SenderID == nil {
			continue
		}
		if sender, ok := userCache[*n.SenderID]; ok {
			enriched[i].Sender = &sender
			continue
		}
		user, err := h.userRepository.GetUserByID(*n.SenderID)
		if err == nil {
			compact := user.ToCompact()
			userCache[*n.SenderID] = compact
			enriched[i].Sender = &compact
		}
	}
	return enriched
}

// GetNotifications returns one page of the caller's feed. The tab query
// parameter selects all (default), unread or system.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	filter := models.NotificationFilter(c.QueryParam("tab"))
	switch filter {
	case models.FilterUnread, models.FilterSystem:
	default:
		filter = models.FilterAll
	}

	notifications, hasMore, err := h.notificationRepository.ListForRecipient(currentUserID, page, limit, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"items":   h.enrichNotifications(notifications),
			"hasMore": hasMore,
		},
		"meta": echo.Map{
			"currentPage":  page,
			"itemsPerPage": limit,
			"tab":          filter,
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.UnreadCount(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// MarkAsRead marks one owned notification as read. Idempotent: already
// read, missing and foreign ids all report success without effect.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notificationRepository.MarkRead(uint(notifID), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// MarkAllAsRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	updated, err := h.notificationRepository.MarkAllRead(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"updated": updated}})
}

// GetAdminFeed returns the newest admin-room notifications. The admin
// room is a live feed with no per-user read state.
func (h *NotificationHandler) GetAdminFeed(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	notifications, err := h.notificationRepository.ListAdminFeed(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"items": h.enrichNotifications(notifications)},
	})
}
