package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tahmidul512/linkloop/backend/internal/notifications"
)

// EventHandler is the inbound surface for the post/comment/follow
// services. Each endpoint maps one semantic event onto the
// notification facade. Creation failures surface as 500 so the caller
// knows the notification was not recorded; fan-out endpoints reply 202
// as soon as the batch is scheduled.
type EventHandler struct {
	service *notifications.Service
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(service *notifications.Service) *EventHandler {
	return &EventHandler{service: service}
}

// RegisterEventRoutes registers the internal event endpoints; the group
// is expected to carry the internal-service auth middleware.
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events/like", h.Like)
	g.POST("/events/comment", h.Comment)
	g.POST("/events/follow", h.Follow)
	g.POST("/events/system", h.System)
	g.POST("/events/post-pending", h.PostPending)
	g.POST("/events/post-approved", h.PostApproved)
	g.POST("/events/new-post", h.NewPost)
	g.POST("/events/admin-broadcast", h.AdminBroadcast)
}

type likeEventRequest struct {
	PostID  string `json:"post_id" validate:"required"`
	ActorID uint   `json:"actor_id" validate:"required"`
	OwnerID uint   `json:"owner_id" validate:"required"`
}

type commentEventRequest struct {
	PostID         string `json:"post_id" validate:"required"`
	ActorID        uint   `json:"actor_id" validate:"required"`
	OwnerID        uint   `json:"owner_id" validate:"required"`
	CommentPreview string `json:"comment_preview"`
}

type followEventRequest struct {
	FollowerID uint `json:"follower_id" validate:"required"`
	FolloweeID uint `json:"followee_id" validate:"required"`
}

type systemEventRequest struct {
	RecipientID uint   `json:"recipient_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content" validate:"required"`
}

type postEventRequest struct {
	PostID   string `json:"post_id" validate:"required"`
	AuthorID uint   `json:"author_id" validate:"required"`
}

type adminBroadcastRequest struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
}

func (h *EventHandler) Like(c echo.Context) error {
	var req likeEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.Like(c.Request().Context(), req.PostID, req.ActorID, req.OwnerID); err != nil {
		return persistenceHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (h *EventHandler) Comment(c echo.Context) error {
	var req commentEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.Comment(c.Request().Context(), req.PostID, req.ActorID, req.OwnerID, req.CommentPreview); err != nil {
		return persistenceHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (h *EventHandler) Follow(c echo.Context) error {
	var req followEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.Follow(c.Request().Context(), req.FollowerID, req.FolloweeID); err != nil {
		return persistenceHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (h *EventHandler) System(c echo.Context) error {
	var req systemEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.System(c.Request().Context(), req.RecipientID, req.Title, req.Content); err != nil {
		return persistenceHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (h *EventHandler) PostPending(c echo.Context) error {
	var req postEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.PostPending(c.Request().Context(), req.PostID, req.AuthorID); err != nil {
		return persistenceHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (h *EventHandler) PostApproved(c echo.Context) error {
	var req postEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.PostApproved(c.Request().Context(), req.PostID, req.AuthorID); err != nil {
		return persistenceHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

// NewPost schedules the follower fan-out and replies immediately; the
// batch outcome is observable in logs only.
func (h *EventHandler) NewPost(c echo.Context) error {
	var req postEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.NewPostFanout(c.Request().Context(), req.PostID, req.AuthorID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusAccepted, echo.Map{"success": true})
}

func (h *EventHandler) AdminBroadcast(c echo.Context) error {
	var req adminBroadcastRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.AdminBroadcast(c.Request().Context(), req.Title, req.Content, req.EntityType, req.EntityID); err != nil {
		return persistenceHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func persistenceHTTPError(err error) error {
	var pe *notifications.PersistenceError
	if errors.As(err, &pe) {
		return echo.NewHTTPError(http.StatusInternalServerError, pe.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
