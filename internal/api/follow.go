package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Vladimir-spb/foodgram-backend/internal/middleware"
	"github.com/Vladimir-spb/foodgram-backend/internal/service"
)

type FollowHandler struct {
	follows *service.FollowService
}

func NewFollowHandler(follows *service.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

func (h *FollowHandler) Subscribe(c *gin.Context) {
	authorID, ok := authorIDParam(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.follows.Subscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

func (h *FollowHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := authorIDParam(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.follows.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FollowHandler) Subscriptions(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	recipesLimit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipes_limit"})
			return
		}
		recipesLimit = n
	}

	subscriptions, err := h.follows.Subscriptions(c.Request.Context(), userID, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(subscriptions),
		"results": subscriptions,
	})
}

func authorIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
