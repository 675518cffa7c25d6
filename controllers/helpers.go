package controllers

import (
	"net/http"

	"campreserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// campgroundScope pulls the caller's campground from the JWT context. Writes
// the error response itself when the scope is missing or malformed.
func campgroundScope(c *gin.Context) (uuid.UUID, bool) {
	campgroundID, exists := c.Get("campgroundId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Campground ID not found in context")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(campgroundID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid campground ID format")
		return uuid.Nil, false
	}
	return id, true
}

// actorFromContext returns the acting user's id when present.
func actorFromContext(c *gin.Context) *uuid.UUID {
	userID, exists := c.Get("userId")
	if !exists {
		return nil
	}
	raw, ok := userID.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
