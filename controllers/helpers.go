package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christian6134/byte-buddy/services"
)

// respondStoreError maps the store error taxonomy onto HTTP statuses:
// validation problems are the caller's fault, unknown ids are 404,
// everything else is a failed remote call.
func respondStoreError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}
	var nerr *services.NotFoundError
	if errors.As(err, &nerr) {
		c.JSON(http.StatusNotFound, gin.H{"error": nerr.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// sessionStores resolves the calling user's stores, starting them if
// this is the first request of the session.
func sessionStores(c *gin.Context, sm *services.SessionManager) (*services.SessionStores, bool) {
	uid := c.GetString("userID")
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return nil, false
	}
	st, err := sm.Begin(uid)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return nil, false
	}
	return st, true
}
