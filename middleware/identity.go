package middleware

import (
	"net/http"
	"strings"

	"hotel-booking/models"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader    = "X-User-Id"
	UserEmailHeader = "X-User-Email"
	UserNameHeader  = "X-User-Name"

	identityKey = "identity"
)

// Identity reads the caller forwarded by the upstream identity provider.
// Anonymous requests pass through with an empty identity.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, models.Identity{
			UserID: strings.TrimSpace(c.GetHeader(UserIDHeader)),
			Email:  strings.TrimSpace(c.GetHeader(UserEmailHeader)),
			Name:   strings.TrimSpace(c.GetHeader(UserNameHeader)),
		})
		c.Next()
	}
}

// RequireUser rejects requests without a user id.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).UserID == "" {
			utils.JSONError(c, http.StatusUnauthorized, "error.unauthenticated", "Please sign in to continue")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return models.Identity{}
}
