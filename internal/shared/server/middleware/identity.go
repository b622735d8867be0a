package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ownerIDKey = "ownerId"

	// OwnerCookie remembers a browser's owner id between requests.
	OwnerCookie = "documate_owner"

	ownerCookieMaxAge = 30 * 24 * 60 * 60
	maxGuestIDLen     = 128
)

// Identity resolves the owner of a request: the X-Guest-Id header wins, then
// the owner cookie, and otherwise a new id is issued in that cookie.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id")); guestID != "" && len(guestID) <= maxGuestIDLen {
			c.Set(ownerIDKey, "guest:"+guestID)
			c.Next()
			return
		}

		if cookie, err := c.Cookie(OwnerCookie); err == nil {
			if id, err := uuid.Parse(cookie); err == nil {
				c.Set(ownerIDKey, "web:"+id.String())
				c.Next()
				return
			}
		}

		id := uuid.NewString()
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     OwnerCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   ownerCookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		c.Set(ownerIDKey, "web:"+id)
		c.Next()
	}
}

// OwnerIDFromContext fetches the owner ID set by the Identity middleware.
func OwnerIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(ownerIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
