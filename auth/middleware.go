package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type ctxKey string

const (
	userIDCtxKey    = ctxKey("userID")
	sessionIDCtxKey = ctxKey("sessionID")
)

// UserVerifier reports whether a session's user still exists.
type UserVerifier func(ctx context.Context, userID string) (bool, error)

// WithUserID stores user and session ids in context.
func WithUserID(ctx context.Context, userID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDCtxKey, userID)
	return context.WithValue(ctx, sessionIDCtxKey, sessionID)
}

// UserIDFromContext extracts the authenticated user id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDCtxKey).(string)
	return id, ok && id != ""
}

// SessionIDFromContext extracts the current session id.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDCtxKey).(string)
	return id, ok && id != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": msg})
}

// RequireAuth rejects requests without a live session. A session whose user
// no longer exists is cleared and rejected.
func RequireAuth(store Store, cookies *Cookies, verify UserVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sessionID, ok := cookies.Parse(c.Request)
		if !ok {
			unauthorized(c, "Not authenticated")
			return
		}
		userID, ok, err := store.Get(ctx, sessionID)
		if err != nil {
			log.WithError(err).Error("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal server error"})
			return
		}
		if !ok {
			cookies.Clear(c.Writer)
			unauthorized(c, "Not authenticated")
			return
		}
		if verify != nil {
			exists, err := verify(ctx, userID)
			if err != nil {
				log.WithError(err).Error("session user lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal server error"})
				return
			}
			if !exists {
				_ = store.Clear(ctx, sessionID)
				cookies.Clear(c.Writer)
				unauthorized(c, "User not found")
				return
			}
		}
		c.Request = c.Request.WithContext(WithUserID(ctx, userID, sessionID))
		c.Next()
	}
}
