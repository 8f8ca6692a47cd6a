package auth

import "github.com/gin-gonic/gin"

const (
	ctxUserID   = "auth.userID"
	ctxUsername = "auth.username"
)

// SetIdentity stores the authenticated caller on the request context.
func SetIdentity(c *gin.Context, userID, username string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxUsername, username)
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetUsername returns the authenticated user's username or empty string.
func GetUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}
