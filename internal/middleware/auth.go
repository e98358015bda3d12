package middleware

import (
	"errors"

	"hospital-management-server/internal/models"
	"hospital-management-server/internal/session"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	sessionUserKey  = "sessionUser"
	sessionTokenKey = "sessionToken"
)

// LoadSession resolves the session cookie on every request. It never rejects a request;
// the Require* guards decide what an anonymous request may reach.
func LoadSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, token, err := mgr.Load(c)
		switch {
		case err == nil:
			c.Set(sessionUserKey, user)
			c.Set(sessionTokenKey, token)
		case !errors.Is(err, session.ErrNotFound):
			_ = c.Error(err)
		}
		c.Next()
	}
}

// RequireSession rejects requests without a session with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSessionUser(c); !ok {
			utils.Unauthorized(c, "Not logged in")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole admits only sessions whose role equals role. There is no role hierarchy:
// an admin session is refused on doctor routes like any other role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetSessionUser(c)
		if !ok {
			utils.Unauthorized(c, "Not logged in")
			c.Abort()
			return
		}
		if user.Role != role {
			utils.Forbidden(c, "Access denied: not "+string(role))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelf admits a session only when its account id equals the named path parameter.
// It should be used *after* RequireSession.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetSessionUser(c)
		if !ok {
			utils.Unauthorized(c, "Not logged in")
			c.Abort()
			return
		}
		if user.ID != c.Param(param) {
			utils.Forbidden(c, "You can only access your own records")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSessionUser returns the session user resolved by LoadSession.
func GetSessionUser(c *gin.Context) (*session.User, bool) {
	v, exists := c.Get(sessionUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*session.User)
	return user, ok && user != nil
}

// GetSessionToken returns the opaque token of the current session.
func GetSessionToken(c *gin.Context) (string, bool) {
	v, exists := c.Get(sessionTokenKey)
	if !exists {
		return "", false
	}
	token, ok := v.(string)
	return token, ok
}
