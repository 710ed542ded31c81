package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"voting-platform/internal/session"
)

// PrincipalKey 是已认证身份在 gin.Context 中的键
const PrincipalKey = "principal"

// RequireLogin 返回一个 Gin 中间件，要求请求携带已登录的会话，否则重定向到 /login。
func RequireLogin(sessions *session.Manager) gin.HandlerFunc {
	if sessions == nil {
		panic("session manager cannot be nil for RequireLogin middleware")
	}
	return func(c *gin.Context) {
		principal := sessions.Principal(c)
		if principal == nil {
			logrus.WithField("path", c.Request.URL.Path).Debug("Auth middleware: no session, redirecting to login")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// RequireAdmin 要求会话的 is_admin 为 true，否则提示并重定向到 /login。
func RequireAdmin(sessions *session.Manager) gin.HandlerFunc {
	if sessions == nil {
		panic("session manager cannot be nil for RequireAdmin middleware")
	}
	return func(c *gin.Context) {
		principal := sessions.Principal(c)
		if principal == nil || !principal.IsAdmin {
			logCtx := logrus.WithField("path", c.Request.URL.Path)
			if principal != nil {
				logCtx = logCtx.WithField("user_id", principal.UserID)
			}
			logCtx.Warn("Auth middleware: admin access denied")
			sessions.Flash(c, "error", "Admin access required!")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(PrincipalKey, principal)
		c.Next()
	}
}
