package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"voting-platform/internal/service"
)

// HandleServiceError 把服务层错误转换为提示消息加重定向；
// 非业务错误渲染 500 页面。fallback 是业务错误默认的重定向目标。
func (r *Renderer) HandleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		r.FlashRedirect(c, "error", "Username already exists", fallback)
	case errors.Is(err, service.ErrInvalidInput):
		r.FlashRedirect(c, "error", "Please fill in all required fields.", fallback)
	case errors.Is(err, service.ErrAuthenticationFailed):
		r.FlashRedirect(c, "error", "Invalid username or password", "/login")
	case errors.Is(err, service.ErrAdminRequired):
		r.FlashRedirect(c, "error", "Admin access required!", "/login")
	case errors.Is(err, service.ErrNotAuthenticated):
		r.FlashRedirect(c, "", "", "/login")
	case errors.Is(err, service.ErrAlreadyVoted):
		r.FlashRedirect(c, "warning", "You have already voted!", fallback)
	case errors.Is(err, service.ErrCandidateNotFound):
		r.FlashRedirect(c, "error", "Candidate not found!", fallback)
	case errors.Is(err, service.ErrUserNotFound):
		// 会话指向的用户已不存在，清除会话
		if logoutErr := r.sessions.Logout(c); logoutErr != nil {
			logrus.WithError(logoutErr).Warn("Failed to clear stale session")
		}
		r.FlashRedirect(c, "", "", "/login")
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		_ = c.Error(err)
		r.ErrorPage(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}
