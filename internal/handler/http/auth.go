package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"voting-platform/internal/service"
	"voting-platform/internal/session"
)

// AuthHandler 处理注册、登录与注销
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
	render      *Renderer
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager, render *Renderer) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, render: render}
}

// CredentialsForm 是登录和注册表单
type CredentialsForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// LoginPage GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "login.html", "Login", nil)
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form CredentialsForm
	if err := c.ShouldBind(&form); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid form")
		h.render.FlashRedirect(c, "error", "Invalid username or password", "/login")
		return
	}

	principal, err := h.authService.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		h.render.HandleServiceError(c, err, "/login")
		return
	}

	if err := h.sessions.Login(c, principal); err != nil {
		h.render.HandleServiceError(c, err, "/login")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// RegisterPage GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "register.html", "Register", nil)
}

// Register POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var form CredentialsForm
	if err := c.ShouldBind(&form); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid form")
		h.render.FlashRedirect(c, "error", "Please fill in all required fields.", "/register")
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), form.Username, form.Password); err != nil {
		h.render.HandleServiceError(c, err, "/register")
		return
	}
	h.render.FlashRedirect(c, "success", "Registration successful! Please login.", "/login")
}

// Logout GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		h.render.HandleServiceError(c, err, "/")
		return
	}
	h.render.FlashRedirect(c, "info", "You have been logged out.", "/")
}
