package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"voting-platform/internal/domain"
	httpHandler "voting-platform/internal/handler/http"
	"voting-platform/internal/middleware"
	"voting-platform/internal/repository"
	"voting-platform/internal/session"
)

// Handlers 汇总路由需要的全部 HTTP 处理器
type Handlers struct {
	Auth  *httpHandler.AuthHandler
	Vote  *httpHandler.VoteHandler
	Admin *httpHandler.AdminHandler
}

// RouterOptions 是构建路由所需的依赖
type RouterOptions struct {
	Config   *Config
	Log      *logrus.Logger
	Sessions *session.Manager
	Limiter  repository.RateLimiter
	Handlers Handlers
	Registry *prometheus.Registry // 为 nil 时不暴露 /metrics
}

// NewRouter 构建 Gin Engine 并注册全部路由
func NewRouter(opts RouterOptions) (*gin.Engine, error) {
	tmpl, err := httpHandler.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(opts.Log))

	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	if opts.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	h := opts.Handlers
	site := router.Group("/")
	site.Use(middleware.RateLimit(opts.Limiter, opts.Config.RateLimitMax, opts.Config.RateLimitWindow))
	{
		site.GET("/", h.Vote.Index)
		site.GET("/results", h.Vote.Results)
		site.GET("/login", h.Auth.LoginPage)
		site.POST("/login", h.Auth.Login)
		site.GET("/register", h.Auth.RegisterPage)
		site.POST("/register", h.Auth.Register)
	}

	voter := site.Group("/")
	voter.Use(middleware.RequireLogin(opts.Sessions))
	{
		voter.GET("/dashboard", h.Vote.Dashboard)
		voter.POST("/vote/:candidateId", h.Vote.Vote)
		voter.GET("/logout", h.Auth.Logout)
	}

	admin := site.Group("/admin")
	admin.Use(middleware.RequireAdmin(opts.Sessions))
	{
		admin.GET("", h.Admin.Admin)
		admin.POST("/add_candidate", h.Admin.AddCandidate)
	}

	return router, nil
}

// LoggerMiddleware 记录访问日志：路由模板、已登录用户以及被限流的请求单独标出
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}
		if route := c.FullPath(); route != "" && route != c.Request.URL.Path {
			fields["route"] = route
		}
		// 守卫中间件放入的身份；公开页面没有
		if v, ok := c.Get(middleware.PrincipalKey); ok {
			if p, ok := v.(*domain.Principal); ok && p != nil {
				fields["user_id"] = p.UserID
				fields["admin"] = p.IsAdmin
			}
		}
		if location := c.Writer.Header().Get("Location"); location != "" {
			fields["redirect"] = location
		}
		entry := log.WithFields(fields)

		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			entry.Error(errs)
			return
		}
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("Server error")
		case status == http.StatusTooManyRequests:
			entry.Warn("Rate limited")
		case status >= http.StatusBadRequest:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
