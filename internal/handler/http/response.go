package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voting-platform/internal/session"
)

// Renderer 负责渲染页面，自动附带当前身份和提示消息
type Renderer struct {
	sessions *session.Manager
}

func NewRenderer(sessions *session.Manager) *Renderer {
	if sessions == nil {
		panic("session manager cannot be nil for Renderer")
	}
	return &Renderer{sessions: sessions}
}

// HTML 渲染模板 name，data 中的 Title/Principal/Flashes 由 Renderer 补齐
func (r *Renderer) HTML(c *gin.Context, code int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Principal"] = r.sessions.Principal(c)
	data["Flashes"] = r.sessions.Flashes(c)
	c.HTML(code, name, data)
}

// ErrorPage 渲染通用错误页
func (r *Renderer) ErrorPage(c *gin.Context, code int, message string) {
	r.HTML(c, code, "error.html", http.StatusText(code), gin.H{"Message": message})
}

// FlashRedirect 写入提示消息并以 302 重定向 (Post/Redirect/Get)
func (r *Renderer) FlashRedirect(c *gin.Context, category, message, location string) {
	if message != "" {
		r.sessions.Flash(c, category, message)
	}
	c.Redirect(http.StatusFound, location)
}
