package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"voting-platform/internal/domain"
	"voting-platform/internal/middleware"
	"voting-platform/internal/service"
)

// AdminHandler 处理管理员页面
type AdminHandler struct {
	candidateService *service.CandidateService
	render           *Renderer
}

func NewAdminHandler(candidateService *service.CandidateService, render *Renderer) *AdminHandler {
	return &AdminHandler{candidateService: candidateService, render: render}
}

// CandidateForm 是新增候选人表单
type CandidateForm struct {
	Name        string `form:"name"`
	Party       string `form:"party"`
	Description string `form:"description"`
}

// Admin GET /admin
func (h *AdminHandler) Admin(c *gin.Context) {
	ctx := c.Request.Context()
	principal := c.MustGet(middleware.PrincipalKey).(*domain.Principal)

	users, err := h.candidateService.ListUsers(ctx, principal)
	if err != nil {
		h.render.HandleServiceError(c, err, "/")
		return
	}
	candidates, err := h.candidateService.ListCandidates(ctx)
	if err != nil {
		h.render.HandleServiceError(c, err, "/")
		return
	}
	h.render.HTML(c, http.StatusOK, "admin.html", "Admin", gin.H{
		"Users":      users,
		"Candidates": candidates,
	})
}

// AddCandidate POST /admin/add_candidate
func (h *AdminHandler) AddCandidate(c *gin.Context) {
	principal := c.MustGet(middleware.PrincipalKey).(*domain.Principal)

	var form CandidateForm
	if err := c.ShouldBind(&form); err != nil {
		h.render.HandleServiceError(c, service.ErrInvalidInput, "/admin")
		return
	}

	candidate, err := h.candidateService.AddCandidate(c.Request.Context(), principal, form.Name, form.Party, form.Description)
	if err != nil {
		h.render.HandleServiceError(c, err, "/admin")
		return
	}
	h.render.FlashRedirect(c, "success", fmt.Sprintf("Candidate %s added successfully!", candidate.Name), "/admin")
}
