package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voting-platform/internal/domain"
	"voting-platform/internal/middleware"
	"voting-platform/internal/service"
)

// VoteHandler 处理首页、选民面板、投票与结果页
type VoteHandler struct {
	authService      *service.AuthService
	voteService      *service.VoteService
	candidateService *service.CandidateService
	render           *Renderer
}

func NewVoteHandler(authService *service.AuthService, voteService *service.VoteService, candidateService *service.CandidateService, render *Renderer) *VoteHandler {
	return &VoteHandler{
		authService:      authService,
		voteService:      voteService,
		candidateService: candidateService,
		render:           render,
	}
}

// Index GET /
func (h *VoteHandler) Index(c *gin.Context) {
	candidates, err := h.candidateService.ListCandidates(c.Request.Context())
	if err != nil {
		h.render.HandleServiceError(c, err, "/")
		return
	}
	h.render.HTML(c, http.StatusOK, "index.html", "Home", gin.H{"Candidates": candidates})
}

// Dashboard GET /dashboard
func (h *VoteHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	principal := c.MustGet(middleware.PrincipalKey).(*domain.Principal)

	user, err := h.authService.CurrentUser(ctx, principal.UserID)
	if err != nil {
		h.render.HandleServiceError(c, err, "/login")
		return
	}
	candidates, err := h.candidateService.ListCandidates(ctx)
	if err != nil {
		h.render.HandleServiceError(c, err, "/")
		return
	}

	var votedFor *domain.Candidate
	if user.HasVoted {
		if candidateID, ok, err := h.voteService.HasVoted(ctx, user.ID); err == nil && ok {
			for i := range candidates {
				if candidates[i].ID == candidateID {
					votedFor = &candidates[i]
				}
			}
		}
	}

	h.render.HTML(c, http.StatusOK, "dashboard.html", "Dashboard", gin.H{
		"User":       user,
		"Candidates": candidates,
		"VotedFor":   votedFor,
	})
}

// Vote POST /vote/:candidateId
func (h *VoteHandler) Vote(c *gin.Context) {
	principal := c.MustGet(middleware.PrincipalKey).(*domain.Principal)

	// 无法解析的 ID 视为不存在的候选人 0，仍交给 CastVote，已投票的判断优先
	candidateID, err := strconv.ParseUint(c.Param("candidateId"), 10, 32)
	if err != nil {
		candidateID = 0
	}

	candidate, err := h.voteService.CastVote(c.Request.Context(), principal.UserID, uint(candidateID))
	if err != nil {
		h.render.HandleServiceError(c, err, "/dashboard")
		return
	}
	h.render.FlashRedirect(c, "success", fmt.Sprintf("Your vote for %s has been recorded!", candidate.Name), "/results")
}

// Results GET /results
func (h *VoteHandler) Results(c *gin.Context) {
	results, err := h.voteService.GetResults(c.Request.Context())
	if err != nil {
		h.render.HandleServiceError(c, err, "/")
		return
	}
	h.render.HTML(c, http.StatusOK, "results.html", "Results", gin.H{"Results": results})
}
