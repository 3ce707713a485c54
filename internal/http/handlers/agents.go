package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/benboulanger/agent-platform/internal/agents"
	"github.com/benboulanger/agent-platform/internal/http/response"
)

type AgentsHandler struct {
	router *agents.Router
}

func NewAgentsHandler(router *agents.Router) *AgentsHandler {
	return &AgentsHandler{router: router}
}

var agentDescriptions = map[agents.Domain]string{
	agents.DomainNutrition: "Nutrition assistant grounded in indexed transcripts; answers questions about food, diet, and healthy eating.",
	agents.DomainFitness:   "Fitness coach for workout planning, exercise technique, and training advice.",
	agents.DomainWellness:  "Wellness coach for stress management, meditation, and mental well-being.",
}

// GET /api/agents
func (h *AgentsHandler) ListAgents(c *gin.Context) {
	domains := h.router.Domains()
	list := make([]gin.H, 0, len(domains))
	for _, d := range domains {
		list = append(list, gin.H{
			"agent":       string(d),
			"description": agentDescriptions[d],
		})
	}
	response.RespondOK(c, gin.H{
		"agents":  list,
		"default": string(agents.DomainNutrition),
	})
}

// GET /api/agents/:domain
func (h *AgentsHandler) DescribeAgent(c *gin.Context) {
	domain := agents.Domain(strings.TrimSpace(c.Param("domain")))
	if h.router.Pipeline(domain) == nil {
		response.RespondError(c, http.StatusNotFound, "unknown_agent", nil)
		return
	}
	response.RespondOK(c, gin.H{
		"agent":       string(domain),
		"description": agentDescriptions[domain],
		"keywords":    agents.Keywords(domain),
	})
}

type routeReq struct {
	Question string `json:"question"`
}

// POST /api/agents/route
func (h *AgentsHandler) Route(c *gin.Context) {
	var req routeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_question", nil)
		return
	}
	response.RespondOK(c, gin.H{"agent": string(h.router.Route(question))})
}
