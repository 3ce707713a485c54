package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/benboulanger/agent-platform/internal/agents"
	"github.com/benboulanger/agent-platform/internal/http/response"
)

type HealthHandler struct {
	router *agents.Router
}

func NewHealthHandler(router *agents.Router) *HealthHandler {
	return &HealthHandler{router: router}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	payload := gin.H{"status": "ok"}
	if h.router != nil {
		domains := h.router.Domains()
		names := make([]string, 0, len(domains))
		for _, d := range domains {
			names = append(names, string(d))
		}
		payload["agents"] = names
	}
	response.RespondOK(c, payload)
}
