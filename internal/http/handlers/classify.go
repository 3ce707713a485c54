package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/benboulanger/agent-platform/internal/http/response"
	"github.com/benboulanger/agent-platform/internal/safety"
)

type ClassifyHandler struct {
	classifier *safety.Classifier
}

func NewClassifyHandler(classifier *safety.Classifier) *ClassifyHandler {
	return &ClassifyHandler{classifier: classifier}
}

type classifyReq struct {
	Question    string `json:"question"`
	HistoryText string `json:"history_text"`
	Context     string `json:"context"`
}

// POST /api/classify
//
// Runs the risk ladder without invoking any model. Exposed for audit and
// moderation tooling.
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var req classifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_question", nil)
		return
	}
	result := h.classifier.Classify(question, req.HistoryText, req.Context)
	response.RespondOK(c, gin.H{"result": result})
}
