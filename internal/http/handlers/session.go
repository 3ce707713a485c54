package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/benboulanger/agent-platform/internal/http/response"
	pkgerrors "github.com/benboulanger/agent-platform/internal/pkg/errors"
	"github.com/benboulanger/agent-platform/internal/session"
)

type SessionHandler struct {
	sessions session.Store
}

func NewSessionHandler(sessions session.Store) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type resetSessionReq struct {
	SessionID string `json:"session_id"`
}

// POST /api/sessions/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	var req resetSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		response.RespondOK(c, gin.H{"status": "info", "message": "No active session to reset"})
		return
	}
	if err := h.sessions.Reset(c.Request.Context(), sessionID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "reset_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "success", "message": "Session reset"})
}

// GET /api/sessions/:id
func (h *SessionHandler) Info(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("id"))
	info, err := h.sessions.Info(c.Request.Context(), sessionID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		response.RespondOK(c, gin.H{"exists": false})
		return
	}
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "session_info_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"exists":        true,
		"session_id":    info.ID,
		"message_count": info.TurnCount,
		"created_at":    info.CreatedAt,
		"last_activity": info.LastActivity,
	})
}
