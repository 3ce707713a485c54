package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/benboulanger/agent-platform/internal/agents"
	"github.com/benboulanger/agent-platform/internal/http/response"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/repos"
	"github.com/benboulanger/agent-platform/internal/session"
	"github.com/benboulanger/agent-platform/internal/types"
)

type QueryHandler struct {
	log       *logger.Logger
	router    *agents.Router
	sessions  session.Store
	questions repos.QuestionRecordRepo
}

func NewQueryHandler(log *logger.Logger, router *agents.Router, sessions session.Store, questions repos.QuestionRecordRepo) *QueryHandler {
	return &QueryHandler{
		log:       log.With("handler", "QueryHandler"),
		router:    router,
		sessions:  sessions,
		questions: questions,
	}
}

type queryReq struct {
	Question  string `json:"question"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
	Agent     string `json:"agent"`
}

// POST /api/query
//
// Streams the answer as server-sent events. The first event carries the
// session and question ids; each following event carries one text chunk.
func (h *QueryHandler) Query(c *gin.Context) {
	var req queryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_question", fmt.Errorf("question is required"))
		return
	}
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = "fr"
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.RespondError(c, http.StatusInternalServerError, "streaming_unsupported", fmt.Errorf("response writer does not support streaming"))
		return
	}

	ctx := c.Request.Context()

	// Expired sessions are swept opportunistically on each new query.
	h.sessions.Sweep(ctx)

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	questionID := uuid.New().String()

	// History is read before the in-flight question is appended, so the
	// prompt window never includes the question itself.
	history, err := h.sessions.History(ctx, sessionID)
	if err != nil {
		h.log.Warn("history read failed, continuing without history", "session_id", sessionID, "error", err)
		history = nil
	}
	if err := h.sessions.AppendTurn(ctx, sessionID, session.Turn{
		Role:    session.RoleUser,
		Content: question,
	}); err != nil {
		h.log.Warn("user turn append failed", "session_id", sessionID, "error", err)
	}

	pipeline := h.router.Resolve(question, agents.Domain(strings.TrimSpace(req.Agent)))
	h.log.Info("question routed",
		"session_id", sessionID,
		"question_id", questionID,
		"domain", string(pipeline.Domain()),
		"language", language,
	)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	writeEvent := func(payload any) bool {
		raw, err := json.Marshal(payload)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", raw); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	writeEvent(gin.H{"session_id": sessionID, "question_id": questionID, "chunk": ""})

	var answer strings.Builder
	for chunk := range pipeline.Answer(ctx, question, language, history) {
		answer.WriteString(chunk)
		if !writeEvent(gin.H{"chunk": chunk}) {
			break
		}
	}

	if ctx.Err() == nil {
		fmt.Fprint(c.Writer, "data: [DONE]\n\n")
		flusher.Flush()
	}

	h.finish(sessionID, questionID, question, answer.String(), language, string(pipeline.Domain()))
}

// finish records the assistant turn and the question-log entry. It runs on a
// fresh context so a client disconnect cannot lose the records.
func (h *QueryHandler) finish(sessionID, questionID, question, answer, language, domain string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.sessions.AppendTurn(ctx, sessionID, session.Turn{
		Role:    session.RoleAssistant,
		Content: answer,
	}); err != nil {
		h.log.Warn("assistant turn append failed", "session_id", sessionID, "error", err)
	}

	if h.questions == nil {
		return
	}
	_, err := h.questions.Create(ctx, nil, &types.QuestionRecord{
		QuestionID: questionID,
		SessionID:  sessionID,
		Domain:     domain,
		Language:   language,
		Question:   question,
		Response:   answer,
	})
	if err != nil {
		h.log.Error("question record write failed", "question_id", questionID, "error", err)
	}
}
