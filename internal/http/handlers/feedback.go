package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/benboulanger/agent-platform/internal/http/response"
	pkgerrors "github.com/benboulanger/agent-platform/internal/pkg/errors"
	"github.com/benboulanger/agent-platform/internal/repos"
)

type FeedbackHandler struct {
	questions repos.QuestionRecordRepo
}

func NewFeedbackHandler(questions repos.QuestionRecordRepo) *FeedbackHandler {
	return &FeedbackHandler{questions: questions}
}

type addCommentReq struct {
	QuestionID string `json:"question_id"`
	Comment    string `json:"comment"`
}

// POST /api/feedback/comment
func (h *FeedbackHandler) AddComment(c *gin.Context) {
	var req addCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.QuestionID) == "" || strings.TrimSpace(req.Comment) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_fields", nil)
		return
	}
	err := h.questions.SetComment(c.Request.Context(), req.QuestionID, req.Comment)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "question_not_found", err)
		return
	}
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "add_comment_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "success", "message": "Comment added"})
}

type likeAnswerReq struct {
	QuestionID string `json:"question_id"`
	Like       *bool  `json:"like"`
}

// POST /api/feedback/like
func (h *FeedbackHandler) LikeAnswer(c *gin.Context) {
	var req likeAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.QuestionID) == "" || req.Like == nil {
		response.RespondError(c, http.StatusBadRequest, "missing_fields", nil)
		return
	}
	err := h.questions.AddLike(c.Request.Context(), req.QuestionID, *req.Like)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "question_not_found", err)
		return
	}
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "like_answer_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "success", "message": "Vote recorded"})
}

// GET /api/questions?limit=100
func (h *FeedbackHandler) ListQuestions(c *gin.Context) {
	limit := 100
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	records, err := h.questions.List(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_questions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"questions": records})
}
