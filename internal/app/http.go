package app

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benboulanger/agent-platform/internal/agents"
	"github.com/benboulanger/agent-platform/internal/http"
	httpH "github.com/benboulanger/agent-platform/internal/http/handlers"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/safety"
	"github.com/benboulanger/agent-platform/internal/session"
)

const shutdownTimeout = 5 * time.Second

type Handlers struct {
	Health   *httpH.HealthHandler
	Query    *httpH.QueryHandler
	Agents   *httpH.AgentsHandler
	Classify *httpH.ClassifyHandler
	Session  *httpH.SessionHandler
	Feedback *httpH.FeedbackHandler
}

func wireHandlers(log *logger.Logger, cfg Config, router *agents.Router, classifier *safety.Classifier, sessions session.Store, reposet Repos) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		Health:   httpH.NewHealthHandler(router),
		Query:    httpH.NewQueryHandler(log, router, sessions, reposet.Questions),
		Agents:   httpH.NewAgentsHandler(router),
		Classify: httpH.NewClassifyHandler(classifier),
		Session:  httpH.NewSessionHandler(sessions),
	}
	if reposet.Questions != nil {
		h.Feedback = httpH.NewFeedbackHandler(reposet.Questions)
	}
	return h
}

func wireRouter(cfg Config, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		ServiceName:     cfg.ServiceName,
		HealthHandler:   handlers.Health,
		QueryHandler:    handlers.Query,
		AgentsHandler:   handlers.Agents,
		ClassifyHandler: handlers.Classify,
		SessionHandler:  handlers.Session,
		FeedbackHandler: handlers.Feedback,
	})
}
