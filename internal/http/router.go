package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/benboulanger/agent-platform/internal/http/handlers"
	httpMW "github.com/benboulanger/agent-platform/internal/http/middleware"
)

type RouterConfig struct {
	ServiceName string

	QueryHandler    *httpH.QueryHandler
	AgentsHandler   *httpH.AgentsHandler
	ClassifyHandler *httpH.ClassifyHandler
	SessionHandler  *httpH.SessionHandler
	FeedbackHandler *httpH.FeedbackHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.QueryHandler != nil {
			api.POST("/query", cfg.QueryHandler.Query)
		}

		if cfg.AgentsHandler != nil {
			api.GET("/agents", cfg.AgentsHandler.ListAgents)
			api.GET("/agents/:domain", cfg.AgentsHandler.DescribeAgent)
			api.POST("/agents/route", cfg.AgentsHandler.Route)
		}

		if cfg.ClassifyHandler != nil {
			api.POST("/classify", cfg.ClassifyHandler.Classify)
		}

		if cfg.SessionHandler != nil {
			api.POST("/sessions/reset", cfg.SessionHandler.Reset)
			api.GET("/sessions/:id", cfg.SessionHandler.Info)
		}

		if cfg.FeedbackHandler != nil {
			api.POST("/feedback/comment", cfg.FeedbackHandler.AddComment)
			api.POST("/feedback/like", cfg.FeedbackHandler.LikeAnswer)
			api.GET("/questions", cfg.FeedbackHandler.ListQuestions)
		}
	}

	return r
}
