package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/benboulanger/agent-platform/internal/agents"
	"github.com/benboulanger/agent-platform/internal/chatstream"
	"github.com/benboulanger/agent-platform/internal/clients/chroma"
	"github.com/benboulanger/agent-platform/internal/clients/openai"
	"github.com/benboulanger/agent-platform/internal/db"
	"github.com/benboulanger/agent-platform/internal/observability"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/prompt"
	"github.com/benboulanger/agent-platform/internal/repos"
	"github.com/benboulanger/agent-platform/internal/retrieval"
	"github.com/benboulanger/agent-platform/internal/safety"
	"github.com/benboulanger/agent-platform/internal/session"
	"github.com/benboulanger/agent-platform/internal/style"
)

type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Router *gin.Engine
	Cfg    Config

	Sessions session.Store

	otelShutdown func(context.Context) error
	redisStore   *session.RedisStore
}

type Repos struct {
	Questions repos.QuestionRecordRepo
	RiskAudit repos.RiskAuditRepo
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	// Persistence is a supplement to the answer path: when Postgres is down
	// the server still answers questions, without the question log and risk
	// audit trail.
	var (
		theDB   *gorm.DB
		reposet Repos
	)
	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Warn("Postgres init failed, running without persistence", "error", err)
	} else if err := pg.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed, running without persistence", "error", err)
	} else {
		theDB = pg.DB()
		reposet = wireRepos(theDB, log)
	}

	// A missing model provider is fatal at startup, not per-request.
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init openai client: %w", err)
	}

	chromaClient, err := chroma.New(log, chroma.Config{
		BaseURL: cfg.ChromaURL,
		Timeout: cfg.ChromaTimeout,
	})
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init chroma client: %w", err)
	}

	catalog := style.Load(log, cfg.ConfigDir)

	table := safety.LoadPatternTable(log, cfg.RiskPatternsPath)
	classifier, err := safety.NewClassifier(table)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("compile risk pattern table: %w", err)
	}

	var (
		sessions   session.Store
		redisStore *session.RedisStore
	)
	if cfg.SessionBackend == "redis" {
		redisStore, err = session.NewRedisStore(log, cfg.RedisAddr, cfg.SessionTimeout)
		if err != nil {
			log.Warn("Redis session store init failed, falling back to memory", "error", err)
			sessions = session.NewMemoryStore(log, cfg.SessionTimeout)
		} else {
			sessions = redisStore
		}
	} else {
		sessions = session.NewMemoryStore(log, cfg.SessionTimeout)
	}

	var audit agents.AuditSink = agents.NopAuditSink{}
	if reposet.RiskAudit != nil {
		audit = repos.NewRiskAuditSink(reposet.RiskAudit, log)
	}

	retriever := retrieval.NewRetriever(log, openaiClient, chromaClient, cfg.CollectionName, cfg.RetrievalTimeout)
	assembler := prompt.NewAssembler(log, catalog)
	streamer := chatstream.NewStreamer(log, openaiClient)

	agentRouter := agents.NewRouter(log,
		agents.NewNutritionPipeline(log, classifier, retriever, assembler, streamer, audit),
		agents.NewFitnessPipeline(log, classifier, streamer, audit),
		agents.NewWellnessPipeline(log, classifier, streamer, audit),
	)

	handlerset := wireHandlers(log, cfg, agentRouter, classifier, sessions, reposet)
	router := wireRouter(cfg, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Sessions:     sessions,
		otelShutdown: otelShutdown,
		redisStore:   redisStore,
	}, nil
}

func wireRepos(theDB *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Questions: repos.NewQuestionRecordRepo(theDB, log),
		RiskAudit: repos.NewRiskAuditRepo(theDB, log),
	}
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Port)
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.redisStore != nil {
		_ = a.redisStore.Close()
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
