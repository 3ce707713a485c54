package app

import (
	"time"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/utils"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string
	Port        string

	ConfigDir        string
	RiskPatternsPath string
	CollectionName   string

	ChromaURL     string
	ChromaTimeout time.Duration

	SessionBackend string
	SessionTimeout time.Duration
	RedisAddr      string

	RetrievalTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	configDir := utils.GetEnv("CONFIG_DIR", "config", log)
	riskPatterns := utils.GetEnv("RISK_PATTERNS_PATH", "config/risk_patterns.yaml", log)
	collection := utils.GetEnv("CHROMA_COLLECTION", "transcripts", log)
	chromaURL := utils.GetEnv("CHROMA_URL", "http://localhost:8000", log)
	chromaTimeoutSec := utils.GetEnvAsInt("CHROMA_TIMEOUT_SECONDS", 30, log)
	sessionBackend := utils.GetEnv("SESSION_BACKEND", "memory", log)
	sessionTimeoutSec := utils.GetEnvAsInt("SESSION_TIMEOUT_SECONDS", 7200, log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	retrievalTimeoutSec := utils.GetEnvAsInt("RETRIEVAL_TIMEOUT_SECONDS", 30, log)

	return Config{
		ServiceName:      "agent-platform",
		Environment:      environment,
		Version:          utils.GetEnv("SERVICE_VERSION", "dev", log),
		Port:             port,
		ConfigDir:        configDir,
		RiskPatternsPath: riskPatterns,
		CollectionName:   collection,
		ChromaURL:        chromaURL,
		ChromaTimeout:    time.Duration(chromaTimeoutSec) * time.Second,
		SessionBackend:   sessionBackend,
		SessionTimeout:   time.Duration(sessionTimeoutSec) * time.Second,
		RedisAddr:        redisAddr,
		RetrievalTimeout: time.Duration(retrievalTimeoutSec) * time.Second,
	}
}
