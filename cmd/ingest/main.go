package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/benboulanger/agent-platform/internal/clients/chroma"
	"github.com/benboulanger/agent-platform/internal/clients/openai"
	"github.com/benboulanger/agent-platform/internal/ingest"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/utils"
)

func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", "transcripts", "directory of .txt transcript files to index")
	collection := flag.String("collection", "", "target collection (defaults to CHROMA_COLLECTION)")
	chunkSize := flag.Int("chunk-size", ingest.DefaultChunkSize, "chunk size in characters")
	overlap := flag.Int("overlap", ingest.DefaultOverlap, "chunk overlap in characters")
	workers := flag.Int("workers", 4, "concurrent file workers")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	colName := *collection
	if colName == "" {
		colName = utils.GetEnv("CHROMA_COLLECTION", "transcripts", log)
	}

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAIClient", "error", err)
		os.Exit(1)
	}

	chromaURL := utils.GetEnv("CHROMA_URL", "http://localhost:8000", log)
	chromaClient, err := chroma.New(log, chroma.Config{BaseURL: chromaURL, Timeout: 60 * time.Second})
	if err != nil {
		log.Error("Could not init ChromaClient", "error", err)
		os.Exit(1)
	}

	pipeline := ingest.NewPipeline(log, openaiClient, chromaClient, colName)
	pipeline.ChunkSize = *chunkSize
	pipeline.Overlap = *overlap
	pipeline.Workers = *workers

	stats, err := pipeline.Run(context.Background(), *dir)
	if err != nil {
		log.Error("Indexing failed", "error", err)
		os.Exit(1)
	}
	log.Info("Done", "files", stats.Files, "chunks", stats.Chunks)
}
