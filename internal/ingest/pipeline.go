package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/benboulanger/agent-platform/internal/clients/chroma"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

const embedBatchSize = 64

// Embedder is the slice of the OpenAI client the indexer needs.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Stats summarizes one indexing run.
type Stats struct {
	Files  int
	Chunks int
}

// Pipeline walks a directory of transcript .txt files, chunks them, embeds
// the chunks, and writes them into the vector collection. Files are indexed
// concurrently; chunks within one file keep their order in the generated ids.
type Pipeline struct {
	log            *logger.Logger
	embedder       Embedder
	store          chroma.Client
	collectionName string

	ChunkSize int
	Overlap   int
	Workers   int
}

func NewPipeline(log *logger.Logger, embedder Embedder, store chroma.Client, collectionName string) *Pipeline {
	return &Pipeline{
		log:            log.With("component", "IngestPipeline"),
		embedder:       embedder,
		store:          store,
		collectionName: collectionName,
		ChunkSize:      DefaultChunkSize,
		Overlap:        DefaultOverlap,
		Workers:        4,
	}
}

func (p *Pipeline) Run(ctx context.Context, dir string) (Stats, error) {
	col, err := p.store.GetOrCreateCollection(ctx, p.collectionName)
	if err != nil {
		return Stats{}, fmt.Errorf("open collection %q: %w", p.collectionName, err)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("walk %q: %w", dir, err)
	}
	if len(paths) == 0 {
		p.log.Warn("no transcript files found", "dir", dir)
		return Stats{}, nil
	}

	var totalChunks atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			n, err := p.indexFile(gctx, col.ID, path)
			if err != nil {
				return fmt.Errorf("index %q: %w", path, err)
			}
			totalChunks.Add(int64(n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	stats := Stats{Files: len(paths), Chunks: int(totalChunks.Load())}
	p.log.Info("indexing complete", "files", stats.Files, "chunks", stats.Chunks)
	return stats, nil
}

func (p *Pipeline) indexFile(ctx context.Context, collectionID, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		p.log.Warn("skipping empty file", "path", path)
		return 0, nil
	}

	chunks := ChunkText(text, p.ChunkSize, p.Overlap)
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	for offset := 0; offset < len(chunks); offset += embedBatchSize {
		end := offset + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[offset:end]

		vecs, err := p.embedder.Embed(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("embed batch: %w", err)
		}

		req := chroma.AddRequest{
			IDs:        make([]string, len(batch)),
			Embeddings: vecs,
			Documents:  batch,
			Metadatas:  make([]map[string]any, len(batch)),
		}
		for i := range batch {
			idx := offset + i
			req.IDs[i] = fmt.Sprintf("%s_chunk_%d", stem, idx)
			req.Metadatas[i] = map[string]any{
				"source":       filepath.Base(path),
				"chunk_index":  idx,
				"total_chunks": len(chunks),
				"file_type":    strings.TrimPrefix(filepath.Ext(path), "."),
				"enhanced":     false,
			}
		}
		if err := p.store.Add(ctx, collectionID, req); err != nil {
			return 0, fmt.Errorf("add batch: %w", err)
		}
	}

	p.log.Info("file indexed", "path", path, "chunks", len(chunks))
	return len(chunks), nil
}
