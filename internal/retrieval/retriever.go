package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benboulanger/agent-platform/internal/clients/chroma"
	"github.com/benboulanger/agent-platform/internal/clients/openai"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

var (
	// ErrCollectionUnavailable means the vector store could not be reached or
	// the collection does not exist. Callers render an "index first" message.
	ErrCollectionUnavailable = errors.New("vector collection unavailable")
	// ErrNoMatches means the store answered with zero results. This is a
	// normal outcome, not a failure.
	ErrNoMatches = errors.New("no matching documents")
	// ErrEmbedding wraps embedding-provider failures.
	ErrEmbedding = errors.New("embedding failed")
)

// Embedder is the slice of the OpenAI client the retriever needs.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

var _ Embedder = (openai.Client)(nil)

// Retriever embeds a question and runs a top-k nearest-neighbor query
// against the persistent collection. Safe for concurrent use; the collection
// handle is resolved once and reused.
type Retriever struct {
	log            *logger.Logger
	embedder       Embedder
	store          chroma.Client
	collectionName string
	timeout        time.Duration

	mu           sync.Mutex
	collectionID string
}

func NewRetriever(log *logger.Logger, embedder Embedder, store chroma.Client, collectionName string, timeout time.Duration) *Retriever {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Retriever{
		log:            log.With("component", "Retriever"),
		embedder:       embedder,
		store:          store,
		collectionName: collectionName,
		timeout:        timeout,
	}
}

func (r *Retriever) collection(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.collectionID != "" {
		return r.collectionID, nil
	}
	col, err := r.store.GetCollection(ctx, r.collectionName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCollectionUnavailable, err)
	}
	r.collectionID = col.ID
	r.log.Info("collection resolved", "name", r.collectionName, "id", col.ID)
	return r.collectionID, nil
}

// Retrieve returns the texts of the topK most similar chunks, best first.
// No retries: a transient provider error propagates as a typed failure and
// callers degrade to a fallback message.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 5
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	colID, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	vecs, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrEmbedding)
	}

	resp, err := r.store.Query(ctx, colID, chroma.QueryRequest{
		QueryEmbeddings: [][]float32{vecs[0]},
		NResults:        topK,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollectionUnavailable, err)
	}

	if len(resp.Documents) == 0 || len(resp.Documents[0]) == 0 {
		return nil, ErrNoMatches
	}
	return resp.Documents[0], nil
}
