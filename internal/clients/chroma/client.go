package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/benboulanger/agent-platform/internal/pkg/ctxutil"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

// Client talks to a ChromaDB server over its v1 REST API.
type Client interface {
	Heartbeat(ctx context.Context) error
	GetCollection(ctx context.Context, name string) (*Collection, error)
	GetOrCreateCollection(ctx context.Context, name string) (*Collection, error)
	Count(ctx context.Context, collectionID string) (int, error)
	Add(ctx context.Context, collectionID string, req AddRequest) error
	Query(ctx context.Context, collectionID string, req QueryRequest) (*QueryResponse, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:  log.With("client", "ChromaClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chromaHTTPError struct {
	StatusCode int
	Body       string
}

func (e *chromaHTTPError) Error() string {
	return fmt.Sprintf("chroma http %d: %s", e.StatusCode, e.Body)
}

func (e *chromaHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// IsNotFound reports whether err is a 404 from the Chroma server.
func IsNotFound(err error) bool {
	var he *chromaHTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	u := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, u, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &chromaHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("chroma decode: %w; raw=%s", err, string(raw))
	}
	return nil
}

func (c *client) Heartbeat(ctx context.Context) error {
	return c.do(ctx, "GET", "/api/v1/heartbeat", nil, nil)
}

// -------------------- Collections --------------------

type Collection struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata"`
}

func (c *client) GetCollection(ctx context.Context, name string) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("collection name required")
	}
	var out Collection
	if err := c.do(ctx, "GET", "/api/v1/collections/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createCollectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

func (c *client) GetOrCreateCollection(ctx context.Context, name string) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("collection name required")
	}
	var out Collection
	req := createCollectionRequest{Name: name, GetOrCreate: true}
	if err := c.do(ctx, "POST", "/api/v1/collections", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) Count(ctx context.Context, collectionID string) (int, error) {
	var out int
	if err := c.do(ctx, "GET", "/api/v1/collections/"+url.PathEscape(collectionID)+"/count", nil, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// -------------------- Documents --------------------

type AddRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Documents  []string         `json:"documents"`
	Metadatas  []map[string]any `json:"metadatas,omitempty"`
}

func (c *client) Add(ctx context.Context, collectionID string, req AddRequest) error {
	if len(req.IDs) == 0 {
		return nil
	}
	if len(req.IDs) != len(req.Embeddings) || len(req.IDs) != len(req.Documents) {
		return fmt.Errorf("chroma add: ids/embeddings/documents length mismatch")
	}
	return c.do(ctx, "POST", "/api/v1/collections/"+url.PathEscape(collectionID)+"/add", req, nil)
}

type QueryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include,omitempty"`
}

type QueryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

func (c *client) Query(ctx context.Context, collectionID string, req QueryRequest) (*QueryResponse, error) {
	if len(req.QueryEmbeddings) == 0 {
		return nil, fmt.Errorf("chroma query: at least one query embedding required")
	}
	if req.NResults <= 0 {
		req.NResults = 5
	}
	if len(req.Include) == 0 {
		req.Include = []string{"documents", "metadatas", "distances"}
	}
	var out QueryResponse
	if err := c.do(ctx, "POST", "/api/v1/collections/"+url.PathEscape(collectionID)+"/query", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
