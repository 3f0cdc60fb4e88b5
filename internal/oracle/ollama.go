package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrUnreachable is returned when the Ollama service cannot be reached.
var ErrUnreachable = errors.New("oracle unreachable")

// Defaults match a stock local Ollama install.
const (
	DefaultHost      = "http://localhost:11434"
	DefaultModel     = "gemma3:12b"
	DefaultBatchSize = 30
	DefaultTimeout   = 120 * time.Second
)

// Ollama is a Client backed by a local or remote Ollama server.
type Ollama struct {
	host      string
	model     string
	batchSize int
	client    *http.Client
}

// NewOllama creates a client for the given server. Zero values fall back to
// the defaults above.
func NewOllama(host, model string, batchSize int, timeout time.Duration) *Ollama {
	if host == "" {
		host = DefaultHost
	}
	if model == "" {
		model = DefaultModel
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Ollama{
		host:      strings.TrimSuffix(host, "/"),
		model:     model,
		batchSize: batchSize,
		client:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Propose sends one chat request per batch, concurrently for files mode,
// and returns the raw message bodies in batch order. The first failing
// batch cancels the rest.
func (o *Ollama) Propose(ctx context.Context, req Request) (Response, error) {
	prompts, err := buildPrompts(req, o.batchSize)
	if err != nil {
		return Response{}, err
	}

	raw := make([]string, len(prompts))
	g, gCtx := errgroup.WithContext(ctx)
	for i, prompt := range prompts {
		g.Go(func() error {
			content, err := o.chat(gCtx, prompt)
			if err != nil {
				return fmt.Errorf("batch %d/%d: %w", i+1, len(prompts), err)
			}
			raw[i] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Response{}, err
	}
	return Response{Raw: raw}, nil
}

// Ping checks that the server answers before a run commits to scanning and
// prompting.
func (o *Ollama) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, o.host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to build ping request: %w", err)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d from %s", ErrUnreachable, resp.StatusCode, o.host)
	}
	return nil
}

// chat performs one non-streaming chat completion and returns the message
// content verbatim.
func (o *Ollama) chat(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Format:   "json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat request failed: HTTP %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	return parsed.Message.Content, nil
}
