// Package responder answers free-form chat messages through an OpenAI-compatible
// chat completions endpoint.
package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"restaurant/internal/core/domain/model/chat"
)

const (
	DefaultModel   = "gpt-3.5-turbo"
	DefaultTimeout = 15 * time.Second

	systemPrompt = "Você é um assistente de restaurante prestativo e amigável. " +
		"Ajude os clientes com pedidos, cardápio e informações sobre o restaurante. " +
		"Mantenha as respostas curtas e diretas."

	maxErrorBody = 512
)

var ErrEmptyCompletion = errors.New("completion has no choices")

// Config points the client at a chat completions endpoint, e.g.
// https://api.openai.com/v1/chat/completions.
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

// Respond sends the system prompt, the history and text, and returns the first choice.
func (c *Client) Respond(ctx context.Context, history []chat.Message, text string) (string, error) {
	messages := make([]completionMessage, 0, len(history)+2)
	messages = append(messages, completionMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		role := "user"
		if m.Author == chat.Bot {
			role = "assistant"
		}
		messages = append(messages, completionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, completionMessage{Role: "user", Content: text})

	body, err := json.Marshal(completionRequest{Model: c.cfg.Model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("chat completion: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var completion completionResponse
	if err = json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// Disabled is used when no endpoint is configured. It always fails, so the router
// falls back to its static reply.
type Disabled struct{}

var ErrDisabled = errors.New("responder is not configured")

func (Disabled) Respond(context.Context, []chat.Message, string) (string, error) {
	return "", ErrDisabled
}
