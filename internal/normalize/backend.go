// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes author affiliations with an
// OpenAI-compatible chat-completions API.
package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fmlinfra/jmlr-pipeline/internal/httputil"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

const (
	defaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	defaultModel   = "qwen-plus"
)

// Backend answers a single chat turn. Implementations wrap an LLM API;
// tests substitute a canned backend.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatBackend calls an OpenAI-compatible chat-completions endpoint.
type ChatBackend struct {
	Config types.AIConfig
	Client *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user exchange and returns the assistant text.
func (b *ChatBackend) Complete(ctx context.Context, system, user string) (string, error) {
	baseURL := b.Config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := b.Config.Model
	if model == "" {
		model = defaultModel
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimSuffix(baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.Config.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, b.Config.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling chat API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}
	return cResp.Choices[0].Message.Content, nil
}
