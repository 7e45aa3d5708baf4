// Package llm provides the OpenAI-compatible completion adapter used as the
// generation collaborator.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"claimsql/ports"
)

// Config holds the completion adapter settings. Temperature 0 and a fixed
// seed maximize determinism for auditability.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Seed        int
	Timeout     time.Duration
}

// OpenAIClient implements ports.LLMClient against any OpenAI-compatible
// chat-completions endpoint.
type OpenAIClient struct {
	config Config
	http   *http.Client
}

// NewOpenAIClient creates the completion adapter.
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Timeout <= 0 {
		config.Timeout = 180 * time.Second
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 4096
	}
	return &OpenAIClient{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Seed        int           `json:"seed,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends one chat completion and returns the raw content plus the
// provider's usage report.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (*ports.LLMResponse, error) {
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Seed:        c.config.Seed,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	log.Printf("[LLMClient] Sending completion request - model=%s, promptLength=%d", c.config.Model, len(prompt))

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	return &ports.LLMResponse{
		Content: parsed.Choices[0].Message.Content,
		Usage: &ports.UsageData{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
			Model:            c.config.Model,
		},
	}, nil
}

// systemPrompt rides along with every request; the full rule text lives in
// the user prompt built by the assembler.
const systemPrompt = "You are an expert SQL generator for an analytical claims warehouse. Generate efficient, optimized, read-only SQL based strictly on the table and column information provided."
