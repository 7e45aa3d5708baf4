package llm

import (
	"context"

	"claimsql/ports"
)

// MockLLMClient is a canned-response LLM client for testing
type MockLLMClient struct {
	Response string // Set this for testing
	Usage    ports.UsageData
	Error    error // Set this to simulate errors

	Prompts []string // records every prompt received
}

func (m *MockLLMClient) Complete(ctx context.Context, prompt string) (*ports.LLMResponse, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Error != nil {
		return nil, m.Error
	}
	response := m.Response
	if response == "" {
		response = "<generated_query>\nSELECT CLM.* FROM CLM_WGS_GNCCLMP_CMPCT CLM\n</generated_query>"
	}
	usage := m.Usage
	return &ports.LLMResponse{Content: response, Usage: &usage}, nil
}
