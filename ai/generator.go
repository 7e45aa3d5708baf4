package ai

import (
	"context"
	"log"
	"regexp"
	"strings"

	"claimsql/internal/errors"
	"claimsql/models"
	"claimsql/ports"
)

// UnparseableMessage is returned when the model response carries neither a
// query nor a refusal wrapper.
const UnparseableMessage = "Something went wrong. Please try again."

// QueryGenerator invokes the LLM collaborator and extracts either a SQL query
// or a refusal message from its response.
type QueryGenerator struct {
	client ports.LLMClient
}

// NewQueryGenerator creates a generator over the given LLM client.
func NewQueryGenerator(client ports.LLMClient) *QueryGenerator {
	return &QueryGenerator{client: client}
}

// Generate sends the prompt and classifies the response. The SQL-block check
// runs before the refusal check because a response may contain both
// explanatory text and a query. Collaborator failures surface as
// GENERATION_ERROR; retrying is the caller's decision.
func (g *QueryGenerator) Generate(ctx context.Context, prompt string) (models.GeneratedQuery, error) {
	log.Printf("[QueryGenerator] Requesting completion - promptLength=%d", len(prompt))

	resp, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return models.GeneratedQuery{}, errors.WithCode(errors.CodeGenerationError, errors.Wrap(err, "LLM completion failed"))
	}

	result := Extract(resp.Content)
	if resp.Usage != nil {
		result.InputTokens = resp.Usage.PromptTokens
		result.OutputTokens = resp.Usage.CompletionTokens
	}

	log.Printf("[QueryGenerator] Extracted kind=%s, inputTokens=%d, outputTokens=%d",
		result.Kind, result.InputTokens, result.OutputTokens)
	return result, nil
}

var (
	sqlPatterns = []*regexp.Regexp{
		regexp.MustCompile("(?s)```sql\n(.*?)```"),
		regexp.MustCompile("(?s)```sql\n(.*?)</generated_query>"),
		regexp.MustCompile("(?s)```(.*?)```"),
		regexp.MustCompile("(?s)```(.*)</generated_query>"),
		regexp.MustCompile("(?s)<generated_query>(.*?)</generated_query>"),
	}
	responsePattern = regexp.MustCompile("(?s)<response>(.*?)</response>")
	markerStripper  = regexp.MustCompile("<generated_query>|</generated_query>|```sql|```")
)

// Extract classifies a raw model response into SQL, refusal or unparseable.
func Extract(raw string) models.GeneratedQuery {
	if strings.Contains(raw, "```sql") || strings.Contains(raw, "<generated_query>") {
		if sql := extractSQL(raw); sql != "" {
			return models.GeneratedQuery{Kind: models.QueryKindSQL, Text: sql}
		}
	}

	if strings.Contains(raw, "<response>") {
		if msg := extractResponse(raw); msg != "" {
			return models.GeneratedQuery{Kind: models.QueryKindRefusal, Text: msg}
		}
	}

	return models.GeneratedQuery{Kind: models.QueryKindUnparseable, Text: UnparseableMessage}
}

func extractSQL(raw string) string {
	for _, pattern := range sqlPatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return strings.TrimSpace(markerStripper.ReplaceAllString(m[1], ""))
		}
	}
	// No pattern matched even though a wrapper marker is present; strip the
	// markers from the whole response.
	return strings.TrimSpace(markerStripper.ReplaceAllString(raw, ""))
}

func extractResponse(raw string) string {
	if m := responsePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
