package responder

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lead-chatbot-be/pkg/llm"
)

// Responder turns a user query plus retrieved context into a grounded answer
// constrained to the configured site's scope.
type Responder struct {
	llmProvider llm.LLMProvider
	siteName    string
	siteDomain  string
	logger      *log.Logger
}

func NewResponder(llmProvider llm.LLMProvider, siteName, siteDomain string, logger *log.Logger) *Responder {
	return &Responder{
		llmProvider: llmProvider,
		siteName:    siteName,
		siteDomain:  siteDomain,
		logger:      logger,
	}
}

// Respond makes a single generation call and returns the trimmed text.
// The caller substitutes the fallback string on error.
func (r *Responder) Respond(ctx context.Context, userQuery string, contextBlock string) (string, error) {
	prompt := r.buildPrompt(userQuery, contextBlock)

	text, err := r.llmProvider.Generate(ctx, prompt)
	if err != nil {
		r.logger.Printf("[ERROR] LLM generation failed: %v", err)
		return "", err
	}

	return strings.TrimSpace(text), nil
}

func (r *Responder) buildPrompt(userQuery string, contextBlock string) string {
	blocks := []string{
		fmt.Sprintf("User query: %s", userQuery),
		fmt.Sprintf("Context:\n%s", contextBlock),
		fmt.Sprintf("You are the chat support of website %s. Answer precisely and on-topic.", r.siteName),
		fmt.Sprintf("If outside scope, say you can only answer based on %s.", r.siteDomain),
	}
	return strings.Join(blocks, "\n\n")
}
