package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lead-chatbot-be/pkg/store"
)

const (
	// NoContextSentinel stands in for the context block when retrieval
	// produced nothing; the model is still invoked.
	NoContextSentinel = "No relevant information found."

	// FallbackResponse is the only failure surface free chat exposes.
	FallbackResponse = "Error generating response."
)

// DocumentRetriever fetches the topK documents most relevant to a query.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]store.RetrievedDocument, error)
}

// AnswerGenerator produces a grounded answer from a query and context block.
type AnswerGenerator interface {
	Respond(ctx context.Context, userQuery string, contextBlock string) (string, error)
}

// Pipeline chains retrieval and generation. All failures degrade to
// conversational output here; callers always get a usable string.
type Pipeline struct {
	retriever DocumentRetriever
	responder AnswerGenerator
	topK      int
	logger    *log.Logger
}

func NewPipeline(retriever DocumentRetriever, responder AnswerGenerator, topK int, logger *log.Logger) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		responder: responder,
		topK:      topK,
		logger:    logger,
	}
}

// Answer runs retrieve then respond for one free-chat query.
func (p *Pipeline) Answer(ctx context.Context, userQuery string) string {
	docs, err := p.retriever.Retrieve(ctx, userQuery, p.topK)
	if err != nil {
		// Degraded mode: answer without grounding rather than failing the turn.
		p.logger.Printf("[WARN] Retrieval failed, answering without context: %v", err)
		docs = nil
	}

	contextBlock := BuildContext(docs)

	answer, err := p.responder.Respond(ctx, userQuery, contextBlock)
	if err != nil {
		return FallbackResponse
	}
	return answer
}

// BuildContext joins retrieved documents into the prompt's context block,
// or returns the sentinel when there is nothing to ground on.
func BuildContext(docs []store.RetrievedDocument) string {
	if len(docs) == 0 {
		return NoContextSentinel
	}

	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, fmt.Sprintf("Source: %s\nContent: %s", doc.URL, doc.Content))
	}
	return strings.Join(blocks, "\n\n")
}
