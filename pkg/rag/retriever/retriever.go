package retriever

import (
	"context"
	"fmt"
	"log"

	"lead-chatbot-be/internal/repository/contract"
	"lead-chatbot-be/pkg/embedding"
	"lead-chatbot-be/pkg/store"
)

// DefaultTopK is the number of neighbors fetched per query.
const DefaultTopK = 3

// Retriever embeds a query and fetches the nearest knowledge chunks.
// Failures are returned to the caller; the pipeline decides how to degrade.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	embeddingRepo     contract.KnowledgeEmbeddingRepository
	logger            *log.Logger
}

func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	embeddingRepo contract.KnowledgeEmbeddingRepository,
	logger *log.Logger,
) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		embeddingRepo:     embeddingRepo,
		logger:            logger,
	}
}

// Retrieve returns the topK most similar documents, highest score first.
// If embedding fails the index is never queried.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]store.RetrievedDocument, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	embeddingRes, err := r.embeddingProvider.Generate(query, embedding.TaskTypeRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := r.embeddingRepo.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, topK)
	if err != nil {
		r.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, err
	}

	r.logger.Printf("[DEBUG] Retrieved %d documents for query", len(scored))

	docs := make([]store.RetrievedDocument, 0, len(scored))
	for _, s := range scored {
		docs = append(docs, store.RetrievedDocument{
			URL:     s.Url,
			Content: s.Chunk,
			Score:   float32(s.Similarity),
		})
	}
	return docs, nil
}
