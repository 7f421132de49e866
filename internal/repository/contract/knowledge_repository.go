package contract

import (
	"context"

	"lead-chatbot-be/internal/entity"
	"lead-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KnowledgeDocumentRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDocument) error
	Update(ctx context.Context, doc *entity.KnowledgeDocument) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

// ScoredChunk is one nearest-neighbor hit joined with its source document.
type ScoredChunk struct {
	Chunk      string
	Url        string
	Similarity float64
}

type KnowledgeEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.KnowledgeEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilarWithScore returns the top-K chunks by cosine similarity
	// to the query vector, highest first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredChunk, error)
}
