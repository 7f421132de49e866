package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDocument is one ingested site page the bot can ground answers on.
type KnowledgeDocument struct {
	Id        uuid.UUID
	Url       string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KnowledgeEmbedding is one embedded chunk of a document.
type KnowledgeEmbedding struct {
	Id             uuid.UUID
	Chunk          string
	EmbeddingValue []float32
	DocumentId     uuid.UUID
	ChunkIndex     int
	CreatedAt      time.Time
}
