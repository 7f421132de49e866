package unitofwork

import (
	"context"

	"lead-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	LeadRepository() contract.LeadRepository
	ChatMessageRepository() contract.ChatMessageRepository
	KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository
	KnowledgeEmbeddingRepository() contract.KnowledgeEmbeddingRepository
}
