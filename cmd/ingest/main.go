package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"lead-chatbot-be/internal/config"
	"lead-chatbot-be/internal/entity"
	"lead-chatbot-be/internal/repository/specification"
	"lead-chatbot-be/internal/repository/unitofwork"
	"lead-chatbot-be/pkg/database"
	"lead-chatbot-be/pkg/embedding"
	"lead-chatbot-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	chunkSize    = 1000
	chunkOverlap = 100
)

// sitePage is one entry of the ingest file: a JSON array of scraped pages.
type sitePage struct {
	Url     string `json:"url"`
	Content string `json:"content"`
}

func main() {
	filePath := flag.String("file", "knowledge.json", "JSON file with pages to ingest")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Error: Failed to read %s: %v", *filePath, err)
	}

	var pages []sitePage
	if err := json.Unmarshal(raw, &pages); err != nil {
		log.Fatalf("Error: Failed to parse %s: %v", *filePath, err)
	}

	log.Printf("Ingesting %d pages from %s", len(pages), *filePath)

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)

	for _, page := range pages {
		if err := ingestPage(ctx, uowFactory, embeddingProvider, page); err != nil {
			log.Printf("[ERROR] Failed to ingest %s: %v", page.Url, err)
			continue
		}
		log.Printf("[OK] Ingested %s", page.Url)
	}

	log.Println("✅ Ingest complete")
}

func ingestPage(ctx context.Context, uowFactory unitofwork.RepositoryFactory, provider embedding.EmbeddingProvider, page sitePage) error {
	uow := uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByUrl{Url: page.Url})
	if err != nil {
		return err
	}

	// Embed outside the transaction; the API calls are the slow part.
	chunks := utils.SplitText(page.Content, chunkSize, chunkOverlap)
	log.Printf("[INFO] %s split into %d chunks", page.Url, len(chunks))

	newEmbeddings := make([]*entity.KnowledgeEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := provider.Generate(chunk, embedding.TaskTypeRetrievalDocument)
		if err != nil {
			return err
		}
		newEmbeddings = append(newEmbeddings, &entity.KnowledgeEmbedding{
			Id:             uuid.New(),
			Chunk:          chunk,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if doc == nil {
		doc = &entity.KnowledgeDocument{
			Id:        uuid.New(),
			Url:       page.Url,
			Content:   page.Content,
			CreatedAt: time.Now(),
		}
		if err := uow.KnowledgeDocumentRepository().Create(ctx, doc); err != nil {
			return err
		}
	} else {
		doc.Content = page.Content
		doc.UpdatedAt = time.Now()
		if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
			return err
		}
		if err := uow.KnowledgeEmbeddingRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
			return err
		}
	}

	for _, emb := range newEmbeddings {
		emb.DocumentId = doc.Id
		if err := uow.KnowledgeEmbeddingRepository().Create(ctx, emb); err != nil {
			return err
		}
	}

	return uow.Commit()
}
