package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"lead-chatbot-be/internal/config"
	"lead-chatbot-be/internal/controller"
	"lead-chatbot-be/internal/pkg/logger"
	"lead-chatbot-be/internal/pkg/mailer"
	"lead-chatbot-be/internal/repository/contract"
	"lead-chatbot-be/internal/repository/implementation"
	"lead-chatbot-be/internal/repository/memory"
	"lead-chatbot-be/internal/repository/redisrepo"
	"lead-chatbot-be/internal/repository/unitofwork"
	"lead-chatbot-be/internal/service"
	"lead-chatbot-be/pkg/embedding"
	"lead-chatbot-be/pkg/llm/factory"
	"lead-chatbot-be/pkg/rag"
	"lead-chatbot-be/pkg/rag/responder"
	"lead-chatbot-be/pkg/rag/retriever"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leadCompletedTopic = "lead.completed"

type Container struct {
	ChatController controller.IChatController

	// Background services, run by main.go
	NotifierService service.INotifierService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := initRagLogger()

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.Site.SalesEmail,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Session store: redis when configured, in-process cache otherwise
	var sessionRepo contract.SessionContextRepository
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory sessions", err)
			sessionRepo = memory.NewSessionContextRepository()
		} else {
			sessionRepo = redisrepo.NewSessionContextRepository(rdb)
			log.Printf("[INFO] Using Redis session store")
		}
	} else {
		sessionRepo = memory.NewSessionContextRepository()
		log.Printf("[INFO] Using in-memory session store")
	}

	// 5. RAG pipeline
	docRetriever := retriever.NewRetriever(
		embeddingProvider,
		implementation.NewKnowledgeEmbeddingRepository(db),
		ragLogger,
	)
	answerResponder := responder.NewResponder(llmProvider, cfg.Site.Name, cfg.Site.Domain, ragLogger)
	pipeline := rag.NewPipeline(docRetriever, answerResponder, cfg.Ai.TopK, ragLogger)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, leadCompletedTopic)
	notifierService := service.NewNotifierService(pubSub, leadCompletedTopic, emailService, sysLogger)
	chatService := service.NewChatService(uowFactory, sessionRepo, pipeline, publisherService, sysLogger)

	// 7. Controllers
	chatController := controller.NewChatController(chatService, sysLogger)

	return &Container{
		ChatController:  chatController,
		NotifierService: notifierService,
		Logger:          sysLogger,
	}
}

func initRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
