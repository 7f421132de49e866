package controller

import (
	"errors"

	"lead-chatbot-be/internal/dto"
	"lead-chatbot-be/internal/pkg/logger"
	"lead-chatbot-be/internal/pkg/serverutils"
	"lead-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	logger      logger.ILogger
}

func NewChatController(chatService service.IChatService, appLogger logger.ILogger) IChatController {
	return &chatController{
		chatService: chatService,
		logger:      appLogger,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Get("/chat/history", c.History)
}

// History restores the session's free-chat transcript for a reloaded widget.
func (c *chatController) History(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	messages, err := c.chatService.GetTranscript(ctx.Context(), sessionID)
	if err != nil {
		c.logger.Error("chat-controller", "Transcript read failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ChatErrorResponse{Error: "Internal server error"})
	}

	return ctx.JSON(dto.ChatHistoryResponse{Messages: messages})
}

// Chat handles one conversational turn. An unparseable or invalid body is
// treated as an empty query so onboarding can re-prompt instead of erroring.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		req.Query = ""
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ChatErrorResponse{Error: "Invalid request"})
	}

	sessionID := ctx.Locals("session_id").(string)

	reply, err := c.chatService.HandleChat(ctx.Context(), sessionID, req.Query)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return ctx.Status(fiber.StatusBadRequest).JSON(dto.ChatErrorResponse{Error: "Invalid request"})
		}
		c.logger.Error("chat-controller", "Chat turn failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ChatErrorResponse{Error: "Internal server error"})
	}

	if reply.Message != "" {
		return ctx.JSON(dto.ChatMessageResponse{Message: reply.Message})
	}
	return ctx.JSON(dto.ChatAnswerResponse{Response: reply.Response})
}
