package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead-chatbot-be/internal/constant"
	"lead-chatbot-be/internal/dto"
	"lead-chatbot-be/internal/entity"
	"lead-chatbot-be/internal/pkg/logger"
	"lead-chatbot-be/internal/repository/contract"
	"lead-chatbot-be/internal/repository/specification"
	"lead-chatbot-be/internal/repository/unitofwork"
	"lead-chatbot-be/pkg/store"
	"lead-chatbot-be/pkg/utils"

	"github.com/google/uuid"
)

// ErrInvalidRequest marks a free-chat turn with nothing to answer; the
// controller maps it to a 400.
var ErrInvalidRequest = errors.New("invalid request")

// OnboardingState is computed from the lead record plus the transient
// session flag on every turn; it is never stored.
type OnboardingState int

const (
	StateAwaitingEmail OnboardingState = iota
	StateAwaitingName
	StateAwaitingService
	StateFreeChat
)

// DeriveState is the single source of truth for where a conversation is.
func DeriveState(lead *entity.Lead, session *store.SessionContext) OnboardingState {
	switch {
	case lead == nil:
		return StateAwaitingEmail
	case !lead.HasName():
		return StateAwaitingName
	case session.AwaitingService:
		return StateAwaitingService
	default:
		return StateFreeChat
	}
}

// ChatAnswerer produces a grounded answer for one free-chat query. Failures
// degrade to conversational output inside, never to an error.
type ChatAnswerer interface {
	Answer(ctx context.Context, userQuery string) string
}

type IChatService interface {
	HandleChat(ctx context.Context, sessionID string, query string) (*dto.ChatReply, error)
	GetTranscript(ctx context.Context, sessionID string) ([]dto.TranscriptMessage, error)
}

// transcriptLimit caps how much history one widget reload pulls back.
const transcriptLimit = 200

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	sessionRepo      contract.SessionContextRepository
	pipeline         ChatAnswerer
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo contract.SessionContextRepository,
	pipeline ChatAnswerer,
	publisherService IPublisherService,
	appLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		sessionRepo:      sessionRepo,
		pipeline:         pipeline,
		publisherService: publisherService,
		logger:           appLogger,
	}
}

// HandleChat runs one conversational turn: load the session and its lead,
// derive the onboarding state, and dispatch. Store errors propagate; every
// other failure stays conversational.
func (s *chatService) HandleChat(ctx context.Context, sessionID string, query string) (*dto.ChatReply, error) {
	query = strings.TrimSpace(query)

	session, found, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		session = store.NewSessionContext(sessionID)
		if err := s.sessionRepo.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	lead, err := s.findLead(ctx, uow, session.LeadID)
	if err != nil {
		return nil, err
	}

	switch DeriveState(lead, session) {
	case StateAwaitingEmail:
		return s.handleEmailStep(ctx, uow, session, query)
	case StateAwaitingName:
		return s.handleNameStep(ctx, uow, session, lead, query)
	case StateAwaitingService:
		return s.handleServiceStep(ctx, uow, session, lead, query)
	default:
		return s.handleFreeChat(ctx, uow, lead, query)
	}
}

// GetTranscript returns the session's persisted free-chat turns, oldest
// first, so a reloaded widget can restore the conversation.
func (s *chatService) GetTranscript(ctx context.Context, sessionID string) ([]dto.TranscriptMessage, error) {
	messages := []dto.TranscriptMessage{}

	session, found, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return messages, nil
	}

	leadID, err := uuid.Parse(session.LeadID)
	if err != nil {
		return messages, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByLeadID{LeadID: leadID},
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: transcriptLimit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	for _, msg := range stored {
		messages = append(messages, dto.TranscriptMessage{
			Role:    msg.Role,
			Content: msg.Chat,
		})
	}
	return messages, nil
}

func (s *chatService) findLead(ctx context.Context, uow unitofwork.UnitOfWork, leadID string) (*entity.Lead, error) {
	id, err := uuid.Parse(leadID)
	if err != nil {
		// Session ids are minted as uuids; anything else has no record.
		return nil, nil
	}
	return uow.LeadRepository().FindOne(ctx, specification.ByID{ID: id})
}

func (s *chatService) handleEmailStep(ctx context.Context, uow unitofwork.UnitOfWork, session *store.SessionContext, query string) (*dto.ChatReply, error) {
	if query == "" {
		return dto.OnboardingReply(constant.PromptAskEmail), nil
	}
	if !utils.IsValidEmail(query) {
		return dto.OnboardingReply(constant.PromptInvalidEmail), nil
	}

	existing, err := uow.LeadRepository().FindOne(ctx, specification.ByEmail{Email: query})
	if err != nil {
		return nil, err
	}

	if existing != nil {
		// Returning visitor: bind this session to the old record instead of
		// creating a duplicate.
		session.LeadID = existing.Id.String()
		session.AwaitingService = true
		if err := s.sessionRepo.Save(ctx, session); err != nil {
			return nil, err
		}
		s.logger.Info("chatbot", "Session re-keyed to existing lead", map[string]interface{}{
			"session_id": session.SessionID,
			"lead_id":    session.LeadID,
		})
		return dto.OnboardingReply(s.promptFor(DeriveState(existing, session))), nil
	}

	leadID, err := uuid.Parse(session.SessionID)
	if err != nil {
		return nil, err
	}

	lead := entity.Lead{
		Id:        leadID,
		Email:     query,
		CreatedAt: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.LeadRepository().Create(ctx, &lead); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return dto.OnboardingReply(constant.PromptAskName), nil
}

func (s *chatService) handleNameStep(ctx context.Context, uow unitofwork.UnitOfWork, session *store.SessionContext, lead *entity.Lead, query string) (*dto.ChatReply, error) {
	if query == "" {
		return dto.OnboardingReply(constant.PromptAskName), nil
	}

	if err := uow.LeadRepository().SetName(ctx, lead.Id, query); err != nil {
		return nil, err
	}

	session.AwaitingService = true
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return dto.OnboardingReply(constant.PromptAskService), nil
}

func (s *chatService) handleServiceStep(ctx context.Context, uow unitofwork.UnitOfWork, session *store.SessionContext, lead *entity.Lead, query string) (*dto.ChatReply, error) {
	if query == "" {
		return dto.OnboardingReply(constant.PromptAskService), nil
	}

	if err := uow.LeadRepository().AddService(ctx, lead.Id, query); err != nil {
		return nil, err
	}

	session.AwaitingService = false
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishLeadCompleted(ctx, lead, query)

	return dto.OnboardingReply(fmt.Sprintf(constant.GreetingFormat, *lead.Name)), nil
}

func (s *chatService) handleFreeChat(ctx context.Context, uow unitofwork.UnitOfWork, lead *entity.Lead, query string) (*dto.ChatReply, error) {
	if query == "" {
		return nil, ErrInvalidRequest
	}

	s.recordMessage(ctx, uow, lead.Id, constant.ChatMessageRoleUser, query)

	answer := s.pipeline.Answer(ctx, query)

	s.recordMessage(ctx, uow, lead.Id, constant.ChatMessageRoleModel, answer)

	return dto.AnswerReply(answer), nil
}

// recordMessage appends to the lead's transcript. Transcript failures must
// not break the turn, so they are only logged.
func (s *chatService) recordMessage(ctx context.Context, uow unitofwork.UnitOfWork, leadID uuid.UUID, role, chat string) {
	msg := entity.ChatMessage{
		Id:        uuid.New(),
		Chat:      chat,
		Role:      role,
		LeadId:    leadID,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &msg); err != nil {
		s.logger.Warn("chatbot", "Failed to persist chat message", map[string]interface{}{
			"lead_id": leadID.String(),
			"role":    role,
			"error":   err.Error(),
		})
	}
}

// publishLeadCompleted emits the onboarding-done event. Best effort: the
// greeting goes out even when the broker does not.
func (s *chatService) publishLeadCompleted(ctx context.Context, lead *entity.Lead, service string) {
	event := dto.LeadCompletedEvent{
		LeadID:  lead.Id.String(),
		Email:   lead.Email,
		Name:    *lead.Name,
		Service: service,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("chatbot", "Failed to marshal lead completed event", map[string]interface{}{
			"lead_id": event.LeadID,
			"error":   err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("chatbot", "Failed to publish lead completed event", map[string]interface{}{
			"lead_id": event.LeadID,
			"error":   err.Error(),
		})
	}
}

func (s *chatService) promptFor(state OnboardingState) string {
	switch state {
	case StateAwaitingEmail:
		return constant.PromptAskEmail
	case StateAwaitingName:
		return constant.PromptAskName
	case StateAwaitingService:
		return constant.PromptAskService
	default:
		return ""
	}
}
