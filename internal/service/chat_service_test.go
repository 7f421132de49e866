package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lead-chatbot-be/internal/constant"
	"lead-chatbot-be/internal/entity"
	"lead-chatbot-be/internal/repository/contract"
	"lead-chatbot-be/internal/repository/specification"
	"lead-chatbot-be/internal/repository/unitofwork"
	"lead-chatbot-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeLeadRepo struct {
	leads map[uuid.UUID]*entity.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[uuid.UUID]*entity.Lead)}
}

func (r *fakeLeadRepo) Create(_ context.Context, lead *entity.Lead) error {
	for _, l := range r.leads {
		if l.Email == lead.Email {
			return errors.New("duplicate email")
		}
	}
	clone := *lead
	r.leads[lead.Id] = &clone
	return nil
}

func (r *fakeLeadRepo) Update(_ context.Context, lead *entity.Lead) error {
	clone := *lead
	r.leads[lead.Id] = &clone
	return nil
}

func (r *fakeLeadRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Lead, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if l, ok := r.leads[s.ID]; ok {
				clone := *l
				return &clone, nil
			}
			return nil, nil
		case specification.ByEmail:
			for _, l := range r.leads {
				if l.Email == s.Email {
					clone := *l
					return &clone, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeLeadRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Lead, error) {
	out := make([]*entity.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLeadRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.leads)), nil
}

func (r *fakeLeadRepo) SetName(_ context.Context, id uuid.UUID, name string) error {
	l, ok := r.leads[id]
	if !ok {
		return errors.New("lead not found")
	}
	if l.Name == nil {
		l.Name = &name
	}
	return nil
}

func (r *fakeLeadRepo) AddService(_ context.Context, id uuid.UUID, service string) error {
	l, ok := r.leads[id]
	if !ok {
		return errors.New("lead not found")
	}
	if !l.HasService(service) {
		l.Services = append(l.Services, service)
	}
	return nil
}

type fakeChatMessageRepo struct {
	messages     []*entity.ChatMessage
	err          error
	findAllSpecs []specification.Specification
}

func (r *fakeChatMessageRepo) Create(_ context.Context, msg *entity.ChatMessage) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeChatMessageRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.findAllSpecs = specs
	if r.err != nil {
		return nil, r.err
	}
	return r.messages, nil
}

func (r *fakeChatMessageRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.messages)), nil
}

type fakeUnitOfWork struct {
	leadRepo *fakeLeadRepo
	chatRepo *fakeChatMessageRepo
	begins   int
	commits  int
}

var _ unitofwork.UnitOfWork = &fakeUnitOfWork{}

func (u *fakeUnitOfWork) Begin(_ context.Context) error { u.begins++; return nil }
func (u *fakeUnitOfWork) Commit() error                 { u.commits++; return nil }
func (u *fakeUnitOfWork) Rollback() error               { return nil }

func (u *fakeUnitOfWork) LeadRepository() contract.LeadRepository               { return u.leadRepo }
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository { return u.chatRepo }
func (u *fakeUnitOfWork) KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository {
	return nil
}
func (u *fakeUnitOfWork) KnowledgeEmbeddingRepository() contract.KnowledgeEmbeddingRepository {
	return nil
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeSessionRepo struct {
	sessions map[string]*store.SessionContext
	getErr   error
	saveErr  error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*store.SessionContext)}
}

func (r *fakeSessionRepo) Save(_ context.Context, session *store.SessionContext) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	clone := *session
	r.sessions[session.SessionID] = &clone
	return nil
}

func (r *fakeSessionRepo) Get(_ context.Context, sessionID string) (*store.SessionContext, bool, error) {
	if r.getErr != nil {
		return nil, false, r.getErr
	}
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, false, nil
	}
	clone := *s
	return &clone, true, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, sessionID string) error {
	delete(r.sessions, sessionID)
	return nil
}

type fakePipeline struct {
	answer  string
	queries []string
}

func (p *fakePipeline) Answer(_ context.Context, userQuery string) string {
	p.queries = append(p.queries, userQuery)
	return p.answer
}

type fakePublisher struct {
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type chatFixture struct {
	svc       IChatService
	leadRepo  *fakeLeadRepo
	chatRepo  *fakeChatMessageRepo
	sessions  *fakeSessionRepo
	pipeline  *fakePipeline
	publisher *fakePublisher
}

func newChatFixture() *chatFixture {
	leadRepo := newFakeLeadRepo()
	chatRepo := &fakeChatMessageRepo{}
	uow := &fakeUnitOfWork{leadRepo: leadRepo, chatRepo: chatRepo}
	sessions := newFakeSessionRepo()
	pipeline := &fakePipeline{answer: "We offer plumbing and roofing."}
	publisher := &fakePublisher{}

	svc := NewChatService(&fakeUowFactory{uow: uow}, sessions, pipeline, publisher, nopLogger{})

	return &chatFixture{
		svc:       svc,
		leadRepo:  leadRepo,
		chatRepo:  chatRepo,
		sessions:  sessions,
		pipeline:  pipeline,
		publisher: publisher,
	}
}

// --- tests ---

func TestFullOnboardingDialogue(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	sessionID := uuid.NewString()

	// First contact with nothing to say: ask for email.
	reply, err := f.svc.HandleChat(ctx, sessionID, "")
	require.NoError(t, err)
	assert.Equal(t, constant.PromptAskEmail, reply.Message)
	assert.Empty(t, f.leadRepo.leads)

	// Malformed email: format error, still no record.
	reply, err = f.svc.HandleChat(ctx, sessionID, "not-an-email")
	require.NoError(t, err)
	assert.Equal(t, constant.PromptInvalidEmail, reply.Message)
	assert.Empty(t, f.leadRepo.leads)

	// Valid email: record created, ask for name.
	reply, err = f.svc.HandleChat(ctx, sessionID, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, constant.PromptAskName, reply.Message)
	require.Len(t, f.leadRepo.leads, 1)

	leadID := uuid.MustParse(sessionID)
	lead := f.leadRepo.leads[leadID]
	require.NotNil(t, lead)
	assert.Equal(t, "a@b.com", lead.Email)
	assert.Nil(t, lead.Name)

	// Name: persisted, ask for service.
	reply, err = f.svc.HandleChat(ctx, sessionID, "Ann")
	require.NoError(t, err)
	assert.Equal(t, constant.PromptAskService, reply.Message)
	require.NotNil(t, f.leadRepo.leads[leadID].Name)
	assert.Equal(t, "Ann", *f.leadRepo.leads[leadID].Name)

	// Service: greeting, lead complete, event published.
	reply, err = f.svc.HandleChat(ctx, sessionID, "Plumbing")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(constant.GreetingFormat, "Ann"), reply.Message)
	assert.Equal(t, []string{"Plumbing"}, f.leadRepo.leads[leadID].Services)
	assert.Len(t, f.publisher.payloads, 1)

	// Free chat: query flows through the pipeline.
	reply, err = f.svc.HandleChat(ctx, sessionID, "What do you offer?")
	require.NoError(t, err)
	assert.Empty(t, reply.Message)
	assert.Equal(t, "We offer plumbing and roofing.", reply.Response)
	assert.Equal(t, []string{"What do you offer?"}, f.pipeline.queries)

	// Both sides of the turn land in the transcript.
	require.Len(t, f.chatRepo.messages, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, f.chatRepo.messages[0].Role)
	assert.Equal(t, "What do you offer?", f.chatRepo.messages[0].Chat)
	assert.Equal(t, constant.ChatMessageRoleModel, f.chatRepo.messages[1].Role)
}

func TestInvalidEmailPromptWording(t *testing.T) {
	f := newChatFixture()

	// Chat widgets match on this string, typographic apostrophe included.
	reply, err := f.svc.HandleChat(context.Background(), uuid.NewString(), "not-an-email")
	require.NoError(t, err)
	assert.Equal(t, "That doesn’t look like an email. Please enter a valid email address.", reply.Message)
}

func TestEmailStepWhitespaceOnlyReprompts(t *testing.T) {
	f := newChatFixture()

	reply, err := f.svc.HandleChat(context.Background(), uuid.NewString(), "   ")
	require.NoError(t, err)
	assert.Equal(t, constant.PromptAskEmail, reply.Message)
	assert.Empty(t, f.leadRepo.leads)
}

func TestReturningVisitorReKeysSession(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	name := "Bob"
	existingID := uuid.New()
	f.leadRepo.leads[existingID] = &entity.Lead{
		Id:        existingID,
		Email:     "bob@example.com",
		Name:      &name,
		Services:  []string{"Roofing"},
		CreatedAt: time.Now(),
	}

	sessionID := uuid.NewString()
	reply, err := f.svc.HandleChat(ctx, sessionID, "bob@example.com")
	require.NoError(t, err)

	// No duplicate record; the session now points at the old lead and the
	// dialogue resumes at the service step.
	assert.Equal(t, constant.PromptAskService, reply.Message)
	assert.Len(t, f.leadRepo.leads, 1)

	session := f.sessions.sessions[sessionID]
	require.NotNil(t, session)
	assert.Equal(t, existingID.String(), session.LeadID)
	assert.True(t, session.AwaitingService)

	// Re-adding a known service keeps the set at one occurrence.
	reply, err = f.svc.HandleChat(ctx, sessionID, "Roofing")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(constant.GreetingFormat, "Bob"), reply.Message)
	assert.Equal(t, []string{"Roofing"}, f.leadRepo.leads[existingID].Services)
}

func TestReturningVisitorWithoutNameAsksForName(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	existingID := uuid.New()
	f.leadRepo.leads[existingID] = &entity.Lead{
		Id:        existingID,
		Email:     "carol@example.com",
		CreatedAt: time.Now(),
	}

	sessionID := uuid.NewString()
	reply, err := f.svc.HandleChat(ctx, sessionID, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, constant.PromptAskName, reply.Message)
	assert.Len(t, f.leadRepo.leads, 1)
}

func TestNameStepEmptyReprompts(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	sessionID := uuid.NewString()

	_, err := f.svc.HandleChat(ctx, sessionID, "a@b.com")
	require.NoError(t, err)

	reply, err := f.svc.HandleChat(ctx, sessionID, "")
	require.NoError(t, err)
	assert.Equal(t, constant.PromptAskName, reply.Message)
}

func TestNameIsSetExactlyOnce(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	sessionID := uuid.NewString()

	_, err := f.svc.HandleChat(ctx, sessionID, "a@b.com")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "Ann")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "Plumbing")
	require.NoError(t, err)

	// Once the name is set the machine never re-enters the name step; free
	// chat input goes to the pipeline instead of the record.
	reply, err := f.svc.HandleChat(ctx, sessionID, "Zelda")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Response)

	lead := f.leadRepo.leads[uuid.MustParse(sessionID)]
	assert.Equal(t, "Ann", *lead.Name)
}

func TestFreeChatEmptyQueryIsInvalid(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	sessionID := uuid.NewString()

	_, err := f.svc.HandleChat(ctx, sessionID, "a@b.com")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "Ann")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "Plumbing")
	require.NoError(t, err)

	_, err = f.svc.HandleChat(ctx, sessionID, "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSessionStoreErrorPropagates(t *testing.T) {
	f := newChatFixture()
	f.sessions.getErr = errors.New("redis down")

	_, err := f.svc.HandleChat(context.Background(), uuid.NewString(), "a@b.com")
	assert.Error(t, err)
}

func TestPublishFailureDoesNotBreakGreeting(t *testing.T) {
	f := newChatFixture()
	f.publisher.err = errors.New("broker down")
	ctx := context.Background()
	sessionID := uuid.NewString()

	_, err := f.svc.HandleChat(ctx, sessionID, "a@b.com")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "Ann")
	require.NoError(t, err)

	reply, err := f.svc.HandleChat(ctx, sessionID, "Plumbing")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(constant.GreetingFormat, "Ann"), reply.Message)
}

func TestTranscriptFailureDoesNotBreakFreeChat(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	sessionID := uuid.NewString()

	_, err := f.svc.HandleChat(ctx, sessionID, "a@b.com")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "Ann")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "Plumbing")
	require.NoError(t, err)

	f.chatRepo.err = errors.New("db down")
	reply, err := f.svc.HandleChat(ctx, sessionID, "What do you offer?")
	require.NoError(t, err)
	assert.Equal(t, "We offer plumbing and roofing.", reply.Response)
}

func TestGetTranscriptReturnsTurnsInOrder(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	sessionID := uuid.NewString()

	_, err := f.svc.HandleChat(ctx, sessionID, "a@b.com")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "Ann")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "Plumbing")
	require.NoError(t, err)
	_, err = f.svc.HandleChat(ctx, sessionID, "What do you offer?")
	require.NoError(t, err)

	messages, err := f.svc.GetTranscript(ctx, sessionID)
	require.NoError(t, err)

	// Both sides of the free-chat turn, oldest first; onboarding prompts
	// are never part of the transcript.
	require.Len(t, messages, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, messages[0].Role)
	assert.Equal(t, "What do you offer?", messages[0].Content)
	assert.Equal(t, constant.ChatMessageRoleModel, messages[1].Role)

	// The read is scoped to the session's lead, ordered, and bounded.
	var byLead *specification.ByLeadID
	var orderBy *specification.OrderBy
	var pagination *specification.Pagination
	for _, spec := range f.chatRepo.findAllSpecs {
		switch s := spec.(type) {
		case specification.ByLeadID:
			byLead = &s
		case specification.OrderBy:
			orderBy = &s
		case specification.Pagination:
			pagination = &s
		}
	}
	require.NotNil(t, byLead)
	assert.Equal(t, uuid.MustParse(sessionID), byLead.LeadID)
	require.NotNil(t, orderBy)
	assert.Equal(t, "created_at", orderBy.Field)
	assert.False(t, orderBy.Desc)
	require.NotNil(t, pagination)
	assert.Positive(t, pagination.Limit)
}

func TestGetTranscriptUnknownSessionIsEmpty(t *testing.T) {
	f := newChatFixture()

	messages, err := f.svc.GetTranscript(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDeriveState(t *testing.T) {
	session := store.NewSessionContext(uuid.NewString())

	assert.Equal(t, StateAwaitingEmail, DeriveState(nil, session))

	lead := &entity.Lead{Id: uuid.New(), Email: "a@b.com"}
	assert.Equal(t, StateAwaitingName, DeriveState(lead, session))

	name := "Ann"
	lead.Name = &name
	session.AwaitingService = true
	assert.Equal(t, StateAwaitingService, DeriveState(lead, session))

	session.AwaitingService = false
	assert.Equal(t, StateFreeChat, DeriveState(lead, session))
}
