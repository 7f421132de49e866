package mapper

import (
	"lead-chatbot-be/internal/entity"
	"lead-chatbot-be/internal/model"
)

type ChatMessageMapper struct{}

func NewChatMessageMapper() *ChatMessageMapper {
	return &ChatMessageMapper{}
}

func (m *ChatMessageMapper) ToEntity(c *model.ChatMessage) *entity.ChatMessage {
	if c == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:        c.Id,
		Chat:      c.Chat,
		Role:      c.Role,
		LeadId:    c.LeadId,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToModel(c *entity.ChatMessage) *model.ChatMessage {
	if c == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:        c.Id,
		Chat:      c.Chat,
		Role:      c.Role,
		LeadId:    c.LeadId,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, 0, len(msgs))
	for _, c := range msgs {
		entities = append(entities, m.ToEntity(c))
	}
	return entities
}
