package mapper

import (
	"encoding/json"

	"lead-chatbot-be/internal/entity"
	"lead-chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type LeadMapper struct{}

func NewLeadMapper() *LeadMapper {
	return &LeadMapper{}
}

func (m *LeadMapper) ToEntity(l *model.Lead) *entity.Lead {
	if l == nil {
		return nil
	}

	var services []string
	if len(l.Services) > 0 {
		// A malformed JSONB payload leaves services empty rather than failing
		// the whole read.
		_ = json.Unmarshal(l.Services, &services)
	}

	return &entity.Lead{
		Id:        l.Id,
		Email:     l.Email,
		Name:      l.Name,
		Services:  services,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (m *LeadMapper) ToModel(l *entity.Lead) *model.Lead {
	if l == nil {
		return nil
	}

	services := l.Services
	if services == nil {
		services = []string{}
	}
	raw, _ := json.Marshal(services)

	return &model.Lead{
		Id:        l.Id,
		Email:     l.Email,
		Name:      l.Name,
		Services:  datatypes.JSON(raw),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (m *LeadMapper) ToEntities(leads []*model.Lead) []*entity.Lead {
	entities := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		entities = append(entities, m.ToEntity(l))
	}
	return entities
}
