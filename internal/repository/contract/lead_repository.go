package contract

import (
	"context"

	"lead-chatbot-be/internal/entity"
	"lead-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	Update(ctx context.Context, lead *entity.Lead) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lead, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lead, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SetName persists the lead's name. The name step runs at most once per
	// lead, so this never overwrites an existing value.
	SetName(ctx context.Context, id uuid.UUID, name string) error

	// AddService appends a service to the lead's set if not already present.
	// Adding a duplicate is a no-op.
	AddService(ctx context.Context, id uuid.UUID, service string) error
}
