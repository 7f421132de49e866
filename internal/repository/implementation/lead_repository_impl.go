package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"lead-chatbot-be/internal/entity"
	"lead-chatbot-be/internal/mapper"
	"lead-chatbot-be/internal/model"
	"lead-chatbot-be/internal/repository/contract"
	"lead-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LeadMapper
}

func NewLeadRepository(db *gorm.DB) contract.LeadRepository {
	return &LeadRepositoryImpl{
		db:     db,
		mapper: mapper.NewLeadMapper(),
	}
}

func (r *LeadRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LeadRepositoryImpl) Create(ctx context.Context, lead *entity.Lead) error {
	modelLead := r.mapper.ToModel(lead)
	if err := r.db.WithContext(ctx).Create(modelLead).Error; err != nil {
		return err
	}
	*lead = *r.mapper.ToEntity(modelLead)
	return nil
}

func (r *LeadRepositoryImpl) Update(ctx context.Context, lead *entity.Lead) error {
	modelLead := r.mapper.ToModel(lead)
	if err := r.db.WithContext(ctx).Save(modelLead).Error; err != nil {
		return err
	}
	*lead = *r.mapper.ToEntity(modelLead)
	return nil
}

func (r *LeadRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lead, error) {
	var modelLead model.Lead
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelLead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelLead), nil
}

func (r *LeadRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lead, error) {
	var modelLeads []*model.Lead
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelLeads).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelLeads), nil
}

func (r *LeadRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Lead{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SetName only fills an empty name; the onboarding flow never reaches the
// name step twice for the same lead, this guards the invariant at the store.
func (r *LeadRepositoryImpl) SetName(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Model(&model.Lead{}).
		Where("id = ? AND name IS NULL", id).
		Update("name", name).Error
}

// AddService appends to the JSONB services array unless the value is already
// contained. Set semantics in a single statement, safe under concurrency.
func (r *LeadRepositoryImpl) AddService(ctx context.Context, id uuid.UUID, service string) error {
	element, err := json.Marshal([]string{service})
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Exec(
		`UPDATE leads
		 SET services = CASE WHEN services @> ?::jsonb THEN services ELSE services || ?::jsonb END,
		     updated_at = NOW()
		 WHERE id = ?`,
		string(element), string(element), id,
	).Error
}
