package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByLeadID struct {
	LeadID uuid.UUID
}

func (s ByLeadID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lead_id = ?", s.LeadID)
}

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

type ByUrl struct {
	Url string
}

func (s ByUrl) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("url = ?", s.Url)
}
