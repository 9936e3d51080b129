package studies

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Study is the top-level content unit: a multi-week curriculum produced by
// the document ingestion pipeline. Deleting a study cascades through weeks,
// days, questions and answers.
type Study struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Title       string `gorm:"not null;uniqueIndex:idx_studies_title" json:"title"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`

	IsPublished bool    `gorm:"not null;default:false" json:"is_published"`
	IsPremium   bool    `gorm:"not null;default:false" json:"is_premium"`
	Price       float64 `gorm:"not null;default:0" json:"price"`

	Weeks []Week `gorm:"foreignKey:StudyID;constraint:OnDelete:CASCADE;" json:"weeks,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Study) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
