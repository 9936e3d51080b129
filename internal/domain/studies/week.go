package studies

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Week struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	StudyID string `gorm:"type:uuid;not null;index:idx_weeks_study_number,priority:1" json:"-"`

	// WeekNumber orders weeks within a study. Duplicates are caller input and
	// are preserved as-is.
	WeekNumber  int    `gorm:"not null;index:idx_weeks_study_number,priority:2" json:"week_number"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`

	Days []Day `gorm:"foreignKey:WeekID;constraint:OnDelete:CASCADE;" json:"days,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Week) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
