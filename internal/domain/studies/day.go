package studies

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Day struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	WeekID string `gorm:"type:uuid;not null;index:idx_days_week_number,priority:1" json:"-"`

	DayNumber int     `gorm:"not null;index:idx_days_week_number,priority:2" json:"day_number"`
	Title     string  `gorm:"not null" json:"title"`
	Content   *string `gorm:"type:text" json:"content,omitempty"`
	Scripture *string `json:"scripture,omitempty"`

	Questions []Question `gorm:"foreignKey:DayID;constraint:OnDelete:CASCADE;" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Day) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
