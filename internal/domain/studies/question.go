package studies

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionObservation = "observation"
	QuestionReflection  = "reflection"
	QuestionApplication = "application"
	QuestionPrayer      = "prayer"
)

type Question struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	DayID string `gorm:"type:uuid;not null;index:idx_questions_day_order,priority:1" json:"-"`

	QuestionText string `gorm:"type:text;not null" json:"question_text"`
	QuestionType string `gorm:"type:text;not null;default:'reflection'" json:"question_type"`

	// Order defines display sequence within a day. "order" is a reserved word,
	// hence the column name.
	Order int `gorm:"column:display_order;not null;default:0;index:idx_questions_day_order,priority:2" json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
