package answers

import (
	"time"

	"bible-study-app/internal/domain/studies"
)

// Answer is one member's answer to one study question. Upserted on the
// (question, user) pair; removed automatically when its question is deleted.
type Answer struct {
	QuestionID string `gorm:"type:uuid;primaryKey" json:"question_id"`
	UserID     uint   `gorm:"primaryKey" json:"-"`

	Question studies.Question `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	AnswerText string `gorm:"type:text;not null" json:"answer_text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
