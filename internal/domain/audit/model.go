package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of a successful content mutation.
// Rows are never updated or deleted by the application.
type AuditLog struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	ActorID    uint   `gorm:"not null;index" json:"actor_id"`
	Action     string `gorm:"type:text;not null" json:"action"`
	EntityType string `gorm:"type:text;not null" json:"entity_type"`
	EntityID   string `gorm:"type:uuid;not null;index" json:"entity_id"`

	Details datatypes.JSON `json:"details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
