package billing

import (
	"time"

	"bible-study-app/internal/domain/studies"
	"bible-study-app/internal/domain/users"

	"gorm.io/gorm"
)

// Purchase grants a member permanent access to one premium study.
type Purchase struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint `gorm:"not null;index:idx_purchases_user_study,priority:1"`
	User            users.User
	StudyID         string `gorm:"type:uuid;not null;index:idx_purchases_user_study,priority:2"`
	Study           studies.Study
	StripeSessionID string `gorm:"uniqueIndex"`
	AmountUSD       float64
	Status          string
	ReceiptURL      *string
	CreatedAt       time.Time
}

// HasAccess reports whether the user has a paid purchase for the study.
func HasAccess(db *gorm.DB, userID uint, studyID string) (bool, error) {
	var count int64
	err := db.Model(&Purchase{}).
		Where("user_id = ? AND study_id = ? AND status = ?", userID, studyID, "paid").
		Count(&count).Error
	return count > 0, err
}
