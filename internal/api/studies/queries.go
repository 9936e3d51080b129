package studies

import (
	"bible-study-app/internal/domain/studies"

	"gorm.io/gorm"
)

func publishedStudiesQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&studies.Study{}).
		Where("is_published = ?", true)
}
