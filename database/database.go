package database

import (
	"fmt"
	"log"
	"os"

	"bible-study-app/internal/domain/answers"
	"bible-study-app/internal/domain/audit"
	"bible-study-app/internal/domain/billing"
	"bible-study-app/internal/domain/studies"
	"bible-study-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey so the ingest engine can classify conflicts.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		// core
		&users.User{},

		// study content tree
		&studies.Study{},
		&studies.Week{},
		&studies.Day{},
		&studies.Question{},
		&answers.Answer{},

		// traceability
		&audit.AuditLog{},

		// premium purchases
		&billing.Purchase{},
	); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	fmt.Println("Connected and migrated successfully")
}
