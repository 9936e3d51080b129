package ingest

import (
	"fmt"
	"strings"
	"testing"

	"bible-study-app/internal/domain/answers"
	"bible-study-app/internal/domain/audit"
	"bible-study-app/internal/domain/studies"
	"bible-study-app/internal/domain/users"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory SQLite database with foreign keys
// enforced, so cascade deletes behave like the production store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&users.User{},
		&studies.Study{},
		&studies.Week{},
		&studies.Day{},
		&studies.Question{},
		&answers.Answer{},
		&audit.AuditLog{},
	))
	return db
}

func strPtr(s string) *string { return &s }

// romansStudy is a minimal one-week tree used across tests.
func romansStudy() ParsedStudy {
	return ParsedStudy{
		Title:       "Romans: Gospel Foundations",
		Description: "An eight-session walk through Romans.",
		Author:      "Pastor Kim",
		Weeks: []ParsedWeek{
			{
				WeekNumber: 1,
				Title:      "The Gospel Revealed",
				Days: []ParsedDay{
					{
						DayNumber: 1,
						Title:     "Not Ashamed",
						Content:   strPtr("Paul introduces the theme of the letter."),
						Scripture: strPtr("Romans 1:1-17"),
						Questions: []ParsedQuestion{
							{
								QuestionText: "What does Paul say the gospel is the power of God for?",
								QuestionType: studies.QuestionObservation,
								Order:        1,
							},
						},
					},
				},
			},
		},
	}
}

// twoWeekStudy spans two weeks so tests can fail one of them mid-run.
func twoWeekStudy(title string) ParsedStudy {
	return ParsedStudy{
		Title:  title,
		Author: "Pastor Kim",
		Weeks: []ParsedWeek{
			{
				WeekNumber: 1,
				Title:      "Week One",
				Days: []ParsedDay{
					{
						DayNumber: 1,
						Title:     "Day One",
						Questions: []ParsedQuestion{
							{QuestionText: "What stands out?", QuestionType: studies.QuestionObservation, Order: 1},
							{QuestionText: "How will you respond?", QuestionType: studies.QuestionApplication, Order: 2},
						},
					},
					{
						DayNumber: 2,
						Title:     "Day Two",
						Questions: []ParsedQuestion{
							{QuestionText: "What does this reveal about God?", QuestionType: studies.QuestionReflection, Order: 1},
						},
					},
				},
			},
			{
				WeekNumber: 2,
				Title:      "Week Two",
				Days: []ParsedDay{
					{
						DayNumber: 1,
						Title:     "Day One",
						Questions: []ParsedQuestion{
							{QuestionText: "Write a prayer in response.", QuestionType: studies.QuestionPrayer, Order: 1},
						},
					},
				},
			},
		},
	}
}
