package ingest

import (
	"testing"

	"bible-study-app/internal/domain/studies"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	res := Validate(romansStudy())
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidateRequiresStudyTitle(t *testing.T) {
	p := romansStudy()
	p.Title = "   "
	res := Validate(p)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "study: title is required")
}

func TestValidateRejectsNonPositiveNumbers(t *testing.T) {
	p := romansStudy()
	p.Weeks[0].WeekNumber = 0
	p.Weeks[0].Days[0].DayNumber = -1
	res := Validate(p)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "weeks[0]: week_number must be positive")
	assert.Contains(t, res.Errors, "weeks[0].days[0]: day_number must be positive")
}

func TestValidateRejectsBadQuestions(t *testing.T) {
	p := romansStudy()
	p.Weeks[0].Days[0].Questions[0].QuestionText = ""
	p.Weeks[0].Days[0].Questions = append(p.Weeks[0].Days[0].Questions, ParsedQuestion{
		QuestionText: "A question of no known kind.",
		QuestionType: "trivia",
		Order:        2,
	})
	res := Validate(p)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "weeks[0].days[0].questions[0]: question_text is required")
	assert.Contains(t, res.Errors, `weeks[0].days[0].questions[1]: unknown question_type "trivia"`)
}

func TestValidateWarnsOnEmptyBranches(t *testing.T) {
	p := ParsedStudy{Title: "Skeleton"}
	res := Validate(p)
	assert.True(t, res.Valid)
	assert.Contains(t, res.Warnings, "study: has no weeks")

	p.Weeks = []ParsedWeek{{WeekNumber: 1, Title: "Empty Week"}}
	res = Validate(p)
	assert.True(t, res.Valid)
	assert.Contains(t, res.Warnings, "weeks[0]: has no days")
}

func TestValidateWarnsOnNumberingGapsAndDuplicates(t *testing.T) {
	p := romansStudy()
	p.Weeks = append(p.Weeks, ParsedWeek{
		WeekNumber: 3,
		Title:      "Week Three",
		Days: []ParsedDay{
			{DayNumber: 1, Title: "A", Questions: []ParsedQuestion{{QuestionText: "q", QuestionType: studies.QuestionReflection}}},
			{DayNumber: 1, Title: "B", Questions: []ParsedQuestion{{QuestionText: "q", QuestionType: studies.QuestionReflection}}},
		},
	})
	res := Validate(p)
	assert.True(t, res.Valid, "numbering problems must stay warnings")
	assert.Contains(t, res.Warnings, "weeks: week_number skips from 1 to 3")
	assert.Contains(t, res.Warnings, "weeks[1].days: duplicate day_number 1")
}

func TestCalcStats(t *testing.T) {
	s := CalcStats(twoWeekStudy("Counted"))
	assert.Equal(t, 2, s.TotalWeeks)
	assert.Equal(t, 3, s.TotalDays)
	assert.Equal(t, 4, s.TotalQuestions)
}
