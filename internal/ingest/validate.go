package ingest

import (
	"fmt"
	"sort"
	"strings"

	"bible-study-app/internal/domain/studies"
)

type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

var questionTypes = map[string]bool{
	studies.QuestionObservation: true,
	studies.QuestionReflection:  true,
	studies.QuestionApplication: true,
	studies.QuestionPrayer:      true,
}

// Validate checks a parsed tree for structural soundness. Missing required
// fields and unknown question types are errors; numbering gaps, duplicates
// and empty branches are warnings and never block persistence.
func Validate(p ParsedStudy) ValidationResult {
	var errs, warns []string

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, "study: title is required")
	}
	if len(p.Weeks) == 0 {
		warns = append(warns, "study: has no weeks")
	}

	weekNumbers := make([]int, 0, len(p.Weeks))
	for i, w := range p.Weeks {
		at := fmt.Sprintf("weeks[%d]", i)
		if w.WeekNumber <= 0 {
			errs = append(errs, at+": week_number must be positive")
		}
		if strings.TrimSpace(w.Title) == "" {
			errs = append(errs, at+": title is required")
		}
		if len(w.Days) == 0 {
			warns = append(warns, at+": has no days")
		}
		weekNumbers = append(weekNumbers, w.WeekNumber)

		dayNumbers := make([]int, 0, len(w.Days))
		for j, d := range w.Days {
			dat := fmt.Sprintf("%s.days[%d]", at, j)
			if d.DayNumber <= 0 {
				errs = append(errs, dat+": day_number must be positive")
			}
			if strings.TrimSpace(d.Title) == "" {
				errs = append(errs, dat+": title is required")
			}
			if len(d.Questions) == 0 {
				warns = append(warns, dat+": has no questions")
			}
			dayNumbers = append(dayNumbers, d.DayNumber)

			orders := make([]int, 0, len(d.Questions))
			for k, q := range d.Questions {
				qat := fmt.Sprintf("%s.questions[%d]", dat, k)
				if strings.TrimSpace(q.QuestionText) == "" {
					errs = append(errs, qat+": question_text is required")
				}
				if !questionTypes[q.QuestionType] {
					errs = append(errs, fmt.Sprintf("%s: unknown question_type %q", qat, q.QuestionType))
				}
				orders = append(orders, q.Order)
			}
			warns = append(warns, sequenceWarnings(dat+".questions", "order", orders)...)
		}
		warns = append(warns, sequenceWarnings(at+".days", "day_number", dayNumbers)...)
	}
	warns = append(warns, sequenceWarnings("weeks", "week_number", weekNumbers)...)

	return ValidationResult{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// sequenceWarnings flags duplicates and gaps in caller-supplied numbering.
// Numbering is advisory; these never reject a tree.
func sequenceWarnings(at, field string, nums []int) []string {
	if len(nums) < 2 {
		return nil
	}
	sorted := append([]int(nil), nums...)
	sort.Ints(sorted)

	var warns []string
	for i := 1; i < len(sorted); i++ {
		switch {
		case sorted[i] == sorted[i-1]:
			warns = append(warns, fmt.Sprintf("%s: duplicate %s %d", at, field, sorted[i]))
		case sorted[i] > sorted[i-1]+1:
			warns = append(warns, fmt.Sprintf("%s: %s skips from %d to %d", at, field, sorted[i-1], sorted[i]))
		}
	}
	return warns
}
