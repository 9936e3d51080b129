package ingest

import (
	"context"
	"log"

	"bible-study-app/internal/domain/studies"
)

type CreateResult struct {
	Study    *studies.Study
	Stats    StudyStats
	Warnings []string
}

type auditDetails struct {
	Stats    StudyStats `json:"stats"`
	Warnings []string   `json:"warnings,omitempty"`
}

// Create persists a brand-new study tree.
//
// The study row is inserted first, outside any transaction, so constraint
// violations fail before any real work. Each week then gets its own bounded
// transaction: week row, batched day rows, a re-read of the day rows to
// recover generated ids keyed by day number, then all of the week's
// questions in one batch. If any week fails, remaining weeks are skipped and
// the study row is deleted; the cascade wipes every already-committed week.
func (s *Service) Create(ctx context.Context, parsed ParsedStudy, opts CreateOptions, actorID uint) (*CreateResult, error) {
	res := Validate(parsed)
	if !res.Valid {
		return nil, &ValidationError{Errors: res.Errors, Warnings: res.Warnings}
	}
	stats := CalcStats(parsed)

	study := studies.Study{
		Title:       parsed.Title,
		Description: parsed.Description,
		Author:      parsed.Author,
		IsPublished: opts.IsPublished,
		IsPremium:   opts.IsPremium,
		Price:       opts.Price,
	}
	if err := s.db.WithContext(ctx).Create(&study).Error; err != nil {
		return nil, classify("create study", err)
	}

	for _, w := range parsed.Weeks {
		if err := s.createWeek(ctx, study.ID, w); err != nil {
			outcome := s.compensate(study.ID)
			return nil, &CreateError{
				WeekNumber:   w.WeekNumber,
				Cause:        err,
				Compensation: outcome,
			}
		}
	}

	log.Printf("study %s imported: %d weeks, %d days, %d questions",
		study.ID, stats.TotalWeeks, stats.TotalDays, stats.TotalQuestions)
	s.recordAudit(actorID, "create", "study", study.ID, auditDetails{Stats: stats, Warnings: res.Warnings})

	// Every week is committed at this point; a failed read back must not
	// masquerade as a failed ingestion.
	full, err := s.Load(ctx, study.ID)
	if err != nil {
		return nil, &ReloadError{StudyID: study.ID, Cause: err}
	}

	return &CreateResult{Study: full, Stats: stats, Warnings: res.Warnings}, nil
}

func (s *Service) createWeek(ctx context.Context, studyID string, w ParsedWeek) error {
	tx, cancel, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	week := studies.Week{
		StudyID:     studyID,
		WeekNumber:  w.WeekNumber,
		Title:       w.Title,
		Description: w.Description,
	}
	if err := tx.Create(&week).Error; err != nil {
		return classify("create week", err)
	}

	if len(w.Days) > 0 {
		days := make([]studies.Day, 0, len(w.Days))
		for _, d := range w.Days {
			days = append(days, studies.Day{
				WeekID:    week.ID,
				DayNumber: d.DayNumber,
				Title:     d.Title,
				Content:   d.Content,
				Scripture: d.Scripture,
			})
		}
		if err := tx.Create(&days).Error; err != nil {
			return classify("create days", err)
		}

		// Re-read the inserted day rows so question rows reference ids the
		// store actually holds, keyed by day number.
		var inserted []studies.Day
		if err := tx.Where("week_id = ?", week.ID).Find(&inserted).Error; err != nil {
			return classify("read back days", err)
		}
		dayIDByNumber := make(map[int]string, len(inserted))
		for _, d := range inserted {
			dayIDByNumber[d.DayNumber] = d.ID
		}

		var questions []studies.Question
		for _, d := range w.Days {
			dayID := dayIDByNumber[d.DayNumber]
			for _, q := range d.Questions {
				questions = append(questions, studies.Question{
					DayID:        dayID,
					QuestionText: q.QuestionText,
					QuestionType: q.QuestionType,
					Order:        q.Order,
				})
			}
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return classify("create questions", err)
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return classify("commit week", err)
	}
	committed = true
	return nil
}

// compensate deletes the study row after a failed creation; the cascade
// removes every week committed so far. Best-effort: a failure here is logged
// so it never masks the original error.
func (s *Service) compensate(studyID string) CompensationOutcome {
	ctx, cancel := context.WithTimeout(context.Background(), txExecTimeout)
	defer cancel()

	if err := s.db.WithContext(ctx).Delete(&studies.Study{}, "id = ?", studyID).Error; err != nil {
		log.Printf("study %s: cleanup after failed import failed, rows may remain: %v", studyID, err)
		return CompensationFailed
	}
	return CompensationSucceeded
}
