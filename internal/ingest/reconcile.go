package ingest

import (
	"context"

	"bible-study-app/internal/domain/studies"

	"gorm.io/gorm"
)

// Reconcile applies a client-submitted tree against persisted state.
//
// Study scalars are overwritten wholesale. At each level the submission's
// children are diffed against the persisted children: persisted rows absent
// from the submission are deleted (cascading), new nodes are inserted under
// the resolved parent, existing nodes have every mutable field overwritten.
// Deletes at a level run before creates and updates so reused numbering
// cannot collide. Each submitted week's subtree is applied in one bounded
// transaction; a failure aborts the remaining weeks but already-applied
// weeks are not rolled back. Concurrent edits to the same study are
// last-writer-wins; this is an admin-only editing surface.
func (s *Service) Reconcile(ctx context.Context, studyID string, edit StudyEdit, actorID uint) (*studies.Study, error) {
	current, err := s.Load(ctx, studyID)
	if err != nil {
		return nil, err
	}

	meta := map[string]interface{}{
		"title":        edit.Title,
		"description":  edit.Description,
		"author":       edit.Author,
		"is_published": edit.IsPublished,
		"is_premium":   edit.IsPremium,
		"price":        edit.Price,
	}
	if err := s.db.WithContext(ctx).Model(&studies.Study{}).
		Where("id = ?", studyID).
		Updates(meta).Error; err != nil {
		return nil, classify("update study", err)
	}

	persisted := make(map[string]*studies.Week, len(current.Weeks))
	for i := range current.Weeks {
		persisted[current.Weeks[i].ID] = &current.Weeks[i]
	}

	submitted := make(map[string]bool, len(edit.Weeks))
	for _, w := range edit.Weeks {
		if id, ok := w.Ref.Existing(); ok {
			submitted[id] = true
		}
	}
	var deleteIDs []string
	for _, w := range current.Weeks {
		if !submitted[w.ID] {
			deleteIDs = append(deleteIDs, w.ID)
		}
	}
	if len(deleteIDs) > 0 {
		if err := s.db.WithContext(ctx).
			Delete(&studies.Week{}, "id IN ?", deleteIDs).Error; err != nil {
			return nil, classify("delete weeks", err)
		}
	}

	for _, w := range edit.Weeks {
		if err := s.reconcileWeek(ctx, studyID, persisted, w); err != nil {
			return nil, err
		}
	}

	full, err := s.Load(ctx, studyID)
	if err != nil {
		return nil, err
	}
	s.recordAudit(actorID, "update", "study", studyID, auditDetails{Stats: statsOf(full)})
	return full, nil
}

func (s *Service) reconcileWeek(ctx context.Context, studyID string, persisted map[string]*studies.Week, w WeekEdit) error {
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

	var weekID string
	var currentDays []studies.Day

	if id, ok := w.Ref.Existing(); ok {
		cur, found := persisted[id]
		if !found {
			return &NotFoundError{Entity: "week", ID: id}
		}
		weekID = id
		currentDays = cur.Days

		if err := tx.Model(&studies.Week{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"week_number": w.WeekNumber,
				"title":       w.Title,
				"description": w.Description,
			}).Error; err != nil {
			return classify("update week", err)
		}
	} else {
		week := studies.Week{
			StudyID:     studyID,
			WeekNumber:  w.WeekNumber,
			Title:       w.Title,
			Description: w.Description,
		}
		if err := tx.Create(&week).Error; err != nil {
			return classify("create week", err)
		}
		weekID = week.ID
	}

	if err := reconcileDays(tx, weekID, currentDays, w.Days); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return classify("commit week", err)
	}
	committed = true
	return nil
}

func reconcileDays(tx *gorm.DB, weekID string, current []studies.Day, edits []DayEdit) error {
	persisted := make(map[string]*studies.Day, len(current))
	for i := range current {
		persisted[current[i].ID] = &current[i]
	}

	submitted := make(map[string]bool, len(edits))
	for _, d := range edits {
		if id, ok := d.Ref.Existing(); ok {
			submitted[id] = true
		}
	}
	var deleteIDs []string
	for _, d := range current {
		if !submitted[d.ID] {
			deleteIDs = append(deleteIDs, d.ID)
		}
	}
	if len(deleteIDs) > 0 {
		if err := tx.Delete(&studies.Day{}, "id IN ?", deleteIDs).Error; err != nil {
			return classify("delete days", err)
		}
	}

	for _, d := range edits {
		var dayID string
		var currentQuestions []studies.Question

		if id, ok := d.Ref.Existing(); ok {
			cur, found := persisted[id]
			if !found {
				return &NotFoundError{Entity: "day", ID: id}
			}
			dayID = id
			currentQuestions = cur.Questions

			if err := tx.Model(&studies.Day{}).Where("id = ?", id).
				Updates(map[string]interface{}{
					"day_number": d.DayNumber,
					"title":      d.Title,
					"content":    d.Content,
					"scripture":  d.Scripture,
				}).Error; err != nil {
				return classify("update day", err)
			}
		} else {
			day := studies.Day{
				WeekID:    weekID,
				DayNumber: d.DayNumber,
				Title:     d.Title,
				Content:   d.Content,
				Scripture: d.Scripture,
			}
			if err := tx.Create(&day).Error; err != nil {
				return classify("create day", err)
			}
			dayID = day.ID
		}

		if err := reconcileQuestions(tx, dayID, currentQuestions, d.Questions); err != nil {
			return err
		}
	}
	return nil
}

func reconcileQuestions(tx *gorm.DB, dayID string, current []studies.Question, edits []QuestionEdit) error {
	persisted := make(map[string]bool, len(current))
	for _, q := range current {
		persisted[q.ID] = true
	}

	submitted := make(map[string]bool, len(edits))
	for _, q := range edits {
		if id, ok := q.Ref.Existing(); ok {
			submitted[id] = true
		}
	}
	var deleteIDs []string
	for _, q := range current {
		if !submitted[q.ID] {
			deleteIDs = append(deleteIDs, q.ID)
		}
	}
	if len(deleteIDs) > 0 {
		if err := tx.Delete(&studies.Question{}, "id IN ?", deleteIDs).Error; err != nil {
			return classify("delete questions", err)
		}
	}

	for _, q := range edits {
		if id, ok := q.Ref.Existing(); ok {
			if !persisted[id] {
				return &NotFoundError{Entity: "question", ID: id}
			}
			if err := tx.Model(&studies.Question{}).Where("id = ?", id).
				Updates(map[string]interface{}{
					"question_text": q.QuestionText,
					"question_type": q.QuestionType,
					"display_order": q.Order,
				}).Error; err != nil {
				return classify("update question", err)
			}
		} else {
			row := studies.Question{
				DayID:        dayID,
				QuestionText: q.QuestionText,
				QuestionType: q.QuestionType,
				Order:        q.Order,
			}
			if err := tx.Create(&row).Error; err != nil {
				return classify("create question", err)
			}
		}
	}
	return nil
}
