package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"bible-study-app/internal/domain/audit"
	"bible-study-app/internal/domain/studies"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// Budget for obtaining a connection and opening a transaction.
	txWaitTimeout = 10 * time.Second
	// Budget for everything inside one week-scoped transaction.
	txExecTimeout = 30 * time.Second
)

// Service is the study ingestion and synchronization engine. It owns no
// state beyond the injected database handle; one Service is constructed at
// startup and shared across requests.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// beginTx opens a transaction with the two-part budget: a short wait for a
// connection slot, then a longer execution window. The returned cancel must
// run after commit or rollback.
func (s *Service) beginTx(ctx context.Context) (*gorm.DB, context.CancelFunc, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, nil, classify("acquire connection", err)
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, txWaitTimeout)
	err = sqlDB.PingContext(waitCtx)
	cancelWait()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, &TimeoutError{Op: "acquire connection", Cause: err}
		}
		return nil, nil, classify("acquire connection", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, txExecTimeout)
	tx := s.db.WithContext(execCtx).Begin()
	if tx.Error != nil {
		cancel()
		return nil, nil, classify("begin transaction", tx.Error)
	}
	return tx, cancel, nil
}

// Load returns the full study tree ordered by week, day and question order.
func (s *Service) Load(ctx context.Context, studyID string) (*studies.Study, error) {
	var st studies.Study
	err := s.db.WithContext(ctx).
		Preload("Weeks", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC")
		}).
		Preload("Weeks.Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC")
		}).
		Preload("Weeks.Days.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&st, "id = ?", studyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "study", ID: studyID}
		}
		return nil, classify("load study", err)
	}
	return &st, nil
}

// Delete removes a study; the store cascades through weeks, days, questions
// and answers.
func (s *Service) Delete(ctx context.Context, studyID string, actorID uint) error {
	res := s.db.WithContext(ctx).Delete(&studies.Study{}, "id = ?", studyID)
	if res.Error != nil {
		return classify("delete study", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "study", ID: studyID}
	}
	s.recordAudit(actorID, "delete", "study", studyID, nil)
	return nil
}

// recordAudit appends one audit row. Audit failures are logged and swallowed;
// they never affect the outcome of the operation they document.
func (s *Service) recordAudit(actorID uint, action, entityType, entityID string, details interface{}) {
	var payload datatypes.JSON
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Printf("audit: failed to encode details for %s %s %s: %v", action, entityType, entityID, err)
		} else {
			payload = datatypes.JSON(raw)
		}
	}

	rec := audit.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    payload,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		log.Printf("audit: failed to record %s %s %s: %v", action, entityType, entityID, err)
	}
}
