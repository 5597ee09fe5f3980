// Package records implements the save/delete workflow and keeps the live
// snapshot of the record collection for the reporting side.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
	"github.com/amcjunkshop/scrapledger/internal/record"
	"github.com/amcjunkshop/scrapledger/internal/repository/sheets"
)

const dateLayout = "2006-01-02"

// Workflow rejections. All of them leave the caller's form state intact and
// re-enterable.
var (
	ErrInvalidCode         = errors.New("invalid unlock code")
	ErrSaveInProgress      = errors.New("a save is already in progress")
	ErrDuplicateSubmission = errors.New("this record has already been saved")
	ErrZeroTotal           = errors.New("grand total is zero")
)

// Store is the persistence contract the workflow depends on. The MongoDB
// repository implements it; tests substitute an in-memory fake.
type Store interface {
	AddRecord(ctx context.Context, rec models.ExpenseRecord) error
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(ctx context.Context) ([]models.ExpenseRecord, error)
	Subscribe(fn func(records []models.ExpenseRecord)) (func(), error)
}

// SaveOptions carries the caller-side gates for one save attempt.
type SaveOptions struct {
	Date           string // session day; empty means today
	Code           string // unlock code, checked only when one is configured
	AllowZeroTotal bool   // operator confirmed saving a zero-total record
}

// Service owns the record entry workflow.
type Service struct {
	store   Store
	mirror  sheets.Mirror // nil when the mirror is not configured
	company string
	unlock  string
	logger  *zap.Logger
	now     func() time.Time

	saving atomic.Bool

	mu        sync.Mutex
	lastSaved string

	snapMu   sync.RWMutex
	snapshot []models.ExpenseRecord
}

// NewService wires a record workflow instance. mirror may be nil.
func NewService(store Store, mirror sheets.Mirror, company, unlockCode string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		mirror:  mirror,
		company: company,
		unlock:  unlockCode,
		logger:  logger,
		now:     time.Now,
	}
}

// Save builds and persists a record from the raw entry rows. Gates run in the
// same order the entry page applies them: unlock code, single in-flight save,
// zero-total confirmation, duplicate submission.
func (s *Service) Save(ctx context.Context, lines []models.LineItem, opts SaveOptions) (models.ExpenseRecord, error) {
	if s.unlock != "" && opts.Code != s.unlock {
		return models.ExpenseRecord{}, ErrInvalidCode
	}

	if !s.saving.CompareAndSwap(false, true) {
		return models.ExpenseRecord{}, ErrSaveInProgress
	}
	defer s.saving.Store(false)

	if record.GrandTotal(lines) == 0 && !opts.AllowZeroTotal {
		return models.ExpenseRecord{}, ErrZeroTotal
	}

	serialized, err := canonical(lines)
	if err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("serializing lines: %w", err)
	}

	s.mu.Lock()
	duplicate := serialized == s.lastSaved
	s.mu.Unlock()
	if duplicate {
		return models.ExpenseRecord{}, ErrDuplicateSubmission
	}

	now := s.now()
	date := opts.Date
	if date == "" {
		date = now.Format(dateLayout)
	}

	rec := record.Build(lines, date, s.company, now)
	if err := s.store.AddRecord(ctx, rec); err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("persisting record: %w", err)
	}

	s.mu.Lock()
	s.lastSaved = serialized
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.AppendRecord(ctx, rec); err != nil {
			s.logger.Warn("sheet mirror append failed", zap.String("record_id", rec.ID), zap.Error(err))
		}
	}

	s.logger.Info("record saved",
		zap.String("record_id", rec.ID),
		zap.Int64("amount", rec.Amount),
		zap.Int("items", len(rec.Details)))
	return rec, nil
}

// Delete removes a whole record. Line items are not individually deletable.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("record id must not be empty")
	}
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	s.logger.Info("record deleted", zap.String("record_id", id))
	return nil
}

// Watch subscribes to store snapshots and keeps the latest one for Snapshot.
// The returned stop func releases the subscription; it is safe to call more
// than once.
func (s *Service) Watch() (func(), error) {
	unsub, err := s.store.Subscribe(func(recs []models.ExpenseRecord) {
		s.snapMu.Lock()
		s.snapshot = recs
		s.snapMu.Unlock()
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to record store: %w", err)
	}
	return unsub, nil
}

// Snapshot returns the most recently delivered record collection. Snapshots
// are replaced whole, never mutated; callers must treat the slice as
// read-only.
func (s *Service) Snapshot() []models.ExpenseRecord {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snapshot
}

// canonical serializes the raw rows for the duplicate-submission comparison.
func canonical(lines []models.LineItem) (string, error) {
	data, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
