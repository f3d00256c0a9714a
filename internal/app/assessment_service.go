package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"adaptive-assessment-service/internal/domain"
	"github.com/charmbracelet/log"
)

// ScheduleRepository provides the compiled schedule (from cache/backing store).
type ScheduleRepository interface {
	GetSchedule(ctx context.Context) (domain.Schedule, error)
}

// AssessmentService contains the assessment use cases that sit outside a
// single controller: opening a journey, exporting and resetting it.
type AssessmentService struct {
	schedules ScheduleRepository
	progress  ProgressStore
	logger    *log.Logger
	now       func() time.Time
}

func NewAssessmentService(schedules ScheduleRepository, progress ProgressStore, logger *log.Logger) *AssessmentService {
	return NewAssessmentServiceWithClock(schedules, progress, logger, time.Now)
}

// NewAssessmentServiceWithClock is test-only for deterministic timestamps.
func NewAssessmentServiceWithClock(schedules ScheduleRepository, progress ProgressStore, logger *log.Logger, now func() time.Time) *AssessmentService {
	if logger == nil {
		logger = log.Default()
	}
	return &AssessmentService{schedules: schedules, progress: progress, logger: logger, now: now}
}

// Open returns a controller for the respondent, offering resume when a
// started journey has been persisted.
func (s *AssessmentService) Open(ctx context.Context) (*Controller, error) {
	schedule, err := s.schedules.GetSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScheduleUnavailable, err)
	}

	var persisted *domain.Progress
	progress, err := s.progress.Load(ctx)
	switch {
	case err == nil:
		persisted = &progress
	case errors.Is(err, domain.ErrProgressNotFound):
	default:
		s.logger.Warn("progress not loaded, starting fresh", "err", err)
	}
	return NewControllerWithClock(schedule, s.progress, persisted, s.logger, s.now), nil
}

// Preload fetches the schedule once so a broken data source fails startup.
func (s *AssessmentService) Preload(ctx context.Context) (domain.Schedule, error) {
	schedule, err := s.schedules.GetSchedule(ctx)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("%w: %v", domain.ErrScheduleUnavailable, err)
	}
	return schedule, nil
}

// Export builds the results document from the persisted progress.
func (s *AssessmentService) Export(ctx context.Context) (domain.Export, error) {
	progress, err := s.progress.Load(ctx)
	if err != nil {
		return domain.Export{}, err
	}
	return NewExport(progress, s.now()), nil
}

// Reset erases the persisted progress. It requires explicit confirmation.
func (s *AssessmentService) Reset(ctx context.Context, confirm bool) error {
	if !confirm {
		return domain.ErrResetNotConfirmed
	}
	if err := s.progress.Delete(ctx); err != nil {
		return err
	}
	s.logger.Info("progress reset")
	return nil
}

// NewExport snapshots progress into an export document.
func NewExport(p domain.Progress, completedAt time.Time) domain.Export {
	responses := make(map[string]domain.Response, len(p.UserResponses))
	for id, r := range p.UserResponses {
		responses[id] = r
	}
	return domain.Export{
		UserData:            p.UserData,
		CurrentDay:          p.CurrentDay,
		Responses:           responses,
		ExpansionsTriggered: append([]domain.ExpansionEvent(nil), p.ExpansionsTriggered...),
		CompletedAt:         completedAt,
	}
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExportFilename names the download for an export.
func ExportFilename(e domain.Export) string {
	name := unsafeFilename.ReplaceAllString(e.UserData.Name, "_")
	return fmt.Sprintf("assessment-%s-day%d.json", name, e.CurrentDay)
}
