package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"adaptive-assessment-service/internal/app"
	"adaptive-assessment-service/internal/domain"
	"adaptive-assessment-service/internal/infra/memory"
	"github.com/charmbracelet/log"
)

var fixedNow = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func quietLogger() *log.Logger { return log.New(io.Discard) }

// sampleData builds 14 days. Day 1 has three core questions and a YES rule on
// q1 that adds a two-question module; day 3 has a numeric rule on q2.
func sampleData() domain.ScheduleData {
	days := make([]domain.DaySchedule, 0, domain.TotalDays)
	for d := 1; d <= domain.TotalDays; d++ {
		days = append(days, domain.DaySchedule{
			Day:         d,
			Title:       fmt.Sprintf("Day %d", d),
			Description: "Daily check-in",
			CoreQuestions: []domain.Question{
				{ID: fmt.Sprintf("d%d_a", d), Text: "How rested do you feel?", AnswerType: domain.AnswerScale},
				{ID: fmt.Sprintf("d%d_b", d), Text: "Anything to add?", AnswerType: domain.AnswerText},
			},
		})
	}
	days[0].CoreQuestions = []domain.Question{
		{ID: "q1", Text: "Do you have trouble sleeping?", AnswerType: domain.AnswerBoolean, Options: []string{"Yes", "No"}},
		{ID: "q2", Text: "How many times do you wake up per night?", AnswerType: domain.AnswerNumeric},
		{ID: "q3", Text: "How often do you nap?", AnswerType: domain.AnswerFrequency, Options: []string{"Never", "Sometimes", "Often", "Always"}},
	}
	days[0].PossibleExpansions = []domain.ExpansionRule{{
		TriggerQuestionID: "q1",
		Condition:         "YES",
		Modules: []domain.Module{{
			Name: "INSOMNIA",
			Questions: []domain.Question{
				{ID: "ins_1", Text: "How long does it take to fall asleep?", AnswerType: domain.AnswerNumeric},
				{ID: "ins_2", Text: "Do you wake too early?", AnswerType: domain.AnswerBoolean, Options: []string{"Yes", "No"}},
			},
		}},
	}}
	days[2].PossibleExpansions = []domain.ExpansionRule{
		{
			TriggerQuestionID: "q2",
			Condition:         ">5",
			Modules: []domain.Module{{
				Name:      "FRAGMENTED_SLEEP",
				Questions: []domain.Question{{ID: "frag_1", Text: "What wakes you?", AnswerType: domain.AnswerText}},
			}},
		},
		{
			TriggerQuestionID: "q3",
			Condition:         "Often/Always",
			Modules: []domain.Module{
				{Name: "DAYTIME", Questions: []domain.Question{{ID: "day_1", Text: "Do you doze while reading?", AnswerType: domain.AnswerBoolean, Options: []string{"Yes", "No"}}}},
				{Name: "FATIGUE", Questions: []domain.Question{{ID: "fat_1", Text: "Rate your fatigue 1-10", AnswerType: domain.AnswerScale}}},
			},
		},
	}
	return domain.ScheduleData{Days: days}
}

func sampleSchedule(t *testing.T) domain.Schedule {
	t.Helper()
	schedule, err := domain.NewSchedule(sampleData())
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}
	return schedule
}

func newTestController(t *testing.T, store app.ProgressStore, persisted *domain.Progress) *app.Controller {
	t.Helper()
	return app.NewControllerWithClock(sampleSchedule(t), store, persisted, quietLogger(), clock)
}

type staticSchedules struct {
	schedule domain.Schedule
	err      error
}

func (s staticSchedules) GetSchedule(context.Context) (domain.Schedule, error) {
	return s.schedule, s.err
}

type failingStore struct {
	saves int
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) Load(context.Context) (domain.Progress, error) {
	return domain.Progress{}, errDiskFull
}

func (s *failingStore) Save(context.Context, domain.Progress) error {
	s.saves++
	return errDiskFull
}

func (s *failingStore) Delete(context.Context) error { return errDiskFull }

func newMemoryStore() *memory.ProgressStore { return memory.NewProgressStore() }
