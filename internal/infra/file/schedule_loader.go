package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"adaptive-assessment-service/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ScheduleLoader reads the schedule document and the optional question bank from disk.
//
// The schedule file has the shape {"schedule": {"1": {...}, ..., "14": {...}}};
// extra top-level statistics are ignored. The bank is a JSON array of questions.
type ScheduleLoader struct {
	schedulePath  string
	questionsPath string
}

func NewScheduleLoader(schedulePath, questionsPath string) *ScheduleLoader {
	return &ScheduleLoader{schedulePath: schedulePath, questionsPath: questionsPath}
}

type scheduleDocument struct {
	Schedule map[string]domain.DaySchedule `json:"schedule"`
}

func (l *ScheduleLoader) LoadSchedule(ctx context.Context) (domain.ScheduleData, error) {
	var (
		days      []domain.DaySchedule
		questions []domain.Question
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		days, err = readDays(l.schedulePath)
		return err
	})
	if l.questionsPath != "" {
		g.Go(func() error {
			raw, err := os.ReadFile(l.questionsPath)
			if err != nil {
				return fmt.Errorf("read questions: %w", err)
			}
			if err := json.Unmarshal(raw, &questions); err != nil {
				return fmt.Errorf("parse questions: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ScheduleData{}, err
	}
	return domain.ScheduleData{Days: days, Questions: questions}, nil
}

func readDays(path string) ([]domain.DaySchedule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	var doc scheduleDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}

	days := make([]domain.DaySchedule, 0, len(doc.Schedule))
	for key, day := range doc.Schedule {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("schedule key %q is not a day number", key)
		}
		if day.Day == 0 {
			day.Day = n
		}
		if day.Day != n {
			return nil, fmt.Errorf("schedule key %q holds day %d", key, day.Day)
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days, nil
}
