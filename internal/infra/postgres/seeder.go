package postgres

import (
	"context"
	"fmt"

	"adaptive-assessment-service/internal/domain"
	"github.com/uptrace/bun"
)

type scheduleDayRow struct {
	bun.BaseModel `bun:"table:schedule_days"`

	Day  int                `bun:"day,pk"`
	Data domain.DaySchedule `bun:"data,type:jsonb"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:question_bank"`

	ID   string          `bun:"id,pk"`
	Data domain.Question `bun:"data,type:jsonb"`
}

// Seeder writes schedule data into the tables read by ScheduleLoader.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed validates data and upserts every day and bank question in one transaction.
func (s *Seeder) Seed(ctx context.Context, data domain.ScheduleData) error {
	if _, err := domain.NewSchedule(data); err != nil {
		return err
	}

	days := make([]scheduleDayRow, 0, len(data.Days))
	for _, d := range data.Days {
		days = append(days, scheduleDayRow{Day: d.Day, Data: d})
	}
	questions := make([]questionRow, 0, len(data.Questions))
	for _, q := range data.Questions {
		questions = append(questions, questionRow{ID: q.ID, Data: q})
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&days).
			On("CONFLICT (day) DO UPDATE").
			Set("data = EXCLUDED.data").
			Exec(ctx); err != nil {
			return fmt.Errorf("seed days: %w", err)
		}
		if len(questions) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&questions).
			On("CONFLICT (id) DO UPDATE").
			Set("data = EXCLUDED.data").
			Exec(ctx); err != nil {
			return fmt.Errorf("seed questions: %w", err)
		}
		return nil
	})
}
