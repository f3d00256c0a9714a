package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"adaptive-assessment-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ScheduleLoader loads day definitions and the question bank from JSONB rows.
type ScheduleLoader struct {
	pool *pgxpool.Pool
}

func NewScheduleLoader(pool *pgxpool.Pool) *ScheduleLoader {
	return &ScheduleLoader{pool: pool}
}

func (l *ScheduleLoader) LoadSchedule(ctx context.Context) (domain.ScheduleData, error) {
	var data domain.ScheduleData

	rows, err := l.pool.Query(ctx, `SELECT data FROM schedule_days ORDER BY day`)
	if err != nil {
		return data, fmt.Errorf("load schedule: %w", err)
	}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			rows.Close()
			return data, fmt.Errorf("scan day: %w", err)
		}
		var day domain.DaySchedule
		if err := json.Unmarshal(raw, &day); err != nil {
			rows.Close()
			return data, fmt.Errorf("unmarshal day: %w", err)
		}
		data.Days = append(data.Days, day)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return data, fmt.Errorf("load schedule: %w", err)
	}
	if len(data.Days) == 0 {
		return data, fmt.Errorf("load schedule: %w", domain.ErrScheduleUnavailable)
	}

	rows, err = l.pool.Query(ctx, `SELECT data FROM question_bank ORDER BY id`)
	if err != nil {
		return data, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return data, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return data, fmt.Errorf("unmarshal question: %w", err)
		}
		data.Questions = append(data.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return data, fmt.Errorf("load questions: %w", err)
	}
	return data, nil
}
