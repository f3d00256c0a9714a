package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"adaptive-assessment-service/internal/domain"
	"github.com/uptrace/bun"
)

type progressRow struct {
	bun.BaseModel `bun:"table:assessment_progress"`

	Key       string          `bun:"key,pk"`
	Data      domain.Progress `bun:"data,type:jsonb"`
	UpdatedAt time.Time       `bun:"updated_at"`
}

// ProgressStore keeps the session snapshot in one assessment_progress row.
type ProgressStore struct {
	db  *bun.DB
	key string
	now func() time.Time
}

func NewProgressStore(db *bun.DB, key string) *ProgressStore {
	if key == "" {
		key = "assessment:progress"
	}
	return &ProgressStore{db: db, key: key, now: time.Now}
}

func (s *ProgressStore) Load(ctx context.Context) (domain.Progress, error) {
	var row progressRow
	err := s.db.NewSelect().Model(&row).Where("key = ?", s.key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Progress{}, domain.ErrProgressNotFound
	}
	if err != nil {
		return domain.Progress{}, fmt.Errorf("load progress: %w", err)
	}
	return row.Data, nil
}

func (s *ProgressStore) Save(ctx context.Context, progress domain.Progress) error {
	row := &progressRow{Key: s.key, Data: progress, UpdatedAt: s.now()}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (key) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) Delete(ctx context.Context) error {
	_, err := s.db.NewDelete().Model((*progressRow)(nil)).Where("key = ?", s.key).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}
