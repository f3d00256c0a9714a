package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"adaptive-assessment-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ScheduleLoader fetches raw schedule data from a backing store (files, Postgres).
type ScheduleLoader interface {
	LoadSchedule(ctx context.Context) (domain.ScheduleData, error)
}

const questionsField = "questions"

// ScheduleRepository caches schedule data in Redis (one hash) and falls back to a loader on cache miss.
// Days are stored as:    HSET {key} {day}      {day json}
// The bank is stored as: HSET {key} questions  {questions json}
type ScheduleRepository struct {
	client *redis.Client
	loader ScheduleLoader
	key    string
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewScheduleRepository(client *redis.Client, loader ScheduleLoader, key string, ttl time.Duration) *ScheduleRepository {
	if key == "" {
		key = "assessment:schedule"
	}
	return &ScheduleRepository{
		client: client,
		loader: loader,
		key:    key,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ScheduleRepository) GetSchedule(ctx context.Context) (domain.Schedule, error) {
	if schedule, ok := r.fromCache(ctx); ok {
		return schedule, nil
	}

	result, err, _ := r.sf.Do(r.key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if schedule, ok := r.fromCache(ctx); ok {
			return schedule, nil
		}

		data, err := r.loader.LoadSchedule(ctx)
		if err != nil {
			return domain.Schedule{}, err
		}
		schedule, err := domain.NewSchedule(data)
		if err != nil {
			return domain.Schedule{}, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		for _, day := range data.Days {
			raw, err := json.Marshal(day)
			if err != nil {
				return domain.Schedule{}, fmt.Errorf("marshal day %d: %w", day.Day, err)
			}
			pipe.HSet(ctx, r.key, strconv.Itoa(day.Day), raw)
		}
		bank, err := json.Marshal(data.Questions)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("marshal questions: %w", err)
		}
		pipe.HSet(ctx, r.key, questionsField, bank)
		if ttl > 0 {
			pipe.Expire(ctx, r.key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return schedule, nil
	})
	if err != nil {
		return domain.Schedule{}, err
	}
	return result.(domain.Schedule), nil
}

// fromCache reports a miss for unreadable or incomplete entries so the loader repopulates them.
func (r *ScheduleRepository) fromCache(ctx context.Context) (domain.Schedule, bool) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil || len(fields) == 0 {
		return domain.Schedule{}, false
	}
	data, err := buildScheduleFromCache(fields)
	if err != nil {
		return domain.Schedule{}, false
	}
	schedule, err := domain.NewSchedule(data)
	if err != nil {
		return domain.Schedule{}, false
	}
	return schedule, true
}

func buildScheduleFromCache(fields map[string]string) (domain.ScheduleData, error) {
	var data domain.ScheduleData
	for field, raw := range fields {
		if field == questionsField {
			if err := json.Unmarshal([]byte(raw), &data.Questions); err != nil {
				return domain.ScheduleData{}, err
			}
			continue
		}
		var day domain.DaySchedule
		if err := json.Unmarshal([]byte(raw), &day); err != nil {
			return domain.ScheduleData{}, err
		}
		data.Days = append(data.Days, day)
	}
	return data, nil
}

func (r *ScheduleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
