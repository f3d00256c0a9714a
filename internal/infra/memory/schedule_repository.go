package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"adaptive-assessment-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ScheduleLoader fetches raw schedule data from a backing store (files, Postgres).
type ScheduleLoader interface {
	LoadSchedule(ctx context.Context) (domain.ScheduleData, error)
}

// ScheduleRepository caches the compiled schedule with a TTL to avoid repeated loads.
type ScheduleRepository struct {
	loader ScheduleLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	schedule  domain.Schedule
	loaded    bool
	expiresAt time.Time
}

func NewScheduleRepository(loader ScheduleLoader, ttl time.Duration) *ScheduleRepository {
	return &ScheduleRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetSchedule returns the cached schedule, loading and compiling it on a miss.
// A non-positive TTL caches forever.
func (r *ScheduleRepository) GetSchedule(ctx context.Context) (domain.Schedule, error) {
	if s, ok := r.cached(r.clock()); ok {
		return s, nil
	}

	result, err, _ := r.sf.Do("schedule", func() (interface{}, error) {
		now := r.clock()
		if s, ok := r.cached(now); ok {
			return s, nil
		}

		data, err := r.loader.LoadSchedule(ctx)
		if err != nil {
			return domain.Schedule{}, err
		}
		schedule, err := domain.NewSchedule(data)
		if err != nil {
			return domain.Schedule{}, err
		}

		r.mu.Lock()
		r.schedule = schedule
		r.loaded = true
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return schedule, nil
	})
	if err != nil {
		return domain.Schedule{}, err
	}
	return result.(domain.Schedule), nil
}

func (r *ScheduleRepository) cached(now time.Time) (domain.Schedule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return domain.Schedule{}, false
	}
	if r.ttl > 0 && !r.expiresAt.After(now) {
		return domain.Schedule{}, false
	}
	return r.schedule, true
}

func (r *ScheduleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticScheduleLoader is a simple loader backed by in-memory data (useful for tests/demos).
type StaticScheduleLoader struct {
	data domain.ScheduleData
}

func NewStaticScheduleLoader(data domain.ScheduleData) *StaticScheduleLoader {
	return &StaticScheduleLoader{data: data}
}

func (l *StaticScheduleLoader) LoadSchedule(_ context.Context) (domain.ScheduleData, error) {
	if len(l.data.Days) == 0 {
		return domain.ScheduleData{}, domain.ErrScheduleUnavailable
	}
	return l.data, nil
}
