package service

import (
	"context"
	"errors"
	"time"

	"megamind_api/internal/domain"
)

var ErrUnknownTask = errors.New("unknown task")

// UserStore is the slice of the durable store the aggregator needs.
// WithUser must serialize read-modify-write cycles per user id.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	WithUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error)
}

// Stats is the per-user streak state returned to the transport.
type Stats struct {
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Streak         int      `json:"streak"`
	CompletedTasks []string `json:"completed_tasks"`
}

// StreakService derives streak state lazily from date comparisons instead of
// a scheduled job: any read or write self-heals stale state. It holds no
// cached records; every call re-reads then writes through the store.
type StreakService struct {
	store UserStore
	now   func() time.Time
}

func NewStreakService(store UserStore) *StreakService {
	return &StreakService{store: store, now: time.Now}
}

// NewStreakServiceWithClock allows tests to pin the day boundary.
func NewStreakServiceWithClock(store UserStore, now func() time.Time) *StreakService {
	return &StreakService{store: store, now: now}
}

// RecordTask marks one daily task done. A lapsed streak is zeroed before
// anything else, then a new calendar day clears the set; resubmitting the
// same task the same day is idempotent. When the set reaches
// domain.TaskThreshold the streak is credited, at most once per day:
// +1 if the previous credit was yesterday, otherwise back to 1.
func (s *StreakService) RecordTask(ctx context.Context, userID, taskID string) (*Stats, error) {
	if !domain.ValidTask(taskID) {
		return nil, ErrUnknownTask
	}

	today := s.today()
	yesterday := s.yesterday()

	u, err := s.store.WithUser(ctx, userID, func(u *domain.User) error {
		if s.lapsed(u) {
			u.Streak = 0
		}
		if u.LastTaskDate != today {
			u.CompletedTasks = nil
			u.LastTaskDate = today
		}
		u.AddTask(taskID)

		if len(u.CompletedTasks) >= domain.TaskThreshold && u.LastStreakDate != today {
			if u.LastStreakDate == yesterday {
				u.Streak++
			} else {
				u.Streak = 1
			}
			u.LastStreakDate = today
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statsOf(u), nil
}

// GetStats returns the user's streak state. A streak whose last credited day
// is strictly older than yesterday has lapsed; the correction to 0 is
// persisted before the read returns.
func (s *StreakService) GetStats(ctx context.Context, userID string) (*Stats, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.lapsed(u) {
		u, err = s.store.WithUser(ctx, userID, func(u *domain.User) error {
			if s.lapsed(u) {
				u.Streak = 0
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return statsOf(u), nil
}

// ResetStreak unconditionally zeroes the user's streak state.
func (s *StreakService) ResetStreak(ctx context.Context, userID string) (*Stats, error) {
	u, err := s.store.WithUser(ctx, userID, func(u *domain.User) error {
		u.Streak = 0
		u.LastStreakDate = ""
		u.LastTaskDate = ""
		u.CompletedTasks = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statsOf(u), nil
}

// lapsed reports whether the last credited day is strictly older than
// yesterday. A credit today or yesterday keeps the streak — the one-day
// grace window lets a same-or-next-day read still show the count.
func (s *StreakService) lapsed(u *domain.User) bool {
	if u.LastStreakDate == "" || u.Streak == 0 {
		return false
	}
	return u.LastStreakDate < s.yesterday()
}

func (s *StreakService) today() string {
	return s.now().Format(domain.DateLayout)
}

func (s *StreakService) yesterday() string {
	return s.now().AddDate(0, 0, -1).Format(domain.DateLayout)
}

func statsOf(u *domain.User) *Stats {
	return &Stats{
		Email:          u.Email,
		Name:           u.Name,
		Streak:         u.Streak,
		CompletedTasks: u.SortedTasks(),
	}
}
