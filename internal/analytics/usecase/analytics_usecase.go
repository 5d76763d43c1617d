package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"xandar-lab/internal/shared/eventbus"
	"xandar-lab/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const (
	cacheTTL      = 5 * time.Minute
	dayFormat     = "2006-01-02"
	pitfallsLimit = 10
)

// StatsRepository is the aggregation surface the analytics usecase needs.
type StatsRepository interface {
	Totals(ctx context.Context, userID string) (*Totals, error)
	WindowCounts(ctx context.Context, userID string, from, to time.Time) (*WindowCounts, error)
	TopicStats(ctx context.Context, userID string) ([]TopicStat, error)
	DifficultyStats(ctx context.Context, userID string) ([]DifficultyStat, error)
	PitfallCounts(ctx context.Context, userID string, limit int64) ([]PitfallCount, error)
	ActivityDays(ctx context.Context, userID string) ([]string, error)
}

// AnalyticsUsecaseInterface defines the contract for the analytics endpoints.
type AnalyticsUsecaseInterface interface {
	Summary(ctx context.Context, userID string) (*Summary, error)
	Streaks(ctx context.Context, userID string) (*Streaks, error)
	Topics(ctx context.Context, userID string) ([]TopicStat, error)
	Difficulty(ctx context.Context, userID string) ([]DifficultyStat, error)
	Pitfalls(ctx context.Context, userID string) ([]PitfallCount, error)
}

// AnalyticsUsecase derives summary metrics from attempt records, memoizing
// responses in Redis. The TTL is a backstop; attempt.recorded events drop the
// keys eagerly.
type AnalyticsUsecase struct {
	repo  StatsRepository
	cache *redis.Client
	log   logger.Logger
	now   func() time.Time
}

// NewAnalyticsUsecase creates a new analytics usecase. The cache client may
// be nil, in which case every call hits the database.
func NewAnalyticsUsecase(repo StatsRepository, cache *redis.Client, log logger.Logger, events eventbus.EventBusInterface) *AnalyticsUsecase {
	uc := &AnalyticsUsecase{
		repo:  repo,
		cache: cache,
		log:   log.WithComponent("analytics"),
		now:   time.Now,
	}
	if events != nil {
		events.Subscribe(eventbus.EventTypeAttemptRecorded, uc.onAttemptRecorded)
	}
	return uc
}

// Summary returns all-time totals plus 7- and 30-day rolling windows, each
// compared against the preceding window of equal length.
func (uc *AnalyticsUsecase) Summary(ctx context.Context, userID string) (*Summary, error) {
	var cached Summary
	if uc.fromCache(ctx, userID, "summary", &cached) {
		return &cached, nil
	}

	totals, err := uc.repo.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	now := uc.now()
	windows := make([]WindowDelta, 0, 2)
	for _, days := range []int{7, 30} {
		span := time.Duration(days) * 24 * time.Hour
		current, err := uc.repo.WindowCounts(ctx, userID, now.Add(-span), now)
		if err != nil {
			return nil, fmt.Errorf("failed to compute %dd window: %w", days, err)
		}
		previous, err := uc.repo.WindowCounts(ctx, userID, now.Add(-2*span), now.Add(-span))
		if err != nil {
			return nil, fmt.Errorf("failed to compute preceding %dd window: %w", days, err)
		}
		windows = append(windows, WindowDelta{
			Days:          days,
			Attempts:      current.Attempts,
			Solved:        current.Solved,
			AttemptsDelta: current.Attempts - previous.Attempts,
			SolvedDelta:   current.Solved - previous.Solved,
		})
	}

	summary := &Summary{
		Totals:      *totals,
		Windows:     windows,
		GeneratedAt: now,
	}
	uc.toCache(ctx, userID, "summary", summary)
	return summary, nil
}

// Streaks computes current and longest consecutive-day activity from the
// distinct UTC days with attempts.
func (uc *AnalyticsUsecase) Streaks(ctx context.Context, userID string) (*Streaks, error) {
	var cached Streaks
	if uc.fromCache(ctx, userID, "streaks", &cached) {
		return &cached, nil
	}

	days, err := uc.repo.ActivityDays(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity days: %w", err)
	}

	streaks := ComputeStreaks(days, uc.now().UTC())
	uc.toCache(ctx, userID, "streaks", streaks)
	return streaks, nil
}

// ComputeStreaks derives streaks from sorted "YYYY-MM-DD" day keys. The
// current streak counts back from today, or from yesterday when today has no
// activity yet.
func ComputeStreaks(days []string, now time.Time) *Streaks {
	result := &Streaks{GeneratedAt: now}
	if len(days) == 0 {
		return result
	}

	parsed := make([]time.Time, 0, len(days))
	for _, d := range days {
		t, err := time.Parse(dayFormat, d)
		if err != nil {
			continue
		}
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return result
	}

	longest, run := 1, 1
	for i := 1; i < len(parsed); i++ {
		if parsed[i].Sub(parsed[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	result.Longest = longest

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	last := parsed[len(parsed)-1]
	result.ActiveToday = last.Equal(today)

	// A streak is alive if the last active day is today or yesterday.
	if !last.Equal(today) && !last.Equal(today.Add(-24*time.Hour)) {
		return result
	}

	current := 1
	for i := len(parsed) - 1; i > 0; i-- {
		if parsed[i].Sub(parsed[i-1]) != 24*time.Hour {
			break
		}
		current++
	}
	result.Current = current
	return result
}

// Topics returns per-topic proficiency rows.
func (uc *AnalyticsUsecase) Topics(ctx context.Context, userID string) ([]TopicStat, error) {
	var cached []TopicStat
	if uc.fromCache(ctx, userID, "topics", &cached) {
		return cached, nil
	}

	stats, err := uc.repo.TopicStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute topic stats: %w", err)
	}
	for i := range stats {
		if stats[i].Attempts > 0 {
			stats[i].Proficiency = stats[i].Weighted / float64(stats[i].Attempts)
		}
	}
	uc.toCache(ctx, userID, "topics", stats)
	return stats, nil
}

// Difficulty returns the per-difficulty breakdown.
func (uc *AnalyticsUsecase) Difficulty(ctx context.Context, userID string) ([]DifficultyStat, error) {
	var cached []DifficultyStat
	if uc.fromCache(ctx, userID, "difficulty", &cached) {
		return cached, nil
	}

	stats, err := uc.repo.DifficultyStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute difficulty stats: %w", err)
	}
	uc.toCache(ctx, userID, "difficulty", stats)
	return stats, nil
}

// Pitfalls returns the user's most frequent pitfall tags.
func (uc *AnalyticsUsecase) Pitfalls(ctx context.Context, userID string) ([]PitfallCount, error) {
	var cached []PitfallCount
	if uc.fromCache(ctx, userID, "pitfalls", &cached) {
		return cached, nil
	}

	counts, err := uc.repo.PitfallCounts(ctx, userID, pitfallsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute pitfall counts: %w", err)
	}
	uc.toCache(ctx, userID, "pitfalls", counts)
	return counts, nil
}

// onAttemptRecorded drops the user's cached analytics.
func (uc *AnalyticsUsecase) onAttemptRecorded(ctx context.Context, event eventbus.Event) error {
	if uc.cache == nil {
		return nil
	}
	data, ok := event.Data().(map[string]string)
	if !ok {
		return nil
	}
	userID := data["userId"]
	if userID == "" {
		return nil
	}

	keys := make([]string, 0, 5)
	for _, kind := range []string{"summary", "streaks", "topics", "difficulty", "pitfalls"} {
		keys = append(keys, cacheKey(userID, kind))
	}
	if err := uc.cache.Del(ctx, keys...).Err(); err != nil {
		uc.log.Warnf("failed to invalidate analytics cache for user %s: %v", userID, err)
	}
	return nil
}

func cacheKey(userID, kind string) string {
	return fmt.Sprintf("analytics:%s:%s", userID, kind)
}

func (uc *AnalyticsUsecase) fromCache(ctx context.Context, userID, kind string, out interface{}) bool {
	if uc.cache == nil {
		return false
	}
	raw, err := uc.cache.Get(ctx, cacheKey(userID, kind)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

func (uc *AnalyticsUsecase) toCache(ctx context.Context, userID, kind string, value interface{}) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, cacheKey(userID, kind), raw, cacheTTL).Err(); err != nil {
		uc.log.Warnf("failed to cache analytics for user %s: %v", userID, err)
	}
}

var _ AnalyticsUsecaseInterface = (*AnalyticsUsecase)(nil)
