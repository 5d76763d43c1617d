package usecase

import "time"

// Totals are the all-time counters for a user.
type Totals struct {
	Attempts         int64 `json:"attempts"`
	Solved           int64 `json:"solved"`
	TotalMinutes     int64 `json:"totalMinutes"`
	DistinctProblems int64 `json:"distinctProblems"`
}

// WindowDelta compares a rolling window against the preceding one.
type WindowDelta struct {
	Days          int   `json:"days"`
	Attempts      int64 `json:"attempts"`
	Solved        int64 `json:"solved"`
	AttemptsDelta int64 `json:"attemptsDelta"`
	SolvedDelta   int64 `json:"solvedDelta"`
}

// Summary is the response of the summary endpoint.
type Summary struct {
	Totals      Totals        `json:"totals"`
	Windows     []WindowDelta `json:"windows"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Streaks reports consecutive-day activity.
type Streaks struct {
	Current     int       `json:"current"`
	Longest     int       `json:"longest"`
	ActiveToday bool      `json:"activeToday"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// TopicStat is the per-topic proficiency row.
type TopicStat struct {
	Topic       string  `json:"topic" bson:"_id"`
	Attempts    int64   `json:"attempts" bson:"attempts"`
	Solved      int64   `json:"solved" bson:"solved"`
	Weighted    float64 `json:"weightedSolved" bson:"weighted"`
	Proficiency float64 `json:"proficiency" bson:"-"`
}

// DifficultyStat is the per-difficulty breakdown row. AvgMinutes is a
// float64 because $avg yields a BSON double.
type DifficultyStat struct {
	Difficulty string  `json:"difficulty" bson:"_id"`
	Attempts   int64   `json:"attempts" bson:"attempts"`
	Solved     int64   `json:"solved" bson:"solved"`
	AvgMinutes float64 `json:"avgMinutes" bson:"avg_minutes"`
}

// PitfallCount is one row of the most-frequent-pitfalls report.
type PitfallCount struct {
	Pitfall string `json:"pitfall" bson:"_id"`
	Count   int64  `json:"count" bson:"count"`
}

// WindowCounts are raw attempt/solved counts inside a time range.
type WindowCounts struct {
	Attempts int64 `bson:"attempts"`
	Solved   int64 `bson:"solved"`
}
