package mongodb

import (
	"context"
	"time"

	"xandar-lab/internal/analytics/usecase"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStatsRepository derives analytics rows from the attempts collection
// with aggregation pipelines.
type MongoStatsRepository struct {
	attempts *mongo.Collection
}

// NewMongoStatsRepository creates a new MongoDB stats repository
func NewMongoStatsRepository(db *mongo.Database) *MongoStatsRepository {
	return &MongoStatsRepository{
		attempts: db.Collection("attempts"),
	}
}

// solvedCond counts documents whose outcome is solved inside a $group.
var solvedCond = bson.M{
	"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$outcome", "solved"}}, 1, 0}},
}

// difficultyWeight maps difficulty to a proficiency weight inside a $group.
var difficultyWeight = bson.M{
	"$switch": bson.M{
		"branches": bson.A{
			bson.M{"case": bson.M{"$eq": bson.A{"$difficulty", "hard"}}, "then": 3},
			bson.M{"case": bson.M{"$eq": bson.A{"$difficulty", "medium"}}, "then": 2},
		},
		"default": 1,
	},
}

// Totals returns the all-time counters for a user.
func (r *MongoStatsRepository) Totals(ctx context.Context, userID string) (*usecase.Totals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"attempts": bson.M{"$sum": 1},
			"solved":   solvedCond,
			"minutes":  bson.M{"$sum": "$duration_min"},
			"problems": bson.M{"$addToSet": "$problem_id"},
		}}},
		{{Key: "$project", Value: bson.M{
			"attempts": 1,
			"solved":   1,
			"minutes":  1,
			"distinct": bson.M{"$size": "$problems"},
		}}},
	}

	cursor, err := r.attempts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Attempts int64 `bson:"attempts"`
		Solved   int64 `bson:"solved"`
		Minutes  int64 `bson:"minutes"`
		Distinct int64 `bson:"distinct"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &usecase.Totals{}, nil
	}
	return &usecase.Totals{
		Attempts:         rows[0].Attempts,
		Solved:           rows[0].Solved,
		TotalMinutes:     rows[0].Minutes,
		DistinctProblems: rows[0].Distinct,
	}, nil
}

// WindowCounts returns attempt/solved counts for attempts inside [from, to).
func (r *MongoStatsRepository) WindowCounts(ctx context.Context, userID string, from, to time.Time) (*usecase.WindowCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":      userID,
			"attempted_at": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"attempts": bson.M{"$sum": 1},
			"solved":   solvedCond,
		}}},
	}

	cursor, err := r.attempts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []usecase.WindowCounts
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &usecase.WindowCounts{}, nil
	}
	return &rows[0], nil
}

// TopicStats groups attempts by topic with a difficulty-weighted solved sum.
func (r *MongoStatsRepository) TopicStats(ctx context.Context, userID string) ([]usecase.TopicStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$topic",
			"attempts": bson.M{"$sum": 1},
			"solved":   solvedCond,
			"weighted": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$outcome", "solved"}},
				difficultyWeight,
				0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "attempts", Value: -1}}}},
	}

	cursor, err := r.attempts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := make([]usecase.TopicStat, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// DifficultyStats groups attempts by difficulty.
func (r *MongoStatsRepository) DifficultyStats(ctx context.Context, userID string) ([]usecase.DifficultyStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$difficulty",
			"attempts":    bson.M{"$sum": 1},
			"solved":      solvedCond,
			"avg_minutes": bson.M{"$avg": "$duration_min"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.attempts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := make([]usecase.DifficultyStat, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// PitfallCounts unwinds pitfall tags and returns the most frequent ones.
func (r *MongoStatsRepository) PitfallCounts(ctx context.Context, userID string, limit int64) ([]usecase.PitfallCount, error) {
	if limit <= 0 {
		limit = 10
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$unwind", Value: "$pitfalls"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$pitfalls",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.attempts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make([]usecase.PitfallCount, 0)
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// ActivityDays returns the distinct UTC days with at least one attempt,
// ascending.
func (r *MongoStatsRepository) ActivityDays(ctx context.Context, userID string) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$attempted_at",
				"timezone": "UTC",
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.attempts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Day string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	days := make([]string, 0, len(rows))
	for _, row := range rows {
		days = append(days, row.Day)
	}
	return days, nil
}
