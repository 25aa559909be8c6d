package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aryasatya/momentum/domain/entities"
	"github.com/aryasatya/momentum/domain/repositories"
)

// HabitRepository persists streak records and completions in two
// collections: streaks keyed by habit_id and an append-only completions
// collection.
type HabitRepository struct {
	streaks     *mongo.Collection
	completions *mongo.Collection
}

// NewHabitRepository creates a MongoDB-backed habit repository.
func NewHabitRepository(db *mongo.Database) repositories.HabitRepository {
	return &HabitRepository{
		streaks:     db.Collection("streaks"),
		completions: db.Collection("completions"),
	}
}

// GetStreakRecord loads the record for a habit. A missing document yields
// the zeroed initial record, never an error.
func (r *HabitRepository) GetStreakRecord(ctx context.Context, habitID string) (entities.StreakRecord, error) {
	if habitID == "" {
		return entities.StreakRecord{}, errors.New("habit ID cannot be empty")
	}

	var record entities.StreakRecord
	err := r.streaks.FindOne(ctx, bson.M{"habit_id": habitID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entities.NewStreakRecord(habitID), nil
		}
		return entities.StreakRecord{}, fmt.Errorf("failed to load streak record for %s: %w", habitID, err)
	}
	return record, nil
}

// UpdateStreakRecord upserts the record for its habit. Records are never
// deleted; every update overwrites the stored value.
func (r *HabitRepository) UpdateStreakRecord(ctx context.Context, record entities.StreakRecord) error {
	if record.HabitID == "" {
		return errors.New("habit ID cannot be empty")
	}

	filter := bson.M{"habit_id": record.HabitID}
	update := bson.M{"$set": record}
	opts := options.Update().SetUpsert(true)

	if _, err := r.streaks.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert streak record for %s: %w", record.HabitID, err)
	}
	return nil
}

// SaveCompletion inserts one completion document.
func (r *HabitRepository) SaveCompletion(ctx context.Context, completion entities.Completion) error {
	if completion.HabitID == "" {
		return errors.New("habit ID cannot be empty")
	}

	if _, err := r.completions.InsertOne(ctx, completion); err != nil {
		return fmt.Errorf("failed to save completion for %s: %w", completion.HabitID, err)
	}
	return nil
}

// GetCompletions returns completions in [start, end], most recent first.
// An empty habitID matches all habits.
func (r *HabitRepository) GetCompletions(ctx context.Context, start, end time.Time, habitID string) ([]entities.Completion, error) {
	filter := bson.M{
		"completed_at": bson.M{"$gte": start, "$lte": end},
	}
	if habitID != "" {
		filter["habit_id"] = habitID
	}

	opts := options.Find().SetSort(bson.M{"completed_at": -1})
	cursor, err := r.completions.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer cursor.Close(ctx)

	var results []entities.Completion
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode completions: %w", err)
	}
	return results, nil
}
