package mongodb

import (
	"context"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure DailyStatsRepository implements the interface
var _ repositories.DailyStatsRepository = (*DailyStatsRepository)(nil)

// DailyStatsRepository handles MongoDB operations for per-day ridership aggregates
type DailyStatsRepository struct {
	collection *mongo.Collection
}

// NewDailyStatsRepository creates a new DailyStatsRepository
func NewDailyStatsRepository(db *mongo.Database) *DailyStatsRepository {
	return &DailyStatsRepository{
		collection: db.Collection("daily_stats"),
	}
}

// IncrementForScan upserts the (date, route, bus) document and bumps its counters
func (r *DailyStatsRepository) IncrementForScan(ctx context.Context, date time.Time, routeID, busID primitive.ObjectID, points int, co2Grams float64) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	filter := bson.M{"date": day, "routeId": routeID, "busId": busID}
	update := bson.M{
		"$inc": bson.M{
			"totalScans":    1,
			"totalPoints":   points,
			"totalCo2Saved": co2Grams,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByDate retrieves all aggregates of one calendar day
func (r *DailyStatsRepository) FindByDate(ctx context.Context, date time.Time) ([]*models.DailyStats, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	cursor, err := r.collection.Find(ctx, bson.M{"date": day})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []*models.DailyStats
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []*models.DailyStats{}
	}
	return stats, nil
}
