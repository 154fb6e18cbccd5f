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

// Compile-time check to ensure UserPointRepository implements the interface
var _ repositories.UserPointRepository = (*UserPointRepository)(nil)

// UserPointRepository handles MongoDB operations for the points ledger.
// The collection is append-only: there are no update or delete operations.
type UserPointRepository struct {
	collection *mongo.Collection
}

// NewUserPointRepository creates a new UserPointRepository
func NewUserPointRepository(db *mongo.Database) *UserPointRepository {
	return &UserPointRepository{
		collection: db.Collection("user_points"),
	}
}

// Create appends a ledger entry
func (r *UserPointRepository) Create(ctx context.Context, entry *models.UserPoint) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByStudentID retrieves a student's ledger entries, newest first
func (r *UserPointRepository) FindByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]*models.UserPoint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"studentId": studentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.UserPoint
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.UserPoint{}
	}
	return entries, nil
}

// SumByStudent totals a student's ledger. Used to audit the cached counter.
func (r *UserPointRepository) SumByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"studentId": studentID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$points"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
