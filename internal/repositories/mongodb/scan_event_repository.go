package mongodb

import (
	"context"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure ScanEventRepository implements the interface
var _ repositories.ScanEventRepository = (*ScanEventRepository)(nil)

// ScanEventRepository handles MongoDB operations for ScanEvent
type ScanEventRepository struct {
	collection *mongo.Collection
}

// NewScanEventRepository creates a new ScanEventRepository
func NewScanEventRepository(db *mongo.Database) *ScanEventRepository {
	return &ScanEventRepository{
		collection: db.Collection("scan_events"),
	}
}

// Create inserts a new scan event. The unique index on clientEventId makes a
// retried insert fail with repositories.ErrDuplicateKey.
func (r *ScanEventRepository) Create(ctx context.Context, event *models.ScanEvent) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, event)
	return wrapDuplicate(err)
}

// CountByStudent counts all scan events of a student
func (r *ScanEventRepository) CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"studentId": studentID})
}

// CountDistinctRoutes counts the distinct routes ever resolved for a student
func (r *ScanEventRepository) CountDistinctRoutes(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	values, err := r.collection.Distinct(ctx, "inferredRouteId", bson.M{"studentId": studentID})
	if err != nil {
		return 0, err
	}
	return int64(len(values)), nil
}
