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

// Compile-time check to ensure ScheduleRepository implements the interface
var _ repositories.ScheduleRepository = (*ScheduleRepository)(nil)

// ScheduleRepository handles MongoDB operations for ScheduleAssignment
type ScheduleRepository struct {
	collection *mongo.Collection
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *mongo.Database) *ScheduleRepository {
	return &ScheduleRepository{
		collection: db.Collection("schedule_assignments"),
	}
}

// Create inserts a new schedule assignment
func (r *ScheduleRepository) Create(ctx context.Context, assignment *models.ScheduleAssignment) error {
	assignment.ID = primitive.NewObjectID()
	assignment.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, assignment)
	return err
}

// FindByID finds a schedule assignment by ID
func (r *ScheduleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ScheduleAssignment, error) {
	var assignment models.ScheduleAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &assignment, nil
}

// FindActiveByBusID retrieves all active assignments for a bus. Ordering is
// irrelevant here: the resolver sorts matches deterministically itself.
func (r *ScheduleRepository) FindActiveByBusID(ctx context.Context, busID primitive.ObjectID) ([]*models.ScheduleAssignment, error) {
	filter := bson.M{"busId": busID, "isActive": true}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []*models.ScheduleAssignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []*models.ScheduleAssignment{}
	}
	return assignments, nil
}

// Update updates an existing schedule assignment
func (r *ScheduleRepository) Update(ctx context.Context, assignment *models.ScheduleAssignment) error {
	filter := bson.M{"_id": assignment.ID}
	update := bson.M{"$set": assignment}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
