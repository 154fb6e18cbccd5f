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

// Compile-time check to ensure BusRepository implements the interface
var _ repositories.BusRepository = (*BusRepository)(nil)

// BusRepository handles MongoDB operations for Bus
type BusRepository struct {
	collection *mongo.Collection
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db *mongo.Database) *BusRepository {
	return &BusRepository{
		collection: db.Collection("buses"),
	}
}

// Create inserts a new bus
func (r *BusRepository) Create(ctx context.Context, bus *models.Bus) error {
	bus.ID = primitive.NewObjectID()
	bus.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, bus)
	return wrapDuplicate(err)
}

// FindByID finds a bus by ID
func (r *BusRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bus, error) {
	var bus models.Bus
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bus)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &bus, nil
}

// FindActiveByStaticQR finds the active bus carrying a static QR identifier
func (r *BusRepository) FindActiveByStaticQR(ctx context.Context, staticQRID string) (*models.Bus, error) {
	var bus models.Bus
	filter := bson.M{"staticQrId": staticQRID, "isActive": true}
	err := r.collection.FindOne(ctx, filter).Decode(&bus)
	if err != nil {
		return nil, err
	}
	return &bus, nil
}

// FindAll retrieves all buses
func (r *BusRepository) FindAll(ctx context.Context) ([]*models.Bus, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buses []*models.Bus
	if err = cursor.All(ctx, &buses); err != nil {
		return nil, err
	}
	if buses == nil {
		buses = []*models.Bus{}
	}
	return buses, nil
}

// Update updates an existing bus
func (r *BusRepository) Update(ctx context.Context, bus *models.Bus) error {
	filter := bson.M{"_id": bus.ID}
	update := bson.M{"$set": bus}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
