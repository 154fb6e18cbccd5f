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

// Compile-time check to ensure BusStopRepository implements the interface
var _ repositories.BusStopRepository = (*BusStopRepository)(nil)

// BusStopRepository handles MongoDB operations for BusStop
type BusStopRepository struct {
	collection *mongo.Collection
}

// NewBusStopRepository creates a new BusStopRepository
func NewBusStopRepository(db *mongo.Database) *BusStopRepository {
	return &BusStopRepository{
		collection: db.Collection("bus_stops"),
	}
}

// Create inserts a new bus stop
func (r *BusStopRepository) Create(ctx context.Context, stop *models.BusStop) error {
	stop.ID = primitive.NewObjectID()
	stop.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, stop)
	return err
}

// FindByRouteID retrieves the stops of a route ordered by stop order
func (r *BusStopRepository) FindByRouteID(ctx context.Context, routeID primitive.ObjectID) ([]*models.BusStop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "stopOrder", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"routeId": routeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stops []*models.BusStop
	if err = cursor.All(ctx, &stops); err != nil {
		return nil, err
	}
	if stops == nil {
		stops = []*models.BusStop{}
	}
	return stops, nil
}
