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

// Compile-time check to ensure RouteRepository implements the interface
var _ repositories.RouteRepository = (*RouteRepository)(nil)

// RouteRepository handles MongoDB operations for Route
type RouteRepository struct {
	collection *mongo.Collection
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db *mongo.Database) *RouteRepository {
	return &RouteRepository{
		collection: db.Collection("routes"),
	}
}

// Create inserts a new route
func (r *RouteRepository) Create(ctx context.Context, route *models.Route) error {
	route.ID = primitive.NewObjectID()
	route.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, route)
	return wrapDuplicate(err)
}

// FindByID finds a route by ID
func (r *RouteRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Route, error) {
	var route models.Route
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&route)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &route, nil
}

// FindActive retrieves all active routes sorted by code
func (r *RouteRepository) FindActive(ctx context.Context) ([]*models.Route, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routes []*models.Route
	if err = cursor.All(ctx, &routes); err != nil {
		return nil, err
	}
	if routes == nil {
		routes = []*models.Route{}
	}
	return routes, nil
}

// Update updates an existing route
func (r *RouteRepository) Update(ctx context.Context, route *models.Route) error {
	filter := bson.M{"_id": route.ID}
	update := bson.M{"$set": route}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
