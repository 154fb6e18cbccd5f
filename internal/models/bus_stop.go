package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusStop is a named stop along a route, ordered by StopOrder.
type BusStop struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RouteID   primitive.ObjectID `bson:"routeId" json:"routeId"`
	Name      string             `bson:"name" json:"name"`
	Latitude  *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	StopOrder int                `bson:"stopOrder" json:"stopOrder"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
