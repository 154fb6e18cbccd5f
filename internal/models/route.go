package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Route represents a bus route. DistanceKm drives all reward math:
// routes without a recorded distance fall back to flat points and zero CO2.
type Route struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code        string             `bson:"code" json:"code"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	DistanceKm  *float64           `bson:"distanceKm,omitempty" json:"distanceKm,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
