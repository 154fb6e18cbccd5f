package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyStats aggregates ridership per (date, route, bus) for dashboards.
// Documents are upserted with $inc on every processed scan.
type DailyStats struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date    time.Time          `bson:"date" json:"date"`
	RouteID primitive.ObjectID `bson:"routeId" json:"routeId"`
	BusID   primitive.ObjectID `bson:"busId" json:"busId"`

	TotalScans    int     `bson:"totalScans" json:"totalScans"`
	TotalPoints   int     `bson:"totalPoints" json:"totalPoints"`
	TotalCO2Saved float64 `bson:"totalCo2Saved" json:"totalCo2Saved"`

	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
