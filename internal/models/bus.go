package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bus represents a physical bus carrying one static QR code.
// The QR identity is stable; the route the bus serves at any moment
// is derived from its schedule assignments.
type Bus struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BusNumber    string             `bson:"busNumber" json:"busNumber"`
	LicensePlate string             `bson:"licensePlate,omitempty" json:"licensePlate,omitempty"`
	Capacity     int                `bson:"capacity,omitempty" json:"capacity,omitempty"`
	StaticQRID   string             `bson:"staticQrId" json:"staticQrId"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
