package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScanType distinguishes boarding from alighting taps.
type ScanType string

const (
	ScanTypeEntry ScanType = "ENTRY"
	ScanTypeExit  ScanType = "EXIT"
)

// ScanEvent records one physical tap. Immutable once created.
// ClientEventID is the client-supplied idempotency key; a unique index on it
// guarantees a retried scan can never create a second event or double-award
// points.
type ScanEvent struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	StudentID       primitive.ObjectID  `bson:"studentId" json:"studentId"`
	BusID           primitive.ObjectID  `bson:"busId" json:"busId"`
	InferredRouteID primitive.ObjectID  `bson:"inferredRouteId" json:"inferredRouteId"`
	ScanType        ScanType            `bson:"scanType" json:"scanType"`
	DestinationStop *primitive.ObjectID `bson:"destinationStopId,omitempty" json:"destinationStopId,omitempty"`

	ScannedAt       time.Time  `bson:"scannedAt" json:"scannedAt"`
	ClientTimestamp *time.Time `bson:"clientTimestamp,omitempty" json:"clientTimestamp,omitempty"`
	ClientEventID   string     `bson:"clientEventId" json:"clientEventId"`

	PointsAwarded int     `bson:"pointsAwarded" json:"pointsAwarded"`
	CO2SavedGrams float64 `bson:"co2SavedGrams" json:"co2SavedGrams"`

	DeviceHash string   `bson:"deviceHash,omitempty" json:"-"`
	IPHash     string   `bson:"ipHash,omitempty" json:"-"`
	Latitude   *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude  *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ScanRequest is the payload of the frictionless scan endpoint.
type ScanRequest struct {
	StaticQRID      string     `json:"staticQrId" binding:"required"`
	ScanType        ScanType   `json:"scanType" binding:"required,oneof=ENTRY EXIT"`
	ClientEventID   string     `json:"clientEventId" binding:"required,uuid"`
	ClientTimestamp *time.Time `json:"clientTimestamp"`
	DestinationStop string     `json:"destinationStopId"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	SessionToken    string     `json:"sessionToken"`
}

// ScanResponse is the instant feedback returned to the rider.
type ScanResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	RouteName    string `json:"routeName,omitempty"`
	BusNumber    string `json:"busNumber,omitempty"`
	PointsEarned int    `json:"pointsEarned"`
	CO2Saved     string `json:"co2Saved"`

	TotalPoints     int    `json:"totalPoints"`
	CurrentStreak   int    `json:"currentStreak"`
	TotalCO2Display string `json:"totalCo2Display"`

	NewAchievements []string `json:"newAchievements"`

	SessionToken string `json:"sessionToken,omitempty"`
	StudentName  string `json:"studentName,omitempty"`
}
