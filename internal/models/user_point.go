package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserPoint is one append-only ledger entry for a point award. Entries are
// never updated or deleted; the sum of a student's entries always matches the
// cached TotalPoints on the student document.
type UserPoint struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	StudentID primitive.ObjectID  `bson:"studentId" json:"studentId"`
	ScanID    *primitive.ObjectID `bson:"scanId,omitempty" json:"scanId,omitempty"`
	Points    int                 `bson:"points" json:"points"`
	Reason    string              `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
