package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is a rider. Students are created anonymously on first scan and may
// later claim their profile; identity fields merge in place and the anonymity
// flag flips, no new entity is created.
//
// TotalPoints, CurrentStreak, LastScanDate and TotalCO2Saved are cached
// aggregates. The user_points ledger remains the authoritative audit trail;
// the cache and the ledger are written in the same transaction per scan.
type Student struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StudentID string             `bson:"studentId,omitempty" json:"studentId,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	FirstName string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string             `bson:"lastName,omitempty" json:"lastName,omitempty"`

	TotalPoints   int        `bson:"totalPoints" json:"totalPoints"`
	CurrentStreak int        `bson:"currentStreak" json:"currentStreak"`
	LastScanDate  *time.Time `bson:"lastScanDate,omitempty" json:"lastScanDate,omitempty"`
	TotalCO2Saved float64    `bson:"totalCo2Saved" json:"totalCo2Saved"`

	IsAnonymous bool `bson:"isAnonymous" json:"isAnonymous"`

	SessionToken string    `bson:"sessionToken,omitempty" json:"-"`
	TokenExpires time.Time `bson:"tokenExpires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName returns "First Last" for claimed profiles and "" for anonymous ones.
func (s *Student) DisplayName() string {
	if s.IsAnonymous {
		return ""
	}
	return s.FirstName + " " + s.LastName
}

// StudentSummary is the read-only gamification projection for a student.
type StudentSummary struct {
	TotalPoints      int               `json:"totalPoints"`
	CurrentStreak    int               `json:"currentStreak"`
	TotalCO2Saved    float64           `json:"totalCo2Saved"`
	TotalCO2Display  string            `json:"totalCo2Display"`
	AchievementCount int64             `json:"achievementCount"`
	TotalRides       int64             `json:"totalRides"`
	LastScanDate     string            `json:"lastScanDate,omitempty"`
	Achievements     []AchievementInfo `json:"achievements"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	Name            string `json:"name"`
	TotalPoints     int    `json:"totalPoints"`
	CurrentStreak   int    `json:"currentStreak"`
	TotalCO2Display string `json:"totalCo2Display"`
	TotalRides      int64  `json:"totalRides"`
}

// IdentifyRequest claims an anonymous profile.
type IdentifyRequest struct {
	SessionToken string `json:"sessionToken" binding:"required"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	StudentID    string `json:"studentId"`
	Email        string `json:"email" binding:"omitempty,email"`
}
