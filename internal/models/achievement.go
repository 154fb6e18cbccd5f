package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Achievement codes form a closed set; each code maps to one unlock rule in the
// gamification service.
const (
	AchievementFirstRide   = "FIRST_RIDE"
	AchievementWeekWarrior = "WEEK_WARRIOR"
	AchievementEcoHero     = "ECO_HERO"
	AchievementCentury     = "CENTURY"
	AchievementExplorer    = "EXPLORER"
)

// Achievement is a named unlockable.
type Achievement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code        string             `bson:"code" json:"code"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Icon        string             `bson:"icon,omitempty" json:"icon,omitempty"`
	Threshold   *int               `bson:"threshold,omitempty" json:"threshold,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// StudentAchievement joins a student to an earned achievement. A unique
// compound index on (studentId, achievementId) enforces at-most-once awards.
type StudentAchievement struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StudentID     primitive.ObjectID `bson:"studentId" json:"studentId"`
	AchievementID primitive.ObjectID `bson:"achievementId" json:"achievementId"`
	EarnedAt      time.Time          `bson:"earnedAt" json:"earnedAt"`
}

// AchievementInfo is the user-facing view of an earned achievement.
type AchievementInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}
