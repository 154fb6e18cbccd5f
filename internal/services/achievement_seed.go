package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

func intPtr(v int) *int { return &v }

// defaultAchievements are the built-in unlockables. Codes must stay in sync
// with achievementRules.
var defaultAchievements = []models.Achievement{
	{Code: models.AchievementFirstRide, Name: "First Ride", Description: "Take your first bus ride", Icon: "🚌", Threshold: intPtr(1)},
	{Code: models.AchievementWeekWarrior, Name: "Week Warrior", Description: "Ride the bus 7 days in a row", Icon: "🔥", Threshold: intPtr(7)},
	{Code: models.AchievementEcoHero, Name: "Eco Hero", Description: "Save 10kg of CO2", Icon: "🌱", Threshold: intPtr(10000)},
	{Code: models.AchievementCentury, Name: "Century", Description: "Collect 100 points", Icon: "💯", Threshold: intPtr(100)},
	{Code: models.AchievementExplorer, Name: "Explorer", Description: "Ride 4 different routes", Icon: "🗺️", Threshold: intPtr(4)},
}

// EnsureDefaultAchievements inserts any missing built-in achievement
// definitions. Safe to call on every startup.
func (s *GamificationService) EnsureDefaultAchievements(ctx context.Context) error {
	for i := range defaultAchievements {
		achievement := defaultAchievements[i]
		_, err := s.achievementRepo.FindByCode(ctx, achievement.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("failed to check achievement %s: %w", achievement.Code, err)
		}
		if err := s.achievementRepo.Create(ctx, &achievement); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				continue
			}
			return fmt.Errorf("failed to seed achievement %s: %w", achievement.Code, err)
		}
		slog.Info("Seeded achievement", "code", achievement.Code)
	}
	return nil
}
