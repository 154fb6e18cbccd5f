package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reward constants.
const (
	// PointsPerKm is the base points awarded per kilometer of route distance.
	PointsPerKm = 10
	// DefaultPoints is the flat award for routes without distance data.
	DefaultPoints = 10
	// StreakBonusMultiplier boosts the current scan while a streak is active.
	StreakBonusMultiplier = 1.2
	// CO2PerKm is grams of CO2 saved per kilometer versus driving.
	CO2PerKm = 50.0
)

// Achievement thresholds.
const (
	weekWarriorStreak  = 7
	ecoHeroGrams       = 10000.0
	centuryPoints      = 100
	explorerRouteCount = 4
)

// achievementStats is the post-update state an unlock rule is evaluated
// against. Ride and route counts are loaded once per evaluation pass.
type achievementStats struct {
	student        *models.Student
	rideCount      int64
	distinctRoutes int64
}

// achievementRules maps each achievement code to its unlock predicate. Adding
// an achievement means adding a row here and a definition document; nothing
// dispatches on raw string comparisons elsewhere.
var achievementRules = map[string]func(achievementStats) bool{
	models.AchievementFirstRide: func(s achievementStats) bool {
		return s.rideCount >= 1
	},
	models.AchievementWeekWarrior: func(s achievementStats) bool {
		return s.student.CurrentStreak >= weekWarriorStreak
	},
	models.AchievementEcoHero: func(s achievementStats) bool {
		return s.student.TotalCO2Saved >= ecoHeroGrams
	},
	models.AchievementCentury: func(s achievementStats) bool {
		return s.student.TotalPoints >= centuryPoints
	},
	models.AchievementExplorer: func(s achievementStats) bool {
		return s.distinctRoutes >= explorerRouteCount
	},
}

// GamificationService owns points, CO2, streaks, the ledger and achievement
// unlocks. Constructed per wiring with its repositories injected; it keeps no
// state of its own between calls.
type GamificationService struct {
	routeRepo       repositories.RouteRepository
	studentRepo     repositories.StudentRepository
	scanRepo        repositories.ScanEventRepository
	pointRepo       repositories.UserPointRepository
	achievementRepo repositories.AchievementRepository
	grantRepo       repositories.StudentAchievementRepository
	tx              Transactor
}

// NewGamificationService creates a new GamificationService
func NewGamificationService(
	routeRepo repositories.RouteRepository,
	studentRepo repositories.StudentRepository,
	scanRepo repositories.ScanEventRepository,
	pointRepo repositories.UserPointRepository,
	achievementRepo repositories.AchievementRepository,
	grantRepo repositories.StudentAchievementRepository,
	tx Transactor,
) *GamificationService {
	return &GamificationService{
		routeRepo:       routeRepo,
		studentRepo:     studentRepo,
		scanRepo:        scanRepo,
		pointRepo:       pointRepo,
		achievementRepo: achievementRepo,
		grantRepo:       grantRepo,
		tx:              tx,
	}
}

// CalculatePoints computes the award for a ride on the given route. Routes
// without distance data earn the flat default with no streak bonus. The bonus
// applies only to the current scan and truncates toward zero; the result never
// drops below one point.
func (s *GamificationService) CalculatePoints(ctx context.Context, routeID primitive.ObjectID, hasActiveStreak bool) (int, error) {
	route, err := s.routeRepo.FindByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return DefaultPoints, nil
		}
		return 0, fmt.Errorf("failed to load route: %w", err)
	}
	if route.DistanceKm == nil {
		return DefaultPoints, nil
	}

	points := int(*route.DistanceKm * PointsPerKm)
	if hasActiveStreak {
		points = int(float64(points) * StreakBonusMultiplier)
	}
	if points < 1 {
		points = 1
	}
	return points, nil
}

// CalculateCO2Saved computes grams of CO2 saved for a ride on the given route,
// rounded to two decimals. Zero when the route carries no distance data.
func (s *GamificationService) CalculateCO2Saved(ctx context.Context, routeID primitive.ObjectID) (float64, error) {
	route, err := s.routeRepo.FindByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load route: %w", err)
	}
	if route.DistanceKm == nil {
		return 0, nil
	}
	return math.Round(*route.DistanceKm*CO2PerKm*100) / 100, nil
}

// NextStreak applies the streak state machine to one new scan date.
//
//	no previous scan        -> 1
//	same calendar day       -> unchanged
//	next calendar day       -> +1
//	gap or out of order     -> reset to 1
func NextStreak(currentStreak int, lastScanDate *time.Time, scanDate time.Time) int {
	if lastScanDate == nil {
		return 1
	}
	switch daysBetween(*lastScanDate, scanDate) {
	case 0:
		return currentStreak
	case 1:
		return currentStreak + 1
	default:
		return 1
	}
}

// daysBetween counts calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

// AwardScan records one scan's reward: it appends the ledger entry and
// advances the student's cached totals and streak state in a single
// transaction, so the cache can never drift from the ledger sum.
func (s *GamificationService) AwardScan(ctx context.Context, studentID primitive.ObjectID, scanID primitive.ObjectID, points int, co2Grams float64, streak int, scanDate time.Time, reason string) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		entry := &models.UserPoint{
			StudentID: studentID,
			ScanID:    &scanID,
			Points:    points,
			Reason:    reason,
		}
		if err := s.pointRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		if err := s.studentRepo.ApplyScanTotals(txCtx, studentID, points, co2Grams, streak, scanDate); err != nil {
			return fmt.Errorf("failed to update student totals: %w", err)
		}
		return nil
	})
}

// CheckAndAwardAchievements evaluates every rule a student has not yet
// unlocked against the already-updated aggregates and grants the satisfied
// ones. The unique (student, achievement) index makes a concurrent double
// grant collapse into one row.
func (s *GamificationService) CheckAndAwardAchievements(ctx context.Context, studentID primitive.ObjectID) ([]string, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	achievements, err := s.achievementRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	earnedIDs, err := s.grantRepo.FindAchievementIDs(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned achievements: %w", err)
	}
	earned := make(map[primitive.ObjectID]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	rideCount, err := s.scanRepo.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rides: %w", err)
	}
	distinctRoutes, err := s.scanRepo.CountDistinctRoutes(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count routes: %w", err)
	}

	stats := achievementStats{
		student:        student,
		rideCount:      rideCount,
		distinctRoutes: distinctRoutes,
	}

	var newlyEarned []string
	for _, achievement := range achievements {
		if earned[achievement.ID] {
			continue
		}
		rule, ok := achievementRules[achievement.Code]
		if !ok {
			slog.Warn("Achievement has no unlock rule", "code", achievement.Code)
			continue
		}
		if !rule(stats) {
			continue
		}

		grant := &models.StudentAchievement{
			StudentID:     studentID,
			AchievementID: achievement.ID,
		}
		if err := s.grantRepo.Create(ctx, grant); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				// Lost a race with a concurrent scan; the other grant stands.
				continue
			}
			return nil, fmt.Errorf("failed to grant achievement %s: %w", achievement.Code, err)
		}
		slog.Info("Achievement unlocked", "studentId", studentID.Hex(), "code", achievement.Code)
		newlyEarned = append(newlyEarned, achievement.Code)
	}
	return newlyEarned, nil
}

// Summary builds the read-only gamification projection for a student.
func (s *GamificationService) Summary(ctx context.Context, studentID primitive.ObjectID) (*models.StudentSummary, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	achievementCount, err := s.grantRepo.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count achievements: %w", err)
	}
	rideCount, err := s.scanRepo.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rides: %w", err)
	}
	earned, err := s.achievementRepo.FindEarnedByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned achievements: %w", err)
	}

	infos := make([]models.AchievementInfo, 0, len(earned))
	for _, a := range earned {
		infos = append(infos, models.AchievementInfo{
			Code:        a.Code,
			Name:        a.Name,
			Icon:        a.Icon,
			Description: a.Description,
		})
	}

	summary := &models.StudentSummary{
		TotalPoints:      student.TotalPoints,
		CurrentStreak:    student.CurrentStreak,
		TotalCO2Saved:    student.TotalCO2Saved,
		TotalCO2Display:  FormatCO2Display(student.TotalCO2Saved),
		AchievementCount: achievementCount,
		TotalRides:       rideCount,
		Achievements:     infos,
	}
	if student.LastScanDate != nil {
		summary.LastScanDate = student.LastScanDate.Format("2006-01-02")
	}
	return summary, nil
}

// FormatCO2Display renders grams for users: "1.2kg" at or above a kilogram,
// "450g" below. The exact shape is part of the public contract.
func FormatCO2Display(co2Grams float64) string {
	if co2Grams >= 1000 {
		return fmt.Sprintf("%.1fkg", co2Grams/1000)
	}
	return fmt.Sprintf("%dg", int(co2Grams))
}
