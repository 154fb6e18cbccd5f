package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicateKey is returned by Create operations when a unique index is
// violated. For scan events this is the sole "already processed" signal the
// orchestrator relies on.
var ErrDuplicateKey = errors.New("duplicate key")

// BusRepository defines the interface for bus data operations
type BusRepository interface {
	Create(ctx context.Context, bus *models.Bus) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bus, error)
	FindActiveByStaticQR(ctx context.Context, staticQRID string) (*models.Bus, error)
	FindAll(ctx context.Context) ([]*models.Bus, error)
	Update(ctx context.Context, bus *models.Bus) error
}

// RouteRepository defines the interface for route data operations
type RouteRepository interface {
	Create(ctx context.Context, route *models.Route) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Route, error)
	FindActive(ctx context.Context) ([]*models.Route, error)
	Update(ctx context.Context, route *models.Route) error
}

// BusStopRepository defines the interface for bus stop data operations
type BusStopRepository interface {
	Create(ctx context.Context, stop *models.BusStop) error
	FindByRouteID(ctx context.Context, routeID primitive.ObjectID) ([]*models.BusStop, error)
}

// ScheduleRepository defines the interface for schedule assignment operations
type ScheduleRepository interface {
	Create(ctx context.Context, assignment *models.ScheduleAssignment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ScheduleAssignment, error)
	FindActiveByBusID(ctx context.Context, busID primitive.ObjectID) ([]*models.ScheduleAssignment, error)
	Update(ctx context.Context, assignment *models.ScheduleAssignment) error
}

// StudentRepository defines the interface for student data operations
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	// FindByToken returns the student holding a live (non-expired) session token.
	FindByToken(ctx context.Context, token string, now time.Time) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	// ApplyScanTotals advances the cached aggregates for one scan in a single
	// document update: $inc on totals, $set on streak state.
	ApplyScanTotals(ctx context.Context, id primitive.ObjectID, points int, co2Grams float64, streak int, lastScanDate time.Time) error
	TopByPoints(ctx context.Context, limit int) ([]*models.Student, error)
}

// ScanEventRepository defines the interface for scan event operations
type ScanEventRepository interface {
	// Create inserts the event. A clientEventId collision yields ErrDuplicateKey.
	Create(ctx context.Context, event *models.ScanEvent) error
	CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error)
	CountDistinctRoutes(ctx context.Context, studentID primitive.ObjectID) (int64, error)
}

// UserPointRepository defines the interface for the append-only points ledger
type UserPointRepository interface {
	Create(ctx context.Context, entry *models.UserPoint) error
	FindByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]*models.UserPoint, error)
	SumByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error)
}

// AchievementRepository defines the interface for achievement definitions
type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	FindAll(ctx context.Context) ([]*models.Achievement, error)
	FindByCode(ctx context.Context, code string) (*models.Achievement, error)
	FindEarnedByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*models.Achievement, error)
}

// StudentAchievementRepository defines the interface for achievement grants
type StudentAchievementRepository interface {
	// Create inserts the grant. A (studentId, achievementId) collision yields
	// ErrDuplicateKey.
	Create(ctx context.Context, grant *models.StudentAchievement) error
	FindAchievementIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error)
	CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error)
}

// DailyStatsRepository defines the interface for per-day ridership aggregates
type DailyStatsRepository interface {
	IncrementForScan(ctx context.Context, date time.Time, routeID, busID primitive.ObjectID, points int, co2Grams float64) error
	FindByDate(ctx context.Context, date time.Time) ([]*models.DailyStats, error)
}

// AdminUserRepository defines the interface for admin account operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
