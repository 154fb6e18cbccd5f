package services

import (
	"context"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transactor runs a function atomically against the data store. The MongoDB
// client satisfies it; tests substitute a pass-through.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ScanService defines the interface for the scan orchestration pipeline
type ScanService interface {
	// ProcessScan runs the full pipeline for one tap: student resolution, route
	// resolution, reward computation, persistence and achievement evaluation.
	ProcessScan(ctx context.Context, req *models.ScanRequest, deviceHash, ipHash string) (*models.ScanResponse, error)
}

// StudentService defines the interface for student-facing operations
type StudentService interface {
	// FindOrCreateByToken returns the live student for a token, or mints a
	// fresh anonymous student when the token is absent, unknown or expired.
	FindOrCreateByToken(ctx context.Context, token string) (*models.Student, error)

	// Identify claims an anonymous profile in place.
	Identify(ctx context.Context, req *models.IdentifyRequest) error

	// Summary returns the gamification projection for the token's student.
	Summary(ctx context.Context, token string) (*models.StudentSummary, error)

	// Leaderboard returns the top named students by points.
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// ScheduleService defines the interface for fleet and schedule administration
type ScheduleService interface {
	CreateBus(ctx context.Context, bus *models.Bus) error
	ListBuses(ctx context.Context) ([]*models.Bus, error)
	UpdateBus(ctx context.Context, bus *models.Bus) error

	CreateRoute(ctx context.Context, route *models.Route) error
	ListActiveRoutes(ctx context.Context) ([]*models.Route, error)
	UpdateRoute(ctx context.Context, route *models.Route) error

	CreateStop(ctx context.Context, stop *models.BusStop) error
	ListStops(ctx context.Context, routeID primitive.ObjectID) ([]*models.BusStop, error)

	CreateAssignment(ctx context.Context, assignment *models.ScheduleAssignment) error
	UpdateAssignment(ctx context.Context, assignment *models.ScheduleAssignment) error

	// BusScheduleByQR returns the weekly schedule view for the bus behind a
	// static QR identifier.
	BusScheduleByQR(ctx context.Context, staticQRID string) (string, []models.ScheduleEntry, error)

	DailyStats(ctx context.Context, date time.Time) ([]*models.DailyStats, error)
}

// AuthService defines the interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)

	// EnsureAdmin seeds the bootstrap admin account when it does not exist.
	EnsureAdmin(ctx context.Context, email, password string) error
}
