package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/publisher"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Scan outcome labels reported to metrics.
const (
	OutcomeResolved    = "resolved"
	OutcomeBusNotFound = "bus_not_found"
	OutcomeNoSchedule  = "no_schedule"
	OutcomeDuplicate   = "duplicate"
	OutcomeError       = "error"
)

// ScanMetrics receives instrumentation from the scan pipeline. Nil disables it.
type ScanMetrics interface {
	ScanObserve(outcome string, d time.Duration)
	PointsAdd(points int)
	AchievementInc(code string)
}

// ScanPublisher streams processed scans to downstream consumers. Nil disables it.
type ScanPublisher interface {
	PublishScan(msg publisher.ScanMessage) error
}

// Compile-time check to ensure ScanServiceImpl implements ScanService
var _ ScanService = (*ScanServiceImpl)(nil)

// ScanServiceImpl sequences resolver, gamification and persistence for each
// incoming tap. Per-student mutations are serialized through striped locks so
// two concurrent scans for the same student cannot race the streak update or
// double-grant achievements.
type ScanServiceImpl struct {
	resolver     *ResolverService
	gamification *GamificationService
	students     StudentService
	busRepo      repositories.BusRepository
	routeRepo    repositories.RouteRepository
	scanRepo     repositories.ScanEventRepository
	statsRepo    repositories.DailyStatsRepository
	publisher    ScanPublisher
	metrics      ScanMetrics

	locks [64]sync.Mutex
}

// NewScanService creates a new ScanServiceImpl
func NewScanService(
	resolver *ResolverService,
	gamification *GamificationService,
	students StudentService,
	busRepo repositories.BusRepository,
	routeRepo repositories.RouteRepository,
	scanRepo repositories.ScanEventRepository,
	statsRepo repositories.DailyStatsRepository,
	pub ScanPublisher,
	m ScanMetrics,
) *ScanServiceImpl {
	return &ScanServiceImpl{
		resolver:     resolver,
		gamification: gamification,
		students:     students,
		busRepo:      busRepo,
		routeRepo:    routeRepo,
		scanRepo:     scanRepo,
		statsRepo:    statsRepo,
		publisher:    pub,
		metrics:      m,
	}
}

// ProcessScan runs the full pipeline for one tap.
func (s *ScanServiceImpl) ProcessScan(ctx context.Context, req *models.ScanRequest, deviceHash, ipHash string) (*models.ScanResponse, error) {
	start := time.Now()
	resp, err := s.processScan(ctx, req, deviceHash, ipHash)
	if s.metrics != nil {
		s.metrics.ScanObserve(outcomeOf(err), time.Since(start))
	}
	return resp, err
}

func (s *ScanServiceImpl) processScan(ctx context.Context, req *models.ScanRequest, deviceHash, ipHash string) (*models.ScanResponse, error) {
	// Resolve the student first so a valid session survives even when route
	// resolution fails.
	student, err := s.students.FindOrCreateByToken(ctx, req.SessionToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve student: %w", err)
	}

	scanTime := time.Now()
	if req.ClientTimestamp != nil {
		scanTime = *req.ClientTimestamp
	}

	busID, routeID, err := s.resolver.ResolveFromStaticQR(ctx, req.StaticQRID, scanTime)
	if err != nil {
		return nil, err
	}

	bus, err := s.busRepo.FindByID(ctx, busID)
	if err != nil {
		return nil, integrityError("bus", busID, err)
	}
	route, err := s.routeRepo.FindByID(ctx, routeID)
	if err != nil {
		return nil, integrityError("route", routeID, err)
	}

	hasActiveStreak := student.CurrentStreak > 0
	points, err := s.gamification.CalculatePoints(ctx, routeID, hasActiveStreak)
	if err != nil {
		return nil, err
	}
	co2Saved, err := s.gamification.CalculateCO2Saved(ctx, routeID)
	if err != nil {
		return nil, err
	}

	// Single writer per student from here on.
	lock := s.studentLock(student.ID)
	lock.Lock()
	defer lock.Unlock()

	event := &models.ScanEvent{
		StudentID:       student.ID,
		BusID:           busID,
		InferredRouteID: routeID,
		ScanType:        req.ScanType,
		DestinationStop: parseOptionalID(req.DestinationStop),
		ScannedAt:       time.Now(),
		ClientTimestamp: req.ClientTimestamp,
		ClientEventID:   req.ClientEventID,
		PointsAwarded:   points,
		CO2SavedGrams:   co2Saved,
		DeviceHash:      deviceHash,
		IPHash:          ipHash,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	}
	if err := s.scanRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			slog.Info("Duplicate scan event ignored", "clientEventId", req.ClientEventID)
			return nil, ErrDuplicateScan
		}
		return nil, fmt.Errorf("failed to store scan event: %w", err)
	}

	scanDate := time.Date(scanTime.Year(), scanTime.Month(), scanTime.Day(), 0, 0, 0, 0, scanTime.Location())
	newStreak := NextStreak(student.CurrentStreak, student.LastScanDate, scanDate)

	reason := fmt.Sprintf("Bus ride on %s", route.Name)
	if err := s.gamification.AwardScan(ctx, student.ID, event.ID, points, co2Saved, newStreak, scanDate, reason); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PointsAdd(points)
	}

	newAchievements, err := s.gamification.CheckAndAwardAchievements(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		for _, code := range newAchievements {
			s.metrics.AchievementInc(code)
		}
	}

	// Dashboard aggregates and the event stream are best effort: a failure
	// there must not fail a scan that is already durable.
	if err := s.statsRepo.IncrementForScan(ctx, scanDate, routeID, busID, points, co2Saved); err != nil {
		slog.Warn("Failed to update daily stats", "error", err)
	}
	if s.publisher != nil {
		msg := publisher.ScanMessage{
			BusNumber: bus.BusNumber,
			RouteCode: route.Code,
			RouteName: route.Name,
			StudentID: student.ID.Hex(),
			ScanType:  string(req.ScanType),
			Points:    points,
			CO2Grams:  co2Saved,
			ScannedAt: event.ScannedAt,
		}
		if err := s.publisher.PublishScan(msg); err != nil {
			slog.Warn("Failed to publish scan", "error", err)
		}
	}

	updated, err := s.gamification.studentRepo.FindByID(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload student: %w", err)
	}

	if newAchievements == nil {
		newAchievements = []string{}
	}
	return &models.ScanResponse{
		Success:         true,
		Message:         fmt.Sprintf("Welcome! Route detected: %s", route.Name),
		RouteName:       route.Name,
		BusNumber:       bus.BusNumber,
		PointsEarned:    points,
		CO2Saved:        FormatCO2Display(co2Saved),
		TotalPoints:     updated.TotalPoints,
		CurrentStreak:   updated.CurrentStreak,
		TotalCO2Display: FormatCO2Display(updated.TotalCO2Saved),
		NewAchievements: newAchievements,
		SessionToken:    updated.SessionToken,
		StudentName:     updated.DisplayName(),
	}, nil
}

// studentLock returns the stripe guarding a student id.
func (s *ScanServiceImpl) studentLock(id primitive.ObjectID) *sync.Mutex {
	h := fnv.New32a()
	h.Write(id[:])
	return &s.locks[h.Sum32()%uint32(len(s.locks))]
}

func integrityError(kind string, id primitive.ObjectID, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		slog.Error("Resolved entity missing", "kind", kind, "id", id.Hex())
		return ErrDataIntegrity
	}
	return fmt.Errorf("failed to load %s: %w", kind, err)
}

func parseOptionalID(hex string) *primitive.ObjectID {
	if hex == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &id
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeResolved
	case errors.Is(err, ErrBusNotFound):
		return OutcomeBusNotFound
	case errors.Is(err, ErrNoScheduleMatch):
		return OutcomeNoSchedule
	case errors.Is(err, ErrDuplicateScan):
		return OutcomeDuplicate
	default:
		return OutcomeError
	}
}
