package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure ScheduleServiceImpl implements ScheduleService
var _ ScheduleService = (*ScheduleServiceImpl)(nil)

// ScheduleServiceImpl handles fleet and schedule administration.
type ScheduleServiceImpl struct {
	busRepo      repositories.BusRepository
	routeRepo    repositories.RouteRepository
	stopRepo     repositories.BusStopRepository
	scheduleRepo repositories.ScheduleRepository
	statsRepo    repositories.DailyStatsRepository
}

// NewScheduleService creates a new ScheduleServiceImpl
func NewScheduleService(
	busRepo repositories.BusRepository,
	routeRepo repositories.RouteRepository,
	stopRepo repositories.BusStopRepository,
	scheduleRepo repositories.ScheduleRepository,
	statsRepo repositories.DailyStatsRepository,
) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		busRepo:      busRepo,
		routeRepo:    routeRepo,
		stopRepo:     stopRepo,
		scheduleRepo: scheduleRepo,
		statsRepo:    statsRepo,
	}
}

// CreateBus creates a bus
func (s *ScheduleServiceImpl) CreateBus(ctx context.Context, bus *models.Bus) error {
	if bus.BusNumber == "" || bus.StaticQRID == "" {
		return errors.New("bus number and static QR id are required")
	}
	return s.busRepo.Create(ctx, bus)
}

// ListBuses lists all buses
func (s *ScheduleServiceImpl) ListBuses(ctx context.Context) ([]*models.Bus, error) {
	return s.busRepo.FindAll(ctx)
}

// UpdateBus updates a bus
func (s *ScheduleServiceImpl) UpdateBus(ctx context.Context, bus *models.Bus) error {
	return s.busRepo.Update(ctx, bus)
}

// CreateRoute creates a route
func (s *ScheduleServiceImpl) CreateRoute(ctx context.Context, route *models.Route) error {
	if route.Code == "" || route.Name == "" {
		return errors.New("route code and name are required")
	}
	return s.routeRepo.Create(ctx, route)
}

// ListActiveRoutes lists active routes
func (s *ScheduleServiceImpl) ListActiveRoutes(ctx context.Context) ([]*models.Route, error) {
	return s.routeRepo.FindActive(ctx)
}

// UpdateRoute updates a route
func (s *ScheduleServiceImpl) UpdateRoute(ctx context.Context, route *models.Route) error {
	return s.routeRepo.Update(ctx, route)
}

// CreateStop creates a bus stop on a route
func (s *ScheduleServiceImpl) CreateStop(ctx context.Context, stop *models.BusStop) error {
	if _, err := s.routeRepo.FindByID(ctx, stop.RouteID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("route %s does not exist", stop.RouteID.Hex())
		}
		return err
	}
	return s.stopRepo.Create(ctx, stop)
}

// ListStops lists the stops of a route in stop order
func (s *ScheduleServiceImpl) ListStops(ctx context.Context, routeID primitive.ObjectID) ([]*models.BusStop, error) {
	return s.stopRepo.FindByRouteID(ctx, routeID)
}

// CreateAssignment creates a schedule assignment after validating its day set
// and time window.
func (s *ScheduleServiceImpl) CreateAssignment(ctx context.Context, assignment *models.ScheduleAssignment) error {
	if err := validateAssignment(assignment); err != nil {
		return err
	}
	if _, err := s.busRepo.FindByID(ctx, assignment.BusID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("bus %s does not exist", assignment.BusID.Hex())
		}
		return err
	}
	if _, err := s.routeRepo.FindByID(ctx, assignment.RouteID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("route %s does not exist", assignment.RouteID.Hex())
		}
		return err
	}
	return s.scheduleRepo.Create(ctx, assignment)
}

// UpdateAssignment updates a schedule assignment
func (s *ScheduleServiceImpl) UpdateAssignment(ctx context.Context, assignment *models.ScheduleAssignment) error {
	if err := validateAssignment(assignment); err != nil {
		return err
	}
	return s.scheduleRepo.Update(ctx, assignment)
}

// BusScheduleByQR returns the weekly schedule view for the bus behind a static
// QR identifier, joined with route details.
func (s *ScheduleServiceImpl) BusScheduleByQR(ctx context.Context, staticQRID string) (string, []models.ScheduleEntry, error) {
	bus, err := s.busRepo.FindActiveByStaticQR(ctx, staticQRID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrBusNotFound
		}
		return "", nil, fmt.Errorf("failed to load bus: %w", err)
	}

	assignments, err := s.scheduleRepo.FindActiveByBusID(ctx, bus.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	entries := make([]models.ScheduleEntry, 0, len(assignments))
	for _, assignment := range assignments {
		route, err := s.routeRepo.FindByID(ctx, assignment.RouteID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return "", nil, fmt.Errorf("failed to load route: %w", err)
		}
		entries = append(entries, models.ScheduleEntry{
			RouteID:   route.ID,
			RouteCode: route.Code,
			RouteName: route.Name,
			StartTime: assignment.StartTime,
			EndTime:   assignment.EndTime,
			Days:      assignment.DaysOfWeek,
			Priority:  assignment.Priority,
		})
	}
	return bus.BusNumber, entries, nil
}

// DailyStats returns all ridership aggregates of one calendar day
func (s *ScheduleServiceImpl) DailyStats(ctx context.Context, date time.Time) ([]*models.DailyStats, error) {
	return s.statsRepo.FindByDate(ctx, date)
}

func validateAssignment(assignment *models.ScheduleAssignment) error {
	if len(assignment.DaysOfWeek) == 0 {
		return errors.New("assignment needs at least one day")
	}
	for _, day := range assignment.DaysOfWeek {
		if !models.ValidDayTokens[day] {
			return fmt.Errorf("invalid day token %q", day)
		}
	}
	if _, err := parseClock(assignment.StartTime); err != nil {
		return err
	}
	if _, err := parseClock(assignment.EndTime); err != nil {
		return err
	}
	return nil
}
