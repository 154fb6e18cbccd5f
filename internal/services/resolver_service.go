package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// dayTokens maps time.Weekday to the canonical schedule tokens. The mapping is
// explicit so resolution never depends on the host locale's day names.
var dayTokens = map[time.Weekday]string{
	time.Monday:    models.DayMon,
	time.Tuesday:   models.DayTue,
	time.Wednesday: models.DayWed,
	time.Thursday:  models.DayThu,
	time.Friday:    models.DayFri,
	time.Saturday:  models.DaySat,
	time.Sunday:    models.DaySun,
}

// ResolverService is the route resolution engine: it maps (bus, timestamp) to
// the schedule assignment covering that instant. Pure lookups, no shared
// mutable state, safe for full request parallelism.
type ResolverService struct {
	busRepo      repositories.BusRepository
	scheduleRepo repositories.ScheduleRepository
	routeRepo    repositories.RouteRepository
}

// NewResolverService creates a new ResolverService
func NewResolverService(busRepo repositories.BusRepository, scheduleRepo repositories.ScheduleRepository, routeRepo repositories.RouteRepository) *ResolverService {
	return &ResolverService{
		busRepo:      busRepo,
		scheduleRepo: scheduleRepo,
		routeRepo:    routeRepo,
	}
}

// ResolveRoute resolves which route a bus is serving at scanTime.
// Returns ErrNoScheduleMatch when no active assignment covers the instant.
func (s *ResolverService) ResolveRoute(ctx context.Context, busID primitive.ObjectID, scanTime time.Time) (primitive.ObjectID, error) {
	assignments, err := s.scheduleRepo.FindActiveByBusID(ctx, busID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to load assignments: %w", err)
	}
	if len(assignments) == 0 {
		slog.Debug("No schedule assignments for bus", "busId", busID.Hex())
		return primitive.NilObjectID, ErrNoScheduleMatch
	}

	day := dayTokens[scanTime.Weekday()]
	minuteOfDay := scanTime.Hour()*60 + scanTime.Minute()

	var matches []*models.ScheduleAssignment
	for _, assignment := range assignments {
		if !containsDay(assignment.DaysOfWeek, day) {
			continue
		}
		start, err := parseClock(assignment.StartTime)
		if err != nil {
			slog.Warn("Skipping assignment with bad start time", "assignmentId", assignment.ID.Hex(), "startTime", assignment.StartTime)
			continue
		}
		end, err := parseClock(assignment.EndTime)
		if err != nil {
			slog.Warn("Skipping assignment with bad end time", "assignmentId", assignment.ID.Hex(), "endTime", assignment.EndTime)
			continue
		}
		if timeInRange(minuteOfDay, start, end) {
			matches = append(matches, assignment)
		}
	}

	if len(matches) == 0 {
		slog.Debug("No matching schedule", "busId", busID.Hex(), "day", day, "minute", minuteOfDay)
		return primitive.NilObjectID, ErrNoScheduleMatch
	}

	// Highest priority wins; equal priorities break by lowest assignment id so
	// repeated runs always pick the same assignment.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority > matches[j].Priority
		}
		return matches[i].ID.Hex() < matches[j].ID.Hex()
	})

	best := matches[0]
	slog.Debug("Resolved route", "busId", busID.Hex(), "routeId", best.RouteID.Hex(), "priority", best.Priority)
	return best.RouteID, nil
}

// ResolveFromStaticQR maps a scanned static QR identifier to its bus, then
// resolves the route the bus is serving at scanTime.
func (s *ResolverService) ResolveFromStaticQR(ctx context.Context, staticQRID string, scanTime time.Time) (primitive.ObjectID, primitive.ObjectID, error) {
	bus, err := s.busRepo.FindActiveByStaticQR(ctx, staticQRID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			slog.Info("Unknown or inactive bus QR", "staticQrId", staticQRID)
			return primitive.NilObjectID, primitive.NilObjectID, ErrBusNotFound
		}
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("failed to load bus: %w", err)
	}

	routeID, err := s.ResolveRoute(ctx, bus.ID, scanTime)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return bus.ID, routeID, nil
}

// RouteInfo loads the details of a resolved route
func (s *ResolverService) RouteInfo(ctx context.Context, routeID primitive.ObjectID) (*models.Route, error) {
	return s.routeRepo.FindByID(ctx, routeID)
}

// timeInRange reports whether minute t falls in [start, end], both inclusive.
// A window whose start is after its end wraps past midnight.
func timeInRange(t, start, end int) bool {
	if start <= end {
		return start <= t && t <= end
	}
	return t >= start || t <= end
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(value string) (int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
