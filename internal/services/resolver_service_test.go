package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/uidelink/uidelink-backend/internal/models"
)

func newResolverFixture(t *testing.T) (*ResolverService, *fakeBusRepo, *fakeScheduleRepo, *fakeRouteRepo) {
	t.Helper()
	busRepo := newFakeBusRepo()
	scheduleRepo := &fakeScheduleRepo{}
	routeRepo := newFakeRouteRepo()
	return NewResolverService(busRepo, scheduleRepo, routeRepo), busRepo, scheduleRepo, routeRepo
}

func mustAssign(t *testing.T, repo *fakeScheduleRepo, busID, routeID primitive.ObjectID, days []string, start, end string, priority int) *models.ScheduleAssignment {
	t.Helper()
	a := &models.ScheduleAssignment{
		BusID:      busID,
		RouteID:    routeID,
		StartTime:  start,
		EndTime:    end,
		DaysOfWeek: days,
		Priority:   priority,
		IsActive:   true,
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

// A Tuesday; picked so weekday-based matching is deterministic.
func tuesdayAt(hour, minute int) time.Time {
	return time.Date(2026, time.March, 3, hour, minute, 0, 0, time.UTC)
}

func TestResolveRoutePicksHigherPriorityOverlap(t *testing.T) {
	resolver, _, scheduleRepo, _ := newResolverFixture(t)
	busID := primitive.NewObjectID()
	routeA := primitive.NewObjectID()
	routeB := primitive.NewObjectID()

	// Route A runs all morning at priority 0, Route B claims a narrower
	// window inside it at priority 1.
	mustAssign(t, scheduleRepo, busID, routeA, []string{models.DayMon, models.DayTue}, "07:00", "12:00", 0)
	mustAssign(t, scheduleRepo, busID, routeB, []string{models.DayTue}, "09:00", "10:00", 1)

	resolved, err := resolver.ResolveRoute(context.Background(), busID, tuesdayAt(9, 30))
	require.NoError(t, err)
	require.Equal(t, routeB, resolved)

	// Outside B's window the wider assignment wins again.
	resolved, err = resolver.ResolveRoute(context.Background(), busID, tuesdayAt(11, 0))
	require.NoError(t, err)
	require.Equal(t, routeA, resolved)
}

func TestResolveRouteNoMatchOutsideAllWindows(t *testing.T) {
	resolver, _, scheduleRepo, _ := newResolverFixture(t)
	busID := primitive.NewObjectID()

	mustAssign(t, scheduleRepo, busID, primitive.NewObjectID(), []string{models.DayTue}, "07:00", "12:00", 0)

	_, err := resolver.ResolveRoute(context.Background(), busID, tuesdayAt(13, 0))
	require.ErrorIs(t, err, ErrNoScheduleMatch)
}

func TestResolveRouteNoAssignmentsAtAll(t *testing.T) {
	resolver, _, _, _ := newResolverFixture(t)

	_, err := resolver.ResolveRoute(context.Background(), primitive.NewObjectID(), tuesdayAt(9, 0))
	require.ErrorIs(t, err, ErrNoScheduleMatch)
}

func TestResolveRouteDayFilter(t *testing.T) {
	resolver, _, scheduleRepo, _ := newResolverFixture(t)
	busID := primitive.NewObjectID()

	mustAssign(t, scheduleRepo, busID, primitive.NewObjectID(), []string{models.DayMon, models.DayWed}, "00:00", "23:59", 0)

	_, err := resolver.ResolveRoute(context.Background(), busID, tuesdayAt(9, 0))
	require.ErrorIs(t, err, ErrNoScheduleMatch)
}

func TestResolveRouteBoundariesInclusive(t *testing.T) {
	resolver, _, scheduleRepo, _ := newResolverFixture(t)
	busID := primitive.NewObjectID()
	routeID := primitive.NewObjectID()

	mustAssign(t, scheduleRepo, busID, routeID, []string{models.DayTue}, "09:00", "10:00", 0)

	for _, tc := range []struct {
		name string
		at   time.Time
		ok   bool
	}{
		{"at start", tuesdayAt(9, 0), true},
		{"at end", tuesdayAt(10, 0), true},
		{"minute before start", tuesdayAt(8, 59), false},
		{"minute after end", tuesdayAt(10, 1), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			resolved, err := resolver.ResolveRoute(context.Background(), busID, tc.at)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, routeID, resolved)
			} else {
				require.ErrorIs(t, err, ErrNoScheduleMatch)
			}
		})
	}
}

func TestResolveRouteMidnightWrap(t *testing.T) {
	resolver, _, scheduleRepo, _ := newResolverFixture(t)
	busID := primitive.NewObjectID()
	routeID := primitive.NewObjectID()

	// Night service: 22:00 through 02:00 the next morning.
	mustAssign(t, scheduleRepo, busID, routeID, []string{models.DayTue}, "22:00", "02:00", 0)

	resolved, err := resolver.ResolveRoute(context.Background(), busID, tuesdayAt(23, 30))
	require.NoError(t, err)
	require.Equal(t, routeID, resolved)

	resolved, err = resolver.ResolveRoute(context.Background(), busID, tuesdayAt(1, 0))
	require.NoError(t, err)
	require.Equal(t, routeID, resolved)

	_, err = resolver.ResolveRoute(context.Background(), busID, tuesdayAt(12, 0))
	require.ErrorIs(t, err, ErrNoScheduleMatch)
}

func TestResolveRouteEqualPriorityTieBreaksByID(t *testing.T) {
	resolver, _, scheduleRepo, _ := newResolverFixture(t)
	busID := primitive.NewObjectID()
	routeX := primitive.NewObjectID()
	routeY := primitive.NewObjectID()

	a := mustAssign(t, scheduleRepo, busID, routeX, []string{models.DayTue}, "08:00", "12:00", 3)
	b := mustAssign(t, scheduleRepo, busID, routeY, []string{models.DayTue}, "08:00", "12:00", 3)

	want := routeX
	if b.ID.Hex() < a.ID.Hex() {
		want = routeY
	}

	// Same winner on every run.
	for i := 0; i < 5; i++ {
		resolved, err := resolver.ResolveRoute(context.Background(), busID, tuesdayAt(9, 0))
		require.NoError(t, err)
		require.Equal(t, want, resolved)
	}
}

func TestResolveRouteSkipsMalformedTimes(t *testing.T) {
	resolver, _, scheduleRepo, _ := newResolverFixture(t)
	busID := primitive.NewObjectID()
	goodRoute := primitive.NewObjectID()

	mustAssign(t, scheduleRepo, busID, primitive.NewObjectID(), []string{models.DayTue}, "9am", "noon", 5)
	mustAssign(t, scheduleRepo, busID, goodRoute, []string{models.DayTue}, "08:00", "12:00", 0)

	resolved, err := resolver.ResolveRoute(context.Background(), busID, tuesdayAt(9, 0))
	require.NoError(t, err)
	require.Equal(t, goodRoute, resolved)
}

func TestResolveFromStaticQR(t *testing.T) {
	resolver, busRepo, scheduleRepo, _ := newResolverFixture(t)

	bus := &models.Bus{BusNumber: "42", StaticQRID: "qr-42", IsActive: true}
	require.NoError(t, busRepo.Create(context.Background(), bus))
	routeID := primitive.NewObjectID()
	mustAssign(t, scheduleRepo, bus.ID, routeID, []string{models.DayTue}, "07:00", "19:00", 0)

	busID, resolved, err := resolver.ResolveFromStaticQR(context.Background(), "qr-42", tuesdayAt(9, 0))
	require.NoError(t, err)
	require.Equal(t, bus.ID, busID)
	require.Equal(t, routeID, resolved)

	_, _, err = resolver.ResolveFromStaticQR(context.Background(), "qr-missing", tuesdayAt(9, 0))
	require.ErrorIs(t, err, ErrBusNotFound)
}

func TestResolveFromStaticQRInactiveBus(t *testing.T) {
	resolver, busRepo, _, _ := newResolverFixture(t)

	bus := &models.Bus{BusNumber: "7", StaticQRID: "qr-7", IsActive: false}
	require.NoError(t, busRepo.Create(context.Background(), bus))

	_, _, err := resolver.ResolveFromStaticQR(context.Background(), "qr-7", tuesdayAt(9, 0))
	require.ErrorIs(t, err, ErrBusNotFound)
}

func TestParseClock(t *testing.T) {
	m, err := parseClock("09:30")
	require.NoError(t, err)
	require.Equal(t, 9*60+30, m)

	m, err = parseClock("00:00")
	require.NoError(t, err)
	require.Equal(t, 0, m)

	m, err = parseClock("23:59")
	require.NoError(t, err)
	require.Equal(t, 23*60+59, m)

	_, err = parseClock("24:00")
	require.Error(t, err)
	_, err = parseClock("9:3")
	require.Error(t, err)
}
