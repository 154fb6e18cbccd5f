package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
)

// In-memory repository fakes. They mirror the index semantics of the real
// MongoDB implementations: unique clientEventId on scan events and unique
// (studentId, achievementId) on grants both surface ErrDuplicateKey.

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBusRepo struct {
	mu    sync.Mutex
	buses map[primitive.ObjectID]*models.Bus
}

func newFakeBusRepo() *fakeBusRepo {
	return &fakeBusRepo{buses: make(map[primitive.ObjectID]*models.Bus)}
}

func (r *fakeBusRepo) Create(ctx context.Context, bus *models.Bus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bus.ID.IsZero() {
		bus.ID = primitive.NewObjectID()
	}
	cp := *bus
	r.buses[bus.ID] = &cp
	return nil
}

func (r *fakeBusRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bus, ok := r.buses[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *bus
	return &cp, nil
}

func (r *fakeBusRepo) FindActiveByStaticQR(ctx context.Context, staticQRID string) (*models.Bus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bus := range r.buses {
		if bus.StaticQRID == staticQRID && bus.IsActive {
			cp := *bus
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeBusRepo) FindAll(ctx context.Context) ([]*models.Bus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Bus, 0, len(r.buses))
	for _, bus := range r.buses {
		cp := *bus
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBusRepo) Update(ctx context.Context, bus *models.Bus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *bus
	r.buses[bus.ID] = &cp
	return nil
}

type fakeRouteRepo struct {
	mu     sync.Mutex
	routes map[primitive.ObjectID]*models.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[primitive.ObjectID]*models.Route)}
}

func (r *fakeRouteRepo) Create(ctx context.Context, route *models.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if route.ID.IsZero() {
		route.ID = primitive.NewObjectID()
	}
	cp := *route
	r.routes[route.ID] = &cp
	return nil
}

func (r *fakeRouteRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	route, ok := r.routes[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *route
	return &cp, nil
}

func (r *fakeRouteRepo) FindActive(ctx context.Context) ([]*models.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Route
	for _, route := range r.routes {
		if route.IsActive {
			cp := *route
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRouteRepo) Update(ctx context.Context, route *models.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *route
	r.routes[route.ID] = &cp
	return nil
}

type fakeScheduleRepo struct {
	mu          sync.Mutex
	assignments []*models.ScheduleAssignment
}

func (r *fakeScheduleRepo) Create(ctx context.Context, assignment *models.ScheduleAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if assignment.ID.IsZero() {
		assignment.ID = primitive.NewObjectID()
	}
	cp := *assignment
	r.assignments = append(r.assignments, &cp)
	return nil
}

func (r *fakeScheduleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ScheduleAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeScheduleRepo) FindActiveByBusID(ctx context.Context, busID primitive.ObjectID) ([]*models.ScheduleAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ScheduleAssignment
	for _, a := range r.assignments {
		if a.BusID == busID && a.IsActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) Update(ctx context.Context, assignment *models.ScheduleAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.assignments {
		if a.ID == assignment.ID {
			cp := *assignment
			r.assignments[i] = &cp
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type fakeStopRepo struct {
	mu    sync.Mutex
	stops []*models.BusStop
}

func (r *fakeStopRepo) Create(ctx context.Context, stop *models.BusStop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stop.ID.IsZero() {
		stop.ID = primitive.NewObjectID()
	}
	cp := *stop
	r.stops = append(r.stops, &cp)
	return nil
}

func (r *fakeStopRepo) FindByRouteID(ctx context.Context, routeID primitive.ObjectID) ([]*models.BusStop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.BusStop
	for _, stop := range r.stops {
		if stop.RouteID == routeID {
			cp := *stop
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins []*models.AdminUser
}

func (r *fakeAdminRepo) Create(ctx context.Context, adminUser *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == adminUser.Email {
			return repositories.ErrDuplicateKey
		}
	}
	if adminUser.ID.IsZero() {
		adminUser.ID = primitive.NewObjectID()
	}
	cp := *adminUser
	r.admins = append(r.admins, &cp)
	return nil
}

func (r *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type fakeStudentRepo struct {
	mu       sync.Mutex
	students map[primitive.ObjectID]*models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[primitive.ObjectID]*models.Student)}
}

func (r *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	student.CreatedAt = time.Now()
	cp := *student
	r.students[student.ID] = &cp
	return nil
}

func (r *fakeStudentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	student, ok := r.students[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *student
	return &cp, nil
}

func (r *fakeStudentRepo) FindByToken(ctx context.Context, token string, now time.Time) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, student := range r.students {
		if student.SessionToken == token && student.TokenExpires.After(now) {
			cp := *student
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[student.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	cp := *student
	r.students[student.ID] = &cp
	return nil
}

func (r *fakeStudentRepo) ApplyScanTotals(ctx context.Context, id primitive.ObjectID, points int, co2Grams float64, streak int, lastScanDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	student, ok := r.students[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	student.TotalPoints += points
	student.TotalCO2Saved += co2Grams
	student.CurrentStreak = streak
	d := lastScanDate
	student.LastScanDate = &d
	student.UpdatedAt = time.Now()
	return nil
}

func (r *fakeStudentRepo) TopByPoints(ctx context.Context, limit int) ([]*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Student
	for _, student := range r.students {
		if student.IsAnonymous {
			continue
		}
		cp := *student
		out = append(out, &cp)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].TotalPoints > out[i].TotalPoints {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeScanRepo struct {
	mu     sync.Mutex
	events []*models.ScanEvent
}

func (r *fakeScanRepo) Create(ctx context.Context, event *models.ScanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ClientEventID == event.ClientEventID {
			return repositories.ErrDuplicateKey
		}
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	event.CreatedAt = time.Now()
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakeScanRepo) CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

func (r *fakeScanRepo) CountDistinctRoutes(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[primitive.ObjectID]bool)
	for _, e := range r.events {
		if e.StudentID == studentID {
			seen[e.InferredRouteID] = true
		}
	}
	return int64(len(seen)), nil
}

type fakePointRepo struct {
	mu      sync.Mutex
	entries []*models.UserPoint
}

func (r *fakePointRepo) Create(ctx context.Context, entry *models.UserPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.CreatedAt = time.Now()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakePointRepo) FindByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]*models.UserPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UserPoint
	for _, e := range r.entries {
		if e.StudentID == studentID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePointRepo) SumByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, e := range r.entries {
		if e.StudentID == studentID {
			sum += int64(e.Points)
		}
	}
	return sum, nil
}

type fakeAchievementRepo struct {
	mu           sync.Mutex
	achievements []*models.Achievement
	grants       *fakeGrantRepo
}

func (r *fakeAchievementRepo) Create(ctx context.Context, achievement *models.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.achievements {
		if a.Code == achievement.Code {
			return repositories.ErrDuplicateKey
		}
	}
	if achievement.ID.IsZero() {
		achievement.ID = primitive.NewObjectID()
	}
	cp := *achievement
	r.achievements = append(r.achievements, &cp)
	return nil
}

func (r *fakeAchievementRepo) FindAll(ctx context.Context) ([]*models.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Achievement, 0, len(r.achievements))
	for _, a := range r.achievements {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAchievementRepo) FindByCode(ctx context.Context, code string) (*models.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.achievements {
		if a.Code == code {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAchievementRepo) FindEarnedByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*models.Achievement, error) {
	ids, err := r.grants.FindAchievementIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Achievement
	for _, id := range ids {
		for _, a := range r.achievements {
			if a.ID == id {
				cp := *a
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

type fakeGrantRepo struct {
	mu     sync.Mutex
	grants []*models.StudentAchievement
}

func (r *fakeGrantRepo) Create(ctx context.Context, grant *models.StudentAchievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.grants {
		if g.StudentID == grant.StudentID && g.AchievementID == grant.AchievementID {
			return repositories.ErrDuplicateKey
		}
	}
	if grant.ID.IsZero() {
		grant.ID = primitive.NewObjectID()
	}
	grant.EarnedAt = time.Now()
	cp := *grant
	r.grants = append(r.grants, &cp)
	return nil
}

func (r *fakeGrantRepo) FindAchievementIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []primitive.ObjectID
	for _, g := range r.grants {
		if g.StudentID == studentID {
			out = append(out, g.AchievementID)
		}
	}
	return out, nil
}

func (r *fakeGrantRepo) CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	ids, err := r.FindAchievementIDs(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

type fakeStatsRepo struct {
	mu    sync.Mutex
	stats []*models.DailyStats
}

func (r *fakeStatsRepo) IncrementForScan(ctx context.Context, date time.Time, routeID, busID primitive.ObjectID, points int, co2Grams float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stats {
		if s.Date.Equal(date) && s.RouteID == routeID && s.BusID == busID {
			s.TotalScans++
			s.TotalPoints += points
			s.TotalCO2Saved += co2Grams
			return nil
		}
	}
	r.stats = append(r.stats, &models.DailyStats{
		ID:            primitive.NewObjectID(),
		Date:          date,
		RouteID:       routeID,
		BusID:         busID,
		TotalScans:    1,
		TotalPoints:   points,
		TotalCO2Saved: co2Grams,
	})
	return nil
}

func (r *fakeStatsRepo) FindByDate(ctx context.Context, date time.Time) ([]*models.DailyStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.DailyStats
	for _, s := range r.stats {
		if s.Date.Equal(date) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Interface conformance for the fakes.
var (
	_ repositories.BusRepository                = (*fakeBusRepo)(nil)
	_ repositories.BusStopRepository            = (*fakeStopRepo)(nil)
	_ repositories.AdminUserRepository          = (*fakeAdminRepo)(nil)
	_ repositories.RouteRepository              = (*fakeRouteRepo)(nil)
	_ repositories.ScheduleRepository           = (*fakeScheduleRepo)(nil)
	_ repositories.StudentRepository            = (*fakeStudentRepo)(nil)
	_ repositories.ScanEventRepository          = (*fakeScanRepo)(nil)
	_ repositories.UserPointRepository          = (*fakePointRepo)(nil)
	_ repositories.AchievementRepository        = (*fakeAchievementRepo)(nil)
	_ repositories.StudentAchievementRepository = (*fakeGrantRepo)(nil)
	_ repositories.DailyStatsRepository         = (*fakeStatsRepo)(nil)
	_ Transactor                                = fakeTx{}
)
