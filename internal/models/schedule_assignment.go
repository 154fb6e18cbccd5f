package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Canonical day-of-week tokens used in schedule day sets. Resolution derives
// the scan day from time.Weekday through an explicit mapping, so these tokens
// never depend on the host locale.
const (
	DayMon = "Mon"
	DayTue = "Tue"
	DayWed = "Wed"
	DayThu = "Thu"
	DayFri = "Fri"
	DaySat = "Sat"
	DaySun = "Sun"
)

// ValidDayTokens is the closed set of accepted day tokens.
var ValidDayTokens = map[string]bool{
	DayMon: true, DayTue: true, DayWed: true, DayThu: true,
	DayFri: true, DaySat: true, DaySun: true,
}

// ScheduleAssignment binds a bus to a route for a day set and time window.
// This is the heart of the chameleon bus system: one bus carries several
// assignments and the resolver picks the one covering the scan instant.
//
// StartTime and EndTime are times of day in "HH:MM". A window whose start is
// later than its end wraps past midnight. Priority breaks overlaps: higher
// wins.
type ScheduleAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BusID      primitive.ObjectID `bson:"busId" json:"busId"`
	RouteID    primitive.ObjectID `bson:"routeId" json:"routeId"`
	StartTime  string             `bson:"startTime" json:"startTime"`
	EndTime    string             `bson:"endTime" json:"endTime"`
	DaysOfWeek []string           `bson:"daysOfWeek" json:"daysOfWeek"`
	Priority   int                `bson:"priority" json:"priority"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// ScheduleEntry is the admin/debug view of one assignment joined with its route.
type ScheduleEntry struct {
	RouteID   primitive.ObjectID `json:"routeId"`
	RouteCode string             `json:"routeCode"`
	RouteName string             `json:"routeName"`
	StartTime string             `json:"startTime"`
	EndTime   string             `json:"endTime"`
	Days      []string           `json:"days"`
	Priority  int                `json:"priority"`
}
