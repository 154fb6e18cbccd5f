package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the engines depend on. It is safe
// to call on every startup; Mongo treats identical definitions as a no-op.
//
// The scan_events.clientEventId index is the idempotency guard, and the
// student_achievements compound index enforces at-most-once awards. Neither
// invariant is enforced anywhere else.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	sparse := options.Index().SetUnique(true).SetSparse(true)

	specs := map[string][]mongo.IndexModel{
		"buses": {
			{Keys: bson.D{{Key: "staticQrId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "busNumber", Value: 1}}, Options: unique},
		},
		"routes": {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		},
		"schedule_assignments": {
			{Keys: bson.D{{Key: "busId", Value: 1}, {Key: "isActive", Value: 1}}},
		},
		"students": {
			{Keys: bson.D{{Key: "sessionToken", Value: 1}}, Options: sparse},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: sparse},
		},
		"scan_events": {
			{Keys: bson.D{{Key: "clientEventId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "studentId", Value: 1}}},
		},
		"user_points": {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"achievements": {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		},
		"student_achievements": {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "achievementId", Value: 1}}, Options: unique},
		},
		"daily_stats": {
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "routeId", Value: 1}, {Key: "busId", Value: 1}}, Options: unique},
		},
		"admin_users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
	}

	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
