package mongodb

import (
	"context"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure StudentRepository implements the interface
var _ repositories.StudentRepository = (*StudentRepository)(nil)

// StudentRepository handles MongoDB operations for Student
type StudentRepository struct {
	collection *mongo.Collection
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{
		collection: db.Collection("students"),
	}
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.ID = primitive.NewObjectID()
	student.CreatedAt = time.Now()
	student.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, student)
	return wrapDuplicate(err)
}

// FindByID finds a student by ID
func (r *StudentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	var student models.Student
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &student, nil
}

// FindByToken finds a student by a session token that has not expired
func (r *StudentRepository) FindByToken(ctx context.Context, token string, now time.Time) (*models.Student, error) {
	var student models.Student
	filter := bson.M{
		"sessionToken": token,
		"tokenExpires": bson.M{"$gt": now},
	}
	err := r.collection.FindOne(ctx, filter).Decode(&student)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Update updates an existing student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now()
	filter := bson.M{"_id": student.ID}
	update := bson.M{"$set": student}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// ApplyScanTotals advances the cached aggregates for one processed scan in a
// single document update so the cache can never half-apply.
func (r *StudentRepository) ApplyScanTotals(ctx context.Context, id primitive.ObjectID, points int, co2Grams float64, streak int, lastScanDate time.Time) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$inc": bson.M{
			"totalPoints":   points,
			"totalCo2Saved": co2Grams,
		},
		"$set": bson.M{
			"currentStreak": streak,
			"lastScanDate":  lastScanDate,
			"updatedAt":     time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// TopByPoints retrieves the highest-scoring named students for the leaderboard
func (r *StudentRepository) TopByPoints(ctx context.Context, limit int) ([]*models.Student, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "totalPoints", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"isAnonymous": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []*models.Student
	if err = cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	if students == nil {
		students = []*models.Student{}
	}
	return students, nil
}
