package mongodb

import (
	"context"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure StudentAchievementRepository implements the interface
var _ repositories.StudentAchievementRepository = (*StudentAchievementRepository)(nil)

// StudentAchievementRepository handles MongoDB operations for achievement grants
type StudentAchievementRepository struct {
	collection *mongo.Collection
}

// NewStudentAchievementRepository creates a new StudentAchievementRepository
func NewStudentAchievementRepository(db *mongo.Database) *StudentAchievementRepository {
	return &StudentAchievementRepository{
		collection: db.Collection("student_achievements"),
	}
}

// Create inserts a grant. The unique (studentId, achievementId) index turns a
// second grant of the same achievement into repositories.ErrDuplicateKey.
func (r *StudentAchievementRepository) Create(ctx context.Context, grant *models.StudentAchievement) error {
	grant.ID = primitive.NewObjectID()
	grant.EarnedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, grant)
	return wrapDuplicate(err)
}

// FindAchievementIDs retrieves the achievement ids a student has earned
func (r *StudentAchievementRepository) FindAchievementIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	values, err := r.collection.Distinct(ctx, "achievementId", bson.M{"studentId": studentID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// CountByStudent counts a student's earned achievements
func (r *StudentAchievementRepository) CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"studentId": studentID})
}
