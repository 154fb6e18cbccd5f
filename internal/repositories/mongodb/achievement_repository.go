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

// Compile-time check to ensure AchievementRepository implements the interface
var _ repositories.AchievementRepository = (*AchievementRepository)(nil)

// AchievementRepository handles MongoDB operations for Achievement
type AchievementRepository struct {
	collection *mongo.Collection
	grants     *mongo.Collection
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *mongo.Database) *AchievementRepository {
	return &AchievementRepository{
		collection: db.Collection("achievements"),
		grants:     db.Collection("student_achievements"),
	}
}

// Create inserts a new achievement definition
func (r *AchievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	achievement.ID = primitive.NewObjectID()
	achievement.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, achievement)
	return wrapDuplicate(err)
}

// FindAll retrieves all achievement definitions
func (r *AchievementRepository) FindAll(ctx context.Context) ([]*models.Achievement, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var achievements []*models.Achievement
	if err = cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	if achievements == nil {
		achievements = []*models.Achievement{}
	}
	return achievements, nil
}

// FindByCode finds an achievement by its code
func (r *AchievementRepository) FindByCode(ctx context.Context, code string) (*models.Achievement, error) {
	var achievement models.Achievement
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&achievement)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &achievement, nil
}

// FindEarnedByStudent retrieves the achievement definitions a student has
// unlocked by joining through the grants collection.
func (r *AchievementRepository) FindEarnedByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*models.Achievement, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"studentId": studentID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "achievements",
			"localField":   "achievementId",
			"foreignField": "_id",
			"as":           "achievement",
		}}},
		{{Key: "$unwind", Value: "$achievement"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$achievement"}}},
	}
	cursor, err := r.grants.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var achievements []*models.Achievement
	if err = cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	if achievements == nil {
		achievements = []*models.Achievement{}
	}
	return achievements, nil
}
