package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uidelink/uidelink-backend/internal/models"
	"github.com/uidelink/uidelink-backend/internal/repositories"
	"github.com/uidelink/uidelink-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure StudentServiceImpl implements StudentService
var _ StudentService = (*StudentServiceImpl)(nil)

// StudentServiceImpl handles student sessions, profile claiming, summaries and
// the leaderboard.
type StudentServiceImpl struct {
	studentRepo  repositories.StudentRepository
	scanRepo     repositories.ScanEventRepository
	gamification *GamificationService
	tokenTTL     time.Duration
}

// NewStudentService creates a new StudentServiceImpl
func NewStudentService(studentRepo repositories.StudentRepository, scanRepo repositories.ScanEventRepository, gamification *GamificationService, tokenTTL time.Duration) *StudentServiceImpl {
	return &StudentServiceImpl{
		studentRepo:  studentRepo,
		scanRepo:     scanRepo,
		gamification: gamification,
		tokenTTL:     tokenTTL,
	}
}

// FindOrCreateByToken returns the live student behind a session token, or
// mints a fresh anonymous student when the token is missing, unknown or
// expired. Frictionless onboarding: the first tap needs no registration.
func (s *StudentServiceImpl) FindOrCreateByToken(ctx context.Context, token string) (*models.Student, error) {
	if token != "" {
		student, err := s.studentRepo.FindByToken(ctx, token, time.Now())
		if err == nil {
			return student, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to look up session: %w", err)
		}
	}

	student := &models.Student{
		FirstName:    "Anonymous",
		LastName:     "User",
		IsAnonymous:  true,
		SessionToken: utils.GenerateSessionToken(),
		TokenExpires: time.Now().Add(s.tokenTTL),
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create anonymous student: %w", err)
	}
	slog.Info("Created anonymous student", "studentId", student.ID.Hex())
	return student, nil
}

// Identify claims an anonymous profile: identity fields merge in place and
// the anonymity flag flips. No new entity is created.
func (s *StudentServiceImpl) Identify(ctx context.Context, req *models.IdentifyRequest) error {
	student, err := s.studentRepo.FindByToken(ctx, req.SessionToken, time.Now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to look up session: %w", err)
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.StudentID = req.StudentID
	student.Email = req.Email
	student.IsAnonymous = false

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	slog.Info("Student claimed profile", "studentId", student.ID.Hex())
	return nil
}

// Summary returns the gamification projection for the token's student.
func (s *StudentServiceImpl) Summary(ctx context.Context, token string) (*models.StudentSummary, error) {
	student, err := s.studentRepo.FindByToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	return s.gamification.Summary(ctx, student.ID)
}

// Leaderboard returns the top named students by cached total points.
func (s *StudentServiceImpl) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	students, err := s.studentRepo.TopByPoints(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(students))
	for i, student := range students {
		rides, err := s.scanRepo.CountByStudent(ctx, student.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count rides: %w", err)
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:            i + 1,
			Name:            student.DisplayName(),
			TotalPoints:     student.TotalPoints,
			CurrentStreak:   student.CurrentStreak,
			TotalCO2Display: FormatCO2Display(student.TotalCO2Saved),
			TotalRides:      rides,
		})
	}
	return entries, nil
}
