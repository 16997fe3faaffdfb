package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/repository"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in *UpdateProfileInput) (*models.User, error)
}

// UpdateProfileInput replaces the whole profile. PreferredSports is the raw
// comma separated list typed by the user.
type UpdateProfileInput struct {
	Gender          string
	Age             *int
	PreferredSports string
	SkillLevel      string
	Bio             string
	Location        *models.UserLocation
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.users.GetByID(ctx, userID, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, in *UpdateProfileInput) (*models.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	u.Age = in.Age
	u.PreferredSports = splitSports(in.PreferredSports)
	u.SkillLevel = in.SkillLevel
	if u.SkillLevel == "" {
		u.SkillLevel = models.SkillBeginner
	}
	u.Bio = in.Bio
	u.Location = models.UserLocation{}
	if in.Location != nil {
		u.Location = *in.Location
	}
	u.ProfileCompleted = true

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("profile updated", zap.String("user_id", userID.String()))
	return u, nil
}

func splitSports(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
