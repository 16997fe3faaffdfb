package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/repository"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
	"github.com/CoderHarshaVardhan/playX/pkg/utils"
)

const minPasswordLen = 8

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// VerificationEmail is everything the mail job needs to send the link.
type VerificationEmail struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Token  string
}

// VerificationQueue hands verification emails to the background worker.
type VerificationQueue interface {
	EnqueueVerification(ctx context.Context, m VerificationEmail) error
}

type LoginResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	queue    VerificationQueue
}

func NewAuthService(userRepo repository.UserRepository, tokens *TokenService, queue VerificationQueue) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		queue:    queue,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" || email == "" {
		return nil, invalid("Name and email are required")
	}
	if len(password) < minPasswordLen {
		return nil, invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}

	var existing models.User
	err := s.userRepo.GetByEmail(ctx, email, &existing)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !appErr.IsCode(err, appErr.CodeNotFound):
		return nil, err
	}

	ph, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(ph),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := s.tokens.IssueVerification(user.ID)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue verification token failed")
	}

	// The account is committed; enqueue failures are logged, not returned.
	if err := s.queue.EnqueueVerification(ctx, VerificationEmail{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Token:  token,
	}); err != nil {
		logger.Ctx(ctx).Error("enqueue verification email failed",
			zap.String("user_id", user.ID.String()),
			zap.String("token_fp", utils.Fingerprint(token)),
			zap.Error(err),
		)
	}

	logger.Ctx(ctx).Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.ParseVerification(token)
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.userRepo.MarkVerified(ctx, userID); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	logger.Ctx(ctx).Info("email verified", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var user models.User
	if err := s.userRepo.GetByEmail(ctx, normalizeEmail(email), &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "compare password failed")
	}

	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	token, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue token failed")
	}

	logger.Ctx(ctx).Info("user logged in", zap.String("user_id", user.ID.String()))
	return &LoginResult{
		Token: token,
		User:  UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}
