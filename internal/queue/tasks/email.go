package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/internal/mailer"
	"github.com/CoderHarshaVardhan/playX/internal/services"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
	"github.com/CoderHarshaVardhan/playX/pkg/utils"
)

const (
	TypeEmailVerification = "email:verification"
	TypeSlotSweep         = "slots:sweep"

	QueueDefault  = "default"
	QueueCritical = "critical"
)

// VerificationPayload is the task payload for verification emails.
type VerificationPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// Enqueuer is the subset of *asynq.Client used to submit tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue submits background jobs on behalf of the API.
type Queue struct {
	client Enqueuer
}

func NewQueue(client Enqueuer) *Queue {
	return &Queue{client: client}
}

var _ services.VerificationQueue = (*Queue)(nil)

// NewVerificationTask builds the task. The id is derived from the token so a
// retried registration request cannot send the same link twice.
func NewVerificationTask(m services.VerificationEmail) (*asynq.Task, []asynq.Option, error) {
	pb, err := json.Marshal(VerificationPayload{
		UserID: m.UserID.String(),
		Email:  m.Email,
		Name:   m.Name,
		Token:  m.Token,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal verification payload: %w", err)
	}
	opts := []asynq.Option{
		asynq.TaskID("verify:" + utils.Fingerprint(m.Token)),
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
		asynq.Retention(24 * time.Hour),
	}
	return asynq.NewTask(TypeEmailVerification, pb), opts, nil
}

func (q *Queue) EnqueueVerification(ctx context.Context, m services.VerificationEmail) error {
	task, opts, err := NewVerificationTask(m)
	if err != nil {
		return err
	}
	if q.client == nil {
		logger.Ctx(ctx).Warn("asynq client not configured, skipping verification email", zap.String("user_id", m.UserID.String()))
		return nil
	}
	info, err := q.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue verification email: %w", err)
	}
	logger.Ctx(ctx).Info("verification email enqueued", zap.String("user_id", m.UserID.String()), zap.String("task_id", info.ID))
	return nil
}

// EmailTaskHandler renders and sends queued emails.
type EmailTaskHandler struct {
	mailer    mailer.Mailer
	clientURL string
}

func NewEmailTaskHandler(m mailer.Mailer, clientURL string) *EmailTaskHandler {
	return &EmailTaskHandler{mailer: m, clientURL: clientURL}
}

func (h *EmailTaskHandler) HandleVerification(ctx context.Context, t *asynq.Task) error {
	var p VerificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid verification task payload", zap.Error(err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if _, err := uuid.Parse(p.UserID); err != nil || p.Email == "" || p.Token == "" {
		logger.L().Error("incomplete verification task payload", zap.String("user_id", p.UserID))
		return fmt.Errorf("incomplete payload: %w", asynq.SkipRetry)
	}

	logger.L().Info("handling verification email task",
		zap.String("user_id", p.UserID),
		zap.String("token_fp", utils.Fingerprint(p.Token)),
	)

	msg, err := mailer.RenderVerification(p.Email, mailer.VerificationData{
		Name: p.Name,
		Link: mailer.VerificationLink(h.clientURL, p.Token),
	})
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := h.mailer.Send(ctx, msg); err != nil {
		logger.L().Warn("send verification email failed", zap.String("user_id", p.UserID), zap.Error(err))
		return err
	}
	logger.L().Info("verification email sent", zap.String("user_id", p.UserID))
	return nil
}
