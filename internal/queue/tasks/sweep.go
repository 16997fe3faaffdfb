package tasks

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/internal/services"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

// Sweeper advances slot statuses by the clock.
type Sweeper interface {
	AdvanceSchedule(ctx context.Context, now time.Time) (services.SweepResult, error)
}

// NewSweepTask builds the periodic sweep. Overlapping sweeps are dropped
// rather than queued behind each other.
func NewSweepTask() (*asynq.Task, []asynq.Option) {
	return asynq.NewTask(TypeSlotSweep, nil), []asynq.Option{
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(0),
		asynq.Timeout(50 * time.Second),
		asynq.Unique(50 * time.Second),
	}
}

type SweepTaskHandler struct {
	sweeper Sweeper
	now     func() time.Time
}

func NewSweepTaskHandler(s Sweeper) *SweepTaskHandler {
	return &SweepTaskHandler{sweeper: s, now: time.Now}
}

func (h *SweepTaskHandler) HandleSweep(ctx context.Context, _ *asynq.Task) error {
	res, err := h.sweeper.AdvanceSchedule(ctx, h.now())
	if err != nil {
		logger.L().Error("slot sweep finished with errors", zap.Int("failed", res.Failed), zap.Error(err))
		return err
	}
	if res.Started > 0 || res.Completed > 0 {
		logger.L().Info("slot sweep", zap.Int("started", res.Started), zap.Int("completed", res.Completed))
	}
	return nil
}

// Register wires every task type into mux.
func Register(mux *asynq.ServeMux, email *EmailTaskHandler, sweep *SweepTaskHandler) {
	mux.HandleFunc(TypeEmailVerification, email.HandleVerification)
	mux.HandleFunc(TypeSlotSweep, sweep.HandleSweep)
}
