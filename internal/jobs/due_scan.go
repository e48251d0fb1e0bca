package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/taskhive/taskhive/internal/tasks"
)

// ReminderEnqueuer abstracts the asynq client so the scan job is testable.
type ReminderEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DueScanJob finds open tasks coming due inside the scan window and
// enqueues one reminder per task.
type DueScanJob struct {
	Repo     tasks.Repository
	Enqueuer ReminderEnqueuer
	Logger   *slog.Logger
	Metrics  *Metrics
	clock    func() time.Time
}

// NewDueScanJob wires dependencies for the due-date scan handler.
func NewDueScanJob(repo tasks.Repository, enqueuer ReminderEnqueuer, logger *slog.Logger) *DueScanJob {
	return &DueScanJob{
		Repo:     repo,
		Enqueuer: enqueuer,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskTypeDueScan tasks.
func (j *DueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("due scan: handler not configured")
	}
	return j.Metrics.Track("due_scan").End(j.scan(ctx, t))
}

func (j *DueScanJob) scan(ctx context.Context, t *asynq.Task) error {
	var payload DueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Window <= 0 {
		payload.Window = 24 * time.Hour
	}

	now := j.clock()
	reminders, err := j.Repo.ListDueBetween(ctx, now, now.Add(payload.Window))
	if err != nil {
		if j.Logger != nil {
			j.Logger.Error("list due tasks", slog.Any("error", err))
		}
		return err
	}

	enqueued := 0
	for _, rem := range reminders {
		task, err := NewSendReminderTask(SendReminderPayload{
			To:        rem.Email,
			Name:      rem.OwnerName,
			TaskID:    rem.TaskID,
			TaskTitle: rem.Title,
			DueDate:   rem.DueDate,
		})
		if err != nil {
			return err
		}
		if j.Enqueuer != nil {
			if _, err := j.Enqueuer.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
				if j.Logger != nil {
					j.Logger.Error("enqueue reminder", slog.Int64("task_id", rem.TaskID), slog.Any("error", err))
				}
				return err
			}
		}
		enqueued++
	}

	j.Metrics.AddReminders(enqueued)
	if j.Logger != nil {
		j.Logger.Info("due scan complete", slog.Int("reminders", enqueued))
	}
	return nil
}
