package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendReminder is the task type for delivering due-date reminders.
	TaskTypeSendReminder = "mail:send_reminder"
	// TaskTypeDueScan is the task type for scanning tasks that come due soon.
	TaskTypeDueScan = "tasks:due_scan"
)

// SendReminderPayload describes one due-date reminder email.
type SendReminderPayload struct {
	To        string    `json:"to"`
	Name      string    `json:"name"`
	TaskID    int64     `json:"task_id"`
	TaskTitle string    `json:"task_title"`
	DueDate   time.Time `json:"due_date"`
}

// NewSendReminderTask constructs an Asynq task for one reminder.
func NewSendReminderTask(payload SendReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendReminder, data, asynq.Queue(QueueDefault)), nil
}

// HandleSendReminderTask processes TaskTypeSendReminder tasks.
func HandleSendReminderTask(ctx context.Context, t *asynq.Task) error {
	var payload SendReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder delivery: wire an SMTP sender here when one is provisioned.
	fmt.Printf("[jobs] reminder to=%s task=%q due=%s\n",
		payload.To, payload.TaskTitle, payload.DueDate.Format(time.RFC3339))
	return nil
}

// DueScanPayload carries the scan window size.
type DueScanPayload struct {
	Window time.Duration `json:"window"`
}

// NewDueScanTask constructs the periodic due-date scan task.
func NewDueScanTask(window time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(DueScanPayload{Window: window})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDueScan, data, asynq.Queue(QueueDefault)), nil
}
