package workers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/antiq-app/antiq/internal/database"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/queue"
)

// SnoozeWaker processes snooze wake jobs: when a snoozed task's wake time
// arrives, it flips the task back to open so it resurfaces in task lists.
type SnoozeWaker struct {
	taskRepo database.TaskRepositoryInterface
	jobQueue queue.JobQueue // For re-enqueueing jobs whose snooze was extended
}

// NewSnoozeWaker creates a new snooze waker
func NewSnoozeWaker(taskRepo database.TaskRepositoryInterface, jobQueue queue.JobQueue) *SnoozeWaker {
	return &SnoozeWaker{
		taskRepo: taskRepo,
		jobQueue: jobQueue,
	}
}

// ProcessSnoozeWakeJob wakes a snoozed task. Jobs for deleted tasks, tasks
// no longer snoozed, or tasks snoozed again to a later time are not errors.
func (w *SnoozeWaker) ProcessSnoozeWakeJob(ctx context.Context, job *queue.Job) error {
	if job.TaskID == nil {
		return fmt.Errorf("task_id is required for snooze wake job")
	}

	task, err := w.taskRepo.GetByID(ctx, *job.TaskID)
	if errors.Is(err, database.ErrNotFound) {
		log.Printf("Task %s gone before wake, dropping job %s", *job.TaskID, job.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if task.UserID != job.UserID {
		return fmt.Errorf("task does not belong to user")
	}

	if task.Status != models.TaskStatusSnoozed {
		// Completed or manually reopened since the snooze was set
		log.Printf("Task %s is %s, nothing to wake", task.ID, task.Status)
		return nil
	}

	// Snoozed again to a later time after this job was enqueued: hand the
	// wake-up back to the queue with the new time.
	if task.SnoozedUntil != nil && time.Now().Before(*task.SnoozedUntil) {
		if w.jobQueue == nil {
			return fmt.Errorf("task %s snoozed until %v but no queue to re-enqueue", task.ID, task.SnoozedUntil)
		}
		wakeJob := queue.NewJob(queue.JobTypeSnoozeWake, task.UserID, &task.ID)
		wakeJob.NotBefore = task.SnoozedUntil
		if err := w.jobQueue.Enqueue(ctx, wakeJob); err != nil {
			return fmt.Errorf("failed to re-enqueue wake job: %w", err)
		}
		log.Printf("Task %s snooze extended, wake re-enqueued for %v", task.ID, task.SnoozedUntil)
		return nil
	}

	task.Status = models.TaskStatusOpen
	task.SnoozedUntil = nil
	if err := w.taskRepo.Update(ctx, task); err != nil {
		return fmt.Errorf("failed to wake task: %w", err)
	}

	log.Printf("Woke task %s for user %s", task.ID, task.UserID)
	return nil
}

// ProcessJob processes a job based on its type
func (w *SnoozeWaker) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.Job

	switch job.Type {
	case queue.JobTypeSnoozeWake:
		if err := w.ProcessSnoozeWakeJob(ctx, job); err != nil {
			return w.handleJobError(msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			log.Printf("Failed to nack unknown job type: %v", nackErr)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError applies the retry policy: requeue while retries remain,
// dead-letter afterwards.
func (w *SnoozeWaker) handleJobError(msg *queue.Message, job *queue.Job, err error) error {
	if job.CanRetry() {
		job.IncrementRetry()
		log.Printf("Snooze wake job %s failed (attempt %d/%d): %v, will retry", job.ID, job.RetryCount, job.MaxRetries, err)
		if nackErr := msg.Nack(true); nackErr != nil {
			log.Printf("Failed to nack job: %v", nackErr)
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	log.Printf("Snooze wake job %s failed after %d retries: %v, sending to DLQ", job.ID, job.MaxRetries, err)
	if nackErr := msg.Nack(false); nackErr != nil {
		log.Printf("Failed to nack job to DLQ: %v", nackErr)
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
