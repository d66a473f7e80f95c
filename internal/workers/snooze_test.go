package workers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/antiq-app/antiq/internal/database"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/queue"
)

type mockTaskRepo struct {
	tasks   map[uuid.UUID]*models.Task
	updated []*models.Task
}

func newMockTaskRepo(tasks ...*models.Task) *mockTaskRepo {
	m := &mockTaskRepo{tasks: make(map[uuid.UUID]*models.Task)}
	for _, task := range tasks {
		m.tasks[task.ID] = task
	}
	return m
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *mockTaskRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	var out []*models.Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return database.ErrNotFound
	}
	m.tasks[task.ID] = task
	m.updated = append(m.updated, task)
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.tasks, id)
	return nil
}

type mockJobQueue struct {
	enqueued []*queue.Job
}

func (m *mockJobQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	m.enqueued = append(m.enqueued, job)
	return nil
}

func (m *mockJobQueue) Consume(ctx context.Context, prefetchCount int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, nil
}

func (m *mockJobQueue) Close() error                           { return nil }
func (m *mockJobQueue) HealthCheck(ctx context.Context) error  { return nil }

func snoozedTask(userID uuid.UUID, until time.Time) *models.Task {
	return &models.Task{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        "Arzttermin",
		Status:       models.TaskStatusSnoozed,
		Priority:     models.PriorityNormal,
		SnoozedUntil: &until,
	}
}

func TestProcessSnoozeWakeJob_WakesDueTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	task := snoozedTask(userID, time.Now().Add(-time.Minute))
	repo := newMockTaskRepo(task)
	waker := NewSnoozeWaker(repo, &mockJobQueue{})

	job := queue.NewJob(queue.JobTypeSnoozeWake, userID, &task.ID)
	if err := waker.ProcessSnoozeWakeJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessSnoozeWakeJob error: %v", err)
	}

	woken := repo.tasks[task.ID]
	if woken.Status != models.TaskStatusOpen {
		t.Errorf("Status = %s, want open", woken.Status)
	}
	if woken.SnoozedUntil != nil {
		t.Error("Expected SnoozedUntil to be cleared")
	}
}

func TestProcessSnoozeWakeJob_ReEnqueuesExtendedSnooze(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	later := time.Now().Add(2 * time.Hour)
	task := snoozedTask(userID, later)
	repo := newMockTaskRepo(task)
	jq := &mockJobQueue{}
	waker := NewSnoozeWaker(repo, jq)

	job := queue.NewJob(queue.JobTypeSnoozeWake, userID, &task.ID)
	if err := waker.ProcessSnoozeWakeJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessSnoozeWakeJob error: %v", err)
	}

	if repo.tasks[task.ID].Status != models.TaskStatusSnoozed {
		t.Error("Task with a future snooze must stay snoozed")
	}
	if len(jq.enqueued) != 1 {
		t.Fatalf("Expected one re-enqueued job, got %d", len(jq.enqueued))
	}
	if jq.enqueued[0].NotBefore == nil || !jq.enqueued[0].NotBefore.Equal(later) {
		t.Errorf("Re-enqueued NotBefore = %v, want %v", jq.enqueued[0].NotBefore, later)
	}
}

func TestProcessSnoozeWakeJob_SkipsNonSnoozedTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	task := snoozedTask(userID, time.Now().Add(-time.Minute))
	task.Status = models.TaskStatusCompleted
	repo := newMockTaskRepo(task)
	waker := NewSnoozeWaker(repo, &mockJobQueue{})

	job := queue.NewJob(queue.JobTypeSnoozeWake, userID, &task.ID)
	if err := waker.ProcessSnoozeWakeJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessSnoozeWakeJob error: %v", err)
	}

	if len(repo.updated) != 0 {
		t.Error("Completed task must not be touched by a stale wake job")
	}
}

func TestProcessSnoozeWakeJob_DropsDeletedTask(t *testing.T) {
	t.Parallel()

	missing := uuid.New()
	waker := NewSnoozeWaker(newMockTaskRepo(), &mockJobQueue{})

	job := queue.NewJob(queue.JobTypeSnoozeWake, uuid.New(), &missing)
	if err := waker.ProcessSnoozeWakeJob(context.Background(), job); err != nil {
		t.Errorf("Wake job for a deleted task should be dropped silently, got %v", err)
	}
}

func TestProcessSnoozeWakeJob_RejectsForeignTask(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	task := snoozedTask(owner, time.Now().Add(-time.Minute))
	repo := newMockTaskRepo(task)
	waker := NewSnoozeWaker(repo, &mockJobQueue{})

	job := queue.NewJob(queue.JobTypeSnoozeWake, uuid.New(), &task.ID)
	if err := waker.ProcessSnoozeWakeJob(context.Background(), job); err == nil {
		t.Error("Expected error for a job whose user does not own the task")
	}
	if repo.tasks[task.ID].Status != models.TaskStatusSnoozed {
		t.Error("Foreign task must not be modified")
	}
}

func TestProcessSnoozeWakeJob_RequiresTaskID(t *testing.T) {
	t.Parallel()

	waker := NewSnoozeWaker(newMockTaskRepo(), &mockJobQueue{})
	job := queue.NewJob(queue.JobTypeSnoozeWake, uuid.New(), nil)

	if err := waker.ProcessSnoozeWakeJob(context.Background(), job); err == nil {
		t.Error("Expected error for a wake job without a task id")
	}
}
