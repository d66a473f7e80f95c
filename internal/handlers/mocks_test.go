package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/antiq-app/antiq/internal/database"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/queue"
	"github.com/antiq-app/antiq/internal/request"
)

// mockTaskRepo is an in-memory TaskRepositoryInterface for handler tests
type mockTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*models.Task
	// comments/attachments keyed by task so GetByID can rebuild children
	comments    map[uuid.UUID][]models.Comment
	attachments map[uuid.UUID][]models.Attachment
	failAll     bool
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{
		tasks:       make(map[uuid.UUID]*models.Task),
		comments:    make(map[uuid.UUID][]models.Comment),
		attachments: make(map[uuid.UUID][]models.Attachment),
	}
}

func (m *mockTaskRepo) Create(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return fmt.Errorf("repo failure")
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	if task.Comments == nil {
		task.Comments = []models.Comment{}
	}
	if task.Attachments == nil {
		task.Attachments = []models.Attachment{}
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, fmt.Errorf("repo failure")
	}
	task, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, database.ErrNotFound)
	}
	copied := *task
	copied.Comments = append([]models.Comment{}, m.comments[id]...)
	copied.Attachments = append([]models.Attachment{}, m.attachments[id]...)
	return &copied, nil
}

func (m *mockTaskRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, fmt.Errorf("repo failure")
	}
	var out []*models.Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			copied := *task
			copied.Comments = append([]models.Comment{}, m.comments[task.ID]...)
			copied.Attachments = append([]models.Attachment{}, m.attachments[task.ID]...)
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return fmt.Errorf("repo failure")
	}
	if _, ok := m.tasks[task.ID]; !ok {
		return fmt.Errorf("task %s: %w", task.ID, database.ErrNotFound)
	}
	task.UpdatedAt = time.Now()
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, database.ErrNotFound)
	}
	delete(m.tasks, id)
	return nil
}

// mockCommentRepo appends into the task repo's comment map
type mockCommentRepo struct {
	tasks *mockTaskRepo
	fail  bool
}

func (m *mockCommentRepo) Add(_ context.Context, taskID uuid.UUID, comment *models.Comment) error {
	if m.fail {
		return fmt.Errorf("repo failure")
	}
	m.tasks.mu.Lock()
	defer m.tasks.mu.Unlock()
	comment.CreatedAt = time.Now()
	m.tasks.comments[taskID] = append(m.tasks.comments[taskID], *comment)
	return nil
}

// mockAttachmentRepo stores into the task repo's attachment map
type mockAttachmentRepo struct {
	tasks *mockTaskRepo
}

func (m *mockAttachmentRepo) Add(_ context.Context, taskID uuid.UUID, attachment *models.Attachment) error {
	m.tasks.mu.Lock()
	defer m.tasks.mu.Unlock()
	m.tasks.attachments[taskID] = append(m.tasks.attachments[taskID], *attachment)
	return nil
}

func (m *mockAttachmentRepo) Delete(_ context.Context, taskID, attachmentID uuid.UUID) error {
	m.tasks.mu.Lock()
	defer m.tasks.mu.Unlock()
	existing := m.tasks.attachments[taskID]
	for i, att := range existing {
		if att.ID == attachmentID {
			m.tasks.attachments[taskID] = append(existing[:i:i], existing[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("attachment %s: %w", attachmentID, database.ErrNotFound)
}

// mockCategoryRepo is an in-memory CategoryRepositoryInterface
type mockCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*models.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[uuid.UUID]*models.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, database.ErrNotFound)
	}
	copied := *category
	return &copied, nil
}

func (m *mockCategoryRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Category
	for _, category := range m.categories {
		if category.UserID == userID {
			copied := *category
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return fmt.Errorf("category %s: %w", category.ID, database.ErrNotFound)
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return fmt.Errorf("category %s: %w", id, database.ErrNotFound)
	}
	delete(m.categories, id)
	return nil
}

// mockPrefsRepo is an in-memory PreferencesRepositoryInterface
type mockPrefsRepo struct {
	mu    sync.Mutex
	prefs map[uuid.UUID]*models.Preferences
}

func newMockPrefsRepo() *mockPrefsRepo {
	return &mockPrefsRepo{prefs: make(map[uuid.UUID]*models.Preferences)}
}

func (m *mockPrefsRepo) Get(_ context.Context, userID uuid.UUID) (*models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prefs, ok := m.prefs[userID]; ok {
		copied := *prefs
		return &copied, nil
	}
	return &models.Preferences{FilterCategories: []uuid.UUID{}}, nil
}

func (m *mockPrefsRepo) Save(_ context.Context, userID uuid.UUID, prefs *models.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *prefs
	m.prefs[userID] = &copied
	return nil
}

// mockUserRepo is an in-memory UserRepositoryInterface
type mockUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, database.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, database.ErrNotFound)
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, database.ErrNotFound)
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

// mockJobQueue records enqueued jobs
type mockJobQueue struct {
	mu          sync.Mutex
	enqueued    []*queue.Job
	failEnqueue bool
	failHealth  bool
}

func (m *mockJobQueue) Enqueue(_ context.Context, job *queue.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEnqueue {
		return fmt.Errorf("queue failure")
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

func (m *mockJobQueue) Consume(_ context.Context, _ int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, fmt.Errorf("not implemented")
}

func (m *mockJobQueue) Close() error { return nil }

func (m *mockJobQueue) HealthCheck(_ context.Context) error {
	if m.failHealth {
		return fmt.Errorf("queue unreachable")
	}
	return nil
}

// mockSessions tracks sessions in memory
type mockSessions struct {
	mu     sync.Mutex
	active map[string]bool
}

func newMockSessions() *mockSessions {
	return &mockSessions{active: make(map[string]bool)}
}

func (m *mockSessions) Track(_ context.Context, sessionID, _ string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[sessionID] = true
	return nil
}

func (m *mockSessions) Revoke(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, sessionID)
	return nil
}

func (m *mockSessions) IsActive(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[sessionID], nil
}

// testUser creates a user for request injection
func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "test@example.com",
		Name:  "Test User",
		Role:  models.RoleUser,
	}
}

// authedRequest builds a request with an optional JSON body and the given
// user attached to the context, the way the auth middleware would
func authedRequest(method, path string, body any, user *models.User) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	r := httptest.NewRequest(method, path, reader)
	if user != nil {
		r = r.WithContext(request.WithUser(r.Context(), user))
	}
	return r
}

// decodeData unmarshals the data field of a success envelope into dst
func decodeData(resp *http.Response, dst any) error {
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return fmt.Errorf("expected success envelope")
	}
	return json.Unmarshal(envelope.Data, dst)
}
