package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/antiq-app/antiq/internal/models"
)

// Session is the result of a successful sign-up or sign-in
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Client is the remote API boundary consumed by the client state store.
// Every scoped operation fails with ErrNotAuthenticated when called
// without a session.
type Client interface {
	SignUp(ctx context.Context, email, password, name string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)

	ListTasks(ctx context.Context) ([]*models.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	SnoozeTask(ctx context.Context, id uuid.UUID, minutes int) (*models.Task, error)

	AddComment(ctx context.Context, taskID uuid.UUID, text, author string) (*models.Task, error)
	AddAttachment(ctx context.Context, taskID uuid.UUID, meta models.AttachmentMeta) (*models.Task, error)
	DeleteAttachment(ctx context.Context, taskID, attachmentID uuid.UUID) (*models.Task, error)

	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, draft models.CategoryDraft) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch models.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	GetPreferences(ctx context.Context) (*models.Preferences, error)
	SavePreferences(ctx context.Context, prefs *models.Preferences) error
}

// HTTPClient talks to the antiq server over its JSON API
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the server at baseURL. The token may
// be empty; sign-in sets it.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken installs a session token for subsequent scoped calls
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current session token
func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SignUp creates an account and installs the returned session token
func (c *HTTPClient) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var session Session
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/signup", body, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

// SignIn opens a session and installs the returned token
func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/signin", body, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

// SignOut revokes the current session and clears the stored token
func (c *HTTPClient) SignOut(ctx context.Context) error {
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/signout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

// CurrentUser resolves the session to its user
func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListTasks returns all tasks of the authenticated user
func (c *HTTPClient) ListTasks(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	if err := c.call(ctx, http.MethodGet, "/api/v1/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task
func (c *HTTPClient) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := c.call(ctx, http.MethodGet, "/api/v1/tasks/"+id.String(), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task; the server assigns the id
func (c *HTTPClient) CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	var task models.Task
	if err := c.call(ctx, http.MethodPost, "/api/v1/tasks", draft, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update and returns the updated task
func (c *HTTPClient) UpdateTask(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := c.call(ctx, http.MethodPatch, "/api/v1/tasks/"+id.String(), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task
func (c *HTTPClient) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/tasks/"+id.String(), nil, nil)
}

// SnoozeTask snoozes a task for the given number of minutes
func (c *HTTPClient) SnoozeTask(ctx context.Context, id uuid.UUID, minutes int) (*models.Task, error) {
	var task models.Task
	body := map[string]int{"minutes": minutes}
	if err := c.call(ctx, http.MethodPost, "/api/v1/tasks/"+id.String()+"/snooze", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AddComment appends a comment and returns the refetched parent task
func (c *HTTPClient) AddComment(ctx context.Context, taskID uuid.UUID, text, author string) (*models.Task, error) {
	var task models.Task
	body := map[string]string{"text": text, "author": author}
	if err := c.call(ctx, http.MethodPost, "/api/v1/tasks/"+taskID.String()+"/comments", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AddAttachment records attachment metadata and returns the refetched
// parent task
func (c *HTTPClient) AddAttachment(ctx context.Context, taskID uuid.UUID, meta models.AttachmentMeta) (*models.Task, error) {
	var task models.Task
	if err := c.call(ctx, http.MethodPost, "/api/v1/tasks/"+taskID.String()+"/attachments", meta, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteAttachment removes an attachment and returns the refetched parent
// task
func (c *HTTPClient) DeleteAttachment(ctx context.Context, taskID, attachmentID uuid.UUID) (*models.Task, error) {
	var task models.Task
	path := "/api/v1/tasks/" + taskID.String() + "/attachments/" + attachmentID.String()
	if err := c.call(ctx, http.MethodDelete, path, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListCategories returns all categories of the authenticated user
func (c *HTTPClient) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := c.call(ctx, http.MethodGet, "/api/v1/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category; the server assigns the id
func (c *HTTPClient) CreateCategory(ctx context.Context, draft models.CategoryDraft) (*models.Category, error) {
	var category models.Category
	if err := c.call(ctx, http.MethodPost, "/api/v1/categories", draft, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory applies a partial update and returns the updated category
func (c *HTTPClient) UpdateCategory(ctx context.Context, id uuid.UUID, patch models.CategoryPatch) (*models.Category, error) {
	var category models.Category
	if err := c.call(ctx, http.MethodPatch, "/api/v1/categories/"+id.String(), patch, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category. Tasks keep referencing the dangling id.
func (c *HTTPClient) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/categories/"+id.String(), nil, nil)
}

// GetPreferences returns the stored preferences
func (c *HTTPClient) GetPreferences(ctx context.Context) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := c.call(ctx, http.MethodGet, "/api/v1/preferences", nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SavePreferences replaces the stored preferences
func (c *HTTPClient) SavePreferences(ctx context.Context, prefs *models.Preferences) error {
	return c.call(ctx, http.MethodPut, "/api/v1/preferences", prefs, nil)
}

// envelope is the server's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// call performs a request and decodes the success envelope's data field
// into out (when out is non-nil). Status codes map to the error taxonomy:
// 401 ErrNotAuthenticated, 404 ErrNotFound, other non-2xx *RemoteError.
func (c *HTTPClient) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrNotAuthenticated
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &RemoteError{StatusCode: resp.StatusCode, Message: remoteMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return &RemoteError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func remoteMessage(body io.Reader) string {
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}
