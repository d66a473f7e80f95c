package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/antiq-app/antiq/internal/auth"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/request"
)

type authHandlerFixture struct {
	handler  *AuthHandler
	userRepo *mockUserRepo
	sessions *mockSessions
	issuer   *auth.TokenIssuer
	router   *mux.Router
}

func newAuthHandlerFixture() *authHandlerFixture {
	userRepo := newMockUserRepo()
	sessions := newMockSessions()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	handler := NewAuthHandler(userRepo, issuer, sessions)
	router := mux.NewRouter()
	sub := router.PathPrefix("/auth").Subrouter()
	handler.RegisterPublicRoutes(sub)
	handler.RegisterRoutes(sub)
	return &authHandlerFixture{
		handler:  handler,
		userRepo: userRepo,
		sessions: sessions,
		issuer:   issuer,
		router:   router,
	}
}

func (f *authHandlerFixture) do(r *http.Request) *http.Response {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w.Result()
}

func TestSignUp(t *testing.T) {
	t.Parallel()

	f := newAuthHandlerFixture()
	resp := f.do(authedRequest("POST", "/auth/signup", SignUpRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "correct horse battery",
	}, nil))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var session SessionResponse
	if err := decodeData(resp, &session); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if session.Token == "" {
		t.Error("expected a session token")
	}
	if session.User == nil || session.User.Email != "alice@example.com" {
		t.Errorf("user = %+v", session.User)
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Errorf("ExpiresAt = %v, want future", session.ExpiresAt)
	}

	// The token must verify and be tracked as an active session
	claims, err := f.issuer.Verify(session.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	active, _ := f.sessions.IsActive(nil, claims.SessionID)
	if !active {
		t.Error("expected session to be tracked after signup")
	}
}

func TestSignUp_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       SignUpRequest
		wantStatus int
	}{
		{"missing email", SignUpRequest{Name: "x", Password: "longenough"}, http.StatusBadRequest},
		{"bad email", SignUpRequest{Email: "not-an-email", Name: "x", Password: "longenough"}, http.StatusBadRequest},
		{"short password", SignUpRequest{Email: "a@b.com", Name: "x", Password: "short"}, http.StatusBadRequest},
		{"missing name", SignUpRequest{Email: "a@b.com", Password: "longenough"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newAuthHandlerFixture()
			resp := f.do(authedRequest("POST", "/auth/signup", tt.body, nil))
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newAuthHandlerFixture()
	body := SignUpRequest{Email: "alice@example.com", Name: "Alice", Password: "correct horse battery"}

	resp := f.do(authedRequest("POST", "/auth/signup", body, nil))
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first signup status = %d", resp.StatusCode)
	}

	resp2 := f.do(authedRequest("POST", "/auth/signup", body, nil))
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusConflict {
		t.Errorf("second signup status = %d, want 409", resp2.StatusCode)
	}
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	f := newAuthHandlerFixture()
	signup := f.do(authedRequest("POST", "/auth/signup", SignUpRequest{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: "hunter2hunter2",
	}, nil))
	signup.Body.Close()

	tests := []struct {
		name       string
		body       SignInRequest
		wantStatus int
	}{
		{"valid credentials", SignInRequest{Email: "bob@example.com", Password: "hunter2hunter2"}, http.StatusOK},
		{"wrong password", SignInRequest{Email: "bob@example.com", Password: "wrong password"}, http.StatusUnauthorized},
		{"unknown email", SignInRequest{Email: "nobody@example.com", Password: "hunter2hunter2"}, http.StatusUnauthorized},
		{"missing password", SignInRequest{Email: "bob@example.com"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(authedRequest("POST", "/auth/signin", tt.body, nil))
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var session SessionResponse
			if err := decodeData(resp, &session); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if session.Token == "" {
				t.Error("expected a session token")
			}
		})
	}
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	f := newAuthHandlerFixture()
	user := testUser()
	_ = f.userRepo.Create(nil, user)
	_, sessionID, _, err := f.issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := f.sessions.Track(nil, sessionID, user.ID.String(), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Track: %v", err)
	}

	r := authedRequest("POST", "/auth/signout", nil, user)
	r = r.WithContext(request.WithSessionID(r.Context(), sessionID))
	resp := f.do(r)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	active, _ := f.sessions.IsActive(nil, sessionID)
	if active {
		t.Error("expected session to be revoked")
	}
}

func TestGetMe(t *testing.T) {
	t.Parallel()

	f := newAuthHandlerFixture()
	user := testUser()

	resp := f.do(authedRequest("GET", "/auth/me", nil, user))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var me models.User
	if err := decodeData(resp, &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.ID != user.ID || me.Email != user.Email {
		t.Errorf("me = %+v, want %+v", me, user)
	}
}

func TestGetMe_NoUser(t *testing.T) {
	t.Parallel()

	f := newAuthHandlerFixture()
	resp := f.do(authedRequest("GET", "/auth/me", nil, nil))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
