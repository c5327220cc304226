package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/accountee/accountee/internal/shared"
)

type mockRepo struct {
	users    map[string]*User
	sessions map[string]string
}

func newMockRepo(users ...*User) *mockRepo {
	m := &mockRepo{users: make(map[string]*User), sessions: make(map[string]string)}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error {
	m.sessions[id] = userID
	return nil
}

func (m *mockRepo) DeleteSession(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func testUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{
		ID:           "user-1",
		Email:        "owner@example.co.th",
		PasswordHash: string(hash),
		DisplayName:  "เจ้าของกิจการ",
		BusinessID:   "biz-1",
		IsActive:     true,
	}
}

func newTestHandler(t *testing.T, repo Repository) (*Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := shared.NewSessionManager(client, "accountee_session", "test-secret", time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(repo), sessions), sessions
}

func TestLoginSetsUserAndBusinessScope(t *testing.T) {
	repo := newMockRepo(testUser(t, "correct-horse-1"))
	h, sessions := newTestHandler(t, repo)

	r := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"owner@example.co.th","password":"correct-horse-1"}`))
	sess, err := sessions.Load(r.Context(), r)
	require.NoError(t, err)
	r = r.WithContext(shared.ContextWithSession(r.Context(), sess))

	w := httptest.NewRecorder()
	h.handleLogin(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", sess.User())
	assert.Equal(t, "biz-1", sess.Business())
	assert.Contains(t, repo.sessions, sess.ID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newMockRepo(testUser(t, "correct-horse-1"))
	h, sessions := newTestHandler(t, repo)

	r := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"owner@example.co.th","password":"wrong-password"}`))
	sess, err := sessions.Load(r.Context(), r)
	require.NoError(t, err)
	r = r.WithContext(shared.ContextWithSession(r.Context(), sess))

	w := httptest.NewRecorder()
	h.handleLogin(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, sess.User())
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	user := testUser(t, "correct-horse-1")
	user.IsActive = false
	h, sessions := newTestHandler(t, newMockRepo(user))

	r := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"owner@example.co.th","password":"correct-horse-1"}`))
	sess, err := sessions.Load(r.Context(), r)
	require.NoError(t, err)
	r = r.WithContext(shared.ContextWithSession(r.Context(), sess))

	w := httptest.NewRecorder()
	h.handleLogin(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRemovesSessionRecord(t *testing.T) {
	repo := newMockRepo(testUser(t, "correct-horse-1"))
	h, sessions := newTestHandler(t, repo)

	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	sess, err := sessions.Load(r.Context(), r)
	require.NoError(t, err)
	sess.SetUser("user-1")
	repo.sessions[sess.ID] = "user-1"
	r = r.WithContext(shared.ContextWithSession(r.Context(), sess))

	w := httptest.NewRecorder()
	h.handleLogout(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, repo.sessions, sess.ID)
}
