package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mplazax/meeting-syntesis/internal/config"
	"github.com/mplazax/meeting-syntesis/internal/models"
	"github.com/mplazax/meeting-syntesis/internal/sessions"
	"github.com/mplazax/meeting-syntesis/internal/users"
)

// in-memory users.UserRepository
type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range f.byEmail {
		out = append(out, u)
	}
	return out, nil
}

// in-memory sessions.Repository
type fakeSessionRepo struct {
	store map[string]*sessions.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{store: map[string]*sessions.Session{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *sessions.Session) error {
	f.store[s.RefreshToken] = s
	return nil
}

func (f *fakeSessionRepo) GetByRefresh(ctx context.Context, refresh string) (*sessions.Session, error) {
	return f.store[refresh], nil
}

func (f *fakeSessionRepo) DeleteByRefresh(ctx context.Context, refresh string) error {
	delete(f.store, refresh)
	return nil
}

func authTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "handler-test-secret"
	cfg.JWT.AccessTokenTTL = 15 * time.Minute
	cfg.JWT.RefreshTokenTTL = 7 * 24 * time.Hour
	return cfg
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(authTestConfig(), users.NewService(newFakeUserRepo()), sessions.NewService(newFakeSessionRepo()))
	h.Register(r.Group("/"))
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(t, r, "/auth/register", gin.H{
		"email": "alice@example.com", "password": "supersecret", "fullName": "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "alice@example.com")
	require.NotContains(t, w.Body.String(), "supersecret")

	// duplicate email
	w = postJSON(t, r, "/auth/register", gin.H{
		"email": "alice@example.com", "password": "supersecret", "fullName": "Alice",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// password too short
	w = postJSON(t, r, "/auth/register", gin.H{
		"email": "bob@example.com", "password": "short", "fullName": "Bob",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(t, r, "/auth/register", gin.H{
		"email": "alice@example.com", "password": "supersecret", "fullName": "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/auth/login", gin.H{"email": "alice@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int    `json:"expiresIn"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, int((15 * time.Minute).Seconds()), resp.ExpiresIn)

	w = postJSON(t, r, "/auth/login", gin.H{"email": "alice@example.com", "password": "wrongpass"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/auth/login", gin.H{"email": "ghost@example.com", "password": "whatever1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	r := newAuthRouter()

	postJSON(t, r, "/auth/register", gin.H{
		"email": "alice@example.com", "password": "supersecret", "fullName": "Alice",
	})
	w := postJSON(t, r, "/auth/login", gin.H{"email": "alice@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "access_token")

	w = postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": "bogus"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	r := newAuthRouter()

	postJSON(t, r, "/auth/register", gin.H{
		"email": "alice@example.com", "password": "supersecret", "fullName": "Alice",
	})
	w := postJSON(t, r, "/auth/login", gin.H{"email": "alice@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = postJSON(t, r, "/auth/logout", gin.H{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	// the refresh token is gone
	w = postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
