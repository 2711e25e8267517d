package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mplazax/meeting-syntesis/internal/users"
)

func newUserRouter(t *testing.T) (*gin.Engine, *users.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := users.NewService(newFakeUserRepo())
	r := gin.New()
	return r, svc
}

// asUser mimics the auth middleware by seeding the user id into the context.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}

func TestMeEndpoint(t *testing.T) {
	r, svc := newUserRouter(t)
	u, err := svc.Register(context.Background(), "alice@example.com", "supersecret", "Alice")
	require.NoError(t, err)

	NewUserHandler(svc).Register(r.Group("/", asUser(u.ID.Hex())))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alice@example.com")
	require.NotContains(t, w.Body.String(), "hashedPassword")
}

func TestMeEndpointUnknownUser(t *testing.T) {
	r, svc := newUserRouter(t)
	NewUserHandler(svc).Register(r.Group("/", asUser("64b000000000000000000000")))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsersEndpoint(t *testing.T) {
	r, svc := newUserRouter(t)
	u, err := svc.Register(context.Background(), "alice@example.com", "supersecret", "Alice")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "bob@example.com", "supersecret", "Bob")
	require.NoError(t, err)

	NewUserHandler(svc).Register(r.Group("/", asUser(u.ID.Hex())))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alice@example.com")
	require.Contains(t, w.Body.String(), "bob@example.com")
}
