package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	store map[string]*Session
}

func newFakeRepo() *fakeRepo { return &fakeRepo{store: map[string]*Session{}} }

func (f *fakeRepo) Create(ctx context.Context, s *Session) error {
	f.store[s.RefreshToken] = s
	return nil
}

func (f *fakeRepo) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	return f.store[refresh], nil
}

func (f *fakeRepo) DeleteByRefresh(ctx context.Context, refresh string) error {
	delete(f.store, refresh)
	return nil
}

func TestCreateAndValidateSession(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	rft, err := svc.CreateSession(ctx, "user-1", time.Hour)
	require.NoError(t, err)
	require.Len(t, rft, 64) // 32 random bytes hex-encoded

	sess, err := svc.ValidateRefresh(ctx, rft)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "user-1", sess.UserID)

	// unknown refresh token
	sess, err = svc.ValidateRefresh(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestCreateSessionSetsLifetimeFromTTL(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	before := time.Now().UTC()
	rft, err := svc.CreateSession(context.Background(), "user-1", time.Hour)
	require.NoError(t, err)
	after := time.Now().UTC()

	sess := repo.store[rft]
	require.NotNil(t, sess)
	require.False(t, sess.CreatedAt.IsZero())
	// expiry comes from the requested ttl, there is no repository fallback
	require.False(t, sess.ExpiresAt.Before(before.Add(time.Hour)))
	require.False(t, sess.ExpiresAt.After(after.Add(time.Hour)))
}

func TestValidateRefreshCleansUpExpired(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	rft, err := svc.CreateSession(ctx, "user-1", -time.Minute)
	require.NoError(t, err)

	sess, err := svc.ValidateRefresh(ctx, rft)
	require.NoError(t, err)
	require.Nil(t, sess)
	require.NotContains(t, repo.store, rft, "expired session should be deleted")
}

func TestDeleteRefresh(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	rft, err := svc.CreateSession(ctx, "user-1", time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRefresh(ctx, rft))

	sess, err := svc.ValidateRefresh(ctx, rft)
	require.NoError(t, err)
	require.Nil(t, sess)
}
