package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// refreshTokenBytes is the entropy of a refresh token; the token string is
// its hex encoding, twice as long.
const refreshTokenBytes = 32

// Service issues and validates refresh sessions on top of a Repository.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// CreateSession mints a random refresh token, stores the session with the
// given lifetime and returns the token. The session always carries an
// expiry; repositories may rely on that.
func (s *Service) CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	now := time.Now().UTC()
	sess := &Session{
		RefreshToken: token,
		UserID:       userID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateRefresh returns the live session behind a refresh token, or
// (nil, nil) when the token is unknown or expired. An expired session found
// in the store is deleted on the way out.
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if sess.Expired(time.Now().UTC()) {
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		return nil, nil
	}
	return sess, nil
}

// DeleteRefresh removes the session behind a refresh token. Deleting an
// unknown token is not an error.
func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	return s.repo.DeleteByRefresh(ctx, refresh)
}
