package sessions

import "time"

// Session is one issued refresh token together with the account it belongs
// to. The token itself is the lookup key; a session carries no other secret.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	UserID       string    `bson:"userId" json:"userId"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Expired reports whether the session is no longer usable at the given time.
func (s *Session) Expired(at time.Time) bool {
	return at.After(s.ExpiresAt)
}
