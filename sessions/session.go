package sessions

import (
	"context"
	"time"
)

// Session is a logged-in user's server-side state. The browser only holds a
// signed cookie carrying the session ID.
type Session struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Email   string `json:"email"`

	// Claims are the raw userinfo claims returned by the identity provider,
	// including the namespaced tenant affiliation claim.
	Claims map[string]any `json:"claims"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Profile is the subset of the session shown back to the user.
type Profile struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *Session) Profile() Profile {
	return Profile{UserID: s.UserID, Name: s.Name, Picture: s.Picture}
}

type Repo interface {
	Upsert(ctx context.Context, session *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
