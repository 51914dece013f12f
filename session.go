package muse

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is an opaque bearer-token login. The token is the only
// credential; everything else is bookkeeping shown on the devices page.
type Session struct {
	Id             string
	UserId         UserId
	Token          string
	Ip             string
	UserAgent      string
	LastAccessedAt time.Time
	ExpiresAt      time.Time
}

type SessionStore interface {
	// RegisterNew mints a fresh token for the user and stores the session.
	RegisterNew(ctx context.Context, userId UserId, ip string, userAgent string) (Session, error)

	ByToken(token string) (Session, error)

	// ActiveSessions lists every live session of the user owning the token.
	ActiveSessions(token string) ([]Session, error)

	// AcquireAndRefresh resolves the session by token, extending its TTL and
	// recording the caller's current ip/user agent.
	AcquireAndRefresh(ctx context.Context, token string, ip string, userAgent string) (Session, error)

	InvalidateById(userId UserId, sessionId string) error

	InvalidateByAuthToken(authToken string) error

	// InvalidateAllExcept logs the user out everywhere but the given token.
	InvalidateAllExcept(exceptToken string) error
}
