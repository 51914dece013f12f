package mock

import (
	"context"

	"github.com/musehabit/muse"
)

type SessionStore struct {
	RegisterNewFn           func(ctx context.Context, userId muse.UserId, ip string, userAgent string) (muse.Session, error)
	ByTokenFn               func(token string) (muse.Session, error)
	ActiveSessionsFn        func(token string) ([]muse.Session, error)
	AcquireAndRefreshFn     func(ctx context.Context, token string, ip string, userAgent string) (muse.Session, error)
	InvalidateByIdFn        func(userId muse.UserId, sessionId string) error
	InvalidateByAuthTokenFn func(authToken string) error
	InvalidateAllExceptFn   func(exceptToken string) error
}

func (s SessionStore) RegisterNew(ctx context.Context, userId muse.UserId, ip string, userAgent string) (muse.Session, error) {
	return s.RegisterNewFn(ctx, userId, ip, userAgent)
}

func (s SessionStore) ByToken(token string) (muse.Session, error) {
	return s.ByTokenFn(token)
}

func (s SessionStore) ActiveSessions(token string) ([]muse.Session, error) {
	return s.ActiveSessionsFn(token)
}

func (s SessionStore) AcquireAndRefresh(ctx context.Context, token string, ip string, userAgent string) (muse.Session, error) {
	return s.AcquireAndRefreshFn(ctx, token, ip, userAgent)
}

func (s SessionStore) InvalidateById(userId muse.UserId, sessionId string) error {
	return s.InvalidateByIdFn(userId, sessionId)
}

func (s SessionStore) InvalidateByAuthToken(authToken string) error {
	return s.InvalidateByAuthTokenFn(authToken)
}

func (s SessionStore) InvalidateAllExcept(exceptToken string) error {
	return s.InvalidateAllExceptFn(exceptToken)
}
