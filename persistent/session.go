package persistent

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/musehabit/muse"
	"github.com/tidwall/buntdb"
)

const sessionTTL = 30 * 24 * time.Hour

// Sessions live in buntdb under two keys: the record itself under
// "session:<token>" and a token lookup under "session_by_id:<id>", both
// expiring together after sessionTTL.
const (
	sessionKey     = "session:"
	sessionByIdKey = "session_by_id:"
)

type Session struct {
	Id             string    `json:"id"`
	UserId         string    `json:"userId"`
	Token          string    `json:"token"`
	Ip             string    `json:"ip"`
	UserAgent      string    `json:"userAgent"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func (s Session) ToDomain() muse.Session {
	return muse.Session{
		Id:             s.Id,
		UserId:         muse.UserId(s.UserId),
		Token:          s.Token,
		Ip:             s.Ip,
		UserAgent:      s.UserAgent,
		LastAccessedAt: s.LastAccessedAt,
		ExpiresAt:      s.ExpiresAt,
	}
}

type SessionStore struct {
	Buntdb *buntdb.DB
}

var _ muse.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) CreateIndexes() {
	s.Buntdb.CreateIndex("sessions", sessionKey+"*", buntdb.IndexString)
}

func sessionByTokenTx(tx *buntdb.Tx, token string) (Session, error) {
	raw, err := tx.Get(sessionKey + token)
	if err != nil {
		return Session{}, fmt.Errorf("session lookup: %w", err)
	}
	var stored Session
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Session{}, fmt.Errorf("session decode: %w", err)
	}
	return stored, nil
}

func putSessionTx(tx *buntdb.Tx, stored Session) error {
	raw, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	opts := &buntdb.SetOptions{Expires: true, TTL: sessionTTL}
	if _, _, err := tx.Set(sessionKey+stored.Token, string(raw), opts); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	if _, _, err := tx.Set(sessionByIdKey+stored.Id, stored.Token, opts); err != nil {
		return fmt.Errorf("session id index store: %w", err)
	}
	return nil
}

func mapSessionErr(err error) error {
	if errors.Is(err, buntdb.ErrNotFound) {
		return muse.ErrSessionNotFound
	}
	return err
}

func (s *SessionStore) RegisterNew(ctx context.Context, userId muse.UserId, ip string, userAgent string) (muse.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return muse.Session{}, fmt.Errorf("generate token: %w", err)
	}

	now := time.Now().UTC()
	stored := Session{
		Id:             uuid.New().String(),
		UserId:         string(userId),
		Token:          token,
		Ip:             ip,
		UserAgent:      userAgent,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(sessionTTL),
	}
	err = s.Buntdb.Update(func(tx *buntdb.Tx) error {
		return putSessionTx(tx, stored)
	})
	if err != nil {
		return muse.Session{}, fmt.Errorf("register session: %w", err)
	}
	return stored.ToDomain(), nil
}

func (s *SessionStore) ByToken(token string) (muse.Session, error) {
	var stored Session
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		var err error
		stored, err = sessionByTokenTx(tx, token)
		return err
	})
	if err != nil {
		return muse.Session{}, mapSessionErr(err)
	}
	return stored.ToDomain(), nil
}

// userSessionsTx walks the session index and keeps the rows owned by userId.
func (s *SessionStore) userSessionsTx(tx *buntdb.Tx, userId string) ([]muse.Session, error) {
	sessions := make([]muse.Session, 0, 4)
	var decodeErr error
	err := tx.Ascend("sessions", func(key, value string) bool {
		var stored Session
		if err := json.Unmarshal([]byte(value), &stored); err != nil {
			decodeErr = fmt.Errorf("session decode: %w", err)
			return false
		}
		if stored.UserId == userId {
			sessions = append(sessions, stored.ToDomain())
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("session index walk: %w", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return sessions, nil
}

func (s *SessionStore) ActiveSessions(token string) ([]muse.Session, error) {
	var sessions []muse.Session
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		owner, err := sessionByTokenTx(tx, token)
		if err != nil {
			return err
		}
		sessions, err = s.userSessionsTx(tx, owner.UserId)
		return err
	})
	if err != nil {
		return nil, mapSessionErr(err)
	}
	return sessions, nil
}

func (s *SessionStore) AcquireAndRefresh(ctx context.Context, token string, ip string, userAgent string) (muse.Session, error) {
	var stored Session
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		var err error
		stored, err = sessionByTokenTx(tx, token)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		stored.Ip = ip
		stored.UserAgent = userAgent
		stored.LastAccessedAt = now
		stored.ExpiresAt = now.Add(sessionTTL)
		return putSessionTx(tx, stored)
	})
	if err != nil {
		return muse.Session{}, mapSessionErr(err)
	}
	return stored.ToDomain(), nil
}

func deleteSessionTx(tx *buntdb.Tx, stored Session) error {
	if _, err := tx.Delete(sessionKey + stored.Token); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	if _, err := tx.Delete(sessionByIdKey + stored.Id); err != nil {
		return fmt.Errorf("session id index delete: %w", err)
	}
	return nil
}

func (s *SessionStore) InvalidateById(userId muse.UserId, sessionId string) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		token, err := tx.Get(sessionByIdKey + sessionId)
		if err != nil {
			return fmt.Errorf("session id lookup: %w", err)
		}
		stored, err := sessionByTokenTx(tx, token)
		if err != nil {
			return err
		}
		// Foreign sessions look absent, existence is not revealed either way.
		if stored.UserId != string(userId) {
			return muse.ErrSessionNotFound
		}
		return deleteSessionTx(tx, stored)
	})
	if err != nil {
		return mapSessionErr(err)
	}
	return nil
}

func (s *SessionStore) InvalidateByAuthToken(authToken string) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		stored, err := sessionByTokenTx(tx, authToken)
		if err != nil {
			return err
		}
		return deleteSessionTx(tx, stored)
	})
	if err != nil {
		return mapSessionErr(err)
	}
	return nil
}

func (s *SessionStore) InvalidateAllExcept(exceptToken string) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		kept, err := sessionByTokenTx(tx, exceptToken)
		if err != nil {
			return err
		}
		sessions, err := s.userSessionsTx(tx, kept.UserId)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			if session.Token == exceptToken {
				continue
			}
			err := deleteSessionTx(tx, Session{Id: session.Id, Token: session.Token})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mapSessionErr(err)
	}
	return nil
}

func generateSessionToken() (string, error) {
	raw := make([]byte, 48)
	if _, err := crand.Read(raw); err != nil {
		return "", fmt.Errorf("rand read: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
