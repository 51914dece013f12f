package rest

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
)

// SessionController serves the devices page: every live login of the acting
// user, with per-session and everywhere-else logout.
type SessionController struct {
	Sessions muse.SessionStore
}

func (c *SessionController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/sessions", combineHandlers(requestAuthorizer, c.serveSessions))
	app.Delete("/sessions/other", combineHandlers(requestAuthorizer, c.serveDeleteOtherSessions))
	app.Delete("/sessions/:session_id", combineHandlers(requestAuthorizer, c.serveDeleteSession))
}

// SessionMeta describes a session without exposing its auth token.
type SessionMeta struct {
	Id             string `json:"id"`
	Ip             string `json:"ip"`
	UserAgent      string `json:"userAgent"`
	LastAccessedAt int64  `json:"lastAccessedAt"`
	Current        bool   `json:"current"`
}

func (c *SessionController) serveSessions(ctx *fiber.Ctx) error {
	session, ok := ctx.Locals(sessionLocalsKey).(muse.Session)
	if !ok {
		return fiber.ErrUnauthorized
	}

	active, err := c.Sessions.ActiveSessions(session.Token)
	if err != nil {
		if errors.Is(err, muse.ErrSessionNotFound) {
			return fiber.ErrUnauthorized
		}
		return fmt.Errorf("active sessions: %w", err)
	}

	metas := make([]SessionMeta, len(active))
	for i, s := range active {
		metas[i] = SessionMeta{
			Id:             s.Id,
			Ip:             s.Ip,
			UserAgent:      s.UserAgent,
			LastAccessedAt: s.LastAccessedAt.Unix(),
			Current:        s.Id == session.Id,
		}
	}
	return ctx.JSON(metas)
}

func (c *SessionController) serveDeleteSession(ctx *fiber.Ctx) error {
	session, ok := ctx.Locals(sessionLocalsKey).(muse.Session)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionId, err := url.PathUnescape(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	if sessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no session id")
	}

	if sessionId == session.Id {
		err = c.Sessions.InvalidateByAuthToken(session.Token)
	} else {
		err = c.Sessions.InvalidateById(session.UserId, sessionId)
	}
	if err != nil {
		if errors.Is(err, muse.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

func (c *SessionController) serveDeleteOtherSessions(ctx *fiber.Ctx) error {
	session, ok := ctx.Locals(sessionLocalsKey).(muse.Session)
	if !ok {
		return fiber.ErrUnauthorized
	}
	if err := c.Sessions.InvalidateAllExcept(session.Token); err != nil {
		if errors.Is(err, muse.ErrSessionNotFound) {
			return fiber.ErrUnauthorized
		}
		return fmt.Errorf("invalidate other sessions: %w", err)
	}
	return nil
}
