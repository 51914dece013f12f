package rest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
	"golang.org/x/crypto/bcrypt"
)

// RequestAuthorizer resolves the acting user from the Bearer token and puts
// the session and the user into request locals.
func RequestAuthorizer(sessionStore muse.SessionStore, userStore muse.UserStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		auth := ctx.Get(fiber.HeaderAuthorization)
		if auth == "" {
			return fiber.ErrUnauthorized
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			return fiber.NewError(fiber.ErrBadRequest.Code, "invalid auth type")
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		session, err := sessionStore.AcquireAndRefresh(ctx.Context(), token, ctx.IP(),
			string(ctx.Request().Header.UserAgent()))
		if err != nil {
			if errors.Is(err, muse.ErrSessionNotFound) {
				return fiber.ErrUnauthorized
			}
			return fmt.Errorf("acquire and refresh session: %w", err)
		}
		user, err := userStore.ById(ctx.Context(), session.UserId)
		if err != nil {
			if errors.Is(err, muse.ErrUserNotFound) {
				return fiber.ErrUnauthorized
			}
			return fmt.Errorf("retrieve user by id: %w", err)
		}

		RequestLog(ctx).
			WithField("user_id", user.Id).
			Debugln("Authorized access.")

		ctx.Locals(sessionLocalsKey, session)
		ctx.Locals(userLocalsKey, user)
		return nil
	}
}

func requestUser(ctx *fiber.Ctx) (muse.User, bool) {
	user, ok := ctx.Locals(userLocalsKey).(muse.User)
	return user, ok
}

type AuthController struct {
	SessionStore muse.SessionStore
	UserStore    muse.UserStore
	Interests    muse.InterestStore
}

func (c *AuthController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Post("/auth/login", c.serveLogin)
	app.Post("/auth/logout", combineHandlers(requestAuthorizer, c.serveLogout))
	app.Get("/auth/me", combineHandlers(requestAuthorizer, c.serveMe))
}

func (c *AuthController) serveLogin(ctx *fiber.Ctx) error {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing credentials")
	}

	user, err := c.UserStore.ByEmail(ctx.Context(), body.Email)
	if err != nil {
		if errors.Is(err, muse.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, muse.ErrBadCredentials.Error())
		}
		return fmt.Errorf("user by email: %w", err)
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, muse.ErrBadCredentials.Error())
	}

	session, err := c.SessionStore.RegisterNew(ctx.Context(), user.Id, ctx.IP(),
		string(ctx.Request().Header.UserAgent()))
	if err != nil {
		return fmt.Errorf("register session: %w", err)
	}

	return ctx.JSON(map[string]string{"accessToken": session.Token})
}

func (c *AuthController) serveLogout(ctx *fiber.Ctx) error {
	session, ok := ctx.Locals(sessionLocalsKey).(muse.Session)
	if !ok {
		return fiber.ErrUnauthorized
	}
	if err := c.SessionStore.InvalidateByAuthToken(session.Token); err != nil {
		if errors.Is(err, muse.ErrSessionNotFound) {
			return fiber.ErrUnauthorized
		}
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

func (c *AuthController) serveMe(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	interests, err := c.Interests.ByUserId(ctx.Context(), user.Id)
	if err != nil {
		return fmt.Errorf("interests by user id: %w", err)
	}

	type InterestResponse struct {
		InterestId string `json:"interestId"`
		Title      string `json:"title"`
	}
	mapped := make([]InterestResponse, len(interests))
	for i, interest := range interests {
		mapped[i] = InterestResponse{InterestId: interest.Id, Title: interest.Title}
	}
	return ctx.JSON(struct {
		UserId    muse.UserId        `json:"userId"`
		UserName  string             `json:"userName"`
		Interests []InterestResponse `json:"interests"`
	}{
		UserId:    user.Id,
		UserName:  user.Name,
		Interests: mapped,
	})
}
