package rest

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
	"github.com/musehabit/muse/mock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func newAuthTestApp(t *testing.T) (*fiber.App, *bool) {
	registered := false
	controller := AuthController{
		SessionStore: mock.SessionStore{
			RegisterNewFn: func(ctx context.Context, userId muse.UserId, ip string, userAgent string) (muse.Session, error) {
				registered = true
				return muse.Session{Id: "s1", UserId: userId, Token: "fresh-token"}, nil
			},
		},
		UserStore: mock.UserStore{
			ByEmailFn: func(ctx context.Context, email string) (muse.User, error) {
				if email != "lucas@example.com" {
					return muse.User{}, muse.ErrUserNotFound
				}
				return muse.User{
					Id: "u1", Name: "Lucas", Email: email,
					PasswordHash: hashPassword(t, "lucas123"),
				}, nil
			},
		},
		Interests: mock.InterestStore{},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)
	return app, &registered
}

func TestLogin(t *testing.T) {
	assert := assert.New(t)
	app, registered := newAuthTestApp(t)

	req := jsonRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "lucas@example.com",
		"password": "lucas123",
	})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusOK, resp.StatusCode)
	assert.Equal(`{"accessToken":"fresh-token"}`, readBody(t, resp))
	assert.True(*registered)
}

func TestLoginWrongPassword(t *testing.T) {
	assert := assert.New(t)
	app, registered := newAuthTestApp(t)

	req := jsonRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "lucas@example.com",
		"password": "not-lucas123",
	})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(*registered)
}

func TestLoginUnknownEmail(t *testing.T) {
	assert := assert.New(t)
	app, _ := newAuthTestApp(t)

	req := jsonRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	// Same answer as a wrong password, no account enumeration.
	assert.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginMissingCredentials(t *testing.T) {
	assert := assert.New(t)
	app, _ := newAuthTestApp(t)

	req := jsonRequest(t, "POST", "/auth/login", map[string]string{"email": "lucas@example.com"})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func TestRequestAuthorizer(t *testing.T) {
	assert := assert.New(t)

	sessions := mock.SessionStore{
		AcquireAndRefreshFn: func(ctx context.Context, token string, ip string, userAgent string) (muse.Session, error) {
			if token != "valid-token" {
				return muse.Session{}, muse.ErrSessionNotFound
			}
			return muse.Session{Id: "s1", UserId: "u1", Token: token}, nil
		},
	}
	users := mock.UserStore{
		ByIdFn: func(ctx context.Context, userId muse.UserId) (muse.User, error) {
			return muse.User{Id: userId, Name: "Lucas"}, nil
		},
	}

	app := newTestApp()
	app.Get("/whoami", combineHandlers(RequestAuthorizer(sessions, users), func(ctx *fiber.Ctx) error {
		user, ok := requestUser(ctx)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return ctx.SendString(string(user.Id))
	}))

	cases := []struct {
		name       string
		auth       string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer valid-token", fiber.StatusOK, "u1"},
		{"unknown token", "Bearer other-token", fiber.StatusUnauthorized, ""},
		{"missing header", "", fiber.StatusUnauthorized, ""},
		{"wrong auth type", "Basic dXNlcjpwYXNz", fiber.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/whoami", nil)
		if tc.auth != "" {
			req.Header.Set(fiber.HeaderAuthorization, tc.auth)
		}
		resp, err := app.Test(req)
		if !assert.NoError(err, tc.name) {
			return
		}
		assert.Equal(tc.wantStatus, resp.StatusCode, tc.name)
		if tc.wantBody != "" {
			assert.Equal(tc.wantBody, readBody(t, resp), tc.name)
		}
	}
}

func TestAuthMe(t *testing.T) {
	assert := assert.New(t)

	controller := AuthController{
		SessionStore: mock.SessionStore{},
		UserStore:    mock.UserStore{},
		Interests: mock.InterestStore{
			ByUserIdFn: func(ctx context.Context, userId muse.UserId) ([]muse.Interest, error) {
				return []muse.Interest{
					{Id: "design", Title: "Design"},
					{Id: "writing", Title: "Writing"},
				}, nil
			},
		},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1", Name: "Lucas"}), app)

	resp, err := app.Test(jsonRequest(t, "GET", "/auth/me", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusOK, resp.StatusCode)
	assert.Equal(`{"userId":"u1","userName":"Lucas",`+
		`"interests":[{"interestId":"design","title":"Design"},{"interestId":"writing","title":"Writing"}]}`,
		readBody(t, resp))
}
