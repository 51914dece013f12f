package rest

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
	"github.com/stretchr/testify/assert"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
}

// testAuthorizer stands in for RequestAuthorizer, injecting a fixed user.
func testAuthorizer(user muse.User) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals(sessionLocalsKey, muse.Session{Id: "s1", UserId: user.Id, Token: "token"})
		ctx.Locals(userLocalsKey, user)
		return nil
	}
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestErrorHandlerMasksInternalErrors(t *testing.T) {
	anError := assert.AnError
	assert := assert.New(t)

	app := newTestApp()
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return anError
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(`{"error_message":"Internal Server Error"}`, readBody(t, resp))
}

func TestErrorHandlerPassesFiberErrors(t *testing.T) {
	assert := assert.New(t)

	app := newTestApp()
	app.Get("/teapot", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(`{"error_message":"short and stout"}`, readBody(t, resp))
}
