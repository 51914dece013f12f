package rest

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
	"github.com/musehabit/muse/inmem"
	"github.com/musehabit/muse/mock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterUser(t *testing.T) {
	assert := assert.New(t)

	var hash string
	controller := UserController{
		Users: mock.UserStore{
			RegisterFn: func(ctx context.Context, name string, email string, passwordHash string) (muse.User, error) {
				assert.Equal("Lucas", name)
				assert.Equal("lucas@example.com", email)
				hash = passwordHash
				return muse.User{Id: "u1", Name: name, Email: email}, nil
			},
		},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{}), app)

	req := jsonRequest(t, "POST", "/users", map[string]string{
		"name":     "Lucas",
		"email":    "lucas@example.com",
		"password": "lucas123",
	})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusCreated, resp.StatusCode)
	assert.Equal(`{"userId":"u1"}`, readBody(t, resp))
	// The raw password never reaches the store.
	assert.NoError(bcrypt.CompareHashAndPassword([]byte(hash), []byte("lucas123")))
}

func TestRegisterUserEmailTaken(t *testing.T) {
	assert := assert.New(t)

	controller := UserController{
		Users: mock.UserStore{
			RegisterFn: func(ctx context.Context, name string, email string, passwordHash string) (muse.User, error) {
				return muse.User{}, muse.ErrEmailTaken
			},
		},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{}), app)

	req := jsonRequest(t, "POST", "/users", map[string]string{
		"name":     "Lucas",
		"email":    "lucas@example.com",
		"password": "lucas123",
	})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusConflict, resp.StatusCode)
}

func TestRegisterUserMissingFields(t *testing.T) {
	assert := assert.New(t)

	controller := UserController{Users: mock.UserStore{}}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{}), app)

	resp, err := app.Test(jsonRequest(t, "POST", "/users", map[string]string{"name": "Lucas"}))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func newInterestsTestApp(t *testing.T, replaced *[]string) *fiber.App {
	t.Helper()
	known := map[string]string{"design": "Design", "writing": "Writing", "music": "Music"}
	controller := UserController{
		Interests: mock.InterestStore{
			ByIdsFn: func(ctx context.Context, interestIds []string) ([]muse.Interest, error) {
				interests := make([]muse.Interest, 0, len(interestIds))
				for _, id := range interestIds {
					title, ok := known[id]
					if !ok {
						return nil, muse.ErrInterestNotFound
					}
					interests = append(interests, muse.Interest{Id: id, Title: title})
				}
				return interests, nil
			},
			ReplaceForUserFn: func(ctx context.Context, userId muse.UserId, interestIds []string) error {
				*replaced = interestIds
				return nil
			},
		},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)
	return app
}

func TestUpdateInterests(t *testing.T) {
	assert := assert.New(t)
	var replaced []string
	app := newInterestsTestApp(t, &replaced)

	req := jsonRequest(t, "PUT", "/users/me/interests",
		map[string][]string{"interest": {"design", "writing", "music"}})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusOK, resp.StatusCode)
	assert.Equal([]string{"design", "writing", "music"}, replaced)
	assert.Equal(`{"userId":"u1","interests":["design","writing","music"]}`, readBody(t, resp))
}

func TestUpdateInterestsInvalidPick(t *testing.T) {
	assert := assert.New(t)
	var replaced []string
	app := newInterestsTestApp(t, &replaced)

	cases := []struct {
		name      string
		interests []string
	}{
		{"too few", []string{"design", "writing"}},
		{"too many", []string{"design", "writing", "music", "games"}},
		{"duplicates", []string{"design", "design", "writing"}},
	}
	for _, tc := range cases {
		req := jsonRequest(t, "PUT", "/users/me/interests", map[string][]string{"interest": tc.interests})
		resp, err := app.Test(req)
		if !assert.NoError(err, tc.name) {
			return
		}
		assert.Equal(fiber.StatusBadRequest, resp.StatusCode, tc.name)
	}
	assert.Nil(replaced)
}

func TestUpdateInterestsUnknownId(t *testing.T) {
	assert := assert.New(t)
	var replaced []string
	app := newInterestsTestApp(t, &replaced)

	req := jsonRequest(t, "PUT", "/users/me/interests",
		map[string][]string{"interest": {"design", "writing", "skydiving"}})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusNotFound, resp.StatusCode)
	assert.Nil(replaced)
}

func TestUpdateProfileTriggersStreak(t *testing.T) {
	assert := assert.New(t)

	streakUpdated := false
	controller := UserController{
		Users: mock.UserStore{
			UpdateProfileFn: func(ctx context.Context, userId muse.UserId, update muse.ProfileUpdate) (muse.User, error) {
				assert.NotNil(update.Description)
				assert.Equal("New bio", *update.Description)
				return muse.User{Id: userId, Description: *update.Description}, nil
			},
		},
		Streak: mock.StreakUpdater{UpdateFn: func(ctx context.Context, userId muse.UserId) error {
			streakUpdated = true
			return nil
		}},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	req := jsonRequest(t, "PATCH", "/users/me/profile", map[string]string{"description": "New bio"})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusOK, resp.StatusCode)
	assert.True(streakUpdated, "profile update must recompute the streak")
}

func TestUpdateProfileEmptyBody(t *testing.T) {
	assert := assert.New(t)

	controller := UserController{Users: mock.UserStore{}, Streak: mock.StreakUpdater{}}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	resp, err := app.Test(jsonRequest(t, "PATCH", "/users/me/profile", map[string]string{}))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func TestUserStreakEndpoint(t *testing.T) {
	assert := assert.New(t)
	lastExercise := time.Date(2024, 3, 7, 18, 30, 0, 0, time.UTC)

	completions := inmem.NewUserExerciseStore()
	completions.PutCompletion(muse.UserExercise{UserId: "u1", ExerciseId: "e1", CreatedAt: lastExercise})

	controller := UserController{Exercises: completions}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1", Streak: 6}), app)

	resp, err := app.Test(jsonRequest(t, "GET", "/users/me/streak", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusOK, resp.StatusCode)
	assert.Equal(`{"streak":6,"lastExerciseDate":"2024-03-07T18:30:00Z"}`, readBody(t, resp))
}

func TestUserStreakEndpointNoCompletions(t *testing.T) {
	assert := assert.New(t)

	controller := UserController{Exercises: inmem.NewUserExerciseStore()}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	resp, err := app.Test(jsonRequest(t, "GET", "/users/me/streak", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusOK, resp.StatusCode)
	assert.Equal(`{"streak":0,"lastExerciseDate":null}`, readBody(t, resp))
}
