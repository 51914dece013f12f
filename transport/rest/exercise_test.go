package rest

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
	"github.com/musehabit/muse/mock"
	"github.com/stretchr/testify/assert"
)

func TestTodayExercises(t *testing.T) {
	assert := assert.New(t)

	controller := ExerciseController{
		Exercises: mock.ExerciseStore{
			TodayForUserFn: func(ctx context.Context, userId muse.UserId, now time.Time) ([]muse.Exercise, error) {
				assert.Equal(muse.UserId("u1"), userId)
				return []muse.Exercise{{
					Id: "e1", InterestId: "design", Type: "Inversion",
					Title:       "Draw your ideal world",
					Description: "Invert everything you know about branding.",
				}}, nil
			},
		},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	resp, err := app.Test(jsonRequest(t, "GET", "/exercises/today", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusOK, resp.StatusCode)
	assert.Equal(`[{"exercise_id":"e1","type":"Inversion","title":"Draw your ideal world",`+
		`"description":"Invert everything you know about branding."}]`,
		readBody(t, resp))
}

func TestTodayExercisesNonePublished(t *testing.T) {
	assert := assert.New(t)

	controller := ExerciseController{
		Exercises: mock.ExerciseStore{
			TodayForUserFn: func(ctx context.Context, userId muse.UserId, now time.Time) ([]muse.Exercise, error) {
				return nil, nil
			},
		},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	resp, err := app.Test(jsonRequest(t, "GET", "/exercises/today", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func TestRegisterCompletionTriggersStreak(t *testing.T) {
	assert := assert.New(t)

	registered := false
	streakUpdated := false
	controller := ExerciseController{
		Exercises: mock.ExerciseStore{
			ByIdFn: func(ctx context.Context, exerciseId string) (muse.Exercise, error) {
				if exerciseId != "e1" {
					return muse.Exercise{}, muse.ErrExerciseNotFound
				}
				return muse.Exercise{Id: "e1", Title: "Gratitude journey"}, nil
			},
		},
		Completions: mock.UserExerciseStore{
			RegisterFn: func(ctx context.Context, userId muse.UserId, exerciseId string, content string) error {
				assert.Equal(muse.UserId("u1"), userId)
				assert.Equal("e1", exerciseId)
				assert.Equal("Eight words about an unrequited romance.", content)
				registered = true
				return nil
			},
		},
		Streak: mock.StreakUpdater{UpdateFn: func(ctx context.Context, userId muse.UserId) error {
			// The completion has to land before the streak recompute reads it.
			assert.True(registered)
			streakUpdated = true
			return nil
		}},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	req := jsonRequest(t, "POST", "/exercises/e1/completions",
		map[string]string{"content": "Eight words about an unrequited romance."})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusCreated, resp.StatusCode)
	assert.True(registered)
	assert.True(streakUpdated)
}

func TestRegisterCompletionUnknownExercise(t *testing.T) {
	assert := assert.New(t)

	controller := ExerciseController{
		Exercises: mock.ExerciseStore{
			ByIdFn: func(ctx context.Context, exerciseId string) (muse.Exercise, error) {
				return muse.Exercise{}, muse.ErrExerciseNotFound
			},
		},
		Completions: mock.UserExerciseStore{},
		Streak:      mock.StreakUpdater{},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	req := jsonRequest(t, "POST", "/exercises/ghost/completions", map[string]string{"content": "x"})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func TestExerciseHistory(t *testing.T) {
	assert := assert.New(t)
	performedAt := time.Date(2024, 3, 7, 18, 30, 0, 0, time.UTC)

	controller := ExerciseController{
		Completions: mock.UserExerciseStore{
			HistoryFn: func(ctx context.Context, userId muse.UserId) ([]muse.ExerciseHistoryEntry, error) {
				return []muse.ExerciseHistoryEntry{{
					Title:       "Gratitude journey",
					Description: "Eight word story.",
					Interest:    "Writing",
					PerformedAt: performedAt,
				}}, nil
			},
		},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	resp, err := app.Test(jsonRequest(t, "GET", "/exercises/history", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusOK, resp.StatusCode)
	assert.Equal(`[{"title":"Gratitude journey","description":"Eight word story.",`+
		`"interest":"Writing","performedAt":"2024-03-07T18:30:00Z"}]`,
		readBody(t, resp))
}

func TestExerciseHistoryEmpty(t *testing.T) {
	assert := assert.New(t)

	controller := ExerciseController{
		Completions: mock.UserExerciseStore{
			HistoryFn: func(ctx context.Context, userId muse.UserId) ([]muse.ExerciseHistoryEntry, error) {
				return nil, nil
			},
		},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	resp, err := app.Test(jsonRequest(t, "GET", "/exercises/history", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusNotFound, resp.StatusCode)
}
