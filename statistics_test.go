package muse_test

import (
	"context"
	"testing"
	"time"

	"github.com/musehabit/muse"
	"github.com/musehabit/muse/inmem"
	"github.com/musehabit/muse/mock"
	"github.com/stretchr/testify/assert"
)

func TestStatisticsForUser(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	users := inmem.NewUserStore()
	users.Put(muse.User{Id: "u1", UpdatedAt: now})

	completions := inmem.NewUserExerciseStore()
	completions.Titles = map[string]string{
		"e-design1": "Design",
		"e-design2": "Design",
		"e-writing": "Writing",
		"e-old":     "Music",
	}
	completions.PutCompletion(muse.UserExercise{UserId: "u1", ExerciseId: "e-design1", CreatedAt: now.AddDate(0, 0, -10)})
	completions.PutCompletion(muse.UserExercise{UserId: "u1", ExerciseId: "e-writing", CreatedAt: now.AddDate(0, 0, -5)})
	completions.PutCompletion(muse.UserExercise{UserId: "u1", ExerciseId: "e-design2", CreatedAt: now.AddDate(0, 0, -1)})
	// Previous month, must not show up.
	completions.PutCompletion(muse.UserExercise{UserId: "u1", ExerciseId: "e-old", CreatedAt: now.AddDate(0, -1, 0)})
	// Someone else's completion, must not show up either.
	completions.PutCompletion(muse.UserExercise{UserId: "u2", ExerciseId: "e-design1", CreatedAt: now})

	savedPosts := inmem.NewSavedRelationStore()
	savedPosts.Create(ctx, "u1", "p1")
	savedPosts.Create(ctx, "u1", "p2")
	savedLibraries := inmem.NewSavedRelationStore()
	savedLibraries.Create(ctx, "u1", "l1")

	streakCalled := false
	service := &muse.StatisticsService{
		Users:          users,
		Exercises:      completions,
		SavedPosts:     savedPosts,
		SavedLibraries: savedLibraries,
		Streak: mock.StreakUpdater{UpdateFn: func(ctx context.Context, userId muse.UserId) error {
			streakCalled = true
			return nil
		}},
		Now: func() time.Time { return now },
	}

	stats, err := service.ForUser(ctx, "u1")
	if !assert.NoError(err) {
		return
	}
	assert.True(streakCalled, "viewing statistics must recompute the streak")
	assert.Equal(map[string]int{"Design": 2, "Writing": 1}, stats.Graph)
	assert.Equal(map[string]string{"1": "Design", "2": "Writing", "3": "Design"}, stats.Calendar)
	assert.Equal(3, stats.SavedItems)
}

func TestStatisticsUnknownUser(t *testing.T) {
	assert := assert.New(t)

	service := &muse.StatisticsService{
		Users:          inmem.NewUserStore(),
		Exercises:      inmem.NewUserExerciseStore(),
		SavedPosts:     inmem.NewSavedRelationStore(),
		SavedLibraries: inmem.NewSavedRelationStore(),
		Streak:         mock.StreakUpdater{},
	}
	_, err := service.ForUser(context.Background(), "ghost")
	assert.ErrorIs(err, muse.ErrUserNotFound)
}
