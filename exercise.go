package muse

import (
	"context"
	"errors"
	"time"
)

var ErrExerciseNotFound = errors.New("exercise not found")

// Exercise is a daily creative prompt published for one interest.
type Exercise struct {
	Id          string
	InterestId  string
	Type        string
	Title       string
	Description string
	CreatedAt   time.Time
}

// UserExercise is a recorded completion of an exercise. Immutable once
// created; the most recent one drives the streak computation.
type UserExercise struct {
	Id         int64
	UserId     UserId
	ExerciseId string
	Content    string
	CreatedAt  time.Time
}

type ExerciseHistoryEntry struct {
	Title       string
	Description string
	Interest    string
	PerformedAt time.Time
}

// CompletedExercise is the statistics read model: one completion with the
// title of the interest its exercise belongs to.
type CompletedExercise struct {
	InterestTitle string
	CreatedAt     time.Time
}

type ExerciseStore interface {
	ById(ctx context.Context, exerciseId string) (Exercise, error)

	// TodayForUser returns today's exercises (one per type) for the
	// interests the user picked. Empty when the user picked no interests
	// or nothing was published today.
	TodayForUser(ctx context.Context, userId UserId, now time.Time) ([]Exercise, error)
}

type UserExerciseStore interface {
	Register(ctx context.Context, userId UserId, exerciseId string, content string) error

	// LatestByUserId returns the most recent non-deleted completion,
	// or nil when the user never completed an exercise.
	LatestByUserId(ctx context.Context, userId UserId) (*UserExercise, error)

	// History lists completions newest first, skipping ones whose
	// exercise has been soft-deleted.
	History(ctx context.Context, userId UserId) ([]ExerciseHistoryEntry, error)

	// ByUserIdBetween returns completions in [from, to) oldest first.
	ByUserIdBetween(ctx context.Context, userId UserId, from, to time.Time) ([]CompletedExercise, error)
}
