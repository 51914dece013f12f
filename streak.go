package muse

import (
	"context"
	"fmt"
	"time"
)

// StreakDecision is the outcome of a streak recomputation. ShouldPersist is
// false when the value did not change, so repeated triggers on the same day
// cost no writes.
type StreakDecision struct {
	NewStreak     int
	ShouldPersist bool
}

// ComputeStreak decides the user's consecutive-day streak after a qualifying
// action. latest is the most recent non-deleted completion, nil when the user
// has none.
//
// A streak never started, or with a gap of more than one full day since the
// last completion, is 0. A completion today or yesterday extends the streak
// by one, but only once per calendar day: user.UpdatedAt marks the last
// recompute and guards against double counting, since the engine fires from
// several call sites (exercise registration, statistics view, profile update).
func ComputeStreak(user User, latest *UserExercise, now time.Time) StreakDecision {
	if latest == nil {
		return StreakDecision{NewStreak: 0, ShouldPersist: user.Streak != 0}
	}

	daysSince := DaysBetween(latest.CreatedAt, now)

	// The completion timestamp comes from the database clock while now comes
	// from the engine's, so it can run slightly ahead. A negative gap neither
	// extends nor resets the streak.
	newStreak := user.Streak
	switch {
	case daysSince > 1:
		newStreak = 0
	case daysSince >= 0 && !SameDay(user.UpdatedAt, now):
		newStreak = user.Streak + 1
	}
	return StreakDecision{NewStreak: newStreak, ShouldPersist: newStreak != user.Streak}
}

// StreakUpdater recomputes a user's streak after a qualifying action.
type StreakUpdater interface {
	Update(ctx context.Context, userId UserId) error
}

// StreakEngine looks the user and their latest completion up, runs
// ComputeStreak and writes the new value back only when it changed.
type StreakEngine struct {
	Users     UserStore
	Exercises UserExerciseStore

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

var _ StreakUpdater = (*StreakEngine)(nil)

// Update recomputes the streak of userId. ErrUserNotFound (wrapped) when the
// user does not exist.
func (e *StreakEngine) Update(ctx context.Context, userId UserId) error {
	user, err := e.Users.ById(ctx, userId)
	if err != nil {
		return fmt.Errorf("user by id: %w", err)
	}

	latest, err := e.Exercises.LatestByUserId(ctx, userId)
	if err != nil {
		return fmt.Errorf("latest completion: %w", err)
	}

	decision := ComputeStreak(user, latest, e.now())
	if !decision.ShouldPersist {
		return nil
	}
	if err := e.Users.UpdateStreak(ctx, userId, decision.NewStreak); err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	return nil
}

func (e *StreakEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
