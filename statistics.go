package muse

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Statistics is the current-month activity summary shown on the stats screen.
type Statistics struct {
	// Graph maps interest title to how many exercises of that interest the
	// user completed this month.
	Graph map[string]int `json:"graph"`
	// Calendar maps the completion's ordinal this month ("1", "2", ...) to
	// the interest title it belonged to.
	Calendar map[string]string `json:"calendar"`
	// SavedItems counts currently saved posts and library entries together.
	SavedItems int `json:"savedItems"`
}

type StatisticsProvider interface {
	ForUser(ctx context.Context, userId UserId) (Statistics, error)
}

type StatisticsService struct {
	Users          UserStore
	Exercises      UserExerciseStore
	SavedPosts     SavedRelationStore
	SavedLibraries SavedRelationStore
	Streak         StreakUpdater

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

var _ StatisticsProvider = (*StatisticsService)(nil)

// ForUser builds the user's current-month statistics. Viewing statistics is
// a qualifying action, so the streak is recomputed first.
func (s *StatisticsService) ForUser(ctx context.Context, userId UserId) (Statistics, error) {
	if _, err := s.Users.ById(ctx, userId); err != nil {
		return Statistics{}, fmt.Errorf("user by id: %w", err)
	}

	if err := s.Streak.Update(ctx, userId); err != nil {
		return Statistics{}, fmt.Errorf("streak update: %w", err)
	}

	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfNextMonth := startOfMonth.AddDate(0, 1, 0)

	completions, err := s.Exercises.ByUserIdBetween(ctx, userId, startOfMonth, startOfNextMonth)
	if err != nil {
		return Statistics{}, fmt.Errorf("completions this month: %w", err)
	}

	stats := Statistics{
		Graph:    map[string]int{},
		Calendar: map[string]string{},
	}
	for i, completion := range completions {
		if completion.InterestTitle == "" {
			continue
		}
		stats.Graph[completion.InterestTitle]++
		stats.Calendar[strconv.Itoa(i+1)] = completion.InterestTitle
	}

	savedPosts, err := s.SavedPosts.CountActiveByUserId(ctx, userId)
	if err != nil {
		return Statistics{}, fmt.Errorf("count saved posts: %w", err)
	}
	savedLibraries, err := s.SavedLibraries.CountActiveByUserId(ctx, userId)
	if err != nil {
		return Statistics{}, fmt.Errorf("count saved libraries: %w", err)
	}
	stats.SavedItems = savedPosts + savedLibraries

	return stats, nil
}

func (s *StatisticsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
