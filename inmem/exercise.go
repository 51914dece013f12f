package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/musehabit/muse"
)

// UserExerciseStore keeps completions in memory. History/interest joins are
// resolved against the Titles and Catalog maps.
type UserExerciseStore struct {
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// Titles maps exercise id to its interest title for the read models.
	Titles map[string]string
	// Catalog maps exercise id to its row, for the history join.
	Catalog map[string]muse.Exercise

	lastId      int64
	completions []muse.UserExercise
	mutex       sync.RWMutex
}

func NewUserExerciseStore() *UserExerciseStore {
	return &UserExerciseStore{
		Titles:  map[string]string{},
		Catalog: map[string]muse.Exercise{},
	}
}

var _ muse.UserExerciseStore = (*UserExerciseStore)(nil)

func (s *UserExerciseStore) Register(ctx context.Context, userId muse.UserId, exerciseId string, content string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastId++
	s.completions = append(s.completions, muse.UserExercise{
		Id:         s.lastId,
		UserId:     userId,
		ExerciseId: exerciseId,
		Content:    content,
		CreatedAt:  s.now(),
	})
	return nil
}

// PutCompletion seeds a completion with an explicit timestamp. Test helper.
func (s *UserExerciseStore) PutCompletion(completion muse.UserExercise) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastId++
	completion.Id = s.lastId
	s.completions = append(s.completions, completion)
}

func (s *UserExerciseStore) LatestByUserId(ctx context.Context, userId muse.UserId) (*muse.UserExercise, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var latest *muse.UserExercise
	for i := range s.completions {
		completion := s.completions[i]
		if completion.UserId != userId {
			continue
		}
		if latest == nil || completion.CreatedAt.After(latest.CreatedAt) {
			latest = &completion
		}
	}
	return latest, nil
}

func (s *UserExerciseStore) History(ctx context.Context, userId muse.UserId) ([]muse.ExerciseHistoryEntry, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	history := make([]muse.ExerciseHistoryEntry, 0, len(s.completions))
	for i := len(s.completions) - 1; i >= 0; i-- {
		completion := s.completions[i]
		if completion.UserId != userId {
			continue
		}
		exercise := s.Catalog[completion.ExerciseId]
		history = append(history, muse.ExerciseHistoryEntry{
			Title:       exercise.Title,
			Description: exercise.Description,
			Interest:    s.Titles[completion.ExerciseId],
			PerformedAt: completion.CreatedAt,
		})
	}
	return history, nil
}

func (s *UserExerciseStore) ByUserIdBetween(ctx context.Context, userId muse.UserId, from, to time.Time) ([]muse.CompletedExercise, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	completions := make([]muse.CompletedExercise, 0, len(s.completions))
	for _, completion := range s.completions {
		if completion.UserId != userId {
			continue
		}
		if completion.CreatedAt.Before(from) || !completion.CreatedAt.Before(to) {
			continue
		}
		completions = append(completions, muse.CompletedExercise{
			InterestTitle: s.Titles[completion.ExerciseId],
			CreatedAt:     completion.CreatedAt,
		})
	}
	return completions, nil
}

func (s *UserExerciseStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
