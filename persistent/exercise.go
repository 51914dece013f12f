package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/musehabit/muse"
	"github.com/uptrace/bun"
)

type Exercise struct {
	bun.BaseModel `bun:"table:exercise"`

	Id          string       `bun:",pk"`
	CreatedAt   time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt   sql.NullTime `bun:",nullzero,soft_delete"`
	InterestId  string       `bun:",notnull"`
	Interest    *Interest    `bun:"rel:belongs-to,join:interest_id=id"`
	Type        string       `bun:",notnull"`
	Title       string       `bun:",notnull"`
	Description string
}

func (e Exercise) ToDomain() muse.Exercise {
	return muse.Exercise{
		Id:          e.Id,
		InterestId:  e.InterestId,
		Type:        e.Type,
		Title:       e.Title,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

type UserExercise struct {
	bun.BaseModel `bun:"table:user_exercise"`

	Id         int64        `bun:",pk,autoincrement"`
	CreatedAt  time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt  sql.NullTime `bun:",nullzero,soft_delete"`
	UserId     string       `bun:",notnull"`
	ExerciseId string       `bun:",notnull"`
	Exercise   *Exercise    `bun:"rel:belongs-to,join:exercise_id=id"`
	Content    string
}

func (e UserExercise) ToDomain() muse.UserExercise {
	return muse.UserExercise{
		Id:         e.Id,
		UserId:     muse.UserId(e.UserId),
		ExerciseId: e.ExerciseId,
		Content:    e.Content,
		CreatedAt:  e.CreatedAt,
	}
}

type ExerciseStore struct {
	DB *bun.DB
}

var _ muse.ExerciseStore = (*ExerciseStore)(nil)

func (s *ExerciseStore) ById(ctx context.Context, exerciseId string) (muse.Exercise, error) {
	exercise := new(Exercise)
	err := s.DB.NewSelect().
		Model(exercise).
		Where("exercise.id=?", exerciseId).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return muse.Exercise{}, muse.ErrExerciseNotFound
		}
		return muse.Exercise{}, fmt.Errorf("select exercise: %w", err)
	}
	return exercise.ToDomain(), nil
}

func (s *ExerciseStore) TodayForUser(ctx context.Context, userId muse.UserId, now time.Time) ([]muse.Exercise, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	picks := s.DB.NewSelect().
		Model((*UserInterest)(nil)).
		Column("interest_id").
		Where("user_id=?", string(userId))

	var exercises []Exercise
	err := s.DB.NewSelect().
		Model(&exercises).
		DistinctOn("type").
		Where("interest_id IN (?)", picks).
		Where("exercise.created_at >= ? AND exercise.created_at < ?", startOfDay, endOfDay).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select today exercises: %w", err)
	}

	mapped := make([]muse.Exercise, len(exercises))
	for i, exercise := range exercises {
		mapped[i] = exercise.ToDomain()
	}
	return mapped, nil
}

type UserExerciseStore struct {
	DB *bun.DB
}

var _ muse.UserExerciseStore = (*UserExerciseStore)(nil)

func (s *UserExerciseStore) Register(ctx context.Context, userId muse.UserId, exerciseId string, content string) error {
	_, err := s.DB.NewInsert().
		Model(&UserExercise{
			UserId:     string(userId),
			ExerciseId: exerciseId,
			Content:    content,
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}
	return nil
}

func (s *UserExerciseStore) LatestByUserId(ctx context.Context, userId muse.UserId) (*muse.UserExercise, error) {
	completion := new(UserExercise)
	err := s.DB.NewSelect().
		Model(completion).
		Where("user_exercise.user_id=?", string(userId)).
		OrderExpr("user_exercise.created_at DESC, user_exercise.id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest completion: %w", err)
	}
	latest := completion.ToDomain()
	return &latest, nil
}

func (s *UserExerciseStore) History(ctx context.Context, userId muse.UserId) ([]muse.ExerciseHistoryEntry, error) {
	var completions []UserExercise
	err := s.DB.NewSelect().
		Model(&completions).
		Relation("Exercise").
		Relation("Exercise.Interest").
		Where("user_exercise.user_id=?", string(userId)).
		OrderExpr("user_exercise.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	// Soft-deleted exercises drop out of the relation join; skip their
	// completions instead of returning half-empty rows.
	history := make([]muse.ExerciseHistoryEntry, 0, len(completions))
	for _, completion := range completions {
		if completion.Exercise == nil || completion.Exercise.Interest == nil {
			continue
		}
		history = append(history, muse.ExerciseHistoryEntry{
			Title:       completion.Exercise.Title,
			Description: completion.Exercise.Description,
			Interest:    completion.Exercise.Interest.Title,
			PerformedAt: completion.CreatedAt,
		})
	}
	return history, nil
}

func (s *UserExerciseStore) ByUserIdBetween(ctx context.Context, userId muse.UserId, from, to time.Time) ([]muse.CompletedExercise, error) {
	var completions []UserExercise
	err := s.DB.NewSelect().
		Model(&completions).
		Relation("Exercise").
		Relation("Exercise.Interest").
		Where("user_exercise.user_id=?", string(userId)).
		Where("user_exercise.created_at >= ? AND user_exercise.created_at < ?", from, to).
		OrderExpr("user_exercise.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select completions between: %w", err)
	}

	mapped := make([]muse.CompletedExercise, 0, len(completions))
	for _, completion := range completions {
		entry := muse.CompletedExercise{CreatedAt: completion.CreatedAt}
		if completion.Exercise != nil && completion.Exercise.Interest != nil {
			entry.InterestTitle = completion.Exercise.Interest.Title
		}
		mapped = append(mapped, entry)
	}
	return mapped, nil
}
