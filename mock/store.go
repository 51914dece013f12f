package mock

import (
	"context"
	"time"

	"github.com/musehabit/muse"
)

type UserStore struct {
	RegisterFn      func(ctx context.Context, name string, email string, passwordHash string) (muse.User, error)
	ByIdFn          func(ctx context.Context, userId muse.UserId) (muse.User, error)
	ByEmailFn       func(ctx context.Context, email string) (muse.User, error)
	UpdateProfileFn func(ctx context.Context, userId muse.UserId, update muse.ProfileUpdate) (muse.User, error)
	UpdateStreakFn  func(ctx context.Context, userId muse.UserId, streak int) error
}

func (s UserStore) Register(ctx context.Context, name string, email string, passwordHash string) (muse.User, error) {
	return s.RegisterFn(ctx, name, email, passwordHash)
}

func (s UserStore) ById(ctx context.Context, userId muse.UserId) (muse.User, error) {
	return s.ByIdFn(ctx, userId)
}

func (s UserStore) ByEmail(ctx context.Context, email string) (muse.User, error) {
	return s.ByEmailFn(ctx, email)
}

func (s UserStore) UpdateProfile(ctx context.Context, userId muse.UserId, update muse.ProfileUpdate) (muse.User, error) {
	return s.UpdateProfileFn(ctx, userId, update)
}

func (s UserStore) UpdateStreak(ctx context.Context, userId muse.UserId, streak int) error {
	return s.UpdateStreakFn(ctx, userId, streak)
}

type PostStore struct {
	CreateFn        func(ctx context.Context, post muse.Post) error
	ByIdFn          func(ctx context.Context, postId string) (muse.Post, error)
	ListForViewerFn func(ctx context.Context, viewerId muse.UserId, page, limit int) ([]muse.PostListing, error)
	ListOwnedByFn   func(ctx context.Context, ownerId muse.UserId) ([]muse.PostListing, error)
}

func (s PostStore) Create(ctx context.Context, post muse.Post) error {
	return s.CreateFn(ctx, post)
}

func (s PostStore) ById(ctx context.Context, postId string) (muse.Post, error) {
	return s.ByIdFn(ctx, postId)
}

func (s PostStore) ListForViewer(ctx context.Context, viewerId muse.UserId, page, limit int) ([]muse.PostListing, error) {
	return s.ListForViewerFn(ctx, viewerId, page, limit)
}

func (s PostStore) ListOwnedBy(ctx context.Context, ownerId muse.UserId) ([]muse.PostListing, error) {
	return s.ListOwnedByFn(ctx, ownerId)
}

type LibraryStore struct {
	ByIdFn          func(ctx context.Context, libraryId string) (muse.Library, error)
	ListForViewerFn func(ctx context.Context, viewerId muse.UserId) ([]muse.LibraryListing, error)
}

func (s LibraryStore) ById(ctx context.Context, libraryId string) (muse.Library, error) {
	return s.ByIdFn(ctx, libraryId)
}

func (s LibraryStore) ListForViewer(ctx context.Context, viewerId muse.UserId) ([]muse.LibraryListing, error) {
	return s.ListForViewerFn(ctx, viewerId)
}

type ExerciseStore struct {
	ByIdFn         func(ctx context.Context, exerciseId string) (muse.Exercise, error)
	TodayForUserFn func(ctx context.Context, userId muse.UserId, now time.Time) ([]muse.Exercise, error)
}

func (s ExerciseStore) ById(ctx context.Context, exerciseId string) (muse.Exercise, error) {
	return s.ByIdFn(ctx, exerciseId)
}

func (s ExerciseStore) TodayForUser(ctx context.Context, userId muse.UserId, now time.Time) ([]muse.Exercise, error) {
	return s.TodayForUserFn(ctx, userId, now)
}

type UserExerciseStore struct {
	RegisterFn        func(ctx context.Context, userId muse.UserId, exerciseId string, content string) error
	LatestByUserIdFn  func(ctx context.Context, userId muse.UserId) (*muse.UserExercise, error)
	HistoryFn         func(ctx context.Context, userId muse.UserId) ([]muse.ExerciseHistoryEntry, error)
	ByUserIdBetweenFn func(ctx context.Context, userId muse.UserId, from, to time.Time) ([]muse.CompletedExercise, error)
}

func (s UserExerciseStore) Register(ctx context.Context, userId muse.UserId, exerciseId string, content string) error {
	return s.RegisterFn(ctx, userId, exerciseId, content)
}

func (s UserExerciseStore) LatestByUserId(ctx context.Context, userId muse.UserId) (*muse.UserExercise, error) {
	return s.LatestByUserIdFn(ctx, userId)
}

func (s UserExerciseStore) History(ctx context.Context, userId muse.UserId) ([]muse.ExerciseHistoryEntry, error) {
	return s.HistoryFn(ctx, userId)
}

func (s UserExerciseStore) ByUserIdBetween(ctx context.Context, userId muse.UserId, from, to time.Time) ([]muse.CompletedExercise, error) {
	return s.ByUserIdBetweenFn(ctx, userId, from, to)
}

type InterestStore struct {
	ByIdsFn          func(ctx context.Context, interestIds []string) ([]muse.Interest, error)
	ByUserIdFn       func(ctx context.Context, userId muse.UserId) ([]muse.Interest, error)
	ReplaceForUserFn func(ctx context.Context, userId muse.UserId, interestIds []string) error
}

func (s InterestStore) ByIds(ctx context.Context, interestIds []string) ([]muse.Interest, error) {
	return s.ByIdsFn(ctx, interestIds)
}

func (s InterestStore) ByUserId(ctx context.Context, userId muse.UserId) ([]muse.Interest, error) {
	return s.ByUserIdFn(ctx, userId)
}

func (s InterestStore) ReplaceForUser(ctx context.Context, userId muse.UserId, interestIds []string) error {
	return s.ReplaceForUserFn(ctx, userId, interestIds)
}

type CommentStore struct {
	AddFn      func(ctx context.Context, postId string, userId muse.UserId, content string) error
	ByPostIdFn func(ctx context.Context, postId string) ([]muse.CommentListing, error)
}

func (s CommentStore) Add(ctx context.Context, postId string, userId muse.UserId, content string) error {
	return s.AddFn(ctx, postId, userId, content)
}

func (s CommentStore) ByPostId(ctx context.Context, postId string) ([]muse.CommentListing, error) {
	return s.ByPostIdFn(ctx, postId)
}

type SavedRelationStore struct {
	FindFn                func(ctx context.Context, userId muse.UserId, itemId string) (muse.SavedRelation, error)
	CreateFn              func(ctx context.Context, userId muse.UserId, itemId string) error
	SetDeletedFn          func(ctx context.Context, userId muse.UserId, itemId string, deleted bool, now time.Time) error
	CountActiveByUserIdFn func(ctx context.Context, userId muse.UserId) (int, error)
}

func (s SavedRelationStore) Find(ctx context.Context, userId muse.UserId, itemId string) (muse.SavedRelation, error) {
	return s.FindFn(ctx, userId, itemId)
}

func (s SavedRelationStore) Create(ctx context.Context, userId muse.UserId, itemId string) error {
	return s.CreateFn(ctx, userId, itemId)
}

func (s SavedRelationStore) SetDeleted(ctx context.Context, userId muse.UserId, itemId string, deleted bool, now time.Time) error {
	return s.SetDeletedFn(ctx, userId, itemId, deleted, now)
}

func (s SavedRelationStore) CountActiveByUserId(ctx context.Context, userId muse.UserId) (int, error) {
	return s.CountActiveByUserIdFn(ctx, userId)
}

type StreakUpdater struct {
	UpdateFn func(ctx context.Context, userId muse.UserId) error
}

func (s StreakUpdater) Update(ctx context.Context, userId muse.UserId) error {
	return s.UpdateFn(ctx, userId)
}
