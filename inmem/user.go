package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/musehabit/muse"
)

type UserStore struct {
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time

	users map[muse.UserId]muse.User
	mutex sync.RWMutex
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: map[muse.UserId]muse.User{},
	}
}

var _ muse.UserStore = (*UserStore)(nil)

func (s *UserStore) Register(ctx context.Context, name string, email string, passwordHash string) (muse.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return muse.User{}, muse.ErrEmailTaken
		}
	}

	now := s.now()
	user := muse.User{
		Id:           muse.UserId(uuid.New().String()),
		CreatedAt:    now,
		UpdatedAt:    now,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	s.users[user.Id] = user
	return user, nil
}

// Put seeds a user directly, bypassing registration. Test helper.
func (s *UserStore) Put(user muse.User) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users[user.Id] = user
}

func (s *UserStore) ById(ctx context.Context, userId muse.UserId) (muse.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	user, ok := s.users[userId]
	if !ok {
		return muse.User{}, muse.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (muse.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return muse.User{}, muse.ErrUserNotFound
}

func (s *UserStore) UpdateProfile(ctx context.Context, userId muse.UserId, update muse.ProfileUpdate) (muse.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, ok := s.users[userId]
	if !ok {
		return muse.User{}, muse.ErrUserNotFound
	}
	if update.Description != nil {
		user.Description = *update.Description
	}
	if update.ProfilePicturePath != nil {
		user.ProfilePicturePath = *update.ProfilePicturePath
	}
	user.UpdatedAt = s.now()
	s.users[userId] = user
	return user, nil
}

func (s *UserStore) UpdateStreak(ctx context.Context, userId muse.UserId, streak int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, ok := s.users[userId]
	if !ok {
		return muse.ErrUserNotFound
	}
	user.Streak = streak
	user.UpdatedAt = s.now()
	s.users[userId] = user
	return nil
}

func (s *UserStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
