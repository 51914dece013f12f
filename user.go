package muse

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("incorrect login credentials")
)

type UserId string

type User struct {
	Id                 UserId
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Name               string
	Email              string
	PasswordHash       string
	Description        string
	ProfilePicturePath string
	Streak             int
}

// ProfileUpdate carries the optional profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Description        *string
	ProfilePicturePath *string
}

func (u ProfileUpdate) Empty() bool {
	return u.Description == nil && u.ProfilePicturePath == nil
}

type UserStore interface {
	// Register creates a new user. ErrEmailTaken when the email is already registered.
	Register(ctx context.Context, name string, email string, passwordHash string) (User, error)

	ById(ctx context.Context, userId UserId) (User, error)

	ByEmail(ctx context.Context, email string) (User, error)

	UpdateProfile(ctx context.Context, userId UserId, update ProfileUpdate) (User, error)

	// UpdateStreak persists a new streak value and bumps the user's updated_at
	// timestamp, which the streak engine reads as its "already counted today" marker.
	UpdateStreak(ctx context.Context, userId UserId, streak int) error
}
