package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/musehabit/muse"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type User struct {
	bun.BaseModel `bun:"table:user"`

	Id                 string       `bun:",pk"`
	CreatedAt          time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt          sql.NullTime `bun:",nullzero,soft_delete"`
	Name               string       `bun:",notnull"`
	Email              string       `bun:",notnull,unique"`
	PasswordHash       string       `bun:",notnull"`
	Description        string
	ProfilePicturePath string
	Streak             int `bun:",notnull,default:0"`
}

func (u User) ToDomain() muse.User {
	return muse.User{
		Id:                 muse.UserId(u.Id),
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
		Name:               u.Name,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		Description:        u.Description,
		ProfilePicturePath: u.ProfilePicturePath,
		Streak:             u.Streak,
	}
}

type UserStore struct {
	DB *bun.DB
}

var _ muse.UserStore = (*UserStore)(nil)

func (s *UserStore) Register(ctx context.Context, name string, email string, passwordHash string) (muse.User, error) {
	user := &User{
		Id:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	_, err := s.DB.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return muse.User{}, muse.ErrEmailTaken
		}
		return muse.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user.ToDomain(), nil
}

func (s *UserStore) ById(ctx context.Context, userId muse.UserId) (muse.User, error) {
	user := new(User)
	err := s.DB.NewSelect().
		Model(user).
		Where(`"user"."id"=?`, string(userId)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return muse.User{}, muse.ErrUserNotFound
		}
		return muse.User{}, fmt.Errorf("select user: %w", err)
	}
	return user.ToDomain(), nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (muse.User, error) {
	user := new(User)
	err := s.DB.NewSelect().
		Model(user).
		Where(`email=?`, email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return muse.User{}, muse.ErrUserNotFound
		}
		return muse.User{}, fmt.Errorf("select user by email: %w", err)
	}
	return user.ToDomain(), nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, userId muse.UserId, update muse.ProfileUpdate) (muse.User, error) {
	query := s.DB.NewUpdate().
		Model((*User)(nil)).
		Set("updated_at=current_timestamp").
		Where("id=?", string(userId))
	if update.Description != nil {
		query = query.Set("description=?", *update.Description)
	}
	if update.ProfilePicturePath != nil {
		query = query.Set("profile_picture_path=?", *update.ProfilePicturePath)
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return muse.User{}, fmt.Errorf("update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return muse.User{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return muse.User{}, muse.ErrUserNotFound
	}
	return s.ById(ctx, userId)
}

func (s *UserStore) UpdateStreak(ctx context.Context, userId muse.UserId, streak int) error {
	res, err := s.DB.NewUpdate().
		Model((*User)(nil)).
		Set("streak=?", streak).
		Set("updated_at=current_timestamp").
		Where("id=?", string(userId)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return muse.ErrUserNotFound
	}
	return nil
}
