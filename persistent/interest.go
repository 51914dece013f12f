package persistent

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/musehabit/muse"
	"github.com/uptrace/bun"
)

type Interest struct {
	bun.BaseModel `bun:"table:interest"`

	Id        string       `bun:",pk"`
	CreatedAt time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt sql.NullTime `bun:",nullzero,soft_delete"`
	Title     string       `bun:",notnull"`
}

func (i Interest) ToDomain() muse.Interest {
	return muse.Interest{
		Id:        i.Id,
		Title:     i.Title,
		CreatedAt: i.CreatedAt,
	}
}

type UserInterest struct {
	bun.BaseModel `bun:"table:user_interest"`

	Id         int64     `bun:",pk,autoincrement"`
	CreatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UserId     string    `bun:",notnull,unique:user_interest_pair"`
	InterestId string    `bun:",notnull,unique:user_interest_pair"`
	Interest   *Interest `bun:"rel:belongs-to,join:interest_id=id"`
}

type InterestStore struct {
	DB *bun.DB
}

var _ muse.InterestStore = (*InterestStore)(nil)

func (s *InterestStore) ByIds(ctx context.Context, interestIds []string) ([]muse.Interest, error) {
	var interests []Interest
	err := s.DB.NewSelect().
		Model(&interests).
		Where("id IN (?)", bun.In(interestIds)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select interests: %w", err)
	}
	if len(interests) != len(interestIds) {
		return nil, muse.ErrInterestNotFound
	}

	mapped := make([]muse.Interest, len(interests))
	for i, interest := range interests {
		mapped[i] = interest.ToDomain()
	}
	return mapped, nil
}

func (s *InterestStore) ByUserId(ctx context.Context, userId muse.UserId) ([]muse.Interest, error) {
	var picks []UserInterest
	err := s.DB.NewSelect().
		Model(&picks).
		Relation("Interest").
		Where("user_interest.user_id=?", string(userId)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select user interests: %w", err)
	}

	interests := make([]muse.Interest, 0, len(picks))
	for _, pick := range picks {
		if pick.Interest == nil {
			continue
		}
		interests = append(interests, pick.Interest.ToDomain())
	}
	return interests, nil
}

// ReplaceForUser swaps the user's picks in one transaction so a failed
// insert never leaves the user with a partial pick.
func (s *InterestStore) ReplaceForUser(ctx context.Context, userId muse.UserId, interestIds []string) error {
	return s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*UserInterest)(nil)).
			Where("user_id=?", string(userId)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete previous picks: %w", err)
		}

		picks := make([]UserInterest, len(interestIds))
		for i, interestId := range interestIds {
			picks[i] = UserInterest{UserId: string(userId), InterestId: interestId}
		}
		_, err = tx.NewInsert().
			Model(&picks).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert picks: %w", err)
		}
		return nil
	})
}
