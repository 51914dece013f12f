package muse

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInterestNotFound = errors.New("interest not found")
	// ErrInvalidInterestPick - not exactly RequiredInterests distinct ids.
	ErrInvalidInterestPick = errors.New("invalid interest pick")
)

// RequiredInterests is how many interests every user picks, no more no less.
const RequiredInterests = 3

type Interest struct {
	Id        string
	Title     string
	CreatedAt time.Time
}

// ValidateInterestPick checks the pick shape before any store access:
// exactly RequiredInterests ids, no duplicates.
func ValidateInterestPick(interestIds []string) error {
	if len(interestIds) != RequiredInterests {
		return ErrInvalidInterestPick
	}
	seen := make(map[string]struct{}, len(interestIds))
	for _, id := range interestIds {
		if _, ok := seen[id]; ok {
			return ErrInvalidInterestPick
		}
		seen[id] = struct{}{}
	}
	return nil
}

type InterestStore interface {
	// ByIds resolves the given ids. ErrInterestNotFound when any id is unknown.
	ByIds(ctx context.Context, interestIds []string) ([]Interest, error)

	ByUserId(ctx context.Context, userId UserId) ([]Interest, error)

	// ReplaceForUser atomically swaps the user's picks for the given ones.
	ReplaceForUser(ctx context.Context, userId UserId, interestIds []string) error
}
