package muse

import (
	"context"
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

type Post struct {
	Id          string
	OwnerId     UserId
	Title       string
	Description string
	ImagePath   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostListing is the viewer-scoped read model: the post together with its
// owner's public fields and whether the viewer saved it.
type PostListing struct {
	Post
	OwnerName       string
	OwnerAvatarPath string
	Saved           bool
}

type PostStore interface {
	Create(ctx context.Context, post Post) error

	ById(ctx context.Context, postId string) (Post, error)

	// ListForViewer returns non-deleted posts newest first, paginated
	// (page starts at 1), with the viewer's saved flag.
	ListForViewer(ctx context.Context, viewerId UserId, page, limit int) ([]PostListing, error)

	// ListOwnedBy returns the owner's non-deleted posts newest first,
	// with the owner's own saved flag.
	ListOwnedBy(ctx context.Context, ownerId UserId) ([]PostListing, error)
}
