package muse

import (
	"context"
	"time"
)

type Comment struct {
	Id        int64
	PostId    string
	UserId    UserId
	Content   string
	CreatedAt time.Time
}

type CommentListing struct {
	Comment
	OwnerName       string
	OwnerAvatarPath string
}

type CommentStore interface {
	Add(ctx context.Context, postId string, userId UserId, content string) error

	// ByPostId lists non-deleted comments for a post, oldest first.
	ByPostId(ctx context.Context, postId string) ([]CommentListing, error)
}
