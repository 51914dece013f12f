package persistent

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/musehabit/muse"
	"github.com/uptrace/bun"
)

type Comment struct {
	bun.BaseModel `bun:"table:comment"`

	Id        int64        `bun:",pk,autoincrement"`
	CreatedAt time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt sql.NullTime `bun:",nullzero,soft_delete"`
	PostId    string       `bun:",notnull"`
	UserId    string       `bun:",notnull"`
	User      *User        `bun:"rel:belongs-to,join:user_id=id"`
	Content   string       `bun:",notnull"`
}

func (c Comment) ToDomain() muse.CommentListing {
	listing := muse.CommentListing{
		Comment: muse.Comment{
			Id:        c.Id,
			PostId:    c.PostId,
			UserId:    muse.UserId(c.UserId),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		},
	}
	if c.User != nil {
		listing.OwnerName = c.User.Name
		listing.OwnerAvatarPath = c.User.ProfilePicturePath
	}
	return listing
}

type CommentStore struct {
	DB *bun.DB
}

var _ muse.CommentStore = (*CommentStore)(nil)

func (s *CommentStore) Add(ctx context.Context, postId string, userId muse.UserId, content string) error {
	_, err := s.DB.NewInsert().
		Model(&Comment{
			PostId:  postId,
			UserId:  string(userId),
			Content: content,
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *CommentStore) ByPostId(ctx context.Context, postId string) ([]muse.CommentListing, error) {
	var comments []Comment
	err := s.DB.NewSelect().
		Model(&comments).
		Relation("User").
		Where("comment.post_id=?", postId).
		OrderExpr("comment.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}

	listings := make([]muse.CommentListing, len(comments))
	for i, comment := range comments {
		listings[i] = comment.ToDomain()
	}
	return listings, nil
}
