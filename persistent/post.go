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

type Post struct {
	bun.BaseModel `bun:"table:post"`

	Id          string       `bun:",pk"`
	CreatedAt   time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt   sql.NullTime `bun:",nullzero,soft_delete"`
	OwnerId     string       `bun:",notnull"`
	Owner       *User        `bun:"rel:belongs-to,join:owner_id=id"`
	Title       string       `bun:",notnull"`
	Description string
	ImagePath   string

	// Filled by the viewer-scoped EXISTS subquery in listings.
	Saved bool `bun:"saved,scanonly"`
}

func (p Post) ToDomain() muse.Post {
	return muse.Post{
		Id:          p.Id,
		OwnerId:     muse.UserId(p.OwnerId),
		Title:       p.Title,
		Description: p.Description,
		ImagePath:   p.ImagePath,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (p Post) toListing() muse.PostListing {
	listing := muse.PostListing{
		Post:  p.ToDomain(),
		Saved: p.Saved,
	}
	if p.Owner != nil {
		listing.OwnerName = p.Owner.Name
		listing.OwnerAvatarPath = p.Owner.ProfilePicturePath
	}
	return listing
}

type PostStore struct {
	DB *bun.DB
}

var _ muse.PostStore = (*PostStore)(nil)

func (s *PostStore) Create(ctx context.Context, post muse.Post) error {
	_, err := s.DB.NewInsert().
		Model(&Post{
			Id:          post.Id,
			OwnerId:     string(post.OwnerId),
			Title:       post.Title,
			Description: post.Description,
			ImagePath:   post.ImagePath,
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *PostStore) ById(ctx context.Context, postId string) (muse.Post, error) {
	post := new(Post)
	err := s.DB.NewSelect().
		Model(post).
		Where("post.id=?", postId).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return muse.Post{}, muse.ErrPostNotFound
		}
		return muse.Post{}, fmt.Errorf("select post: %w", err)
	}
	return post.ToDomain(), nil
}

func (s *PostStore) ListForViewer(ctx context.Context, viewerId muse.UserId, page, limit int) ([]muse.PostListing, error) {
	var posts []Post
	err := s.savedFlagQuery(&posts, viewerId).
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	return mapListings(posts), nil
}

func (s *PostStore) ListOwnedBy(ctx context.Context, ownerId muse.UserId) ([]muse.PostListing, error) {
	var posts []Post
	err := s.savedFlagQuery(&posts, ownerId).
		Where("post.owner_id=?", string(ownerId)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select owned posts: %w", err)
	}
	return mapListings(posts), nil
}

func (s *PostStore) savedFlagQuery(posts *[]Post, viewerId muse.UserId) *bun.SelectQuery {
	return s.DB.NewSelect().
		Model(posts).
		Relation("Owner").
		ColumnExpr("post.*").
		ColumnExpr(`EXISTS(SELECT 1 FROM user_saved_post sp `+
			`WHERE sp.post_id = post.id AND sp.user_id = ? AND sp.deleted_at IS NULL) AS saved`, string(viewerId)).
		OrderExpr("post.created_at DESC")
}

func mapListings(posts []Post) []muse.PostListing {
	listings := make([]muse.PostListing, len(posts))
	for i, post := range posts {
		listings[i] = post.toListing()
	}
	return listings
}
