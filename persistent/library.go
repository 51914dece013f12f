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

type Library struct {
	bun.BaseModel `bun:"table:library"`

	Id          string       `bun:",pk"`
	CreatedAt   time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt   sql.NullTime `bun:",nullzero,soft_delete"`
	Description string
	Link        string
	ImagePath   string

	Saved bool `bun:"saved,scanonly"`
}

func (l Library) ToDomain() muse.Library {
	return muse.Library{
		Id:          l.Id,
		Description: l.Description,
		Link:        l.Link,
		ImagePath:   l.ImagePath,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

type LibraryStore struct {
	DB *bun.DB
}

var _ muse.LibraryStore = (*LibraryStore)(nil)

func (s *LibraryStore) ById(ctx context.Context, libraryId string) (muse.Library, error) {
	library := new(Library)
	err := s.DB.NewSelect().
		Model(library).
		Where("library.id=?", libraryId).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return muse.Library{}, muse.ErrLibraryNotFound
		}
		return muse.Library{}, fmt.Errorf("select library: %w", err)
	}
	return library.ToDomain(), nil
}

func (s *LibraryStore) ListForViewer(ctx context.Context, viewerId muse.UserId) ([]muse.LibraryListing, error) {
	var libraries []Library
	err := s.DB.NewSelect().
		Model(&libraries).
		ColumnExpr("library.*").
		ColumnExpr(`EXISTS(SELECT 1 FROM user_saved_library sl `+
			`WHERE sl.library_id = library.id AND sl.user_id = ? AND sl.deleted_at IS NULL) AS saved`, string(viewerId)).
		OrderExpr("library.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select libraries: %w", err)
	}

	listings := make([]muse.LibraryListing, len(libraries))
	for i, library := range libraries {
		listings[i] = muse.LibraryListing{
			Library: library.ToDomain(),
			Saved:   library.Saved,
		}
	}
	return listings, nil
}
