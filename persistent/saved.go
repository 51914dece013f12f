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

// The saved relation tables keep deleted_at as a plain nullable column
// instead of bun's soft_delete: the toggle has to see soft-deleted rows to
// restore them, and the "at most one row per pair" invariant hangs on the
// composite unique key, not on query-time filtering.

type SavedPost struct {
	bun.BaseModel `bun:"table:user_saved_post"`

	Id        int64        `bun:",pk,autoincrement"`
	CreatedAt time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt sql.NullTime `bun:",nullzero"`
	UserId    string       `bun:",notnull,unique:user_saved_post_pair"`
	PostId    string       `bun:",notnull,unique:user_saved_post_pair"`
}

func (r SavedPost) ToDomain() muse.SavedRelation {
	return toDomainRelation(r.UserId, r.PostId, r.CreatedAt, r.UpdatedAt, r.DeletedAt)
}

type SavedLibrary struct {
	bun.BaseModel `bun:"table:user_saved_library"`

	Id        int64        `bun:",pk,autoincrement"`
	CreatedAt time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt sql.NullTime `bun:",nullzero"`
	UserId    string       `bun:",notnull,unique:user_saved_library_pair"`
	LibraryId string       `bun:",notnull,unique:user_saved_library_pair"`
}

func (r SavedLibrary) ToDomain() muse.SavedRelation {
	return toDomainRelation(r.UserId, r.LibraryId, r.CreatedAt, r.UpdatedAt, r.DeletedAt)
}

func toDomainRelation(userId, itemId string, createdAt, updatedAt time.Time, deletedAt sql.NullTime) muse.SavedRelation {
	relation := muse.SavedRelation{
		UserId:    muse.UserId(userId),
		ItemId:    itemId,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		relation.DeletedAt = &t
	}
	return relation
}

type SavedPostStore struct {
	DB *bun.DB
}

var _ muse.SavedRelationStore = (*SavedPostStore)(nil)

func (s *SavedPostStore) Find(ctx context.Context, userId muse.UserId, itemId string) (muse.SavedRelation, error) {
	relation := new(SavedPost)
	err := s.DB.NewSelect().
		Model(relation).
		Where("user_id=? AND post_id=?", string(userId), itemId).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return muse.SavedRelation{}, muse.ErrRelationNotFound
		}
		return muse.SavedRelation{}, fmt.Errorf("select saved post: %w", err)
	}
	return relation.ToDomain(), nil
}

func (s *SavedPostStore) Create(ctx context.Context, userId muse.UserId, itemId string) error {
	// A concurrent save already created the row: the unique pair makes the
	// insert a no-op and the desired state holds either way.
	_, err := s.DB.NewInsert().
		Model(&SavedPost{UserId: string(userId), PostId: itemId}).
		On("CONFLICT (user_id, post_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert saved post: %w", err)
	}
	return nil
}

func (s *SavedPostStore) SetDeleted(ctx context.Context, userId muse.UserId, itemId string, deleted bool, now time.Time) error {
	query := s.DB.NewUpdate().
		Model((*SavedPost)(nil)).
		Set("updated_at=?", now).
		Where("user_id=? AND post_id=?", string(userId), itemId)
	if deleted {
		query = query.Set("deleted_at=?", now)
	} else {
		query = query.Set("deleted_at=NULL")
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return fmt.Errorf("update saved post: %w", err)
	}
	return requireAffected(res, muse.ErrRelationNotFound)
}

func (s *SavedPostStore) CountActiveByUserId(ctx context.Context, userId muse.UserId) (int, error) {
	count, err := s.DB.NewSelect().
		Model((*SavedPost)(nil)).
		Where("user_id=? AND deleted_at IS NULL", string(userId)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count saved posts: %w", err)
	}
	return count, nil
}

type SavedLibraryStore struct {
	DB *bun.DB
}

var _ muse.SavedRelationStore = (*SavedLibraryStore)(nil)

func (s *SavedLibraryStore) Find(ctx context.Context, userId muse.UserId, itemId string) (muse.SavedRelation, error) {
	relation := new(SavedLibrary)
	err := s.DB.NewSelect().
		Model(relation).
		Where("user_id=? AND library_id=?", string(userId), itemId).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return muse.SavedRelation{}, muse.ErrRelationNotFound
		}
		return muse.SavedRelation{}, fmt.Errorf("select saved library: %w", err)
	}
	return relation.ToDomain(), nil
}

func (s *SavedLibraryStore) Create(ctx context.Context, userId muse.UserId, itemId string) error {
	_, err := s.DB.NewInsert().
		Model(&SavedLibrary{UserId: string(userId), LibraryId: itemId}).
		On("CONFLICT (user_id, library_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert saved library: %w", err)
	}
	return nil
}

func (s *SavedLibraryStore) SetDeleted(ctx context.Context, userId muse.UserId, itemId string, deleted bool, now time.Time) error {
	query := s.DB.NewUpdate().
		Model((*SavedLibrary)(nil)).
		Set("updated_at=?", now).
		Where("user_id=? AND library_id=?", string(userId), itemId)
	if deleted {
		query = query.Set("deleted_at=?", now)
	} else {
		query = query.Set("deleted_at=NULL")
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return fmt.Errorf("update saved library: %w", err)
	}
	return requireAffected(res, muse.ErrRelationNotFound)
}

func (s *SavedLibraryStore) CountActiveByUserId(ctx context.Context, userId muse.UserId) (int, error) {
	count, err := s.DB.NewSelect().
		Model((*SavedLibrary)(nil)).
		Where("user_id=? AND deleted_at IS NULL", string(userId)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count saved libraries: %w", err)
	}
	return count, nil
}

func requireAffected(res sql.Result, missing error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return missing
	}
	return nil
}
