package persistent

import (
	"context"
	"testing"
	"time"

	"github.com/musehabit/muse"
	"github.com/musehabit/muse/pgdb"
	"github.com/stretchr/testify/assert"
)

func TestSavedPostStoreLifecycle(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	assert := assert.New(t)
	ctx := context.Background()

	db := pgdb.OpenTest(ctx)
	defer db.Close()
	store := &SavedPostStore{DB: db}

	_, err := store.Find(ctx, "saved-u1", "saved-p1")
	assert.ErrorIs(err, muse.ErrRelationNotFound)

	if !assert.NoError(store.Create(ctx, "saved-u1", "saved-p1")) {
		return
	}
	relation, err := store.Find(ctx, "saved-u1", "saved-p1")
	if !assert.NoError(err) {
		return
	}
	assert.True(relation.Active())
	assert.Equal(muse.UserId("saved-u1"), relation.UserId)
	assert.Equal("saved-p1", relation.ItemId)

	// The conflict clause swallows the duplicate insert.
	assert.NoError(store.Create(ctx, "saved-u1", "saved-p1"))
	count, err := db.NewSelect().
		Model((*SavedPost)(nil)).
		Where("user_id=?", "saved-u1").
		Where("post_id=?", "saved-p1").
		Count(ctx)
	assert.NoError(err)
	assert.Equal(1, count)

	now := time.Now().UTC()
	assert.NoError(store.SetDeleted(ctx, "saved-u1", "saved-p1", true, now))
	relation, err = store.Find(ctx, "saved-u1", "saved-p1")
	if !assert.NoError(err) {
		return
	}
	assert.False(relation.Active())

	active, err := store.CountActiveByUserId(ctx, "saved-u1")
	assert.NoError(err)
	assert.Equal(0, active)

	assert.NoError(store.SetDeleted(ctx, "saved-u1", "saved-p1", false, now))
	relation, err = store.Find(ctx, "saved-u1", "saved-p1")
	if !assert.NoError(err) {
		return
	}
	assert.True(relation.Active())

	active, err = store.CountActiveByUserId(ctx, "saved-u1")
	assert.NoError(err)
	assert.Equal(1, active)
}

func TestSavedPostSetDeletedUnknownPair(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	assert := assert.New(t)
	ctx := context.Background()

	db := pgdb.OpenTest(ctx)
	defer db.Close()
	store := &SavedPostStore{DB: db}

	err := store.SetDeleted(ctx, "saved-u2", "saved-ghost", true, time.Now().UTC())
	assert.ErrorIs(err, muse.ErrRelationNotFound)
}

func TestSavedLibraryStoreCountsOnlyActive(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	assert := assert.New(t)
	ctx := context.Background()

	db := pgdb.OpenTest(ctx)
	defer db.Close()
	store := &SavedLibraryStore{DB: db}

	if !assert.NoError(store.Create(ctx, "saved-u3", "saved-l1")) {
		return
	}
	assert.NoError(store.Create(ctx, "saved-u3", "saved-l2"))
	assert.NoError(store.SetDeleted(ctx, "saved-u3", "saved-l2", true, time.Now().UTC()))
	// Another user's relation stays out of the count.
	assert.NoError(store.Create(ctx, "saved-u4", "saved-l1"))

	count, err := store.CountActiveByUserId(ctx, "saved-u3")
	assert.NoError(err)
	assert.Equal(1, count)
}
