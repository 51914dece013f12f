package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/musehabit/muse"
)

type savedKey struct {
	userId muse.UserId
	itemId string
}

// SavedRelationStore keeps saved relations in a map keyed by the
// (user, item) pair, which makes the at-most-one-row invariant structural.
type SavedRelationStore struct {
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time

	relations map[savedKey]muse.SavedRelation
	mutex     sync.RWMutex
}

func NewSavedRelationStore() *SavedRelationStore {
	return &SavedRelationStore{
		relations: map[savedKey]muse.SavedRelation{},
	}
}

var _ muse.SavedRelationStore = (*SavedRelationStore)(nil)

func (s *SavedRelationStore) Find(ctx context.Context, userId muse.UserId, itemId string) (muse.SavedRelation, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	relation, ok := s.relations[savedKey{userId, itemId}]
	if !ok {
		return muse.SavedRelation{}, muse.ErrRelationNotFound
	}
	return relation, nil
}

func (s *SavedRelationStore) Create(ctx context.Context, userId muse.UserId, itemId string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := savedKey{userId, itemId}
	if _, ok := s.relations[key]; ok {
		// Same answer the unique key gives: the row is already there.
		return nil
	}
	now := s.now()
	s.relations[key] = muse.SavedRelation{
		UserId:    userId,
		ItemId:    itemId,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *SavedRelationStore) SetDeleted(ctx context.Context, userId muse.UserId, itemId string, deleted bool, now time.Time) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := savedKey{userId, itemId}
	relation, ok := s.relations[key]
	if !ok {
		return muse.ErrRelationNotFound
	}
	if deleted {
		deletedAt := now
		relation.DeletedAt = &deletedAt
	} else {
		relation.DeletedAt = nil
	}
	relation.UpdatedAt = now
	s.relations[key] = relation
	return nil
}

func (s *SavedRelationStore) CountActiveByUserId(ctx context.Context, userId muse.UserId) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	for _, relation := range s.relations {
		if relation.UserId == userId && relation.Active() {
			count++
		}
	}
	return count, nil
}

// Len reports how many rows exist for the pair, deleted or not. Test helper
// asserting the single-row invariant.
func (s *SavedRelationStore) Len(userId muse.UserId, itemId string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if _, ok := s.relations[savedKey{userId, itemId}]; ok {
		return 1
	}
	return 0
}

func (s *SavedRelationStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
