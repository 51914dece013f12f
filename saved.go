package muse

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrRelationNotFound = errors.New("saved relation not found")

// SavedRelation is a user's association with a saved item (a post or a
// library entry). At most one row exists per (user, item) pair over the
// pair's entire lifetime: unsaving soft-deletes the row, resaving restores
// it, a row is never created twice.
type SavedRelation struct {
	UserId    UserId
	ItemId    string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Active reports whether the item is currently saved.
func (r SavedRelation) Active() bool {
	return r.DeletedAt == nil
}

// SavedRelationStore persists saved relations for one item kind.
type SavedRelationStore interface {
	// Find returns the relation for (userId, itemId) regardless of its
	// soft-delete state. ErrRelationNotFound when no row was ever created.
	Find(ctx context.Context, userId UserId, itemId string) (SavedRelation, error)

	// Create inserts the single row allowed per (userId, itemId).
	// Implementations must back the pair with a composite unique key and
	// report success when a concurrent request already created the row.
	Create(ctx context.Context, userId UserId, itemId string) error

	// SetDeleted flips the soft-delete mark and bumps updated_at.
	SetDeleted(ctx context.Context, userId UserId, itemId string, deleted bool, now time.Time) error

	// CountActiveByUserId counts the user's currently saved items.
	CountActiveByUserId(ctx context.Context, userId UserId) (int, error)
}

type ToggleOutcome int

const (
	// OutcomeSaved - the item went from not saved to saved (fresh row or
	// restored soft-deleted row).
	OutcomeSaved ToggleOutcome = iota
	// OutcomeRemoved - the item went from saved to not saved.
	OutcomeRemoved
	// OutcomeNoModification - the desired state already held.
	OutcomeNoModification
	// OutcomeNotSavedBefore - unsave requested for a pair that never had a
	// row. A reportable no-op, not an error.
	OutcomeNotSavedBefore
)

func (o ToggleOutcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeRemoved:
		return "removed"
	case OutcomeNoModification:
		return "no_modification"
	case OutcomeNotSavedBefore:
		return "not_saved_before"
	default:
		return fmt.Sprintf("ToggleOutcome(%d)", int(o))
	}
}

type ToggleResult struct {
	Outcome ToggleOutcome
}

// SavedItemToggle reconciles the persisted save-state of a (user, item) pair
// with the caller's desired state. One implementation serves every item kind;
// the kind lives in the injected store.
//
// Caller contract: the acting user and the target item must be verified to
// exist before Toggle runs. Toggle itself touches only the relation row.
type SavedItemToggle struct {
	Relations SavedRelationStore

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Toggle moves the relation to the desired state.
//
//	state    save=true                save=false
//	absent   create row -> Saved      -> NotSavedBefore
//	active   -> NoModification        soft delete -> Removed
//	removed  restore row -> Saved     -> NoModification
func (t *SavedItemToggle) Toggle(ctx context.Context, userId UserId, itemId string, save bool) (ToggleResult, error) {
	relation, err := t.Relations.Find(ctx, userId, itemId)
	if errors.Is(err, ErrRelationNotFound) {
		if !save {
			return ToggleResult{Outcome: OutcomeNotSavedBefore}, nil
		}
		if err := t.Relations.Create(ctx, userId, itemId); err != nil {
			return ToggleResult{}, fmt.Errorf("create relation: %w", err)
		}
		return ToggleResult{Outcome: OutcomeSaved}, nil
	}
	if err != nil {
		return ToggleResult{}, fmt.Errorf("find relation: %w", err)
	}

	if save {
		if relation.Active() {
			return ToggleResult{Outcome: OutcomeNoModification}, nil
		}
		if err := t.Relations.SetDeleted(ctx, userId, itemId, false, t.now()); err != nil {
			return ToggleResult{}, fmt.Errorf("restore relation: %w", err)
		}
		return ToggleResult{Outcome: OutcomeSaved}, nil
	}

	if !relation.Active() {
		return ToggleResult{Outcome: OutcomeNoModification}, nil
	}
	if err := t.Relations.SetDeleted(ctx, userId, itemId, true, t.now()); err != nil {
		return ToggleResult{}, fmt.Errorf("soft delete relation: %w", err)
	}
	return ToggleResult{Outcome: OutcomeRemoved}, nil
}

func (t *SavedItemToggle) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}
