package muse

import (
	"context"
	"errors"
	"time"
)

var ErrLibraryNotFound = errors.New("library entry not found")

// Library is a curated inspiration entry (article, video, ...) users can
// save to their personal collection.
type Library struct {
	Id          string
	Description string
	Link        string
	ImagePath   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LibraryListing struct {
	Library
	Saved bool
}

type LibraryStore interface {
	ById(ctx context.Context, libraryId string) (Library, error)

	// ListForViewer returns non-deleted entries newest first with the
	// viewer's saved flag.
	ListForViewer(ctx context.Context, viewerId UserId) ([]LibraryListing, error)
}
