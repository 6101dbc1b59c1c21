// Package store defines the data-source contracts shared by the MongoDB and
// in-memory backends. Both must expose identical query, pagination and
// analytics behavior so callers cannot tell them apart.
package store

import (
	"context"
	"errors"

	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/query"
)

var (
	// ErrNotFound is returned when a lookup by identifier has no match.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a create or update would violate
	// the unique-email constraint.
	ErrDuplicateEmail = errors.New("lead with this email already exists")

	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("user already exists")
)

// LeadStore is the canonical owner of lead records.
type LeadStore interface {
	// List returns the page of leads matching params plus pagination
	// metadata. Params are normalized by the store.
	List(ctx context.Context, p query.Params) ([]models.Lead, models.Pagination, error)

	GetByID(ctx context.Context, id string) (*models.Lead, error)

	// Create assigns the identifier and returns the stored lead.
	Create(ctx context.Context, lead models.Lead) (*models.Lead, error)

	// Update replaces the stored lead and returns the updated document.
	Update(ctx context.Context, lead models.Lead) (*models.Lead, error)

	Delete(ctx context.Context, id string) error

	// Summarize aggregates the full, unfiltered collection.
	Summarize(ctx context.Context) (models.AnalyticsSummary, error)

	Ping(ctx context.Context) error
}

// UserStore holds dashboard user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
