// Package memory provides a disposable in-memory data source for development
// and testing. It owns a private, process-lifetime collection guarded by a
// mutex and delegates query and analytics semantics to pkg/query and
// pkg/analytics so its externally observable behavior matches the MongoDB
// store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadhub/leadhub/pkg/analytics"
	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/query"
	"github.com/leadhub/leadhub/pkg/store"
	"github.com/leadhub/leadhub/pkg/testdata"
)

// Store is an in-memory lead and user store.
type Store struct {
	mu    sync.RWMutex
	leads []models.Lead
	users map[string]models.User // keyed by username
}

// New creates an empty store.
func New() *Store {
	return &Store{users: make(map[string]models.User)}
}

// Seed replaces the collection with n generated leads.
func (s *Store) Seed(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = testdata.GenerateLeads(n)
}

// Reset drops every lead and user.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = nil
	s.users = make(map[string]models.User)
}

// List filters, sorts and paginates the collection.
func (s *Store) List(ctx context.Context, p query.Params) ([]models.Lead, models.Pagination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, pagination := query.Run(s.leads, p)
	return page, pagination, nil
}

// GetByID returns the lead with the given identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.leads {
		if l.ID == id {
			lead := l
			return &lead, nil
		}
	}
	return nil, store.ErrNotFound
}

// Create appends a new lead, assigning its identifier.
func (s *Store) Create(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.Email == lead.Email {
			return nil, store.ErrDuplicateEmail
		}
	}
	lead.ID = uuid.NewString()
	s.leads = append(s.leads, lead)
	return &lead, nil
}

// Update replaces the stored lead in place.
func (s *Store) Update(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.ID != lead.ID && l.Email == lead.Email {
			return nil, store.ErrDuplicateEmail
		}
	}
	for i, l := range s.leads {
		if l.ID == lead.ID {
			s.leads[i] = lead
			return &lead, nil
		}
	}
	return nil, store.ErrNotFound
}

// Delete removes the lead with the given identifier.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.leads {
		if l.ID == id {
			s.leads = append(s.leads[:i], s.leads[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Summarize aggregates the full collection.
func (s *Store) Summarize(ctx context.Context) (models.AnalyticsSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.Summarize(s.leads), nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// CreateUser stores a new user account.
func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return nil, store.ErrDuplicateUsername
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	s.users[user.Username] = user
	return &user, nil
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

// GetUserByID returns the user with the given identifier.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}
