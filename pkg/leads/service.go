// Package leads holds the lead business logic shared by every transport:
// search orchestration with response caching, create/update invariants and
// analytics snapshots.
package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/leadhub/leadhub/pkg/cache"
	"github.com/leadhub/leadhub/pkg/metrics"
	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/query"
	"github.com/leadhub/leadhub/pkg/store"
)

const (
	searchCacheTTL    = 5 * time.Minute
	searchCachePrefix = "leads:search:"
	analyticsCacheKey = "leads:analytics"
)

// Service handles lead business logic
type Service struct {
	store   store.LeadStore
	cache   *cache.Client
	metrics *metrics.Metrics
}

// NewService creates a new lead service. The cache client may be nil, in
// which case responses are never cached; metrics may be nil in tests.
func NewService(s store.LeadStore, c *cache.Client, m *metrics.Metrics) *Service {
	return &Service{
		store:   s,
		cache:   c,
		metrics: m,
	}
}

// Search queries leads with filters, sorting and pagination. Results are
// cached per normalized request for a few minutes and invalidated on any
// mutation.
func (s *Service) Search(ctx context.Context, p query.Params) (*models.LeadListResponse, error) {
	p = p.Normalize()
	cacheKey := searchCacheKey(p)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var response models.LeadListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				if s.metrics != nil {
					s.metrics.RecordCacheHit("search")
				}
				return &response, nil
			}
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss("search")
		}
	}

	leads, pagination, err := s.store.List(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to search leads: %w", err)
	}

	response := &models.LeadListResponse{
		Success:    true,
		Data:       leads,
		Pagination: pagination,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			_ = s.cache.Set(ctx, cacheKey, payload, searchCacheTTL)
		}
	}

	return response, nil
}

// GetByID retrieves a single lead by ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	return s.store.GetByID(ctx, id)
}

// Create inserts a new lead. Missing pipeline fields fall back to their
// schema defaults; creation and update timestamps are system-assigned.
func (s *Service) Create(ctx context.Context, req models.CreateLeadRequest) (*models.Lead, error) {
	now := time.Now().UTC()

	lead := models.Lead{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Company:         req.Company,
		JobTitle:        req.JobTitle,
		Stage:           req.Stage,
		Source:          req.Source,
		Status:          req.Status,
		Value:           req.Value,
		Notes:           req.Notes,
		LastContactDate: req.LastContactDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if lead.Stage == "" {
		lead.Stage = models.StageNew
	}
	if lead.Source == "" {
		lead.Source = models.SourceWebsite
	}
	if lead.Status == "" {
		lead.Status = models.StatusActive
	}
	if lead.Stage == models.StageWon {
		converted := now
		lead.ConvertedDate = &converted
	}

	created, err := s.store.Create(ctx, lead)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return created, nil
}

// Update applies a partial update: only supplied fields change, the update
// timestamp always refreshes. A transition into the Won stage stamps the
// converted date.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateLeadRequest) (*models.Lead, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		lead.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		lead.LastName = *req.LastName
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	if req.Company != nil {
		lead.Company = *req.Company
	}
	if req.JobTitle != nil {
		lead.JobTitle = *req.JobTitle
	}
	if req.Stage != nil {
		if *req.Stage == models.StageWon && lead.Stage != models.StageWon && lead.ConvertedDate == nil {
			converted := time.Now().UTC()
			lead.ConvertedDate = &converted
		}
		lead.Stage = *req.Stage
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.Status != nil {
		lead.Status = *req.Status
	}
	if req.Value != nil {
		lead.Value = *req.Value
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}
	if req.LastContactDate != nil {
		lead.LastContactDate = req.LastContactDate
	}
	lead.UpdatedAt = time.Now().UTC()

	updated, err := s.store.Update(ctx, *lead)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a lead permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Analytics returns the dashboard summary, cached for a few minutes.
func (s *Service) Analytics(ctx context.Context) (models.AnalyticsSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, analyticsCacheKey); err == nil && cached != "" {
			var summary models.AnalyticsSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				if s.metrics != nil {
					s.metrics.RecordCacheHit("analytics")
				}
				return summary, nil
			}
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss("analytics")
		}
	}
	return s.RefreshAnalytics(ctx)
}

// RefreshAnalytics recomputes the summary from the store and rewrites the
// cached snapshot. The cron job calls this to keep dashboard reads warm.
func (s *Service) RefreshAnalytics(ctx context.Context) (models.AnalyticsSummary, error) {
	summary, err := s.store.Summarize(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to summarize leads: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			_ = s.cache.Set(ctx, analyticsCacheKey, payload, searchCacheTTL)
		}
	}
	return summary, nil
}

// invalidate drops cached search pages and the analytics snapshot after a
// mutation. Cache failures are not surfaced; entries expire on their own.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePattern(ctx, searchCachePrefix+"*")
	_ = s.cache.Delete(ctx, analyticsCacheKey)
}

// searchCacheKey encodes normalized params into a cache key. Values are
// URL-escaped so a crafted search string cannot collide with a different
// parameter combination.
func searchCacheKey(p query.Params) string {
	v := url.Values{}
	v.Set("search", p.Search)
	v.Set("stage", p.Stage)
	v.Set("source", p.Source)
	v.Set("status", p.Status)
	v.Set("sortBy", p.SortBy)
	v.Set("order", p.Order)
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	return searchCachePrefix + v.Encode()
}
