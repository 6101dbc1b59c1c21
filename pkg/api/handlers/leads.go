package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apierrors "github.com/leadhub/leadhub/pkg/api/errors"
	"github.com/leadhub/leadhub/pkg/leads"
	"github.com/leadhub/leadhub/pkg/metrics"
	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/query"
	"github.com/leadhub/leadhub/pkg/store"
)

// LeadHandler handles lead endpoints
type LeadHandler struct {
	leadService *leads.Service
	metrics     *metrics.Metrics
	validator   *validator.Validate
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *leads.Service, m *metrics.Metrics) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		metrics:     m,
		validator:   validator.New(),
	}
}

// List returns a filtered, sorted, paginated page of leads.
// Malformed page/limit values are coerced to defaults, never rejected.
func (h *LeadHandler) List(c echo.Context) error {
	p := query.Params{
		Search: c.QueryParam("search"),
		Stage:  c.QueryParam("stage"),
		Source: c.QueryParam("source"),
		Status: c.QueryParam("status"),
		SortBy: c.QueryParam("sortBy"),
		Order:  c.QueryParam("order"),
		Page:   atoiOrZero(c.QueryParam("page")),
		Limit:  atoiOrZero(c.QueryParam("limit")),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	response, err := h.leadService.Search(ctx, p)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.LeadsSearched.Inc()
	}

	return c.JSON(http.StatusOK, response)
}

// GetByID returns a single lead.
func (h *LeadHandler) GetByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lead, err := h.leadService.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apierrors.NotFoundError(c, "Lead")
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, models.LeadResponse{Success: true, Data: *lead})
}

// Create inserts a new lead.
func (h *LeadHandler) Create(c echo.Context) error {
	var req models.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lead, err := h.leadService.Create(ctx, req)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return apierrors.ConflictError(c, "Lead with this email already exists")
		}
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.LeadsCreated.Inc()
	}

	return c.JSON(http.StatusCreated, models.LeadResponse{Success: true, Data: *lead})
}

// Update applies a partial update to an existing lead.
func (h *LeadHandler) Update(c echo.Context) error {
	var req models.UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lead, err := h.leadService.Update(ctx, c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return apierrors.NotFoundError(c, "Lead")
		case errors.Is(err, store.ErrDuplicateEmail):
			return apierrors.ConflictError(c, "Lead with this email already exists")
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, models.LeadResponse{Success: true, Data: *lead})
}

// Delete removes a lead permanently.
func (h *LeadHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.leadService.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apierrors.NotFoundError(c, "Lead")
		}
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.LeadsDeleted.Inc()
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    map[string]any{},
	})
}

// Analytics returns the dashboard summary metrics.
func (h *LeadHandler) Analytics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summary, err := h.leadService.Analytics(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, models.AnalyticsResponse{Success: true, Data: summary})
}

// atoiOrZero parses a positive integer, returning 0 (which normalizes to the
// default) for empty, malformed or non-positive input.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
