package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/pkg/leads"
	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/store/memory"
)

func setupLeadHandler(t *testing.T) (*LeadHandler, *memory.Store) {
	t.Helper()

	mem := memory.New()
	service := leads.NewService(mem, nil, nil)
	return NewLeadHandler(service, nil), mem
}

func doRequest(t *testing.T, handler echo.HandlerFunc, method, target, body string, pathParams map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(pathParams))
	values := make([]string, 0, len(pathParams))
	for k, v := range pathParams {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	require.NoError(t, handler(c))
	return rec
}

func createLead(t *testing.T, h *LeadHandler, body string) models.Lead {
	t.Helper()

	rec := doRequest(t, h.Create, http.MethodPost, "/api/leads", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.LeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestListReturnsEnvelope(t *testing.T) {
	h, _ := setupLeadHandler(t)
	createLead(t, h, `{"firstName":"Ann","lastName":"Archer","email":"ann@example.com"}`)

	rec := doRequest(t, h.List, http.MethodGet, "/api/leads", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.LeadListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, models.Pagination{Total: 1, Page: 1, Limit: 20, Pages: 1}, resp.Pagination)
}

func TestListCoercesMalformedPagination(t *testing.T) {
	h, _ := setupLeadHandler(t)
	createLead(t, h, `{"firstName":"Ann","lastName":"Archer","email":"ann@example.com"}`)

	rec := doRequest(t, h.List, http.MethodGet, "/api/leads?page=abc&limit=-5", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.LeadListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 20, resp.Pagination.Limit)
}

func TestListFiltersByStage(t *testing.T) {
	h, _ := setupLeadHandler(t)
	createLead(t, h, `{"firstName":"Ann","lastName":"Archer","email":"ann@example.com","stage":"Won"}`)
	createLead(t, h, `{"firstName":"Bob","lastName":"Baker","email":"bob@example.com"}`)

	rec := doRequest(t, h.List, http.MethodGet, "/api/leads?stage=Won", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.LeadListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ann", resp.Data[0].FirstName)
}

func TestGetByIDNotFound(t *testing.T) {
	h, _ := setupLeadHandler(t)

	rec := doRequest(t, h.GetByID, http.MethodGet, "/api/leads/missing", "", map[string]string{"id": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "not_found", resp.Error)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	h, _ := setupLeadHandler(t)

	rec := doRequest(t, h.Create, http.MethodPost, "/api/leads", `{"firstName":"Ann"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestCreateRejectsInvalidStage(t *testing.T) {
	h, _ := setupLeadHandler(t)

	rec := doRequest(t, h.Create, http.MethodPost, "/api/leads",
		`{"firstName":"Ann","lastName":"Archer","email":"ann@example.com","stage":"Bogus"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	h, _ := setupLeadHandler(t)
	createLead(t, h, `{"firstName":"Ann","lastName":"Archer","email":"ann@example.com"}`)

	rec := doRequest(t, h.Create, http.MethodPost, "/api/leads",
		`{"firstName":"Twin","lastName":"Archer","email":"ann@example.com"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateLead(t *testing.T) {
	h, _ := setupLeadHandler(t)
	created := createLead(t, h, `{"firstName":"Ann","lastName":"Archer","email":"ann@example.com"}`)

	rec := doRequest(t, h.Update, http.MethodPut, "/api/leads/"+created.ID,
		`{"stage":"Won"}`, map[string]string{"id": created.ID})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.LeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StageWon, resp.Data.Stage)
	assert.NotNil(t, resp.Data.ConvertedDate)
}

func TestUpdateNotFound(t *testing.T) {
	h, _ := setupLeadHandler(t)

	rec := doRequest(t, h.Update, http.MethodPut, "/api/leads/missing",
		`{"stage":"Won"}`, map[string]string{"id": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteLead(t *testing.T) {
	h, _ := setupLeadHandler(t)
	created := createLead(t, h, `{"firstName":"Ann","lastName":"Archer","email":"ann@example.com"}`)

	rec := doRequest(t, h.Delete, http.MethodDelete, "/api/leads/"+created.ID, "", map[string]string{"id": created.ID})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	rec = doRequest(t, h.Delete, http.MethodDelete, "/api/leads/"+created.ID, "", map[string]string{"id": created.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsEndpoint(t *testing.T) {
	h, _ := setupLeadHandler(t)
	createLead(t, h, `{"firstName":"Ann","lastName":"Archer","email":"ann@example.com","stage":"Won","value":100}`)
	createLead(t, h, `{"firstName":"Bob","lastName":"Baker","email":"bob@example.com","value":50}`)

	rec := doRequest(t, h.Analytics, http.MethodGet, "/api/leads/analytics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.AnalyticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.TotalLeads)
	assert.Equal(t, 1, resp.Data.ConvertedLeads)
	assert.Equal(t, "50.00%", resp.Data.ConversionRate)
	assert.Equal(t, float64(150), resp.Data.TotalValue)
}

func TestAnalyticsEmptyStore(t *testing.T) {
	h, _ := setupLeadHandler(t)

	rec := doRequest(t, h.Analytics, http.MethodGet, "/api/leads/analytics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.AnalyticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.TotalLeads)
	assert.Equal(t, "0%", resp.Data.ConversionRate)
}
