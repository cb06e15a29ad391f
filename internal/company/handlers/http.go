// Package handlers exposes the company directory over a JSON REST API.
// Every response shares the {success, ...} envelope of the original
// service; service-layer errors are mapped to HTTP statuses here and
// nowhere else.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dpurohit/companydir/internal/company/controller"
	e "github.com/dpurohit/companydir/internal/company/errors"
	"github.com/dpurohit/companydir/internal/company/models"
	"github.com/dpurohit/companydir/internal/company/query"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CompanyController defines the business logic interface the HTTP
// handlers invoke.
type CompanyController interface {
	ListCompanies(ctx context.Context, params query.Params) ([]*models.Company, *controller.Pagination, error)
	GetStats(ctx context.Context) (*controller.Stats, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	BulkCreateCompanies(ctx context.Context, companies []*models.Company) ([]*models.Company, error)
}

// response is the shared envelope. Fields are omitted when empty so a
// success body carries only {success, message?, data?}.
type response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type listResponse struct {
	Success    bool                   `json:"success"`
	Data       []companyResponse      `json:"data"`
	Pagination *controller.Pagination `json:"pagination"`
}

// CompanyHandler adapts the CompanyController to echo routes.
type CompanyHandler struct {
	controller   CompanyController
	logger       *zap.Logger
	exposeErrors bool
}

// NewCompanyHandler constructs a CompanyHandler. When exposeErrors is
// set (non-production), 500 responses include the underlying error text.
func NewCompanyHandler(ctrl CompanyController, logger *zap.Logger, exposeErrors bool) *CompanyHandler {
	return &CompanyHandler{
		controller:   ctrl,
		logger:       logger.Named("company_handler"),
		exposeErrors: exposeErrors,
	}
}

// List handles GET /api/companies.
func (h *CompanyHandler) List(c echo.Context) error {
	companies, pagination, err := h.controller.ListCompanies(c.Request().Context(), parseListParams(c))
	if err != nil {
		return h.fail(c, err, "Error fetching companies")
	}
	return c.JSON(http.StatusOK, listResponse{
		Success:    true,
		Data:       toCompanyResponses(companies),
		Pagination: pagination,
	})
}

// Stats handles GET /api/companies/stats.
func (h *CompanyHandler) Stats(c echo.Context) error {
	stats, err := h.controller.GetStats(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Error fetching statistics")
	}
	return c.JSON(http.StatusOK, response{Success: true, Data: stats})
}

// Get handles GET /api/companies/:id.
func (h *CompanyHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err, "Error fetching company")
	}
	company, err := h.controller.GetCompany(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "Error fetching company")
	}
	return c.JSON(http.StatusOK, response{Success: true, Data: toCompanyResponse(company)})
}

// Create handles POST /api/companies.
func (h *CompanyHandler) Create(c echo.Context) error {
	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response{Success: false, Message: "Invalid request body"})
	}
	created, err := h.controller.CreateCompany(c.Request().Context(), req.toModel())
	if err != nil {
		return h.fail(c, err, "Error creating company")
	}
	return c.JSON(http.StatusCreated, response{
		Success: true,
		Message: "Company created successfully",
		Data:    toCompanyResponse(created),
	})
}

// Update handles PUT /api/companies/:id.
func (h *CompanyHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err, "Error updating company")
	}
	var req companyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response{Success: false, Message: "Invalid request body"})
	}
	updated, err := h.controller.UpdateCompany(c.Request().Context(), req.toUpdate(id))
	if err != nil {
		return h.fail(c, err, "Error updating company")
	}
	return c.JSON(http.StatusOK, response{
		Success: true,
		Message: "Company updated successfully",
		Data:    toCompanyResponse(updated),
	})
}

// Delete handles DELETE /api/companies/:id (soft delete).
func (h *CompanyHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err, "Error deleting company")
	}
	if err := h.controller.DeleteCompany(c.Request().Context(), id); err != nil {
		return h.fail(c, err, "Error deleting company")
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Company deleted successfully"})
}

type bulkRequest struct {
	Companies []companyRequest `json:"companies"`
}

// BulkCreate handles POST /api/companies/bulk. Items are inserted
// independently; failures are dropped rather than aborting the batch.
func (h *CompanyHandler) BulkCreate(c echo.Context) error {
	var req bulkRequest
	if err := c.Bind(&req); err != nil || len(req.Companies) == 0 {
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "Please provide an array of companies",
		})
	}
	candidates := make([]*models.Company, 0, len(req.Companies))
	for _, item := range req.Companies {
		candidates = append(candidates, item.toModel())
	}
	created, err := h.controller.BulkCreateCompanies(c.Request().Context(), candidates)
	if err != nil {
		return h.fail(c, err, "Error creating companies")
	}
	return c.JSON(http.StatusCreated, response{
		Success: true,
		Message: fmt.Sprintf("%d companies created successfully", len(created)),
		Data:    toCompanyResponses(created),
	})
}

// Health handles GET /api/health.
func (h *CompanyHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root handles GET / with a short API description.
func (h *CompanyHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Company Management API",
		"version": "1.0.0",
		"endpoints": echo.Map{
			"companies": "/api/companies",
			"health":    "/api/health",
		},
	})
}

// fail maps a service error to its HTTP status and envelope.
func (h *CompanyHandler) fail(c echo.Context, err error, fallback string) error {
	var verr *e.Validation
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "Validation error",
			Errors:  verr.Messages(),
		})
	case errors.Is(err, e.ErrNotFound):
		return c.JSON(http.StatusNotFound, response{Success: false, Message: "Company not found"})
	case errors.Is(err, e.ErrInvalidID):
		return c.JSON(http.StatusBadRequest, response{Success: false, Message: "Invalid company ID"})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		resp := response{Success: false, Message: fallback}
		if h.exposeErrors {
			resp.Error = err.Error()
		}
		return c.JSON(http.StatusInternalServerError, resp)
	}
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, e.ErrInvalidID
	}
	return id, nil
}

// parseListParams reads the list query parameters, leaving defaults to
// the query package. Unparsable page/limit/foundedYear values are
// treated as absent.
func parseListParams(c echo.Context) query.Params {
	params := query.Params{
		Industry:  c.QueryParam("industry"),
		Size:      c.QueryParam("size"),
		City:      c.QueryParam("city"),
		State:     c.QueryParam("state"),
		Country:   c.QueryParam("country"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		params.Limit = limit
	}
	if year, err := strconv.Atoi(c.QueryParam("foundedYear")); err == nil {
		params.FoundedYear = &year
	}
	return params
}
