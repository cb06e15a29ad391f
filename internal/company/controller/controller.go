// Package controller implements the core business logic (service layer)
// for the company directory: listing with pagination, aggregate stats,
// CRUD with validation and normalization, soft deletes, best-effort bulk
// creation, and lifecycle event production.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpurohit/companydir/internal/company/db"
	e "github.com/dpurohit/companydir/internal/company/errors"
	"github.com/dpurohit/companydir/internal/company/events"
	"github.com/dpurohit/companydir/internal/company/models"
	"github.com/dpurohit/companydir/internal/company/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type EventProducer interface {
	Produce(eventType events.EventType, company *models.Company)
}

// Repository defines the storage interface for Company records.
type Repository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	SaveCompany(ctx context.Context, company *models.Company) error
	SoftDeleteCompany(ctx context.Context, id uuid.UUID) error
	ListCompanies(ctx context.Context, spec query.Spec) ([]*models.Company, int64, error)
	CountActive(ctx context.Context) (int64, error)
	GroupCount(ctx context.Context, field string) ([]db.Bucket, error)
	Close() error
}

// Pagination describes the window a list response covers.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// Stats aggregates active-company counts overall and grouped by
// industry, size, and country, each ordered by count descending.
type Stats struct {
	TotalCompanies       int64       `json:"totalCompanies"`
	IndustryDistribution []db.Bucket `json:"industryDistribution"`
	SizeDistribution     []db.Bucket `json:"sizeDistribution"`
	LocationDistribution []db.Bucket `json:"locationDistribution"`
}

// CompanyService provides the directory operations on top of a
// repository and an event producer.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// ListCompanies translates the request parameters into a query spec,
// runs it, and returns the page plus pagination metadata. An empty
// result is not an error.
func (s *CompanyService) ListCompanies(ctx context.Context, params query.Params) ([]*models.Company, *Pagination, error) {
	spec := query.Translate(params)
	companies, total, err := s.repo.ListCompanies(ctx, spec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list companies: %w", err)
	}

	page := spec.Page()
	totalPages := int((total + int64(spec.Limit) - 1) / int64(spec.Limit))
	return companies, &Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: spec.Limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}, nil
}

// GetStats runs the total count and the three distribution queries
// concurrently. An empty dataset yields zero counts and empty buckets.
func (s *CompanyService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalCompanies, err = s.repo.CountActive(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.IndustryDistribution, err = s.repo.GroupCount(ctx, query.FieldIndustry)
		return err
	})
	g.Go(func() error {
		var err error
		stats.SizeDistribution, err = s.repo.GroupCount(ctx, query.FieldSize)
		return err
	})
	g.Go(func() error {
		var err error
		stats.LocationDistribution, err = s.repo.GroupCount(ctx, query.FieldCountry)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

// GetCompany retrieves an active Company by ID, returning ErrNotFound
// for missing or soft-deleted records.
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// CreateCompany normalizes and validates the candidate record, assigns
// an ID, persists it, and fires a created event.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	models.Normalize(company)
	if err := models.Validate(company); err != nil {
		return nil, err
	}

	company.ID = uuid.New()
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	go func() {
		s.producer.Produce(events.CompanyCreated, company)
	}()
	return company, nil
}

// UpdateCompany applies the provided fields to the stored record,
// re-validates the merged result, and persists it. Missing or
// soft-deleted records yield ErrNotFound.
func (s *CompanyService) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	if update.ID == uuid.Nil {
		return nil, e.ErrInvalidID
	}

	company, err := s.repo.GetCompany(ctx, update.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company for update: %w", err)
	}

	update.ApplyTo(company)
	models.Normalize(company)
	if err := models.Validate(company); err != nil {
		return nil, err
	}

	if err := s.repo.SaveCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	go func() {
		s.producer.Produce(events.CompanyUpdated, company)
	}()
	return company, nil
}

// DeleteCompany soft-deletes a Company: the record is flagged inactive
// and retained. A deleted event carries the final snapshot.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.SoftDeleteCompany(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	company.IsActive = false
	go func() {
		s.producer.Produce(events.CompanyDeleted, company)
	}()
	return nil
}

// BulkCreateCompanies inserts each candidate independently: an invalid
// or failing record is dropped with a warning and does not block the
// others. The successfully created records are returned in input order.
func (s *CompanyService) BulkCreateCompanies(ctx context.Context, companies []*models.Company) ([]*models.Company, error) {
	created := make([]*models.Company, 0, len(companies))
	for _, company := range companies {
		models.Normalize(company)
		if err := models.Validate(company); err != nil {
			s.logger.Warn("skipping invalid company in bulk create",
				zap.String("name", company.Name),
				zap.Error(err),
			)
			continue
		}
		company.ID = uuid.New()
		if err := s.repo.CreateCompany(ctx, company); err != nil {
			s.logger.Warn("failed to insert company in bulk create",
				zap.String("name", company.Name),
				zap.Error(err),
			)
			continue
		}
		created = append(created, company)
	}

	go func() {
		for _, company := range created {
			s.producer.Produce(events.CompanyCreated, company)
		}
	}()
	return created, nil
}
