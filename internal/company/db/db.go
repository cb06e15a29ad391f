// Package db implements the Company repository on top of gorm.
// Filter predicates from the query package are translated into SQL here,
// through a fixed logical-field to column mapping; unknown field paths
// are rejected rather than interpolated.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	e "github.com/dpurohit/companydir/internal/company/errors"
	"github.com/dpurohit/companydir/internal/company/models"
	"github.com/dpurohit/companydir/internal/company/query"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Repository persists Company records. Soft-deleted records stay in the
// table; every read method filters them out.
type Repository struct {
	db *gorm.DB
}

// Config holds the postgres connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// columns maps logical field paths to table columns. Filter and group-by
// fields must pass through this map, which doubles as an injection guard.
var columns = map[string]string{
	query.FieldIsActive:    "is_active",
	query.FieldName:        "name",
	query.FieldIndustry:    "industry",
	query.FieldSize:        "size",
	query.FieldCity:        "location_city",
	query.FieldState:       "location_state",
	query.FieldCountry:     "location_country",
	query.FieldFoundedYear: "founded_year",
	query.FieldDescription: "description",
	query.FieldTags:        "tags",
}

// sortColumns whitelists the accepted sortBy keys. Anything else sorts
// by creation time.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"name":        "name",
	"industry":    "industry",
	"size":        "size",
	"foundedYear": "founded_year",
	"employees":   "employees",
}

// NewRepository connects to postgres, retrying with exponential backoff
// while the database comes up, and migrates the schema.
func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var db *gorm.DB
	err := backoff.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		return openErr
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewRepositoryWithDB(db)
}

// NewRepositoryWithDB wraps an existing gorm connection and migrates the
// schema. Tests use it with in-memory sqlite.
func NewRepositoryWithDB(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&models.Company{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

// CreateCompany inserts a new record.
func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// GetCompany returns the active record with the given id, or ErrNotFound.
// Soft-deleted records are reported as not found.
func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ? AND is_active = ?", id, true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

// SaveCompany writes the full merged record back to the store.
func (r *Repository) SaveCompany(ctx context.Context, company *models.Company) error {
	company.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(company).Error
}

// SoftDeleteCompany flags the record inactive. The row itself is never
// removed.
func (r *Repository) SoftDeleteCompany(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListCompanies runs a translated query spec and returns the matching
// page plus the total match count.
func (r *Repository) ListCompanies(ctx context.Context, spec query.Spec) ([]*models.Company, int64, error) {
	countTx, err := r.filterScope(ctx, spec.Filter)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := countTx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Fresh statement for the page query; sharing one with Count trips
	// gorm's statement reuse.
	pageTx, err := r.filterScope(ctx, spec.Filter)
	if err != nil {
		return nil, 0, err
	}
	var companies []*models.Company
	err = pageTx.Order(orderClause(spec.Sort)).
		Offset(spec.Skip).
		Limit(spec.Limit).
		Find(&companies).Error
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *Repository) filterScope(ctx context.Context, filter []query.Predicate) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Model(&models.Company{})
	for _, p := range filter {
		clause, args, err := predicateSQL(p)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(clause, args...)
	}
	return tx, nil
}

// CountActive returns the number of active records.
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// Bucket is one group of a group-by-count aggregation.
type Bucket struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// GroupCount groups active records by the given logical field and
// returns the buckets ordered by count descending.
func (r *Repository) GroupCount(ctx context.Context, field string) ([]Bucket, error) {
	col, ok := columns[field]
	if !ok {
		return nil, fmt.Errorf("unsupported group field %q", field)
	}
	buckets := []Bucket{}
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Select(col+" AS value, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group(col).
		Order("count DESC").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func predicateSQL(p query.Predicate) (string, []any, error) {
	switch p := p.(type) {
	case query.Equals:
		col, ok := columns[p.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter field %q", p.Field)
		}
		return col + " = ?", []any{p.Value}, nil
	case query.ContainsFold:
		col, ok := columns[p.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter field %q", p.Field)
		}
		return "LOWER(" + col + ") LIKE ?", []any{"%" + strings.ToLower(p.Value) + "%"}, nil
	case query.AnyOf:
		clauses := make([]string, 0, len(p.Predicates))
		var args []any
		for _, inner := range p.Predicates {
			clause, innerArgs, err := predicateSQL(inner)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, clause)
			args = append(args, innerArgs...)
		}
		return "(" + strings.Join(clauses, " OR ") + ")", args, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate %T", p)
	}
}

func orderClause(s query.Sort) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = "created_at"
	}
	if s.Descending {
		return col + " DESC"
	}
	return col + " ASC"
}
