// Package models defines the core domain model for the Company entity,
// its fixed enumerations, and the partial-update type used by the
// service layer.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Industry is one of the fixed industry categories a company belongs to.
type Industry string

const (
	IndustryTechnology     Industry = "Technology"
	IndustryHealthcare     Industry = "Healthcare"
	IndustryFinance        Industry = "Finance"
	IndustryEducation      Industry = "Education"
	IndustryManufacturing  Industry = "Manufacturing"
	IndustryRetail         Industry = "Retail"
	IndustryRealEstate     Industry = "Real Estate"
	IndustryTransportation Industry = "Transportation"
	IndustryEntertainment  Industry = "Entertainment"
	IndustryFoodBeverage   Industry = "Food & Beverage"
	IndustryEnergy         Industry = "Energy"
	IndustryConsulting     Industry = "Consulting"
	IndustryOther          Industry = "Other"
)

// Industries lists every valid industry value.
var Industries = []Industry{
	IndustryTechnology, IndustryHealthcare, IndustryFinance,
	IndustryEducation, IndustryManufacturing, IndustryRetail,
	IndustryRealEstate, IndustryTransportation, IndustryEntertainment,
	IndustryFoodBeverage, IndustryEnergy, IndustryConsulting,
	IndustryOther,
}

// Size is one of the fixed headcount bucket labels.
type Size string

const (
	SizeStartup    Size = "Startup (1-10)"
	SizeSmall      Size = "Small (11-50)"
	SizeMedium     Size = "Medium (51-200)"
	SizeLarge      Size = "Large (201-1000)"
	SizeEnterprise Size = "Enterprise (1000+)"
)

// Sizes lists every valid size bucket.
var Sizes = []Size{SizeStartup, SizeSmall, SizeMedium, SizeLarge, SizeEnterprise}

// Currencies lists the accepted revenue currency codes.
var Currencies = []string{"USD", "EUR", "INR", "GBP", "CAD", "AUD"}

// Location is a company's registered location. Country defaults to
// "India" when omitted.
type Location struct {
	City    string `gorm:"size:120"`
	State   string `gorm:"size:120"`
	Country string `gorm:"size:120"`
}

// Revenue carries an optional amount plus a currency code.
type Revenue struct {
	Amount   *float64
	Currency string `gorm:"size:3"`
}

// Company is the sole persisted entity: a single directory record.
// The gorm tags define its storage mapping; transport representations
// live in the handlers package.
type Company struct {
	// ID is the unique, immutable identifier assigned at creation.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// Name is required and capped at 100 characters.
	Name string `gorm:"size:100;index"`
	// Industry is one of the fixed industry categories.
	Industry Industry `gorm:"size:50;index"`
	// Size is one of the fixed headcount buckets.
	Size Size `gorm:"size:30;index"`
	// Location requires city and state; country is defaulted.
	Location Location `gorm:"embedded;embeddedPrefix:location_"`
	// FoundedYear is optional and bounded to [1800, current year].
	FoundedYear *int `gorm:"index"`
	// Website is optional; a missing scheme is normalized to https://.
	Website string
	// Email is optional and stored lower-cased.
	Email string
	// Phone is optional, 7-15 digits with an optional leading +.
	Phone string `gorm:"size:16"`
	// Description is optional, capped at 500 characters.
	Description string `gorm:"size:500"`
	// Employees is an optional headcount, at least 1 when present.
	Employees *int
	// Revenue is an optional amount with a currency code.
	Revenue Revenue `gorm:"embedded;embeddedPrefix:revenue_"`
	// Tags is an ordered list of free-form labels.
	Tags []string `gorm:"serializer:json"`
	// IsActive is the soft-delete flag; inactive records are retained
	// in storage but excluded from every read path.
	IsActive bool `gorm:"index"`
	// CreatedAt and UpdatedAt are managed by the storage layer.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullLocation renders the "city, state, country" display form.
func (c *Company) FullLocation() string {
	return fmt.Sprintf("%s, %s, %s", c.Location.City, c.Location.State, c.Location.Country)
}

// Age returns the company age in years, or nil when the founding year
// is unknown.
func (c *Company) Age() *int {
	if c.FoundedYear == nil {
		return nil
	}
	age := time.Now().Year() - *c.FoundedYear
	return &age
}

// CompanyUpdate represents the fields that can be changed on an existing
// Company. Pointer types distinguish "not provided" from a zero value;
// nested Location, Revenue and Tags replace the stored value wholesale
// when provided.
type CompanyUpdate struct {
	ID          uuid.UUID
	Name        *string
	Industry    *Industry
	Size        *Size
	Location    *Location
	FoundedYear *int
	Website     *string
	Email       *string
	Phone       *string
	Description *string
	Employees   *int
	Revenue     *Revenue
	Tags        *[]string
}

// ApplyTo overwrites the provided fields on company, leaving every
// absent field untouched.
func (u *CompanyUpdate) ApplyTo(company *Company) {
	if u.Name != nil {
		company.Name = *u.Name
	}
	if u.Industry != nil {
		company.Industry = *u.Industry
	}
	if u.Size != nil {
		company.Size = *u.Size
	}
	if u.Location != nil {
		company.Location = *u.Location
	}
	if u.FoundedYear != nil {
		company.FoundedYear = u.FoundedYear
	}
	if u.Website != nil {
		company.Website = *u.Website
	}
	if u.Email != nil {
		company.Email = *u.Email
	}
	if u.Phone != nil {
		company.Phone = *u.Phone
	}
	if u.Description != nil {
		company.Description = *u.Description
	}
	if u.Employees != nil {
		company.Employees = u.Employees
	}
	if u.Revenue != nil {
		company.Revenue = *u.Revenue
	}
	if u.Tags != nil {
		company.Tags = *u.Tags
	}
}
