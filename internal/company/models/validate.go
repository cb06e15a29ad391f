package models

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	e "github.com/dpurohit/companydir/internal/company/errors"
)

// minFoundedYear is the earliest accepted founding year.
const minFoundedYear = 1800

var (
	websiteRe = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)
	emailRe   = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)
	phoneRe   = regexp.MustCompile(`^[+]?[0-9]{7,15}$`)
)

// Normalize applies the write-time normalization rules in place: string
// trimming, first-letter name capitalization, website scheme prefixing,
// email lower-casing, and country/currency defaults. It runs before
// Validate on every write path.
func Normalize(c *Company) {
	c.Name = strings.TrimSpace(c.Name)
	c.Industry = Industry(strings.TrimSpace(string(c.Industry)))
	c.Size = Size(strings.TrimSpace(string(c.Size)))
	c.Location.City = strings.TrimSpace(c.Location.City)
	c.Location.State = strings.TrimSpace(c.Location.State)
	c.Location.Country = strings.TrimSpace(c.Location.Country)
	c.Website = strings.TrimSpace(c.Website)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Description = strings.TrimSpace(c.Description)
	for i, tag := range c.Tags {
		c.Tags[i] = strings.TrimSpace(tag)
	}

	if c.Name != "" {
		runes := []rune(c.Name)
		c.Name = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	if c.Website != "" && !strings.HasPrefix(c.Website, "http") {
		c.Website = "https://" + c.Website
	}
	c.Email = strings.ToLower(c.Email)
	if c.Location.Country == "" {
		c.Location.Country = "India"
	}
	if c.Revenue.Currency == "" {
		c.Revenue.Currency = "USD"
	}
}

// Validate checks every field constraint on a candidate record and
// returns a *errors.Validation listing one message per violated field,
// or nil when the record is acceptable. Partial updates are validated
// through the merged record, so a field left untouched by an update is
// still checked against its stored value.
func Validate(c *Company) error {
	var fields []e.FieldError
	add := func(field, message string) {
		fields = append(fields, e.FieldError{Field: field, Message: message})
	}

	if c.Name == "" {
		add("name", "Company name is required")
	} else if len(c.Name) > 100 {
		add("name", "Company name cannot exceed 100 characters")
	}

	if c.Industry == "" {
		add("industry", "Industry is required")
	} else if !slices.Contains(Industries, c.Industry) {
		add("industry", fmt.Sprintf("%q is not a valid industry", c.Industry))
	}

	if c.Size == "" {
		add("size", "Company size is required")
	} else if !slices.Contains(Sizes, c.Size) {
		add("size", fmt.Sprintf("%q is not a valid company size", c.Size))
	}

	if c.Location.City == "" {
		add("location.city", "City is required")
	}
	if c.Location.State == "" {
		add("location.state", "State is required")
	}

	if c.FoundedYear != nil {
		if *c.FoundedYear < minFoundedYear {
			add("foundedYear", "Founded year cannot be before 1800")
		} else if *c.FoundedYear > time.Now().Year() {
			add("foundedYear", "Founded year cannot be in the future")
		}
	}

	if c.Website != "" && !websiteRe.MatchString(c.Website) {
		add("website", "Please enter a valid website URL")
	}
	if c.Email != "" && !emailRe.MatchString(c.Email) {
		add("email", "Please enter a valid email address")
	}
	if c.Phone != "" && !phoneRe.MatchString(c.Phone) {
		add("phone", "Please enter a valid phone number")
	}

	if len(c.Description) > 500 {
		add("description", "Description cannot exceed 500 characters")
	}
	if c.Employees != nil && *c.Employees < 1 {
		add("employees", "Employee count must be at least 1")
	}

	if c.Revenue.Amount != nil && *c.Revenue.Amount < 0 {
		add("revenue.amount", "Revenue cannot be negative")
	}
	if c.Revenue.Currency != "" && !slices.Contains(Currencies, c.Revenue.Currency) {
		add("revenue.currency", fmt.Sprintf("%q is not a valid currency", c.Revenue.Currency))
	}

	if len(fields) > 0 {
		return &e.Validation{Fields: fields}
	}
	return nil
}
