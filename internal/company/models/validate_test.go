package models

import (
	"strings"
	"testing"
	"time"

	e "github.com/dpurohit/companydir/internal/company/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validCompany() *Company {
	return &Company{
		Name:     "Acme",
		Industry: IndustryTechnology,
		Size:     SizeStartup,
		Location: Location{City: "Pune", State: "Maharashtra", Country: "India"},
		IsActive: true,
	}
}

// violatedFields extracts the violated field names from a validation error.
func violatedFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *e.Validation
	require.ErrorAs(t, err, &verr, "expected a validation error")
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	company := validCompany()
	company.FoundedYear = intPtr(2015)
	company.Website = "https://acme.example.com"
	company.Email = "info@acme.example.com"
	company.Phone = "+911234567890"
	company.Description = "Widgets"
	company.Employees = intPtr(10)
	company.Revenue = Revenue{Amount: floatPtr(1000000), Currency: "INR"}
	company.Tags = []string{"widgets", "b2b"}

	assert.NoError(t, Validate(company), "a fully populated valid record should pass")
}

// TestValidateMissingRequiredFields checks every required field is
// reported by name with its human-readable message.
func TestValidateMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Company)
		field   string
		message string
	}{
		{"missing name", func(c *Company) { c.Name = "" }, "name", "Company name is required"},
		{"missing industry", func(c *Company) { c.Industry = "" }, "industry", "Industry is required"},
		{"missing size", func(c *Company) { c.Size = "" }, "size", "Company size is required"},
		{"missing city", func(c *Company) { c.Location.City = "" }, "location.city", "City is required"},
		{"missing state", func(c *Company) { c.Location.State = "" }, "location.state", "State is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company := validCompany()
			tt.mutate(company)

			err := Validate(company)
			require.Error(t, err)
			assert.Contains(t, violatedFields(t, err), tt.field)

			var verr *e.Validation
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Messages(), tt.message)
		})
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Company)
		field  string
	}{
		{"name too long", func(c *Company) { c.Name = strings.Repeat("a", 101) }, "name"},
		{"unknown industry", func(c *Company) { c.Industry = "Piracy" }, "industry"},
		{"unknown size", func(c *Company) { c.Size = "Gigantic" }, "size"},
		{"founded before 1800", func(c *Company) { c.FoundedYear = intPtr(1700) }, "foundedYear"},
		{"founded in the future", func(c *Company) { c.FoundedYear = intPtr(time.Now().Year() + 1) }, "foundedYear"},
		{"description too long", func(c *Company) { c.Description = strings.Repeat("d", 501) }, "description"},
		{"zero employees", func(c *Company) { c.Employees = intPtr(0) }, "employees"},
		{"negative revenue", func(c *Company) { c.Revenue.Amount = floatPtr(-1) }, "revenue.amount"},
		{"unknown currency", func(c *Company) { c.Revenue.Currency = "BTC" }, "revenue.currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company := validCompany()
			tt.mutate(company)
			err := Validate(company)
			require.Error(t, err)
			assert.Contains(t, violatedFields(t, err), tt.field)
		})
	}
}

func TestValidatePatterns(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Company)
		wantErr bool
		field   string
	}{
		{"valid website without scheme", func(c *Company) { c.Website = "acme.example.com" }, false, ""},
		{"valid website with scheme", func(c *Company) { c.Website = "http://acme.example.com/about" }, false, ""},
		{"invalid website", func(c *Company) { c.Website = "not a url" }, true, "website"},
		{"valid email", func(c *Company) { c.Email = "hello@acme.io" }, false, ""},
		{"invalid email", func(c *Company) { c.Email = "hello@@acme" }, true, "email"},
		{"valid phone", func(c *Company) { c.Phone = "+14155550123" }, false, ""},
		{"phone too short", func(c *Company) { c.Phone = "12345" }, true, "phone"},
		{"phone with letters", func(c *Company) { c.Phone = "12345abc90" }, true, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company := validCompany()
			tt.mutate(company)
			err := Validate(company)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, violatedFields(t, err), tt.field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeCapitalizesName(t *testing.T) {
	company := validCompany()
	company.Name = "acme"
	Normalize(company)
	assert.Equal(t, "Acme", company.Name, "first letter should be capitalized")
}

func TestNormalizeWebsiteScheme(t *testing.T) {
	company := validCompany()
	company.Website = "acme.example.com"
	Normalize(company)
	assert.Equal(t, "https://acme.example.com", company.Website)

	company.Website = "http://acme.example.com"
	Normalize(company)
	assert.Equal(t, "http://acme.example.com", company.Website, "existing scheme should be kept")
}

func TestNormalizeEmailAndDefaults(t *testing.T) {
	company := validCompany()
	company.Email = "  Info@Acme.IO "
	company.Location.Country = ""
	company.Revenue.Currency = ""
	company.Tags = []string{" widgets ", "b2b"}

	Normalize(company)

	assert.Equal(t, "info@acme.io", company.Email, "email should be trimmed and lower-cased")
	assert.Equal(t, "India", company.Location.Country, "country should default to India")
	assert.Equal(t, "USD", company.Revenue.Currency, "currency should default to USD")
	assert.Equal(t, []string{"widgets", "b2b"}, company.Tags, "tags should be trimmed")
}

func TestFullLocation(t *testing.T) {
	company := validCompany()
	assert.Equal(t, "Pune, Maharashtra, India", company.FullLocation())
}

func TestAge(t *testing.T) {
	company := validCompany()
	assert.Nil(t, company.Age(), "age should be nil without a founding year")

	company.FoundedYear = intPtr(time.Now().Year() - 10)
	age := company.Age()
	require.NotNil(t, age)
	assert.Equal(t, 10, *age)
}

func TestApplyToLeavesAbsentFieldsUntouched(t *testing.T) {
	company := validCompany()
	company.Employees = intPtr(5)
	company.Description = "original"

	update := &CompanyUpdate{ID: company.ID, Employees: intPtr(50)}
	update.ApplyTo(company)

	assert.Equal(t, 50, *company.Employees)
	assert.Equal(t, "original", company.Description, "absent fields should not change")
	assert.Equal(t, "Acme", company.Name)
}

func TestApplyToReplacesNestedWholesale(t *testing.T) {
	company := validCompany()
	update := &CompanyUpdate{
		ID:       company.ID,
		Location: &Location{City: "Mumbai", State: "Maharashtra"},
		Tags:     &[]string{"new"},
	}
	update.ApplyTo(company)

	assert.Equal(t, "Mumbai", company.Location.City)
	assert.Equal(t, "", company.Location.Country, "nested location replaces wholesale")
	assert.Equal(t, []string{"new"}, company.Tags)
}
