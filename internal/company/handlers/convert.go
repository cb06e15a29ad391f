package handlers

import (
	"time"

	"github.com/dpurohit/companydir/internal/company/models"
	"github.com/google/uuid"
)

// locationPayload mirrors models.Location on the wire.
type locationPayload struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type revenuePayload struct {
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
}

// companyRequest is the create (and bulk-create item) payload.
type companyRequest struct {
	Name        string          `json:"name"`
	Industry    string          `json:"industry"`
	Size        string          `json:"size"`
	Location    locationPayload `json:"location"`
	FoundedYear *int            `json:"foundedYear"`
	Website     string          `json:"website"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Description string          `json:"description"`
	Employees   *int            `json:"employees"`
	Revenue     revenuePayload  `json:"revenue"`
	Tags        []string        `json:"tags"`
	IsActive    *bool           `json:"isActive"`
}

func (r companyRequest) toModel() *models.Company {
	company := &models.Company{
		Name:     r.Name,
		Industry: models.Industry(r.Industry),
		Size:     models.Size(r.Size),
		Location: models.Location{
			City:    r.Location.City,
			State:   r.Location.State,
			Country: r.Location.Country,
		},
		FoundedYear: r.FoundedYear,
		Website:     r.Website,
		Email:       r.Email,
		Phone:       r.Phone,
		Description: r.Description,
		Employees:   r.Employees,
		Revenue: models.Revenue{
			Amount:   r.Revenue.Amount,
			Currency: r.Revenue.Currency,
		},
		Tags:     r.Tags,
		IsActive: true,
	}
	if r.IsActive != nil {
		company.IsActive = *r.IsActive
	}
	return company
}

// companyUpdateRequest is the partial-update payload. Every field is a
// pointer so an absent field can be told apart from a zero value;
// location, revenue and tags replace the stored value wholesale.
type companyUpdateRequest struct {
	Name        *string          `json:"name"`
	Industry    *string          `json:"industry"`
	Size        *string          `json:"size"`
	Location    *locationPayload `json:"location"`
	FoundedYear *int             `json:"foundedYear"`
	Website     *string          `json:"website"`
	Email       *string          `json:"email"`
	Phone       *string          `json:"phone"`
	Description *string          `json:"description"`
	Employees   *int             `json:"employees"`
	Revenue     *revenuePayload  `json:"revenue"`
	Tags        *[]string        `json:"tags"`
}

func (r companyUpdateRequest) toUpdate(id uuid.UUID) *models.CompanyUpdate {
	update := &models.CompanyUpdate{
		ID:          id,
		Name:        r.Name,
		FoundedYear: r.FoundedYear,
		Website:     r.Website,
		Email:       r.Email,
		Phone:       r.Phone,
		Description: r.Description,
		Employees:   r.Employees,
		Tags:        r.Tags,
	}
	if r.Industry != nil {
		industry := models.Industry(*r.Industry)
		update.Industry = &industry
	}
	if r.Size != nil {
		size := models.Size(*r.Size)
		update.Size = &size
	}
	if r.Location != nil {
		update.Location = &models.Location{
			City:    r.Location.City,
			State:   r.Location.State,
			Country: r.Location.Country,
		}
	}
	if r.Revenue != nil {
		update.Revenue = &models.Revenue{
			Amount:   r.Revenue.Amount,
			Currency: r.Revenue.Currency,
		}
	}
	return update
}

// companyResponse is the wire form of a Company, including the derived
// fullLocation and companyAge fields.
type companyResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Industry     string          `json:"industry"`
	Size         string          `json:"size"`
	Location     locationPayload `json:"location"`
	FoundedYear  *int            `json:"foundedYear,omitempty"`
	Website      string          `json:"website,omitempty"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Description  string          `json:"description,omitempty"`
	Employees    *int            `json:"employees,omitempty"`
	Revenue      revenuePayload  `json:"revenue"`
	Tags         []string        `json:"tags"`
	IsActive     bool            `json:"isActive"`
	FullLocation string          `json:"fullLocation"`
	CompanyAge   *int            `json:"companyAge"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func toCompanyResponse(c *models.Company) companyResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return companyResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		Industry: string(c.Industry),
		Size:     string(c.Size),
		Location: locationPayload{
			City:    c.Location.City,
			State:   c.Location.State,
			Country: c.Location.Country,
		},
		FoundedYear: c.FoundedYear,
		Website:     c.Website,
		Email:       c.Email,
		Phone:       c.Phone,
		Description: c.Description,
		Employees:   c.Employees,
		Revenue: revenuePayload{
			Amount:   c.Revenue.Amount,
			Currency: c.Revenue.Currency,
		},
		Tags:         tags,
		IsActive:     c.IsActive,
		FullLocation: c.FullLocation(),
		CompanyAge:   c.Age(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toCompanyResponses(companies []*models.Company) []companyResponse {
	responses := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		responses = append(responses, toCompanyResponse(c))
	}
	return responses
}
