// Package client is a Go client for the company directory API. It
// forwards filter, search and pagination parameters to the server and
// returns the server's page untouched: filtering is server-authoritative.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to one directory API instance.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New builds a Client for the given base URL (scheme and host, no
// trailing slash required).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// APIError is a non-2xx response decoded from the server envelope.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Location mirrors the API's location object.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Revenue mirrors the API's revenue object.
type Revenue struct {
	Amount   *float64 `json:"amount,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

// Company is a directory record as returned by the API.
type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Industry     string    `json:"industry"`
	Size         string    `json:"size"`
	Location     Location  `json:"location"`
	FoundedYear  *int      `json:"foundedYear,omitempty"`
	Website      string    `json:"website,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Description  string    `json:"description,omitempty"`
	Employees    *int      `json:"employees,omitempty"`
	Revenue      Revenue   `json:"revenue"`
	Tags         []string  `json:"tags"`
	IsActive     bool      `json:"isActive"`
	FullLocation string    `json:"fullLocation"`
	CompanyAge   *int      `json:"companyAge"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CompanyPayload is a create payload or bulk-create item.
type CompanyPayload struct {
	Name        string   `json:"name"`
	Industry    string   `json:"industry"`
	Size        string   `json:"size"`
	Location    Location `json:"location"`
	FoundedYear *int     `json:"foundedYear,omitempty"`
	Website     string   `json:"website,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Description string   `json:"description,omitempty"`
	Employees   *int     `json:"employees,omitempty"`
	Revenue     *Revenue `json:"revenue,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// CompanyUpdate is a partial-update payload; absent fields are left
// untouched by the server.
type CompanyUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Industry    *string   `json:"industry,omitempty"`
	Size        *string   `json:"size,omitempty"`
	Location    *Location `json:"location,omitempty"`
	FoundedYear *int      `json:"foundedYear,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Description *string   `json:"description,omitempty"`
	Employees   *int      `json:"employees,omitempty"`
	Revenue     *Revenue  `json:"revenue,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Pagination is the list-window metadata of a list response.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// Bucket is one group of a stats distribution.
type Bucket struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Stats are the aggregate counts of the directory.
type Stats struct {
	TotalCompanies       int64    `json:"totalCompanies"`
	IndustryDistribution []Bucket `json:"industryDistribution"`
	SizeDistribution     []Bucket `json:"sizeDistribution"`
	LocationDistribution []Bucket `json:"locationDistribution"`
}

// ListOptions are the list-request parameters. Zero values are omitted
// and take the server defaults.
type ListOptions struct {
	Page        int
	Limit       int
	Industry    string
	Size        string
	City        string
	State       string
	Country     string
	FoundedYear *int
	Search      string
	SortBy      string
	SortOrder   string
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	set("industry", o.Industry)
	set("size", o.Size)
	set("city", o.City)
	set("state", o.State)
	set("country", o.Country)
	if o.FoundedYear != nil {
		v.Set("foundedYear", strconv.Itoa(*o.FoundedYear))
	}
	set("search", o.Search)
	set("sortBy", o.SortBy)
	set("sortOrder", o.SortOrder)
	return v
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []string        `json:"errors"`
	Pagination *Pagination     `json:"pagination"`
}

// ListCompanies fetches one page of companies.
func (c *Client) ListCompanies(ctx context.Context, opts ListOptions) ([]Company, *Pagination, error) {
	path := "/api/companies"
	if q := opts.values().Encode(); q != "" {
		path += "?" + q
	}
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	var companies []Company
	if err := json.Unmarshal(env.Data, &companies); err != nil {
		return nil, nil, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, env.Pagination, nil
}

// GetStats fetches the aggregate statistics.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/companies/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats Stats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	return &stats, nil
}

// GetCompany fetches a single company by id.
func (c *Client) GetCompany(ctx context.Context, id string) (*Company, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/companies/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeCompany(env.Data)
}

// CreateCompany creates a new company and returns the stored record.
func (c *Client) CreateCompany(ctx context.Context, payload CompanyPayload) (*Company, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/companies", payload)
	if err != nil {
		return nil, err
	}
	return decodeCompany(env.Data)
}

// UpdateCompany applies a partial update and returns the merged record.
func (c *Client) UpdateCompany(ctx context.Context, id string, update CompanyUpdate) (*Company, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/companies/"+url.PathEscape(id), update)
	if err != nil {
		return nil, err
	}
	return decodeCompany(env.Data)
}

// DeleteCompany soft-deletes a company.
func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/companies/"+url.PathEscape(id), nil)
	return err
}

// BulkCreateCompanies inserts a batch best-effort and returns the
// successfully created records.
func (c *Client) BulkCreateCompanies(ctx context.Context, payloads []CompanyPayload) ([]Company, error) {
	body := map[string][]CompanyPayload{"companies": payloads}
	env, err := c.do(ctx, http.MethodPost, "/api/companies/bulk", body)
	if err != nil {
		return nil, err
	}
	var companies []Company
	if err := json.Unmarshal(env.Data, &companies); err != nil {
		return nil, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, nil
}

// Health reports whether the server answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Errors:  env.Errors,
		}
	}
	return &env, nil
}

func decodeCompany(data json.RawMessage) (*Company, error) {
	var company Company
	if err := json.Unmarshal(data, &company); err != nil {
		return nil, fmt.Errorf("failed to decode company: %w", err)
	}
	return &company, nil
}
