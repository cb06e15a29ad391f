// Package query translates list-request parameters into a storage-agnostic
// filter/sort/pagination specification. Translate is a pure function: the
// same parameters always produce the same specification, and nothing here
// touches a database.
package query

// Logical field paths referenced by predicates and sort keys. The storage
// layer owns the mapping from these paths to its own columns.
const (
	FieldIsActive    = "isActive"
	FieldName        = "name"
	FieldIndustry    = "industry"
	FieldSize        = "size"
	FieldCity        = "location.city"
	FieldState       = "location.state"
	FieldCountry     = "location.country"
	FieldFoundedYear = "foundedYear"
	FieldDescription = "description"
	FieldTags        = "tags"
)

const (
	defaultLimit  = 10
	defaultSortBy = "createdAt"
)

// Params are the raw list-request parameters. Zero values mean
// "not provided" and fall back to the documented defaults.
type Params struct {
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

// Predicate is one node of the filter: an exact match, a case-insensitive
// substring match, or an OR-group of other predicates.
type Predicate interface {
	predicate()
}

// Equals matches records whose field equals Value exactly.
type Equals struct {
	Field string
	Value any
}

// ContainsFold matches records whose field contains Value as a
// case-insensitive substring.
type ContainsFold struct {
	Field string
	Value string
}

// AnyOf matches records satisfying at least one inner predicate.
type AnyOf struct {
	Predicates []Predicate
}

func (Equals) predicate()       {}
func (ContainsFold) predicate() {}
func (AnyOf) predicate()        {}

// Sort orders results by a single logical field.
type Sort struct {
	Field      string
	Descending bool
}

// Spec is the storage-layer query: AND-ed filter predicates, one sort
// key, and a skip/limit window.
type Spec struct {
	Filter []Predicate
	Sort   Sort
	Skip   int
	Limit  int
}

// Translate maps request parameters to a Spec. Every spec restricts to
// active records; each provided filter becomes an independent AND-ed
// predicate, and a search term becomes an OR-group over name,
// description and tags.
func Translate(p Params) Spec {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	filter := []Predicate{Equals{Field: FieldIsActive, Value: true}}
	if p.Industry != "" {
		filter = append(filter, Equals{Field: FieldIndustry, Value: p.Industry})
	}
	if p.Size != "" {
		filter = append(filter, Equals{Field: FieldSize, Value: p.Size})
	}
	if p.City != "" {
		filter = append(filter, ContainsFold{Field: FieldCity, Value: p.City})
	}
	if p.State != "" {
		filter = append(filter, ContainsFold{Field: FieldState, Value: p.State})
	}
	if p.Country != "" {
		filter = append(filter, ContainsFold{Field: FieldCountry, Value: p.Country})
	}
	if p.FoundedYear != nil {
		filter = append(filter, Equals{Field: FieldFoundedYear, Value: *p.FoundedYear})
	}
	if p.Search != "" {
		filter = append(filter, AnyOf{Predicates: []Predicate{
			ContainsFold{Field: FieldName, Value: p.Search},
			ContainsFold{Field: FieldDescription, Value: p.Search},
			ContainsFold{Field: FieldTags, Value: p.Search},
		}})
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}

	return Spec{
		Filter: filter,
		Sort:   Sort{Field: sortBy, Descending: p.SortOrder != "asc"},
		Skip:   (page - 1) * limit,
		Limit:  limit,
	}
}

// Page recovers the 1-based page number encoded in the skip/limit window.
func (s Spec) Page() int {
	if s.Limit < 1 {
		return 1
	}
	return s.Skip/s.Limit + 1
}
