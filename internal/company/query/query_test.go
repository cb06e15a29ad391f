package query

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateDefaults(t *testing.T) {
	spec := Translate(Params{})

	assert.Equal(t, 0, spec.Skip, "page 1 should start at offset 0")
	assert.Equal(t, 10, spec.Limit, "limit should default to 10")
	assert.Equal(t, Sort{Field: "createdAt", Descending: true}, spec.Sort)
	require.Len(t, spec.Filter, 1, "only the active-record restriction should apply")
	assert.Equal(t, Equals{Field: FieldIsActive, Value: true}, spec.Filter[0])
}

func TestTranslateSkipComputation(t *testing.T) {
	tests := []struct {
		page, limit int
		wantSkip    int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
		{0, 10, 0},  // page below 1 clamps to 1
		{5, 0, 40},  // limit below 1 falls back to 10
		{-2, -1, 0}, // both invalid
	}
	for _, tt := range tests {
		spec := Translate(Params{Page: tt.page, Limit: tt.limit})
		assert.Equal(t, tt.wantSkip, spec.Skip, "page=%d limit=%d", tt.page, tt.limit)
	}
}

func TestTranslateFiltersOnlyWhenProvided(t *testing.T) {
	year := 2001
	spec := Translate(Params{
		Industry:    "Technology",
		City:        "pune",
		FoundedYear: &year,
	})

	assert.Contains(t, spec.Filter, Equals{Field: FieldIndustry, Value: "Technology"})
	assert.Contains(t, spec.Filter, ContainsFold{Field: FieldCity, Value: "pune"})
	assert.Contains(t, spec.Filter, Equals{Field: FieldFoundedYear, Value: 2001})
	assert.Len(t, spec.Filter, 4, "isActive plus the three provided filters")

	for _, p := range spec.Filter {
		if eq, ok := p.(Equals); ok {
			assert.NotEqual(t, FieldSize, eq.Field, "size was not provided")
		}
	}
}

func TestTranslateLocationFiltersAreContainsFold(t *testing.T) {
	spec := Translate(Params{City: "Pune", State: "maha", Country: "ind"})

	assert.Contains(t, spec.Filter, ContainsFold{Field: FieldCity, Value: "Pune"})
	assert.Contains(t, spec.Filter, ContainsFold{Field: FieldState, Value: "maha"})
	assert.Contains(t, spec.Filter, ContainsFold{Field: FieldCountry, Value: "ind"})
}

func TestTranslateSearchBuildsOrGroup(t *testing.T) {
	spec := Translate(Params{Search: "tech", Industry: "Finance"})

	var group *AnyOf
	for _, p := range spec.Filter {
		if g, ok := p.(AnyOf); ok {
			group = &g
		}
	}
	require.NotNil(t, group, "search should add an OR-group")
	assert.Equal(t, []Predicate{
		ContainsFold{Field: FieldName, Value: "tech"},
		ContainsFold{Field: FieldDescription, Value: "tech"},
		ContainsFold{Field: FieldTags, Value: "tech"},
	}, group.Predicates)

	// The OR-group is AND-ed with the other filters, not replacing them.
	assert.Contains(t, spec.Filter, Equals{Field: FieldIndustry, Value: "Finance"})
	assert.Contains(t, spec.Filter, Equals{Field: FieldIsActive, Value: true})
}

func TestTranslateSortDirection(t *testing.T) {
	asc := Translate(Params{SortBy: "name", SortOrder: "asc"})
	assert.Equal(t, Sort{Field: "name", Descending: false}, asc.Sort)

	desc := Translate(Params{SortBy: "name", SortOrder: "desc"})
	assert.True(t, desc.Sort.Descending)

	// Anything that is not "asc" sorts descending.
	weird := Translate(Params{SortBy: "name", SortOrder: "sideways"})
	assert.True(t, weird.Sort.Descending)
}

// TestTranslateIsPure verifies the guarantee that identical parameters
// always yield an identical specification.
func TestTranslateIsPure(t *testing.T) {
	year := 1995
	params := Params{
		Page: 3, Limit: 7,
		Industry: "Energy", Size: "Small (11-50)",
		City: "Delhi", State: "DL", Country: "India",
		FoundedYear: &year,
		Search:      "solar",
		SortBy:      "employees", SortOrder: "asc",
	}

	first := Translate(params)
	second := Translate(params)
	assert.True(t, reflect.DeepEqual(first, second), "Translate must be deterministic")
}

func TestSpecPage(t *testing.T) {
	assert.Equal(t, 1, Translate(Params{Page: 1, Limit: 10}).Page())
	assert.Equal(t, 4, Translate(Params{Page: 4, Limit: 25}).Page())
	assert.Equal(t, 1, Spec{}.Page(), "degenerate spec defaults to page 1")
}
