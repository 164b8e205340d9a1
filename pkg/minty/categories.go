package minty

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// casingFixes restores abbreviations the title caser flattens.
var casingFixes = []struct{ from, to string }{
	{"Dvds", "DVDs"},
	{"Hoa Fees", "HOA Fees"},
	{"Atm", "ATM"},
}

// NormalizeSubCategory cleans a raw sub-category: trims, title-cases,
// restores known abbreviation casings and falls back to
// "Uncategorized" when the source supplied nothing.
func NormalizeSubCategory(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return UncategorizedCategory
	}
	s = titleCaser.String(s)
	for _, fix := range casingFixes {
		s = strings.ReplaceAll(s, fix.from, fix.to)
	}
	return s
}

// Resolver maps normalized sub-categories to parent categories and
// budget types using the static mapping table.
type Resolver struct {
	bySub    map[string]CategoryMapping
	byParent map[string]BudgetType
}

// NewResolver builds a resolver from mapping rows. Lookups are
// case-insensitive. The table must map "Uncategorized"; a table
// without it cannot absorb unknown categories and is rejected as a
// configuration error.
func NewResolver(rows []CategoryMapping) (*Resolver, error) {
	r := &Resolver{
		bySub:    make(map[string]CategoryMapping, len(rows)),
		byParent: make(map[string]BudgetType),
	}

	for _, row := range rows {
		r.bySub[strings.ToLower(row.SubCategory)] = row
		if _, ok := r.byParent[strings.ToLower(row.ParentCategory)]; !ok {
			r.byParent[strings.ToLower(row.ParentCategory)] = row.BudgetType
		}
	}

	if _, ok := r.bySub[strings.ToLower(UncategorizedCategory)]; !ok {
		return nil, ErrMappingIncomplete
	}

	return r, nil
}

// Resolve maps a raw sub-category to a full category assignment. A
// sub-category that is itself a parent category self-maps: its parent
// is itself. Anything the table cannot place yields a
// *CategoryMappingError.
func (r *Resolver) Resolve(raw string) (Category, error) {
	sub := NormalizeSubCategory(raw)
	key := strings.ToLower(sub)

	row, mapped := r.bySub[key]

	// Top-level categories with no finer breakdown are their own
	// parent, overriding whatever the sub-category row says.
	if bt, isParent := r.byParent[key]; isParent {
		if mapped {
			bt = row.BudgetType
		}
		return Category{SubCategory: sub, ParentCategory: sub, BudgetType: bt}, nil
	}

	if mapped && row.ParentCategory != "" {
		return Category{
			SubCategory:    sub,
			ParentCategory: row.ParentCategory,
			BudgetType:     row.BudgetType,
		}, nil
	}

	return Category{}, &CategoryMappingError{SubCategory: sub}
}

// categoryService implements the CategoryService interface
type categoryService struct {
	client *Client
}

// Normalize cleans a raw sub-category.
func (s *categoryService) Normalize(raw string) string {
	return NormalizeSubCategory(raw)
}

// Resolve maps a raw sub-category against the run's mapping table.
func (s *categoryService) Resolve(ctx context.Context, raw string) (Category, error) {
	resolver, err := s.client.loadResolver(ctx)
	if err != nil {
		return Category{}, err
	}
	return resolver.Resolve(raw)
}
