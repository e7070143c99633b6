package catalog

import (
	"sort"
	"strings"

	"feteer-storefront/internal/model"
)

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "all"

// Sort keys understood by Apply.
const (
	SortDefault   = "default"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// Query selects and orders a view of the catalogue.
type Query struct {
	Search   string
	Category string
	Sort     string
}

// Normalize fills in defaults for empty or unknown values.
func (q Query) Normalize() Query {
	if q.Category == "" {
		q.Category = AllCategories
	}
	switch q.Sort {
	case SortPriceAsc, SortPriceDesc:
	default:
		q.Sort = SortDefault
	}
	return q
}

// Apply runs the catalogue pipeline: category filter, then substring search
// over name and description, then a stable price sort. The input slice is
// never modified.
func Apply(products []model.Product, q Query) []model.Product {
	q = q.Normalize()

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if q.Category != AllCategories && p.Category.Name != q.Category {
			continue
		}
		if q.Search != "" && !strings.Contains(p.Name, q.Search) && !strings.Contains(p.Description, q.Search) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.LessThan(out[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.GreaterThan(out[j].Price)
		})
	}

	return out
}

// Categories lists the category filter options: the sentinel first, then
// every distinct category name in order of first appearance.
func Categories(products []model.Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := []string{AllCategories}

	for _, p := range products {
		name := p.Category.Name
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		categories = append(categories, name)
	}

	return categories
}

// Find returns the product with the given id.
func Find(products []model.Product, id int64) (model.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}
