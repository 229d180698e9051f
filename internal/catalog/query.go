package catalog

import (
	"sort"
	"strings"
)

// Sort orders accepted by Query; anything else leaves the stored
// (newest-first) order untouched.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

type Query struct {
	Text     string
	Category string
	Sort     string
	Page     int
	Limit    int
}

type QueryResult struct {
	Total   int       `json:"total"`
	Results []Product `json:"results"`
}

// Query filters, sorts, then paginates. Total counts matches before
// the page window is applied. Text matches title or description,
// case-insensitively; category is an exact match.
func (s *Store) Query(q Query) QueryResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Product, 0, len(s.items))
	term := strings.ToLower(q.Text)
	for _, p := range s.items {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		matched = append(matched, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case SortNewest:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].AddedAt.After(matched[j].AddedAt) })
	}

	page := q.Page
	if page < 1 {
		page = defaultPage
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return QueryResult{Total: len(matched), Results: matched[start:end]}
}

// Categories returns the distinct non-empty category values in the
// catalog, sorted for stable output.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.items))
	out := make([]string, 0, len(s.items))
	for _, p := range s.items {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}

	sort.Strings(out)
	return out
}
