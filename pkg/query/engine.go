// Package query implements the lead query engine: filter, sort and paginate
// a set of leads according to a normalized request. The engine is pure and
// store-agnostic; the in-memory store runs it directly, while the MongoDB
// store translates the same Params into an equivalent server-side query.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/leadhub/leadhub/pkg/models"
)

// Default paging and sorting values applied by Normalize.
const (
	DefaultPage   = 1
	DefaultLimit  = 20
	DefaultSortBy = "createdAt"
	OrderAsc      = "asc"
	OrderDesc     = "desc"
)

// Params is a lead query request. Empty filter strings impose no constraint.
type Params struct {
	Search string
	Stage  string
	Source string
	Status string
	SortBy string
	Order  string
	Page   int
	Limit  int
}

// Normalize coerces malformed paging values to defaults and fills in the
// default sort. Non-positive page/limit become 1 and 20; any order other
// than "asc" means descending.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if p.Order != OrderAsc {
		p.Order = OrderDesc
	}
	return p
}

// Run filters, sorts and paginates records. It never mutates its input and
// never fails: out-of-range pages yield an empty slice with valid metadata.
func Run(records []models.Lead, p Params) ([]models.Lead, models.Pagination) {
	p = p.Normalize()

	filtered := make([]models.Lead, 0, len(records))
	for _, l := range records {
		if Matches(l, p) {
			filtered = append(filtered, l)
		}
	}

	// Stable sort: equal keys keep their input order.
	sort.SliceStable(filtered, func(i, j int) bool {
		c := compareField(filtered[i], filtered[j], p.SortBy)
		if p.Order == OrderAsc {
			return c < 0
		}
		return c > 0
	})

	total := len(filtered)
	skip := (p.Page - 1) * p.Limit
	if skip > total {
		skip = total
	}
	end := skip + p.Limit
	if end > total {
		end = total
	}

	page := make([]models.Lead, end-skip)
	copy(page, filtered[skip:end])

	return page, models.Pagination{
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: pages(total, p.Limit),
	}
}

// Matches reports whether a lead satisfies every active constraint.
func Matches(l models.Lead, p Params) bool {
	if p.Search != "" {
		s := strings.ToLower(p.Search)
		if !strings.Contains(strings.ToLower(l.FirstName), s) &&
			!strings.Contains(strings.ToLower(l.LastName), s) &&
			!strings.Contains(strings.ToLower(l.Email), s) &&
			!strings.Contains(strings.ToLower(l.Company), s) {
			return false
		}
	}
	if p.Stage != "" && l.Stage != p.Stage {
		return false
	}
	if p.Source != "" && l.Source != p.Source {
		return false
	}
	if p.Status != "" && l.Status != p.Status {
		return false
	}
	return true
}

func pages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// compareField orders two leads by the named field in ascending terms:
// negative when a sorts before b. String fields compare case-insensitively.
// A missing value (nil optional date, unknown field) orders below every
// present value, matching MongoDB's missing-as-null sort.
func compareField(a, b models.Lead, field string) int {
	switch field {
	case "firstName":
		return compareFold(a.FirstName, b.FirstName)
	case "lastName":
		return compareFold(a.LastName, b.LastName)
	case "email":
		return compareFold(a.Email, b.Email)
	case "phone":
		return compareFold(a.Phone, b.Phone)
	case "company":
		return compareFold(a.Company, b.Company)
	case "jobTitle":
		return compareFold(a.JobTitle, b.JobTitle)
	case "stage":
		return compareFold(a.Stage, b.Stage)
	case "source":
		return compareFold(a.Source, b.Source)
	case "status":
		return compareFold(a.Status, b.Status)
	case "notes":
		return compareFold(a.Notes, b.Notes)
	case "value":
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
		return 0
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "lastContactDate":
		return compareTimePtr(a.LastContactDate, b.LastContactDate)
	case "convertedDate":
		return compareTimePtr(a.ConvertedDate, b.ConvertedDate)
	}
	// Unknown sort field: every record compares equal, stable sort keeps
	// the input order.
	return 0
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
