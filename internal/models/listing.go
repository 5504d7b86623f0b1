package models

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 500
	// MaxPage keeps (MaxPage-1)*MaxLimit well inside a 32-bit int.
	MaxPage = 1_000_000

	SortAsc  = "asc"
	SortDesc = "desc"

	SortByCreatedAt = "createdAt"
)

// Sortable fields exposed to callers.
var sortableFields = map[string]struct{}{
	"createdAt":   {},
	"updatedAt":   {},
	"totalWeight": {},
	"volume":      {},
	"quantity":    {},
	"source":      {},
	"destination": {},
}

type ListOptions struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
}

// Normalized fills defaults: page/limit below 1 fall back to 1/10, page and limit are capped,
// unknown sort keys become createdAt and anything but "asc" sorts descending.
func (o ListOptions) Normalized() ListOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Page > MaxPage {
		o.Page = MaxPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if _, ok := sortableFields[o.SortBy]; !ok {
		o.SortBy = SortByCreatedAt
	}
	if o.Order != SortAsc {
		o.Order = SortDesc
	}
	return o
}

func (o ListOptions) Ascending() bool { return o.Order == SortAsc }

func (o ListOptions) Offset() int { return (o.Page - 1) * o.Limit }

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
