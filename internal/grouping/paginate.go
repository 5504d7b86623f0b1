package grouping

import "github.com/BearBump/ShipBox/internal/models"

// Paginate slices an already aggregated list. Total counts visible rows, so a
// group is one row no matter how many shipments it holds.
func Paginate[T any](items []T, page, limit int) ([]T, models.Pagination) {
	if page < 1 {
		page = models.DefaultPage
	}
	if limit < 1 {
		limit = models.DefaultLimit
	}

	total := len(items)
	p := models.Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: models.TotalPages(total, limit),
	}

	if page > p.TotalPages {
		return []T{}, p
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	return items[start:end], p
}
