package pages

// DefaultPerPage is the page size used until the user changes it.
const DefaultPerPage = 10

// Pagination is the derived paging view over a filtered result set. All
// values are recomputed from the filtered length on every access so they
// can never desynchronize from the filtered set.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`

	// FirstIndex and LastIndex are 1-based absolute indices for the
	// "X–Y of N" display. Both are 0 for an empty result set.
	FirstIndex int `json:"first_index"`
	LastIndex  int `json:"last_index"`
}

// Paginate computes the paging view for a filtered result set of
// totalItems records. The requested page is clamped into the valid range.
func Paginate(totalItems, page, perPage int) Pagination {
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	totalPages := (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	p := Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}

	if totalItems > 0 {
		p.FirstIndex = (page-1)*perPage + 1
		p.LastIndex = min(page*perPage, totalItems)
	}

	return p
}

// pageSlice returns the records of the current page.
func pageSlice[E any](records []E, p Pagination) []E {
	if p.TotalItems == 0 {
		return []E{}
	}

	return records[p.FirstIndex-1 : p.LastIndex]
}
