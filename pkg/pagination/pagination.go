// Package pagination builds the page/per-page envelope returned by list
// endpoints. It trusts its caller to have normalized and clamped the
// parameters already.
package pagination

// Pagination describes the position of a page within the full result set.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

// Envelope wraps one page of results together with its pagination block.
type Envelope struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pages returns the number of pages needed to hold total items.
func Pages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// NewEnvelope assembles the response envelope for one page of data.
func NewEnvelope(data any, page, perPage int, total int64) Envelope {
	return Envelope{
		Data: data,
		Pagination: Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   Pages(total, perPage),
		},
	}
}
