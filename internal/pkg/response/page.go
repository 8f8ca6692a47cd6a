package response

// Page is one page of a paginated list. Field names follow the camelCase
// used by the rest of the API.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage wraps items, the 1-based page they were read from and the total
// row count. A nil items slice is rendered as [].
func NewPage[T any](items []T, page, pageSize, total int) Page[T] {
	if items == nil {
		items = []T{}
	}

	var pages int
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}

	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
	}
}
