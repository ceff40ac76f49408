package domain

// Page is one slice of a paginated listing. Index is zero-based.
type Page[T any] struct {
	Items      []T
	Index      int
	Size       int
	TotalItems int64
}

// TotalPages derives the page count from TotalItems and Size.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalItems + int64(p.Size) - 1) / int64(p.Size))
}
