package store

// Maximum page size accepted from the outside.
const maxPageSize = 100

// Page describes offset pagination as exposed by the HTTP surface.
type Page struct {
	Number int // 1-based page number
	Size   int // items per page
}

// NewPage builds a Page from raw request values, clamping nonsense input.
// defaultSize is used when size is zero or negative.
func NewPage(number, size, defaultSize int) Page {
	if number <= 0 {
		number = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Page{Number: number, Size: size}
}

// SlicePage returns the window of items covered by the page, plus the total
// item count before slicing. A page past the end yields an empty window.
func SlicePage[T any](items []T, p Page) ([]T, int) {
	total := len(items)

	start := (p.Number - 1) * p.Size
	if start >= total {
		return []T{}, total
	}

	end := start + p.Size
	if end > total {
		end = total
	}
	return items[start:end], total
}
