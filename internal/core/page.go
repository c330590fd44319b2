package core

// PageInfo describes the displayed range of a paginated table.
// From and To are 1-based row positions; a zero Number means no data.
type PageInfo struct {
	Number     int `json:"number"`
	TotalPages int `json:"total_pages"`
	TotalRows  int `json:"total_rows"`
	From       int `json:"from"`
	To         int `json:"to"`
}

// PageSlice returns one page of rows. The page number is 1-based and
// clamped into [1, ceil(len(rows)/size)]; out-of-range requests land on
// the nearest valid page rather than failing. Zero rows (or a size below
// one) is the explicit no-data result: no pages, empty slice.
func PageSlice[T any](rows []T, size, number int) ([]T, PageInfo) {
	total := len(rows)
	if total == 0 || size < 1 {
		return nil, PageInfo{TotalRows: total}
	}

	totalPages := (total + size - 1) / size
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	from := (number - 1) * size
	to := from + size
	if to > total {
		to = total
	}
	return rows[from:to], PageInfo{
		Number:     number,
		TotalPages: totalPages,
		TotalRows:  total,
		From:       from + 1,
		To:         to,
	}
}
