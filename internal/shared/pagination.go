package shared

// MaxPageSize bounds unfiltered listings such as dashboard aggregation.
const MaxPageSize = 500

// DefaultPageSize applies when the caller sends no limit.
const DefaultPageSize = 20

// ClampPage normalises limit/offset query values.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
