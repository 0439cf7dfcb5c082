package service

const (
	DEFAULT_PAGE  = 1
	DEFAULT_LIMIT = 10
	MAX_LIMIT     = 50
	MAX_PAGE      = 100000
)

// pageBounds applies defaults and returns the limit and offset for a page.
func pageBounds(page int, limit int) (int, int, int) {
	if page < 1 {
		page = DEFAULT_PAGE
	}
	if page > MAX_PAGE {
		page = MAX_PAGE
	}
	if limit < 1 {
		limit = DEFAULT_LIMIT
	}
	if limit > MAX_LIMIT {
		limit = MAX_LIMIT
	}

	return page, limit, (page - 1) * limit
}
