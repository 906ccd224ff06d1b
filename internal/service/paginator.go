package service

import "github.com/lamdec/cda-insights-go/internal/domain"

// paginate slices the ordered records into one 1-based page. total is the
// length of the full sequence regardless of slicing; a page beyond the last
// valid one yields empty items with the correct total.
func paginate(records []domain.CDARecord, page, pageSize int) (items []domain.CDARecord, total int) {
	total = len(records)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []domain.CDARecord{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return records[start:end], total
}
