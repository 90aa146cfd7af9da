package service

// Pager is the navigation state under a page of results. The backend's total
// can lag the page it returned, so next is driven by how full the page is.
type Pager struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

func NewPager(page, pageSize, items, total int) Pager {
	if page < 1 {
		page = 1
	}
	totalPages := 1
	if pageSize > 0 && total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pager{
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    pageSize > 0 && items == pageSize,
	}
}
