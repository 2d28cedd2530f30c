package listing

// windowSize is the number of page buttons shown at once.
const windowSize = 5

// chromeItemThreshold is the result size above which pagination controls
// are always shown.
const chromeItemThreshold = 100

// Pagination is the normalized page metadata the views render from.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNext      bool `json:"hasNext"`
	HasPrev      bool `json:"hasPrev"`
}

// RawPagination is the backend's pagination object; any field may be absent.
type RawPagination struct {
	CurrentPage  *int  `json:"currentPage"`
	TotalPages   *int  `json:"totalPages"`
	TotalItems   *int  `json:"totalItems"`
	ItemsPerPage *int  `json:"itemsPerPage"`
	HasNext      *bool `json:"hasNext"`
	HasPrev      *bool `json:"hasPrev"`
}

// emptyPagination is the state after a failed fetch.
func emptyPagination(itemsPerPage int) Pagination {
	return Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 0, ItemsPerPage: itemsPerPage}
}

// Normalize turns whatever the backend sent into a complete Pagination.
// requested is the page that was asked for; it wins over the backend's
// currentPage. total is the optional top-level item count.
func Normalize(raw *RawPagination, total *int, itemCount, requested, itemsPerPage int) Pagination {
	if itemsPerPage < 1 {
		itemsPerPage = 1
	}

	if raw == nil {
		totalItems := itemCount
		if total != nil && *total >= 0 {
			totalItems = *total
		}
		p := Pagination{
			TotalItems:   totalItems,
			ItemsPerPage: itemsPerPage,
			TotalPages:   pageCount(totalItems, itemsPerPage),
		}
		p.CurrentPage = clamp(requested, 1, p.TotalPages)
		p.HasNext = p.CurrentPage < p.TotalPages
		p.HasPrev = p.CurrentPage > 1
		return p
	}

	p := Pagination{
		TotalItems:   itemCount,
		ItemsPerPage: itemsPerPage,
	}
	if raw.TotalItems != nil && *raw.TotalItems >= 0 {
		p.TotalItems = *raw.TotalItems
	} else if total != nil && *total >= 0 {
		p.TotalItems = *total
	}
	if raw.ItemsPerPage != nil && *raw.ItemsPerPage > 0 {
		p.ItemsPerPage = *raw.ItemsPerPage
	}
	if raw.TotalPages != nil && *raw.TotalPages > 0 {
		p.TotalPages = *raw.TotalPages
	} else {
		p.TotalPages = pageCount(p.TotalItems, p.ItemsPerPage)
	}
	if raw.HasNext != nil {
		p.HasNext = *raw.HasNext
	}
	if raw.HasPrev != nil {
		p.HasPrev = *raw.HasPrev
	}
	p.CurrentPage = clamp(requested, 1, p.TotalPages)
	return p
}

// pageCount is ceil(totalItems/itemsPerPage), never below 1.
func pageCount(totalItems, itemsPerPage int) int {
	if totalItems <= 0 {
		return 1
	}
	return (totalItems + itemsPerPage - 1) / itemsPerPage
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Window returns the page numbers to render as buttons.
func Window(current, total int) []int {
	if total < 1 {
		total = 1
	}
	current = clamp(current, 1, total)

	var start, end int
	switch {
	case total <= windowSize:
		start, end = 1, total
	case current <= 3:
		start, end = 1, windowSize
	case current >= total-2:
		start, end = total-windowSize+1, total
	default:
		start, end = current-2, current+2
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// ShowChrome reports whether pagination controls are rendered at all.
func ShowChrome(p Pagination) bool {
	return p.TotalItems > chromeItemThreshold || p.TotalPages > 1 || p.CurrentPage > 1
}

func (p Pagination) ShowChrome() bool { return ShowChrome(p) }

func (p Pagination) Window() []int { return Window(p.CurrentPage, p.TotalPages) }

func (p Pagination) CanPrev() bool { return p.CurrentPage != 1 }

func (p Pagination) CanNext() bool { return p.CurrentPage != p.TotalPages }

// Range returns the 1-based positions of the first and last item on the
// current page, or 0,0 when empty.
func (p Pagination) Range(itemsOnPage int) (int, int) {
	if itemsOnPage == 0 {
		return 0, 0
	}
	first := (p.CurrentPage-1)*p.ItemsPerPage + 1
	return first, first + itemsOnPage - 1
}
