package catalog

// ConfigurationError marks invalid pagination parameters.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "catalog: " + e.Message
}

// PageRef holds the request parameters of a neighboring page. The offset is
// omitted from JSON when it is 0 so the first page keeps a canonical URL.
type PageRef struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit"`
}

// Pagination describes one page of a listing: the 1-based inclusive item
// span, the total page count and the prev/next request parameters.
type Pagination struct {
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
	First      int      `json:"first"`
	Last       int      `json:"last"`
	Prev       *PageRef `json:"prev,omitempty"`
	Next       *PageRef `json:"next,omitempty"`
}

// Paginate computes page bounds and navigation parameters for an
// offset/limit/total triple. The offset is a 0-based page index.
func Paginate(offset, limit, total int) (*Pagination, error) {
	if limit <= 0 {
		return nil, &ConfigurationError{Message: "page limit must be positive"}
	}
	if offset < 0 {
		return nil, &ConfigurationError{Message: "page offset must not be negative"}
	}
	if total < 0 {
		total = 0
	}

	p := &Pagination{
		Offset:     offset,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}

	first := offset*limit + 1
	last := (offset + 1) * limit
	if last > total {
		last = total
	}
	if last >= first {
		p.First, p.Last = first, last
	}

	if offset > 0 {
		p.Prev = &PageRef{Offset: offset - 1, Limit: limit}
	}
	if (offset+1)*limit < total {
		p.Next = &PageRef{Offset: offset + 1, Limit: limit}
	}

	return p, nil
}
