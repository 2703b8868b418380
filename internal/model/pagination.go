package model

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	MaxPage          = 1000000
)

// PageQuery is embedded in list payloads.
type PageQuery struct {
	Page  int `query:"page" json:"-" validate:"gte=0,max=1000000"`
	Limit int `query:"limit" json:"-" validate:"gte=0,max=100"`
}

// Normalize fills defaults (page 1, limit DefaultPageLimit) and clamps both
// to their maximums so Offset cannot overflow.
func (p PageQuery) Normalize() PageQuery {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset is the number of rows skipped for the page.
func (p PageQuery) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// PaginatedResponse wraps a list page.
type PaginatedResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds a PaginatedResponse for items and the overall total.
func NewPage[T any](items []T, q PageQuery, total int) PaginatedResponse[T] {
	q = q.Normalize()
	if items == nil {
		items = []T{}
	}
	pages := (total + q.Limit - 1) / q.Limit
	return PaginatedResponse[T]{
		Data:       items,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: pages,
	}
}

// NoPayload is bound by endpoints that take no input.
type NoPayload struct{}

func (*NoPayload) Validate() error { return nil }
