package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortDirection orders a listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// sortColumns maps the public sort keys onto column names.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

// PageQuery describes one page of a listing.
type PageQuery struct {
	Page     int
	Limit    int
	SortBy   string
	SortType SortDirection
}

// Normalize fills defaults and validates the sort key and direction.
func (q PageQuery) Normalize() (PageQuery, error) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if _, ok := sortColumns[q.SortBy]; !ok {
		return q, NewError(ErrInvalidArgument, "invalid sort key", q.SortBy)
	}
	switch q.SortType {
	case "":
		q.SortType = SortDesc
	case SortAsc, SortDesc:
	default:
		return q, NewError(ErrInvalidArgument, "invalid sort direction", string(q.SortType))
	}
	return q, nil
}

// Offset is the number of rows skipped before this page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// OrderClause renders the sort as an SQL ORDER BY expression. The id is used
// as a tie breaker so pages are stable. Call only on a normalized query.
func (q PageQuery) OrderClause() string {
	dir := "DESC"
	if q.SortType == SortAsc {
		dir = "ASC"
	}
	return sortColumns[q.SortBy] + " " + dir + ", id " + dir
}

// RestrictSort rejects sort keys outside keys. Listings over tables without
// every sortable column use it after Normalize.
func (q PageQuery) RestrictSort(keys ...string) error {
	for _, k := range keys {
		if q.SortBy == k {
			return nil
		}
	}
	return NewError(ErrInvalidArgument, "invalid sort key", q.SortBy)
}
