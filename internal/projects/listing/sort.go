package listing

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

// SortOrder names a listing order.
type SortOrder string

const (
	OrderNone       SortOrder = "none"
	OrderTitleAsc   SortOrder = "az"
	OrderTitleDesc  SortOrder = "za"
	OrderNewest     SortOrder = "newest"
	OrderOldest     SortOrder = "oldest"
	OrderMostViewed SortOrder = "most_viewed"
)

// DefaultOrder is used when a request names no order or an unknown one.
const DefaultOrder = OrderNewest

var orderAliases = map[string]SortOrder{
	"none":         OrderNone,
	"az":           OrderTitleAsc,
	"a-z":          OrderTitleAsc,
	"alphabetical": OrderTitleAsc,
	"za":           OrderTitleDesc,
	"z-a":          OrderTitleDesc,
	"newest":       OrderNewest,
	"recentes":     OrderNewest,
	"oldest":       OrderOldest,
	"antigos":      OrderOldest,
	"most_viewed":  OrderMostViewed,
	"views":        OrderMostViewed,
	"mais_vistos":  OrderMostViewed,
}

func ParseSortOrder(s string) SortOrder {
	if o, ok := lookupSortOrder(s); ok {
		return o
	}
	return DefaultOrder
}

func lookupSortOrder(s string) (SortOrder, bool) {
	o, ok := orderAliases[strings.ToLower(strings.TrimSpace(s))]
	return o, ok
}

// collationTag is the locale used for title ordering.
var collationTag = language.BrazilianPortuguese

// Sort returns a new slice ordered by order. Equal keys keep their input order.
func Sort(projects []domain.Project, order SortOrder) []domain.Project {
	out := make([]domain.Project, len(projects))
	copy(out, projects)

	var less func(a, b domain.Project) bool
	switch order {
	case OrderTitleAsc, OrderTitleDesc:
		// collate.Collator is not safe for concurrent use.
		col := collate.New(collationTag, collate.IgnoreCase)
		desc := order == OrderTitleDesc
		less = func(a, b domain.Project) bool {
			c := col.CompareString(a.Title, b.Title)
			if desc {
				return c > 0
			}
			return c < 0
		}
	case OrderNewest:
		less = func(a, b domain.Project) bool { return unixOrZero(a.CreatedAt) > unixOrZero(b.CreatedAt) }
	case OrderOldest:
		less = func(a, b domain.Project) bool { return unixOrZero(a.CreatedAt) < unixOrZero(b.CreatedAt) }
	case OrderMostViewed:
		less = func(a, b domain.Project) bool { return nonNegative(a.Views) > nonNegative(b.Views) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// unixOrZero treats a missing timestamp as the epoch.
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
