package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

func TestSort_Title(t *testing.T) {
	in := []domain.Project{
		{ID: "1", Title: "Zebra"},
		{ID: "2", Title: "árvore"},
		{ID: "3", Title: "Abacaxi"},
		{ID: "4", Title: "banana"},
	}

	assert.Equal(t, []string{"3", "2", "4", "1"}, ids(Sort(in, OrderTitleAsc)))
	assert.Equal(t, []string{"1", "4", "2", "3"}, ids(Sort(in, OrderTitleDesc)))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(in), "input must not be modified")
}

func TestSort_StableOnEqualTitles(t *testing.T) {
	in := []domain.Project{
		{ID: "a", Title: "Mesmo"},
		{ID: "b", Title: "Outro"},
		{ID: "c", Title: "Mesmo"},
		{ID: "d", Title: "mesmo"},
	}
	first := Sort(in, OrderTitleAsc)
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids(first))

	second := Sort(first, OrderTitleAsc)
	assert.Equal(t, ids(first), ids(second))
}

func TestSort_CreatedAt(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.Project{
		{ID: "old", CreatedAt: day},
		{ID: "missing"},
		{ID: "new", CreatedAt: day.Add(48 * time.Hour)},
		{ID: "same", CreatedAt: day},
	}

	assert.Equal(t, []string{"new", "old", "same", "missing"}, ids(Sort(in, OrderNewest)))
	assert.Equal(t, []string{"missing", "old", "same", "new"}, ids(Sort(in, OrderOldest)))
}

func TestSort_MostViewed(t *testing.T) {
	in := []domain.Project{
		{ID: "none"},
		{ID: "ten", Views: 10},
		{ID: "hundred", Views: 100},
		{ID: "ten-again", Views: 10},
	}
	assert.Equal(t, []string{"hundred", "ten", "ten-again", "none"}, ids(Sort(in, OrderMostViewed)))
}

func TestSort_NoneKeepsOrder(t *testing.T) {
	in := numbered(5)
	out := Sort(in, OrderNone)
	assert.Equal(t, ids(in), ids(out))

	out[0].Title = "changed"
	assert.NotEqual(t, "changed", in[0].Title)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, OrderTitleAsc, ParseSortOrder("A-Z"))
	assert.Equal(t, OrderMostViewed, ParseSortOrder("mais_vistos"))
	assert.Equal(t, OrderOldest, ParseSortOrder("oldest"))
	assert.Equal(t, DefaultOrder, ParseSortOrder(""))
	assert.Equal(t, DefaultOrder, ParseSortOrder("random"))
}
