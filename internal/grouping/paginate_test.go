package grouping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	got, p := Paginate(items, 1, 3)
	require.Equal(t, []int{1, 2, 3}, got)
	require.Equal(t, 7, p.Total)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 3, p.Limit)
	require.Equal(t, 3, p.TotalPages)

	got, _ = Paginate(items, 3, 3)
	require.Equal(t, []int{7}, got)

	got, p = Paginate(items, 4, 3)
	require.Empty(t, got)
	require.Equal(t, 4, p.Page)
	require.Equal(t, 3, p.TotalPages)
}

func TestPaginate_Empty(t *testing.T) {
	got, p := Paginate([]string{}, 1, 10)
	require.NotNil(t, got)
	require.Empty(t, got)
	require.Equal(t, 0, p.Total)
	require.Equal(t, 0, p.TotalPages)
}

func TestPaginate_DefaultsForNonPositive(t *testing.T) {
	items := make([]int, 25)
	got, p := Paginate(items, 0, 0)
	require.Len(t, got, 10)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 10, p.Limit)
	require.Equal(t, 3, p.TotalPages)
}

func TestPaginate_HugePageDoesNotOverflow(t *testing.T) {
	got, p := Paginate([]int{1, 2}, 1<<62, 500)
	require.Empty(t, got)
	require.Equal(t, 1, p.TotalPages)
}
