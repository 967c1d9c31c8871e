package rakuten

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSort_KnownValues(t *testing.T) {
	want := map[int]string{
		0:  "+affiliateRate",
		1:  "-affiliateRate",
		2:  "+reviewCount",
		3:  "-reviewCount",
		4:  "+reviewAverage",
		5:  "-reviewAverage",
		6:  "+itemPrice",
		7:  "-itemPrice",
		8:  "+updateTimestamp",
		9:  "-updateTimestamp",
		10: "standard",
	}

	for id, token := range want {
		assert.Equal(t, token, ResolveSort(id), "sort id %d", id)
	}
}

func TestResolveSort_FallsBackToStandard(t *testing.T) {
	for _, id := range []int{-1, -100, 11, 99, math.MaxInt32, math.MinInt32} {
		assert.Equal(t, StandardToken, ResolveSort(id), "sort id %d", id)
	}
	assert.Equal(t, StandardToken, ResolveSortPtr(nil))

	six := 6
	assert.Equal(t, "+itemPrice", ResolveSortPtr(&six))
}

func TestSortOrder_Labels(t *testing.T) {
	assert.Equal(t, "価格順（昇順）", SortLabel(6))
	assert.Equal(t, "楽天標準ソート順", SortLabel(10))
	assert.Equal(t, "楽天標準ソート順", SortLabel(99))
	assert.Equal(t, SortStandard, SortOrder(-3).Normalize())
	assert.True(t, SortAscItemPrice.Valid())
	assert.False(t, SortOrder(11).Valid())
}

func TestAllSortOrders(t *testing.T) {
	all := AllSortOrders()
	assert.Len(t, all, 11)
	seen := map[string]bool{}
	for i, s := range all {
		assert.Equal(t, SortOrder(i), s)
		assert.False(t, seen[s.Token()], "duplicate token %s", s.Token())
		seen[s.Token()] = true
	}
}
