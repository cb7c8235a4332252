package listing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewParams_Defaults(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 10}, NewParams(0, 0))
	assert.Equal(t, Params{Page: 1, Limit: 10}, NewParams(-3, -1))
	assert.Equal(t, Params{Page: 4, Limit: 25}, NewParams(4, 25))
}

func TestNewParams_CapsLimit(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: MaxLimit}, NewParams(1, MaxLimit+1))
	assert.Equal(t, Params{Page: 1, Limit: MaxLimit}, NewParams(1, math.MaxInt))
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, NewParams(1, 10).Offset())
	assert.Equal(t, 20, NewParams(3, 10).Offset())
	assert.Equal(t, 0, Params{}.Offset())
}

func TestNewEnvelope_PagesRoundUp(t *testing.T) {
	e := NewEnvelope([]int{1, 2}, 21, NewParams(3, 10))
	assert.Equal(t, Pagination{Total: 21, Page: 3, Limit: 10, Pages: 3}, e.Pagination)
}

func TestNewEnvelope_PageBeyondEnd(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}
	p := NewParams(3, 10)

	e := NewEnvelope(Window(rows, p), int64(len(rows)), p)

	assert.Empty(t, e.Items)
	assert.NotNil(t, e.Items)
	assert.Equal(t, Pagination{Total: 5, Page: 3, Limit: 10, Pages: 1}, e.Pagination)
}

func TestNewEnvelope_Empty(t *testing.T) {
	e := NewEnvelope[string](nil, 0, NewParams(1, 10))

	assert.NotNil(t, e.Items)
	assert.Equal(t, Pagination{Total: 0, Page: 1, Limit: 10, Pages: 0}, e.Pagination)
}

func TestWindow(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, Window(rows, NewParams(1, 3)))
	assert.Equal(t, []int{7}, Window(rows, NewParams(3, 3)))
	assert.Empty(t, Window(rows, NewParams(4, 3)))
}

func TestMap(t *testing.T) {
	e := NewEnvelope([]int{1, 2}, 2, NewParams(1, 10))
	out := Map(e, func(i int) string { return string(rune('a' + i)) })

	assert.Equal(t, []string{"b", "c"}, out.Items)
	assert.Equal(t, e.Pagination, out.Pagination)
}

func TestParams_OffsetSaturates(t *testing.T) {
	p := NewParams(math.MaxInt/5, 10)
	assert.Equal(t, math.MaxInt, p.Offset())
	assert.Equal(t, math.MaxInt, NewParams(math.MaxInt, MaxLimit).Offset())
}

func TestNewEnvelope_HugePageIsEmpty(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}
	p := NewParams(math.MaxInt/5, 10)

	e := NewEnvelope(Window(rows, p), int64(len(rows)), p)

	assert.Empty(t, e.Items)
	assert.Equal(t, Pagination{Total: 5, Page: math.MaxInt / 5, Limit: 10, Pages: 1}, e.Pagination)
}

func TestNewEnvelope_HugeLimit(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}
	p := NewParams(1, math.MaxInt)

	e := NewEnvelope(Window(rows, p), int64(len(rows)), p)

	assert.Equal(t, rows, e.Items)
	assert.Equal(t, Pagination{Total: 5, Page: 1, Limit: MaxLimit, Pages: 1}, e.Pagination)
}

func TestNewEnvelope_PagesLargeTotal(t *testing.T) {
	e := NewEnvelope[int](nil, math.MaxInt64, NewParams(1, MaxLimit))
	assert.Equal(t, int64(math.MaxInt64/MaxLimit+1), e.Pagination.Pages)
}

func TestSlice_LargeOffsetAndLimit(t *testing.T) {
	rows := []int{1, 2, 3}
	assert.Empty(t, Slice(rows, 10, math.MaxInt))
	assert.Equal(t, []int{2, 3}, Slice(rows, math.MaxInt, 1))
}
