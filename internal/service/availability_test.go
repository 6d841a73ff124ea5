package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeIntervals(t *testing.T) {
	merged := mergeIntervals([]interval{
		{start: 600, end: 660},
		{start: 540, end: 620},
		{start: 700, end: 730},
	})
	assert.Equal(t, []interval{{start: 540, end: 660}, {start: 700, end: 730}}, merged)

	assert.Nil(t, mergeIntervals(nil))

	// adjacent ranges coalesce
	merged = mergeIntervals([]interval{{start: 540, end: 570}, {start: 570, end: 600}})
	assert.Equal(t, []interval{{start: 540, end: 600}}, merged)
}

func TestSubtractIntervals(t *testing.T) {
	window := interval{start: 540, end: 1020}
	free := subtractIntervals(window, []interval{{start: 720, end: 780}})
	assert.Equal(t, []interval{{start: 540, end: 720}, {start: 780, end: 1020}}, free)

	free = subtractIntervals(window, nil)
	assert.Equal(t, []interval{window}, free)

	free = subtractIntervals(window, []interval{{start: 540, end: 1020}})
	assert.Empty(t, free)
}

func TestIntersectIntervals(t *testing.T) {
	a := []interval{{start: 540, end: 720}, {start: 780, end: 1020}}
	b := []interval{{start: 600, end: 810}}
	assert.Equal(t, []interval{{start: 600, end: 720}, {start: 780, end: 810}}, intersectIntervals(a, b))

	assert.Empty(t, intersectIntervals(a, nil))
	assert.Empty(t, intersectIntervals([]interval{{start: 540, end: 600}}, []interval{{start: 600, end: 660}}))
}

func testWeek(t *testing.T) *WorkingWeek {
	t.Helper()
	week, err := BuildWorkingWeek([]string{"Monday", "Tuesday"}, "09:00", "17:00")
	require.NoError(t, err)
	return week
}

func TestOccupancyBlockClipsAndSnaps(t *testing.T) {
	occ := newOccupancy(testWeek(t))

	// off-grid range expands outward to slot boundaries
	occ.Block("Monday", 10*60+15, 10*60+45)
	free := occ.FreeIntervals("Monday")
	assert.Equal(t, []interval{{start: 9 * 60, end: 10 * 60}, {start: 11 * 60, end: 17 * 60}}, free)

	// entirely outside the window is ignored
	occ.Block("Monday", 7*60, 8*60)
	assert.Equal(t, free, occ.FreeIntervals("Monday"))

	// unknown day is ignored
	occ.Block("Sunday", 10*60, 11*60)
	assert.Nil(t, occ.FreeIntervals("Sunday"))
}

func TestOccupancyReserve(t *testing.T) {
	occ := newOccupancy(testWeek(t))

	require.NoError(t, occ.Reserve("Monday", 9*60, 10*60))
	err := occ.Reserve("Monday", 9*60+30, 10*60+30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already occupied")

	require.NoError(t, occ.Reserve("Monday", 10*60, 11*60))
	require.NoError(t, occ.Reserve("Tuesday", 9*60, 10*60))
}
