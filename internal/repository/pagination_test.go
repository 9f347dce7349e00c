package repository

import (
	"testing"

	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/stretchr/testify/assert"
)

// fetchWindow mimics what the SQL layer does for an id-descending
// listing: apply the cursor predicate in fetch order with LIMIT
// perPage+1. all must be sorted id descending.
func fetchWindow(all []int64, cur *cursor.Cursor, perPage int) []int64 {
	forward := isForward(cur)
	limit := perPage + 1

	var out []int64
	if forward {
		for _, id := range all {
			if cur != nil && id >= cur.ID {
				continue
			}
			out = append(out, id)
			if len(out) == limit {
				break
			}
		}
		return out
	}

	for i := len(all) - 1; i >= 0; i-- {
		if all[i] <= cur.ID {
			continue
		}
		out = append(out, all[i])
		if len(out) == limit {
			break
		}
	}
	return out
}

func idKey(id int64, pointsNext bool) cursor.Cursor {
	return cursor.Cursor{ID: id, PointsNext: pointsNext}
}

func TestAssemblePage_FirstPage(t *testing.T) {
	all := []int64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

	page := assemblePage(fetchWindow(all, nil, 5), 5, nil, idKey)

	assert.Equal(t, []int64{10, 9, 8, 7, 6}, page.Data)
	assert.NotEmpty(t, page.NextCursor)
	assert.Empty(t, page.PrevCursor)
}

func TestAssemblePage_LastPage(t *testing.T) {
	all := []int64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	cur := &cursor.Cursor{ID: 6, PointsNext: true}

	page := assemblePage(fetchWindow(all, cur, 5), 5, cur, idKey)

	assert.Equal(t, []int64{5, 4, 3, 2, 1}, page.Data)
	assert.Empty(t, page.NextCursor)
	assert.NotEmpty(t, page.PrevCursor)
}

func TestAssemblePage_BackwardRestoresOriginalPage(t *testing.T) {
	all := []int64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

	first := assemblePage(fetchWindow(all, nil, 5), 5, nil, idKey)
	next, err := cursor.Decode(first.NextCursor)
	assert.NoError(t, err)

	second := assemblePage(fetchWindow(all, next, 5), 5, next, idKey)
	prev, err := cursor.Decode(second.PrevCursor)
	assert.NoError(t, err)

	back := assemblePage(fetchWindow(all, prev, 5), 5, prev, idKey)

	assert.Equal(t, first.Data, back.Data)
	assert.Empty(t, back.PrevCursor)
	assert.NotEmpty(t, back.NextCursor)
}

func TestAssemblePage_StableUnderConcurrentInsert(t *testing.T) {
	all := []int64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

	first := assemblePage(fetchWindow(all, nil, 5), 5, nil, idKey)
	next, err := cursor.Decode(first.NextCursor)
	assert.NoError(t, err)

	// A row lands at the head of the listing between the two requests.
	all = append([]int64{11}, all...)

	second := assemblePage(fetchWindow(all, next, 5), 5, next, idKey)

	assert.Equal(t, []int64{5, 4, 3, 2, 1}, second.Data)
}

func TestAssemblePage_BackwardMiddlePage(t *testing.T) {
	all := []int64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	// Pointing backward from row 4: two full pages exist above it.
	cur := &cursor.Cursor{ID: 4, PointsNext: false}

	page := assemblePage(fetchWindow(all, cur, 3), 3, cur, idKey)

	assert.Equal(t, []int64{7, 6, 5}, page.Data)
	assert.NotEmpty(t, page.NextCursor)
	assert.NotEmpty(t, page.PrevCursor)
}

func TestAssemblePage_Empty(t *testing.T) {
	page := assemblePage(fetchWindow(nil, nil, 5), 5, nil, idKey)

	assert.Empty(t, page.Data)
	assert.Empty(t, page.NextCursor)
	assert.Empty(t, page.PrevCursor)
}

func TestCompareOp(t *testing.T) {
	assert.Equal(t, "<", compareOp(true, true))
	assert.Equal(t, ">", compareOp(true, false))
	assert.Equal(t, ">", compareOp(false, true))
	assert.Equal(t, "<", compareOp(false, false))
}
