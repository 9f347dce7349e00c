package repository

import (
	"github.com/Domenick1991/airfleet/internal/cursor"
)

// compareOp returns the SQL comparison that selects rows beyond the
// cursor row in fetch order. Fetch order equals display order when
// paging forward and is inverted when paging backward.
func compareOp(desc, forward bool) string {
	if desc == forward {
		return "<"
	}
	return ">"
}

// sqlDirection renders the ORDER BY direction for a fetch. Backward
// fetches run in inverted order; assemblePage restores display order.
func sqlDirection(desc, forward bool) string {
	if desc == forward {
		return "DESC"
	}
	return "ASC"
}

func isForward(cur *cursor.Cursor) bool {
	return cur == nil || cur.PointsNext
}

// assemblePage turns rows fetched with LIMIT perPage+1 into a page with
// boundary tokens. The surplus row signals more pages in the fetch
// direction; a present cursor signals pages in the opposite one.
func assemblePage[T any](fetched []T, perPage int, cur *cursor.Cursor, keyOf func(row T, pointsNext bool) cursor.Cursor) cursor.Page[T] {
	forward := isForward(cur)

	hasMore := len(fetched) > perPage
	if hasMore {
		fetched = fetched[:perPage]
	}
	if !forward {
		reverse(fetched)
	}

	page := cursor.Page[T]{Data: fetched, PerPage: perPage}
	if len(fetched) == 0 {
		return page
	}

	hasNext := hasMore
	hasPrev := cur != nil
	if !forward {
		hasNext = true
		hasPrev = hasMore
	}

	if hasNext {
		page.NextCursor = cursor.Encode(keyOf(fetched[len(fetched)-1], true))
	}
	if hasPrev {
		page.PrevCursor = cursor.Encode(keyOf(fetched[0], false))
	}
	return page
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
