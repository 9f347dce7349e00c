// Package cursor implements opaque-token pagination. A token encodes the
// sort key values of the row at the page boundary plus the direction it
// points in, so iteration stays stable while rows are inserted or deleted
// concurrently. There is no "jump to page N".
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor anchors a page on the last-seen sort key values. Name is only
// set when the listing is sorted by name; ID doubles as the tie-breaker.
type Cursor struct {
	ID         int64  `json:"id"`
	Name       string `json:"name,omitempty"`
	PointsNext bool   `json:"points_next"`
}

func Encode(c Cursor) string {
	data, _ := json.Marshal(c)
	return base64.URLEncoding.EncodeToString(data)
}

func Decode(token string) (*Cursor, error) {
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	return &c, nil
}

// Page is one window of a cursor-paginated result set. Empty cursor
// strings mean there is no page in that direction.
type Page[T any] struct {
	Data       []T    `json:"data"`
	NextCursor string `json:"next_cursor"`
	PrevCursor string `json:"prev_cursor"`
	PerPage    int    `json:"per_page"`
	Path       string `json:"path"`
}
