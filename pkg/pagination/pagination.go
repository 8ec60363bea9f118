package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Params are the page inputs accepted by list endpoints.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is a keyset position: rows sort by (Key, ID) and a page starts
// strictly after the cursor.
type Cursor struct {
	Key string
	ID  uuid.UUID
}

// NormalizeLimit clamps limit into [1, MaxLimit], mapping non-positive
// values to DefaultLimit.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer is the row count a repository fetches so Trim can tell
// whether another page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// Trim cuts rows fetched with LimitWithBuffer down to one page and returns
// the cursor for the next page, blank on the last page.
func Trim[T any](rows []T, limit int, position func(T) Cursor) ([]T, string) {
	limit = NormalizeLimit(limit)
	if len(rows) <= limit {
		return rows, ""
	}
	return rows[:limit], EncodeCursor(position(rows[limit-1]))
}

// EncodeCursor renders an opaque url safe token. The id goes first so the
// key may contain the separator.
func EncodeCursor(cursor Cursor) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursor.ID.String() + "|" + cursor.Key))
}

// ParseCursor decodes a token from EncodeCursor. Blank input means the
// first page and yields nil.
func ParseCursor(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	idPart, key, found := strings.Cut(string(raw), "|")
	if !found {
		return nil, fmt.Errorf("cursor missing separator")
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}
	return &Cursor{Key: key, ID: id}, nil
}
