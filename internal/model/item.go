package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is a raw row as returned by the persistence store. Completed holds
// whatever the driver produced for the column (bool, int64, string, ...).
type Record struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	DueAt       *time.Time
	CreatedAt   time.Time
	Completed   any
}

type Item struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Completed   bool       `json:"completed"`
}

// NewItem is the input of an insert; the store assigns ID and CreatedAt.
type NewItem struct {
	UserID      string
	Title       string
	Description string
	DueAt       *time.Time
}

// HasDue reports whether the item carries a due date.
func (i Item) HasDue() bool {
	return i.DueAt != nil
}

// FromRecord converts a store row into an Item. It is called once at the store
// boundary; nothing downstream deals with raw records.
func FromRecord(r Record) Item {
	return Item{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		DueAt:       r.DueAt,
		CreatedAt:   r.CreatedAt,
		Completed:   ParseCompleted(r.Completed),
	}
}

// ParseCompleted normalizes a completion flag. Falsy-like values (nil, false,
// zero numbers, "", "0", "f", "no", "false") become false, everything else true.
func ParseCompleted(v any) bool {
	switch c := v.(type) {
	case nil:
		return false
	case bool:
		return c
	case int:
		return c != 0
	case int8:
		return c != 0
	case int16:
		return c != 0
	case int32:
		return c != 0
	case int64:
		return c != 0
	case uint8:
		return c != 0
	case uint:
		return c != 0
	case uint64:
		return c != 0
	case float32:
		return c != 0
	case float64:
		return c != 0
	case []byte:
		return parseCompletedString(string(c))
	case string:
		return parseCompletedString(c)
	default:
		return parseCompletedString(fmt.Sprint(c))
	}
}

func parseCompletedString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "0", "f", "no", "false", "null":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0
	}
	return true
}
