package model

// Collection is one user's items, dated items first in ascending due order
// followed by undated items in their original order. It is rebuilt from store
// rows on every request and never cached.
type Collection struct {
	dated   []Item
	undated []Item
}

// NewCollection converts the given records, keeps only those owned by userID
// (all of them when userID is empty) and orders them.
func NewCollection(records []Record, userID string) Collection {
	var c Collection
	for _, r := range records {
		if userID != "" && r.UserID != userID {
			continue
		}
		item := FromRecord(r)
		if item.HasDue() {
			c.insertDated(item)
		} else {
			c.undated = append(c.undated, item)
		}
	}
	return c
}

// insertDated places item after every dated item whose due time is not later,
// so equal due times keep their arrival order.
func (c *Collection) insertDated(item Item) {
	pos := len(c.dated)
	for pos > 0 && c.dated[pos-1].DueAt.After(*item.DueAt) {
		pos--
	}
	c.dated = append(c.dated, Item{})
	copy(c.dated[pos+1:], c.dated[pos:])
	c.dated[pos] = item
}

// Items returns the full ordered sequence.
func (c Collection) Items() []Item {
	out := make([]Item, 0, len(c.dated)+len(c.undated))
	out = append(out, c.dated...)
	return append(out, c.undated...)
}

func (c Collection) Dated() []Item {
	return append([]Item(nil), c.dated...)
}

func (c Collection) Undated() []Item {
	return append([]Item(nil), c.undated...)
}

func (c Collection) Len() int {
	return len(c.dated) + len(c.undated)
}

// CompletedCount returns how many items are marked complete.
func (c Collection) CompletedCount() int {
	n := 0
	for _, it := range c.Items() {
		if it.Completed {
			n++
		}
	}
	return n
}
