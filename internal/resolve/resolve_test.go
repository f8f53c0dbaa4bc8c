package resolve_test

import (
	"testing"

	"github.com/jaekwang-park/todo-bot/internal/model"
	"github.com/jaekwang-park/todo-bot/internal/resolve"
)

func items(titles ...string) []model.Item {
	out := make([]model.Item, 0, len(titles))
	for i, title := range titles {
		out = append(out, model.Item{ID: int64(i + 1), Title: title})
	}
	return out
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		items      []model.Item
		identifier string
		wantID     int64
		wantTier   resolve.Tier
	}{
		{"prefix before longer title", items("Groceries", "Groceries list"), "groc", 1, resolve.TierPrefix},
		{"id outranks title", items("2", "Laundry"), "2", 2, resolve.TierID},
		{"numeric falls through to titles", items("Call mum", "404"), "404", 2, resolve.TierExact},
		{"exact case-sensitive first", items("report", "Report"), "Report", 2, resolve.TierExact},
		{"exact case-insensitive", items("Reports", "REPORT"), "report", 2, resolve.TierExactFold},
		{"prefix before suffix", items("Pay rent", "Rent car"), "rent", 2, resolve.TierPrefix},
		{"suffix before contains", items("Car rental", "Pay rent"), "rent", 2, resolve.TierSuffix},
		{"contains", items("Walk the dog", "Feed cat"), "THE", 1, resolve.TierContains},
		{"levenshtein fallback", items("Report"), "Repot", 1, resolve.TierDistance},
		{"levenshtein picks closest", items("Dishes", "Dentist", "Laundry"), "Dentst", 2, resolve.TierDistance},
		{"levenshtein tie keeps first", items("abc", "abd"), "abx", 1, resolve.TierDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tier := resolve.Match(tt.items, tt.identifier)
			if tier != tt.wantTier {
				t.Errorf("tier = %s, want %s", tier, tt.wantTier)
			}
			if got.ID != tt.wantID {
				t.Errorf("id = %d, want %d (title %q)", got.ID, tt.wantID, got.Title)
			}
		})
	}
}

func TestItem_Empty(t *testing.T) {
	if _, ok := resolve.Item(nil, "anything"); ok {
		t.Error("expected no match for empty collection")
	}
	if _, ok := resolve.Item([]model.Item{}, "1"); ok {
		t.Error("expected no match for empty collection with numeric identifier")
	}
}

func TestItem_UnknownIDFallsBackToDistance(t *testing.T) {
	got, ok := resolve.Item(items("Gym"), "99")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Title != "Gym" {
		t.Errorf("expected Gym, got %s", got.Title)
	}
}
