package editorial

import (
	"fmt"
	"testing"
	"time"

	"github.com/voloskyi/saffron-shop/models"
)

func seedPosts(t *testing.T, store *memStore, count int, start time.Time) {
	t.Helper()
	for i := 0; i < count; i++ {
		created := start.AddDate(0, 0, i)
		store.now = func() time.Time { return created }
		if err := store.Create(&models.BlogPost{Title: fmt.Sprintf("post %d", i+1), Content: "<p>body</p>"}); err != nil {
			t.Fatalf("seed post %d: %v", i+1, err)
		}
	}
}

func TestPruneKeepsNewestPosts(t *testing.T) {
	store := newMemStore(nil)
	seedPosts(t, store, 45, date(2025, time.January, 1))

	pruned, err := PruneOldPosts(store, 30)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 15 {
		t.Errorf("pruned = %d, want 15", pruned)
	}

	remaining := store.all()
	if len(remaining) != 30 {
		t.Fatalf("store has %d posts, want 30", len(remaining))
	}
	// Newest first: post 45 down to post 16 survive.
	if remaining[0].Title != "post 45" {
		t.Errorf("newest surviving post = %q, want %q", remaining[0].Title, "post 45")
	}
	if remaining[len(remaining)-1].Title != "post 16" {
		t.Errorf("oldest surviving post = %q, want %q", remaining[len(remaining)-1].Title, "post 16")
	}
}

func TestPruneIsIdempotent(t *testing.T) {
	store := newMemStore(nil)
	seedPosts(t, store, 40, date(2025, time.January, 1))

	if _, err := PruneOldPosts(store, 30); err != nil {
		t.Fatalf("first prune: %v", err)
	}
	pruned, err := PruneOldPosts(store, 30)
	if err != nil {
		t.Fatalf("second prune: %v", err)
	}
	if pruned != 0 {
		t.Errorf("second prune removed %d posts, want 0", pruned)
	}
	if got := len(store.all()); got != 30 {
		t.Errorf("store has %d posts after reruns, want 30", got)
	}
}

func TestPruneBelowCapIsNoOp(t *testing.T) {
	store := newMemStore(nil)
	seedPosts(t, store, 5, date(2025, time.January, 1))

	pruned, err := PruneOldPosts(store, 30)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 0 {
		t.Errorf("pruned = %d, want 0", pruned)
	}
	if got := len(store.all()); got != 5 {
		t.Errorf("store has %d posts, want 5", got)
	}
}

func TestPruneTiesBreakByInsertionOrder(t *testing.T) {
	fixed := date(2025, time.March, 1)
	store := newMemStore(func() time.Time { return fixed })
	for i := 0; i < 4; i++ {
		if err := store.Create(&models.BlogPost{Title: fmt.Sprintf("tied %d", i+1), Content: "x"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if _, err := PruneOldPosts(store, 2); err != nil {
		t.Fatalf("prune: %v", err)
	}
	remaining := store.all()
	if len(remaining) != 2 {
		t.Fatalf("store has %d posts, want 2", len(remaining))
	}
	// Identical timestamps: the later inserts count as newer.
	if remaining[0].Title != "tied 4" || remaining[1].Title != "tied 3" {
		t.Errorf("kept %q and %q, want tied 4 and tied 3", remaining[0].Title, remaining[1].Title)
	}
}
