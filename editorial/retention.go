package editorial

import "fmt"

// PruneOldPosts deletes every post beyond the maxPosts newest ones and
// returns how many were removed. Running it again without an intervening
// insert is a no-op, as is a store already at or below the cap.
func PruneOldPosts(store PostStore, maxPosts int) (int, error) {
	if maxPosts < 0 {
		maxPosts = 0
	}
	stale, err := store.ListBeyond(maxPosts)
	if err != nil {
		return 0, fmt.Errorf("list posts beyond cap: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(stale))
	for _, post := range stale {
		ids = append(ids, post.ID)
	}
	if err := store.Delete(ids); err != nil {
		return 0, fmt.Errorf("delete stale posts: %w", err)
	}
	return len(ids), nil
}
