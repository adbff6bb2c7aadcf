package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/codewithhoney24/bettertasks/internal/blobstore"
)

const counterKey = "deleted_count"

// DeletedCounter tracks how many tasks a user has deleted. It is a running
// counter, not a ledger: it is never reconciled against deletion history,
// so it can drift from the true historical count. An absent key reads as 0.
type DeletedCounter struct {
	store blobstore.Store
}

// NewDeletedCounter returns a counter over the given blob store.
func NewDeletedCounter(store blobstore.Store) *DeletedCounter {
	return &DeletedCounter{store: store}
}

// Get returns the user's current count.
func (c *DeletedCounter) Get(ctx context.Context, userID string) (int, error) {
	b, err := c.store.Get(ctx, userID, counterKey)
	if err != nil {
		return 0, fmt.Errorf("load deleted count: %w", err)
	}
	if b == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("decode deleted count: %w", err)
	}
	return n, nil
}

// Increment bumps the count by one and returns the new value.
// Read-modify-write without a lock: single-writer per user in practice.
func (c *DeletedCounter) Increment(ctx context.Context, userID string) (int, error) {
	n, err := c.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	n++
	if err := c.store.Set(ctx, userID, counterKey, []byte(strconv.Itoa(n))); err != nil {
		return 0, fmt.Errorf("save deleted count: %w", err)
	}
	return n, nil
}
