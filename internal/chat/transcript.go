// Package chat keeps the per-user assistant artifacts: the conversation
// transcript and the deleted-task counter. Both live in the blob store as
// opaque values keyed by user.
package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codewithhoney24/bettertasks/internal/blobstore"
	dom "github.com/codewithhoney24/bettertasks/internal/domain"
)

const transcriptKey = "chat_history"

// TranscriptStore loads and saves a user's ordered message list as one blob.
type TranscriptStore struct {
	store blobstore.Store
}

// NewTranscriptStore returns a transcript store over the given blob store.
func NewTranscriptStore(store blobstore.Store) *TranscriptStore {
	return &TranscriptStore{store: store}
}

// Load returns the user's transcript; an absent blob is an empty transcript.
func (s *TranscriptStore) Load(ctx context.Context, userID string) ([]dom.Message, error) {
	b, err := s.store.Get(ctx, userID, transcriptKey)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	if b == nil {
		return nil, nil
	}
	var msgs []dom.Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return msgs, nil
}

// Append adds messages to the end of the transcript and persists it.
func (s *TranscriptStore) Append(ctx context.Context, userID string, msgs ...dom.Message) error {
	existing, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}
	b, err := json.Marshal(append(existing, msgs...))
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := s.store.Set(ctx, userID, transcriptKey, b); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

// Clear removes the user's transcript.
func (s *TranscriptStore) Clear(ctx context.Context, userID string) error {
	return s.store.Remove(ctx, userID, transcriptKey)
}
