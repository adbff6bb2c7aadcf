package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/codewithhoney24/bettertasks/internal/assistant"
	"github.com/codewithhoney24/bettertasks/internal/chat"
	dom "github.com/codewithhoney24/bettertasks/internal/domain"
)

var ErrEmptyMessage = errors.New("message content is required")

// AssistantService answers user questions about their tasks. Every exchange
// (user message + reply) is appended to the per-user transcript.
type AssistantService struct {
	tasks      *TaskService
	transcript *chat.TranscriptStore
	counter    *chat.DeletedCounter
	resolver   *assistant.Resolver
}

func NewAssistantService(tasks *TaskService, transcript *chat.TranscriptStore, counter *chat.DeletedCounter) *AssistantService {
	return &AssistantService{
		tasks:      tasks,
		transcript: transcript,
		counter:    counter,
		resolver:   assistant.New(),
	}
}

// Send resolves a reply for the user's message and records both sides of
// the exchange. The returned message is the assistant's.
func (s *AssistantService) Send(ctx context.Context, userID, content string) (dom.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return dom.Message{}, ErrEmptyMessage
	}

	tasks, err := s.tasks.List(ctx, userID)
	if err != nil {
		return dom.Message{}, err
	}
	history, err := s.transcript.Load(ctx, userID)
	if err != nil {
		return dom.Message{}, err
	}
	deleted, err := s.counter.Get(ctx, userID)
	if err != nil {
		return dom.Message{}, err
	}

	reply := s.resolver.Resolve(content, tasks, history, deleted)

	now := time.Now().UTC()
	userMsg := dom.Message{
		ID:        now.UnixMilli(),
		Role:      dom.RoleUser,
		Content:   content,
		Timestamp: now,
	}
	botMsg := dom.Message{
		ID:        userMsg.ID + 1,
		Role:      dom.RoleAssistant,
		Content:   reply,
		Timestamp: now,
	}
	if err := s.transcript.Append(ctx, userID, userMsg, botMsg); err != nil {
		return dom.Message{}, err
	}
	return botMsg, nil
}

// History returns the full transcript, oldest first.
func (s *AssistantService) History(ctx context.Context, userID string) ([]dom.Message, error) {
	return s.transcript.Load(ctx, userID)
}

// Clear wipes the transcript. The deleted-task counter is untouched.
func (s *AssistantService) Clear(ctx context.Context, userID string) error {
	return s.transcript.Clear(ctx, userID)
}
