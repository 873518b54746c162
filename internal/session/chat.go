package session

import (
	"fmt"
	"time"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// ChatMessage is one entry of a task's coaching transcript.
// Fields are ordered to minimize memory padding.
type ChatMessage struct {
	Time    time.Time `json:"time"`
	Role    string    `json:"role"` // "user" or "coach"
	Content string    `json:"content"`
}

// ChatArchive persists per-task chat transcripts in the key-value store,
// pruned to a retention window and capped at a maximum message count on
// every load. Persistence failures degrade to an empty transcript; chat
// history is never worth crashing a session over.
// Fields are ordered to minimize memory padding.
type ChatArchive struct {
	kv          domain.KeyValueStore
	clock       domain.Clock
	logger      domain.Logger
	retention   time.Duration
	maxMessages int
}

// NewChatArchive creates a ChatArchive.
func NewChatArchive(kv domain.KeyValueStore, clock domain.Clock, logger domain.Logger, retention time.Duration, maxMessages int) *ChatArchive {
	if maxMessages <= 0 {
		maxMessages = domain.DefaultChatMaxMessages
	}
	if retention <= 0 {
		retention = time.Duration(domain.DefaultChatRetentionDays) * 24 * time.Hour
	}
	return &ChatArchive{
		kv:          kv,
		clock:       clock,
		logger:      logger,
		retention:   retention,
		maxMessages: maxMessages,
	}
}

// Load returns the pruned transcript for a task. Missing or corrupt records
// yield an empty transcript.
func (a *ChatArchive) Load(taskID string) []ChatMessage {
	var msgs []ChatMessage
	ok, err := a.kv.Get(domain.ChatKey(taskID), &msgs)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn(taskID, "chat", fmt.Sprintf("load transcript: %v", err))
		}
		return nil
	}
	if !ok {
		return nil
	}
	return a.prune(msgs)
}

// Save stores the transcript, pruned.
func (a *ChatArchive) Save(taskID string, msgs []ChatMessage) {
	pruned := a.prune(msgs)
	if len(pruned) == 0 {
		_ = a.kv.Delete(domain.ChatKey(taskID))
		return
	}
	if err := a.kv.Put(domain.ChatKey(taskID), pruned); err != nil && a.logger != nil {
		a.logger.Warn(taskID, "chat", fmt.Sprintf("save transcript: %v", err))
	}
}

// prune drops messages older than the retention window, then trims the
// oldest entries down to the cap.
func (a *ChatArchive) prune(msgs []ChatMessage) []ChatMessage {
	cutoff := a.clock.Now().Add(-a.retention)
	kept := msgs[:0:0]
	for _, m := range msgs {
		if m.Time.After(cutoff) {
			kept = append(kept, m)
		}
	}
	if len(kept) > a.maxMessages {
		kept = kept[len(kept)-a.maxMessages:]
	}
	return kept
}
