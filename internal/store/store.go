package store

import (
	"sort"
	"strings"
	"sync"

	"zaprelay/internal/errors"
	"zaprelay/internal/models"

	"github.com/google/uuid"
)

// Store is the narrow seam over the conversation index. Controllers only see
// this interface, so a durable backing could replace MemoryStore without
// touching them.
type Store interface {
	Append(contactNumber string, msg models.Message, displayName string) *models.Conversation
	List() []models.ConversationSummary
	Messages(contactNumber string) []models.Message
	MarkRead(contactNumber string) (*models.Conversation, error)
	UpsertDisplayName(contactNumber, name string) *models.Conversation
}

// MemoryStore keeps every conversation in process memory for the lifetime of
// the server. A restart loses all history.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*models.Conversation),
	}
}

// Normalize reduces a contact number to its digits. Numbers that normalize to
// the same string share one conversation.
func Normalize(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// key falls back to the raw value for non-numeric identifiers, so sentinel
// contacts like "unknown" still get a stable conversation.
func key(contactNumber string) string {
	if n := Normalize(contactNumber); n != "" {
		return n
	}
	return contactNumber
}

func (s *MemoryStore) getOrCreate(normalized, displayName string) *models.Conversation {
	conv, ok := s.conversations[normalized]
	if !ok {
		name := displayName
		if name == "" {
			name = normalized
		}
		conv = &models.Conversation{
			ID:            uuid.NewString(),
			ContactNumber: normalized,
			DisplayName:   name,
			Messages:      []models.Message{},
		}
		s.conversations[normalized] = conv
	}
	return conv
}

// Append adds a message to the contact's conversation, creating it lazily.
// The returned conversation is a snapshot safe to serialize outside the lock.
func (s *MemoryStore) Append(contactNumber string, msg models.Message, displayName string) *models.Conversation {
	normalized := key(contactNumber)

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.getOrCreate(normalized, displayName)
	conv.Messages = append(conv.Messages, msg)
	conv.LastMessagePreview = msg.Preview()
	at := msg.CreatedAt
	conv.LastMessageAt = &at

	if msg.Direction == models.DirectionIncoming {
		conv.UnreadCount++
	}
	if msg.Direction == models.DirectionOutgoing && msg.AgentName != "" {
		conv.LastAgentName = msg.AgentName
	}

	return snapshot(conv)
}

// List returns conversation summaries sorted by last activity, most recent
// first. Conversations without messages sort last.
func (s *MemoryStore) List() []models.ConversationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]models.ConversationSummary, 0, len(s.conversations))
	for _, conv := range s.conversations {
		summaries = append(summaries, conv.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessageAt, summaries[j].LastMessageAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	return summaries
}

// Messages returns the full message sequence for a contact, or an empty slice
// if no conversation exists. Never an error.
func (s *MemoryStore) Messages(contactNumber string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[key(contactNumber)]
	if !ok {
		return []models.Message{}
	}
	return append([]models.Message(nil), conv.Messages...)
}

// MarkRead resets the unread counter for a contact.
func (s *MemoryStore) MarkRead(contactNumber string) (*models.Conversation, error) {
	normalized := key(contactNumber)

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[normalized]
	if !ok {
		return nil, errors.NewNotFoundError("conversation", normalized)
	}
	conv.UnreadCount = 0
	return snapshot(conv), nil
}

// UpsertDisplayName overwrites the contact's display name, creating the
// conversation lazily so a following append already carries the name.
func (s *MemoryStore) UpsertDisplayName(contactNumber, name string) *models.Conversation {
	normalized := key(contactNumber)

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.getOrCreate(normalized, name)
	if name != "" {
		conv.DisplayName = name
	}
	return snapshot(conv)
}

func snapshot(conv *models.Conversation) *models.Conversation {
	copied := *conv
	copied.Messages = append([]models.Message(nil), conv.Messages...)
	if conv.LastMessageAt != nil {
		at := *conv.LastMessageAt
		copied.LastMessageAt = &at
	}
	return &copied
}
