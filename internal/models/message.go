package models

import (
	"time"
)

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

type MessageKind string

const (
	KindText    MessageKind = "text"
	KindImage   MessageKind = "image"
	KindFile    MessageKind = "file"
	KindButtons MessageKind = "buttons"
	KindList    MessageKind = "list"
)

// ListItem is one entry of an interactive list message.
type ListItem struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Message is the canonical message shape used for both inbound webhook
// deliveries and outbound sends. Immutable once appended to a conversation.
type Message struct {
	ID        string                 `json:"id"`
	Direction Direction              `json:"direction"`
	Kind      MessageKind            `json:"kind"`
	Content   string                 `json:"content"`
	CreatedAt time.Time              `json:"createdAt"`
	AgentID   string                 `json:"agentId,omitempty"`
	AgentName string                 `json:"agentName,omitempty"`
	MediaURL  string                 `json:"mediaUrl,omitempty"`
	Caption   string                 `json:"caption,omitempty"`
	FileName  string                 `json:"fileName,omitempty"`
	Buttons   []string               `json:"buttons,omitempty"`
	ListItems []ListItem             `json:"listItems,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Preview derives the one-line summary shown in conversation lists.
func (m *Message) Preview() string {
	switch m.Kind {
	case KindImage:
		if m.Caption != "" {
			return "Image: " + m.Caption
		}
		return "Image sent"
	case KindFile:
		if m.FileName != "" {
			return "File: " + m.FileName
		}
		return "File sent"
	case KindButtons, KindList:
		return m.Content
	default:
		if m.Content == "" {
			return "Message"
		}
		return m.Content
	}
}

// Conversation aggregates all messages exchanged with one contact.
// ContactNumber is always the normalized, digits-only form.
type Conversation struct {
	ID                 string     `json:"id"`
	ContactNumber      string     `json:"contactNumber"`
	DisplayName        string     `json:"displayName"`
	Messages           []Message  `json:"messages"`
	LastMessagePreview string     `json:"lastMessagePreview"`
	LastMessageAt      *time.Time `json:"lastMessageAt"`
	UnreadCount        int        `json:"unreadCount"`
	LastAgentName      string     `json:"lastAgentName,omitempty"`
}

// ConversationSummary is the list view of a conversation, without message
// bodies.
type ConversationSummary struct {
	ID                 string     `json:"id"`
	ContactNumber      string     `json:"contactNumber"`
	DisplayName        string     `json:"displayName"`
	LastMessagePreview string     `json:"lastMessagePreview"`
	LastMessageAt      *time.Time `json:"lastMessageAt"`
	UnreadCount        int        `json:"unreadCount"`
	LastAgentName      string     `json:"lastAgentName,omitempty"`
	MessageCount       int        `json:"messageCount"`
}

// Summary converts a conversation to its list representation.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:                 c.ID,
		ContactNumber:      c.ContactNumber,
		DisplayName:        c.DisplayName,
		LastMessagePreview: c.LastMessagePreview,
		LastMessageAt:      c.LastMessageAt,
		UnreadCount:        c.UnreadCount,
		LastAgentName:      c.LastAgentName,
		MessageCount:       len(c.Messages),
	}
}
