package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a conversation message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// DisplayName returns the label shown next to a transcript entry.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "Assistant"
	case SenderSystem:
		return "System"
	}
	return string(s)
}

// MessageSource is a citation link attached to a message.
type MessageSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AssistantMessage is one transcript entry. Append-only within a session.
type AssistantMessage struct {
	ID        uuid.UUID       `json:"id"`
	From      Sender          `json:"from"`
	Content   string          `json:"content"`
	Sources   []MessageSource `json:"sources,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func NewAssistantMessage(from Sender, content string) AssistantMessage {
	return AssistantMessage{
		ID:        uuid.New(),
		From:      from,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
