package models

import (
	"encoding/json"
	"time"
)

// ChatHistory is a finished conversation saved for later review.
// Persistence is optional; sessions work without it.
type ChatHistory struct {
	ID            uint      `gorm:"primaryKey"`
	Date          time.Time `gorm:"not null;index"`
	AssistantType string    `gorm:"size:64;not null"`
	MessagesJSON  string    `gorm:"type:text"`
	CreatedAt     time.Time
}

// Messages decodes the stored transcript. A corrupt blob yields an empty
// transcript rather than an error; history is best-effort.
func (h ChatHistory) Messages() []AssistantMessage {
	var msgs []AssistantMessage
	if err := json.Unmarshal([]byte(h.MessagesJSON), &msgs); err != nil {
		return nil
	}
	return msgs
}

func NewChatHistory(assistantType string, messages []AssistantMessage) (*ChatHistory, error) {
	data, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	return &ChatHistory{
		Date:          time.Now(),
		AssistantType: assistantType,
		MessagesJSON:  string(data),
	}, nil
}
