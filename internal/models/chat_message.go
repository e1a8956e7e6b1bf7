package models

import "time"

const (
	ContentText  = "text"
	ContentImage = "image"

	// ImageMarker prefixes the stored file name in image chat messages.
	ImageMarker = "[IMAGE]"
)

type ChatMessage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SenderID   string `gorm:"size:20;not null;index:idx_chat_pair,priority:1" json:"sender_id"`
	ReceiverID string `gorm:"size:20;not null;index:idx_chat_pair,priority:2" json:"receiver_id"`

	Content     string    `gorm:"type:text;not null" json:"content"`
	ContentType string    `gorm:"size:10;not null;default:'text'" json:"content_type"`
	SentAt      time.Time `gorm:"index" json:"sent_at"`
}
