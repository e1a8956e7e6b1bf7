package dto

import (
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type ChatMessageDTO struct {
	ID          uint   `json:"id"`
	SenderID    string `json:"sender_id"`
	ReceiverID  string `json:"receiver_id"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	ImageName   string `json:"image_name,omitempty"`
	Timestamp   string `json:"timestamp"`
}

func FromChatMessage(m models.ChatMessage) ChatMessageDTO {
	out := ChatMessageDTO{
		ID:          m.ID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		Content:     m.Content,
		ContentType: m.ContentType,
		Timestamp:   timezone.Format(m.SentAt),
	}
	if m.ContentType == models.ContentImage {
		out.ImageName = strings.TrimPrefix(m.Content, models.ImageMarker)
	}
	return out
}

type ContactDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Online      bool   `json:"online"`
	LastMessage string `json:"last_message"`
	LastTime    string `json:"last_time"`
}
