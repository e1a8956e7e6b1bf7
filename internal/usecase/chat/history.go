package chat

import (
	"context"
	"sort"

	domain "github.com/BruksfildServices01/clinic-server/internal/domain/chat"
	"github.com/BruksfildServices01/clinic-server/internal/dto"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

const imagePreview = "[Image]"

type Conversations struct {
	repo domain.Repository
}

func NewConversations(repo domain.Repository) *Conversations {
	return &Conversations{repo: repo}
}

func (uc *Conversations) History(ctx context.Context, userID, contactID string) ([]dto.ChatMessageDTO, error) {
	msgs, err := uc.repo.History(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatMessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.FromChatMessage(m))
	}
	return out, nil
}

// Contacts lists everyone userID has chatted with or shares an
// appointment with. Contacts with messages come first, most recent first;
// the rest follow by id.
func (uc *Conversations) Contacts(
	ctx context.Context,
	userID string,
	online func(string) bool,
) ([]dto.ContactDTO, error) {

	msgs, err := uc.repo.MessagesFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	var order []string
	last := map[string]models.ChatMessage{}

	for _, m := range msgs {
		other := m.ReceiverID
		if other == userID {
			other = m.SenderID
		}
		if other == userID {
			continue
		}
		if _, seen := last[other]; !seen {
			last[other] = m
			order = append(order, other)
		}
	}

	counterparts, err := uc.repo.AppointmentCounterparts(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rest []string
	for _, id := range counterparts {
		if _, seen := last[id]; seen || id == userID || contains(rest, id) {
			continue
		}
		rest = append(rest, id)
	}
	sort.Strings(rest)
	order = append(order, rest...)

	users, err := uc.repo.UsersByID(ctx, order)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]dto.ContactDTO, 0, len(order))
	for _, id := range order {
		u, ok := byID[id]
		if !ok {
			continue
		}

		c := dto.ContactDTO{
			ID:     u.ID,
			Name:   u.DisplayName(),
			Role:   u.Role,
			Online: online != nil && online(u.ID),
		}
		if m, ok := last[id]; ok {
			c.LastMessage = m.Content
			if m.ContentType == models.ContentImage {
				c.LastMessage = imagePreview
			}
			c.LastTime = timezone.Format(m.SentAt)
		}
		out = append(out, c)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
