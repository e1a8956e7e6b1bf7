package chat

import (
	"context"

	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type Repository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UsersByID(ctx context.Context, ids []string) ([]models.User, error)

	CreateMessage(ctx context.Context, m *models.ChatMessage) error
	// History returns both directions between a and b, oldest first.
	History(ctx context.Context, a, b string) ([]models.ChatMessage, error)
	// MessagesFor returns every message involving userID, newest first.
	MessagesFor(ctx context.Context, userID string) ([]models.ChatMessage, error)
	// AppointmentCounterparts lists users sharing an appointment with userID.
	AppointmentCounterparts(ctx context.Context, userID string) ([]string, error)
}
