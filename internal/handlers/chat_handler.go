package handlers

import (
	"context"
	"encoding/base64"
	"strconv"

	"github.com/BruksfildServices01/clinic-server/internal/dto"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/server"
	"github.com/BruksfildServices01/clinic-server/internal/session"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/chat"
)

const imageEnd = "GET_IMAGE_END"

// ======================================================
// HANDLER
// ======================================================

type ChatHandler struct {
	send     *chat.Send
	conv     *chat.Conversations
	images   *chat.GetImage
	relay    Relay
	sessions session.Store
}

func NewChatHandler(
	send *chat.Send,
	conv *chat.Conversations,
	images *chat.GetImage,
	relay Relay,
	sessions session.Store,
) *ChatHandler {
	return &ChatHandler{
		send:     send,
		conv:     conv,
		images:   images,
		relay:    relay,
		sessions: sessions,
	}
}

// ======================================================
// SEND_MESSAGE#senderId#receiverId#content
// ======================================================

func (h *ChatHandler) SendMessage(ctx context.Context, req *server.Request) protocol.Reply {
	msg, err := h.send.Text(ctx, chat.SendInput{
		SenderID:   req.Msg.Field(1),
		ReceiverID: req.Msg.Field(2),
		Content:    req.Msg.Tail(3),
	})
	if err != nil {
		return req.Error(err)
	}

	h.push(req, msg)
	return req.OK(strconv.FormatUint(uint64(msg.ID), 10), timezone.Format(msg.SentAt))
}

// ======================================================
// SEND_IMAGE#senderId#receiverId#name#base64
// ======================================================

func (h *ChatHandler) SendImage(ctx context.Context, req *server.Request) protocol.Reply {
	msg, stored, err := h.send.Image(ctx, chat.SendImageInput{
		SenderID:   req.Msg.Field(1),
		ReceiverID: req.Msg.Field(2),
		Name:       req.Msg.Field(3),
		Base64:     req.Msg.Field(4),
	})
	if err != nil {
		return req.Error(err)
	}

	req.Log.Info().Str("original", req.Msg.Field(3)).Str("stored", stored).Msg("image stored")

	h.push(req, msg)
	return req.OK(strconv.FormatUint(uint64(msg.ID), 10), timezone.Format(msg.SentAt), stored)
}

// push relays the stored message to its receiver as NEW_MESSAGE#<json>.
func (h *ChatHandler) push(req *server.Request, msg *models.ChatMessage) {
	body, err := protocol.JSON(dto.FromChatMessage(*msg))
	if err != nil {
		req.Log.Error().Err(err).Msg("encode chat push")
		return
	}
	h.relay.Send(msg.ReceiverID, protocol.PushNewMessage+protocol.Separator+body)
}

// ======================================================
// HISTORY / CONTACTS
// ======================================================

func (h *ChatHandler) History(ctx context.Context, req *server.Request) protocol.Reply {
	msgs, err := h.conv.History(ctx, req.Msg.Field(1), req.Msg.Field(2))
	if err != nil {
		return req.Error(err)
	}
	return req.JSON(msgs)
}

func (h *ChatHandler) Contacts(ctx context.Context, req *server.Request) protocol.Reply {
	contacts, err := h.conv.Contacts(ctx, req.Msg.Field(1), h.online)
	if err != nil {
		return req.Error(err)
	}
	return req.JSON(contacts)
}

func (h *ChatHandler) online(userID string) bool {
	_, ok := h.sessions.ConnFor(userID)
	return ok
}

// ======================================================
// GET_IMAGE#name
// ======================================================

// GetImage streams the header line, the base64 payload and the end
// marker as one write.
func (h *ChatHandler) GetImage(ctx context.Context, req *server.Request) protocol.Reply {
	name := req.Msg.Field(1)

	data, err := h.images.Execute(ctx, name)
	if err != nil {
		return req.Error(err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)

	out := make([]byte, 0, len(encoded)+len(name)+64)
	out = append(out, req.OK(name, strconv.Itoa(len(encoded)))...)
	out = append(out, encoded...)
	out = append(out, '\n')
	out = append(out, imageEnd...)
	out = append(out, '\n')
	return out
}

// ======================================================
// VIDEO_CALL_REQUEST / RESPONSE / END
// ======================================================

// VideoCall forwards the frame verbatim to field 2 (the callee or
// caller on the other end). Nothing is stored and nothing is replied.
func (h *ChatHandler) VideoCall(_ context.Context, req *server.Request) protocol.Reply {
	to := req.Msg.Field(2)
	if !h.relay.Send(to, req.Msg.Raw) {
		req.Log.Debug().Str("to", to).Msg("video call peer not local")
	}
	return nil
}
