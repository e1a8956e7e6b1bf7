package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/contentstore"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/chat"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type SendInput struct {
	SenderID   string
	ReceiverID string
	Content    string
}

type SendImageInput struct {
	SenderID   string
	ReceiverID string
	// Name is the client's original file name; only logged.
	Name   string
	Base64 string
}

type Send struct {
	repo  domain.Repository
	store contentstore.Store
}

func NewSend(repo domain.Repository, store contentstore.Store) *Send {
	return &Send{repo: repo, store: store}
}

func (uc *Send) Text(ctx context.Context, in SendInput) (*models.ChatMessage, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.ErrBusiness(apperr.InvalidFormat)
	}
	if err := uc.participants(ctx, in.SenderID, in.ReceiverID); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		SenderID:    in.SenderID,
		ReceiverID:  in.ReceiverID,
		Content:     in.Content,
		ContentType: models.ContentText,
		SentAt:      timezone.Now(),
	}
	if err := uc.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Image stores the decoded payload and records a marker message that
// names the stored file.
func (uc *Send) Image(ctx context.Context, in SendImageInput) (*models.ChatMessage, string, error) {
	if err := uc.participants(ctx, in.SenderID, in.ReceiverID); err != nil {
		return nil, "", err
	}

	data, ext, err := contentstore.DecodeImage(in.Base64)
	if err != nil {
		return nil, "", apperr.ErrBusiness(apperr.InvalidImage)
	}

	name := contentstore.NewName("", ext)
	if err := uc.store.Put(ctx, name, data); err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperr.ErrBusiness(apperr.StorageError), err)
	}

	msg := &models.ChatMessage{
		SenderID:    in.SenderID,
		ReceiverID:  in.ReceiverID,
		Content:     models.ImageMarker + name,
		ContentType: models.ContentImage,
		SentAt:      timezone.Now(),
	}
	if err := uc.repo.CreateMessage(ctx, msg); err != nil {
		return nil, "", err
	}
	return msg, name, nil
}

func (uc *Send) participants(ctx context.Context, sender, receiver string) error {
	if _, err := uc.repo.GetUser(ctx, sender); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.ErrBusiness(apperr.SenderNotFound)
		}
		return err
	}
	if _, err := uc.repo.GetUser(ctx, receiver); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.ErrBusiness(apperr.ReceiverNotFound)
		}
		return err
	}
	return nil
}
