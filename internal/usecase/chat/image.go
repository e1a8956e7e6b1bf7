package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/contentstore"
)

type GetImage struct {
	store contentstore.Store
}

func NewGetImage(store contentstore.Store) *GetImage {
	return &GetImage{store: store}
}

func (uc *GetImage) Execute(ctx context.Context, name string) ([]byte, error) {
	if !contentstore.ValidName(name) {
		return nil, apperr.ErrBusiness(apperr.ImageNotFound)
	}

	data, err := uc.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, contentstore.ErrNotFound) || errors.Is(err, contentstore.ErrInvalidName) {
			return nil, apperr.ErrBusiness(apperr.ImageNotFound)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrBusiness(apperr.StorageError), err)
	}
	return data, nil
}
