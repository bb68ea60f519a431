package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	ExternalID string `json:"external_id"`
}

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	GetByExternalID(ctx context.Context, externalID uuid.UUID) (User, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("user_not_found")
)
