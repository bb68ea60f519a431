package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paylane/billing/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("user.service"),
		repo: p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	externalID, err := uuid.Parse(strings.TrimSpace(req.ExternalID))
	if err != nil {
		return domain.User{}, domain.ErrInvalidID
	}

	user := domain.User{
		ID:         uuid.New(),
		ExternalID: externalID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		s.log.Error("failed to insert user", zap.Error(err), zap.String("external_id", externalID.String()))
		return domain.User{}, err
	}
	return user, nil
}

func (s *Service) GetByExternalID(ctx context.Context, externalID uuid.UUID) (domain.User, error) {
	user, err := s.repo.FindByExternalID(ctx, s.db, externalID)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *user, nil
}
