// Package events implements the transactional outbox backing the message bus.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/paylane/billing/internal/events/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Outbox persists events alongside the domain tables; consumers drain rows
// by topic and mark them published.
type Outbox struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewOutbox(p Params) *Outbox {
	return &Outbox{
		db:    p.DB,
		log:   p.Log.Named("events.outbox"),
		genID: p.GenID,
	}
}

// ProvidePublisher exposes the outbox as the bus port.
func ProvidePublisher(outbox *Outbox) domain.Publisher {
	return outbox
}

func (o *Outbox) Publish(ctx context.Context, topic, key string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}
	event := domain.Event{
		ID:        o.genID.Generate(),
		Topic:     topic,
		Key:       key,
		Payload:   encoded,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.db.WithContext(ctx).Create(&event).Error; err != nil {
		o.log.Error("failed to publish event", zap.Error(err), zap.String("topic", topic), zap.String("key", key))
		return err
	}
	return nil
}

// ListPending returns unpublished events for a topic, oldest first.
func (o *Outbox) ListPending(ctx context.Context, topic string, limit int) ([]domain.Event, error) {
	var pending []domain.Event
	stmt := o.db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("topic = ? AND published = false", topic).
		Order("created_at asc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

func (o *Outbox) MarkPublished(ctx context.Context, id snowflake.ID) error {
	return o.db.WithContext(ctx).Exec(
		`UPDATE billing_events SET published = true WHERE id = ?`,
		id,
	).Error
}

var Module = fx.Module("events",
	fx.Provide(NewOutbox),
	fx.Provide(ProvidePublisher),
)
