// Package domain contains the outbox event model shared by the publisher and
// the settlement consumer.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Topics carried on the outbox.
const (
	ChargeCreatedTopic = "CHARGE_CREATED"
)

// Event is one row on the billing_events outbox table. Rows are written in
// the same database as the domain tables and drained by consumers.
type Event struct {
	ID        snowflake.ID   `json:"id" gorm:"primaryKey"`
	Topic     string         `json:"topic" gorm:"type:text;not null;index"`
	Key       string         `json:"key" gorm:"type:text;not null"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb;not null"`
	Published bool           `json:"published" gorm:"not null;default:false;index"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Event) TableName() string { return "billing_events" }

// Publisher is the message-bus port used by the orchestration layer.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}
