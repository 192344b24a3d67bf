package lending

import (
	"context"
	"time"
)

// EventType 借阅事件类型
type EventType string

const (
	EventBorrowed EventType = "borrowed"
	EventReturned EventType = "returned"
)

// RoutingKey 消息路由键,如lending.borrowed
func (t EventType) RoutingKey() string {
	return "lending." + string(t)
}

// Event 借阅状态变化事件
type Event struct {
	Type          EventType `json:"type"`
	LendingID     int64     `json:"lending_id"`
	UserID        int64     `json:"user_id"`
	BookID        int64     `json:"book_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventPublisher 事件发布接口(RabbitMQ实现见infrastructure/messaging)
type EventPublisher interface {
	PublishLendingEvent(ctx context.Context, ev Event) error
}

// NopPublisher 不发布任何事件
type NopPublisher struct{}

func (NopPublisher) PublishLendingEvent(context.Context, Event) error { return nil }
