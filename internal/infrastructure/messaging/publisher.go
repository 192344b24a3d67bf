package messaging

import (
	"context"

	"github.com/xiebiao/librarysystem/internal/domain/lending"
)

// ExchangeType 借阅事件使用topic类型Exchange
const ExchangeType = "topic"

// messagePublisher pkg/mq.Publisher的最小接口,便于测试替换
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// LendingEventPublisher 通过RabbitMQ发布借阅事件
// RoutingKey: lending.borrowed / lending.returned
type LendingEventPublisher struct {
	pub messagePublisher
}

// NewLendingEventPublisher 创建借阅事件发布者
func NewLendingEventPublisher(pub messagePublisher) *LendingEventPublisher {
	return &LendingEventPublisher{pub: pub}
}

var _ lending.EventPublisher = (*LendingEventPublisher)(nil)

// PublishLendingEvent 发布事件
func (p *LendingEventPublisher) PublishLendingEvent(ctx context.Context, ev lending.Event) error {
	return p.pub.Publish(ctx, ev.Type.RoutingKey(), ev)
}
