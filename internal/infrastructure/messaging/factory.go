package messaging

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/infrastructure/config"
	"github.com/xiebiao/librarysystem/pkg/logger"
	"github.com/xiebiao/librarysystem/pkg/mq"
)

// NewEventPublisher 按配置创建借阅事件发布者
// rabbitmq.enabled=false时返回NopPublisher;cleanup关闭连接
func NewEventPublisher(cfg *config.Config, log zerolog.Logger) (lending.EventPublisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		return lending.NopPublisher{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	ml := logger.Component(log, "messaging")
	ml.Info().
		Str("exchange", cfg.RabbitMQ.Exchange).
		Msg("借阅事件发布已启用")

	return NewLendingEventPublisher(pub), func() { _ = pub.Close() }, nil
}

// RunAudit 消费借阅事件并写审计日志,阻塞直到ctx取消
func RunAudit(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if !cfg.RabbitMQ.Enabled {
		return fmt.Errorf("rabbitmq未启用(rabbitmq.enabled=false)")
	}

	consumer, err := mq.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, ExchangeType, cfg.RabbitMQ.Queue, AuditRoutingKeys)
	if err != nil {
		return err
	}
	defer consumer.Close()

	consumer.WithLogger(logger.Component(log, "messaging.consumer"))
	return consumer.Consume(ctx, NewAuditHandler(log))
}
