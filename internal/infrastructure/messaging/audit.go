package messaging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/pkg/logger"
	"github.com/xiebiao/librarysystem/pkg/mq"
)

// AuditRoutingKeys 审计消费者订阅的全部借阅事件
var AuditRoutingKeys = []string{"lending.*"}

// NewAuditHandler 借阅事件审计处理器
// 只做结构化日志记录;消息体无法解析时丢弃(返回nil),避免毒消息反复入队
func NewAuditHandler(base zerolog.Logger) mq.Handler {
	log := logger.Component(base, "messaging.audit")
	return func(ctx context.Context, d mq.Delivery) error {
		var ev lending.Event
		if err := d.Decode(&ev); err != nil {
			logger.For(ctx, log).Error().Err(err).
				Str("routing_key", d.RoutingKey).
				Msg("借阅事件解析失败,已丢弃")
			return nil
		}
		if ev.Type.RoutingKey() != d.RoutingKey {
			logger.For(ctx, log).Warn().
				Str("event", string(ev.Type)).
				Str("routing_key", d.RoutingKey).
				Msg("事件类型与路由键不一致")
		}

		logger.For(ctx, log).Info().
			Str("event", string(ev.Type)).
			Int64("lending_id", ev.LendingID).
			Int64("user_id", ev.UserID).
			Int64("book_id", ev.BookID).
			Time("occurred_at", ev.OccurredAt).
			Msg("借阅事件")
		return nil
	}
}
