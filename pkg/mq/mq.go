// Package mq RabbitMQ消息发布/消费封装
//
// 拓扑: topic类型Exchange + 持久化Queue,RoutingKey形如 lending.borrowed / lending.returned。
// 消息体为JSON,关联ID放在消息头x-correlation-id中。
package mq

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/pkg/correlation"
	"github.com/xiebiao/librarysystem/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Publisher 消息发布者
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher 连接RabbitMQ并声明Exchange
func NewPublisher(url, exchange, exchangeType string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish 发布JSON消息
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	msg, err := NewPublishing(ctx, message, time.Now())
	if err != nil {
		return err
	}

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.InitMetrics()
	metrics.MessagesPublishedTotal.WithLabelValues(p.exchange, routingKey).Inc()
	return nil
}

// NewPublishing 构造持久化的JSON消息,携带context中的关联ID
func NewPublishing(ctx context.Context, message interface{}, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("消息序列化失败: %w", err)
	}

	headers := amqp.Table{}
	if id := correlation.FromContext(ctx); id != "" {
		headers[correlation.MetadataKey] = id
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Headers:      headers,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
	}, nil
}

// Close 关闭连接
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Delivery 消费到的消息
type Delivery struct {
	RoutingKey    string
	CorrelationID string
	Body          []byte
	Timestamp     time.Time
}

// Decode 解析JSON消息体
func (d Delivery) Decode(v interface{}) error {
	return json.Unmarshal(d.Body, v)
}

// Handler 消息处理函数,返回错误时消息重新入队
type Handler func(ctx context.Context, d Delivery) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     zerolog.Logger
}

// NewConsumer 连接RabbitMQ,声明Exchange/Queue并绑定RoutingKey
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	fail := func(err error) (*Consumer, error) {
		channel.Close()
		conn.Close()
		return nil, err
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		return fail(err)
	}

	q, err := channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fail(fmt.Errorf("声明Queue失败: %w", err))
	}

	for _, routingKey := range routingKeys {
		if err := channel.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
			return fail(fmt.Errorf("绑定Queue失败: %w", err))
		}
	}

	return &Consumer{conn: conn, channel: channel, queue: q.Name, log: zerolog.Nop()}, nil
}

// WithLogger 设置消费日志
func (c *Consumer) WithLogger(l zerolog.Logger) *Consumer {
	c.log = l.With().Str("queue", c.queue).Logger()
	return c
}

// Consume 阻塞消费直到ctx取消
// 手动ACK:handler成功则Ack,失败则Nack并重新入队
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	metrics.InitMetrics()
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("消费者退出")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}
			d := toDelivery(msg)
			msgCtx := ctx
			if d.CorrelationID != "" {
				msgCtx = correlation.WithID(ctx, d.CorrelationID)
			}
			if err := handler(msgCtx, d); err != nil {
				c.log.Warn().Err(err).Str("routing_key", d.RoutingKey).Msg("消息处理失败,重新入队")
				msg.Nack(false, true)
				metrics.MessagesConsumedTotal.WithLabelValues(c.queue, "failure").Inc()
				continue
			}
			msg.Ack(false)
			metrics.MessagesConsumedTotal.WithLabelValues(c.queue, "success").Inc()
		}
	}
}

// Close 关闭连接
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func toDelivery(msg amqp.Delivery) Delivery {
	d := Delivery{
		RoutingKey: msg.RoutingKey,
		Body:       msg.Body,
		Timestamp:  msg.Timestamp,
	}
	if id, ok := msg.Headers[correlation.MetadataKey].(string); ok {
		d.CorrelationID = id
	}
	return d
}

func declareExchange(channel *amqp.Channel, exchange, exchangeType string) error {
	// durable=true, autoDelete=false, internal=false, noWait=false
	if err := channel.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明Exchange失败: %w", err)
	}
	return nil
}
