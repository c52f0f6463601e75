package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

// Channel 是发布消息所需的 amqp 通道方法
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher 将提示信息以邮件消息的形式投递到邮件队列
type Publisher struct {
	ch         Channel
	queue      string
	recipients []string
	timeout    time.Duration
}

func NewPublisher(ch Channel, queue string, recipients []string, timeout time.Duration) *Publisher {
	return &Publisher{
		ch:         ch,
		queue:      queue,
		recipients: recipients,
		timeout:    timeout,
	}
}

// Declare 声明持久化的邮件队列，api 和 mail worker 共用
func Declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,  // 队列名称
		true,  // 是否持久化
		false, // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
		false, // 是否独占
		false, // 是否不等待
		nil,   // 额外参数
	)
}

func (p *Publisher) PushAlert(ctx context.Context, tenantID int64, alert *domain.Alert) error {
	if p.ch == nil || len(p.recipients) == 0 {
		return nil
	}

	var errs []error
	for _, to := range p.recipients {
		if err := p.publish(ctx, domain.MailMessage{
			Type: domain.MailTypeAvailabilityAlert,
			To:   to,
			Data: domain.AvailabilityAlertMailData{
				TenantID: tenantID,
				Type:     alert.Type,
				I18nKey:  alert.I18nKey,
				Params:   alert.Params,
			},
		}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Publisher) publish(ctx context.Context, message domain.MailMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}
