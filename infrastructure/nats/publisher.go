package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"todoai/domain/ports"
	"todoai/pkg/logger"
)

// jsPublisher ส่วนของ jetstream.JetStream ที่ Publisher ใช้
type jsPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher publishes task events to JetStream
type Publisher struct {
	js jsPublisher
}

var _ ports.TaskEventPublisher = (*Publisher)(nil)

// NewPublisher สร้าง Publisher ใหม่
func NewPublisher(client *Client) *Publisher {
	return &Publisher{js: client.js}
}

// PublishTaskEvent ส่ง event ไปยัง tasks.{type}
// ใช้ MsgID เป็นตัว dedupe ของ JetStream (publish ซ้ำภายใน duplicate window ไม่ถูกเก็บซ้ำ)
func (p *Publisher) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	msg := NewTaskEventMessage(event)
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}

	subject := Subject(event.Type)
	msgID := fmt.Sprintf("%s:%s:%d", msg.Type, msg.TaskID, msg.OccurredAt)

	ack, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(msgID))
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	logger.DebugContext(ctx, "Task event published",
		"subject", subject,
		"task_id", msg.TaskID,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
	)
	return nil
}
