package nats

import (
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"

	"todoai/pkg/logger"
)

// TaskEventHandler callback เมื่อได้รับ task event
type TaskEventHandler func(msg *TaskEventMessage)

// Subscriber core NATS subscriber สำหรับ tasks.> (ใช้กับ cmd/events)
type Subscriber struct {
	conn       *nats.Conn
	sub        *nats.Subscription
	handlers   []TaskEventHandler
	handlersMu sync.RWMutex
	running    bool
	runningMu  sync.Mutex
}

// NewSubscriber สร้าง NATS Subscriber ใหม่
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{
		conn:     conn,
		handlers: make([]TaskEventHandler, 0),
	}
}

// OnEvent ลงทะเบียน handler
func (s *Subscriber) OnEvent(handler TaskEventHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Start subscribe subject (ว่าง = tasks.>)
func (s *Subscriber) Start(subject string) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return nil
	}

	if subject == "" {
		subject = SubjectAll
	}
	sub, err := s.conn.Subscribe(subject, s.handleMessage)
	if err != nil {
		return err
	}
	s.sub = sub
	s.running = true

	logger.Info("NATS subscriber started", "subject", subject)
	return nil
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	var event TaskEventMessage
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to parse task event", "subject", msg.Subject, "error", err)
		return
	}
	s.dispatch(&event)
}

// dispatch เรียก handlers ตามลำดับ (sync เพื่อรักษาลำดับ message)
func (s *Subscriber) dispatch(event *TaskEventMessage) {
	s.handlersMu.RLock()
	handlers := s.handlers
	s.handlersMu.RUnlock()

	for _, handler := range handlers {
		func(h TaskEventHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Task event handler panicked", "error", r)
				}
			}()
			h(event)
		}(handler)
	}
}

// Stop หยุด subscriber
func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", "error", err)
		}
	}

	logger.Info("NATS subscriber stopped")
	return nil
}
