package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"samtech/internal/domain"
	applog "samtech/internal/log"
	"samtech/internal/pubsub"
	"samtech/internal/validate"
)

// MessagesTopic carries the full message list after every change.
const MessagesTopic = "messages"

type MessageInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=32"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type MessageService struct {
	Messages MessageStore
	Broker   pubsub.Broker
	Now      func() time.Time
}

func NewMessageService(messages MessageStore, broker pubsub.Broker) *MessageService {
	return &MessageService{Messages: messages, Broker: broker}
}

func (s *MessageService) Create(ctx context.Context, in MessageInput) (domain.Message, error) {
	in.Name, in.Email = strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	in.Subject, in.Message = strings.TrimSpace(in.Subject), strings.TrimSpace(in.Message)
	if err := validate.Struct(in); err != nil {
		return domain.Message{}, err
	}
	m := domain.Message{
		ID: uuid.NewString(), Name: in.Name, Email: in.Email, Phone: strings.TrimSpace(in.Phone),
		Subject: in.Subject, Message: in.Message, CreatedAt: clock(s.Now),
	}
	if err := s.Messages.Create(ctx, &m); err != nil {
		return domain.Message{}, err
	}
	s.publish(ctx)
	return m, nil
}

func (s *MessageService) List(ctx context.Context, search string) ([]domain.Message, error) {
	return s.Messages.List(ctx, search)
}

// Open returns the message and marks it read.
func (s *MessageService) Open(ctx context.Context, id string) (domain.Message, error) {
	return s.MarkRead(ctx, id)
}

func (s *MessageService) MarkRead(ctx context.Context, id string) (domain.Message, error) {
	m, err := s.Messages.MarkRead(ctx, id)
	if err != nil {
		return domain.Message{}, err
	}
	s.publish(ctx)
	return m, nil
}

func (s *MessageService) Delete(ctx context.Context, id string) error {
	if err := s.Messages.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// Subscribe registers a live listener for message list updates.
func (s *MessageService) Subscribe(ctx context.Context) (<-chan []byte, func()) {
	return s.Broker.Subscribe(ctx, MessagesTopic)
}

// Snapshot is the payload subscribers receive: the current list, newest first.
func (s *MessageService) Snapshot(ctx context.Context) ([]byte, error) {
	list, err := s.Messages.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return json.Marshal(list)
}

func (s *MessageService) publish(ctx context.Context) {
	if s.Broker == nil {
		return
	}
	payload, err := s.Snapshot(ctx)
	if err == nil {
		err = s.Broker.Publish(ctx, MessagesTopic, payload)
	}
	if err != nil {
		applog.Error(nil, "messages.publish.fail", err, nil)
	}
}
