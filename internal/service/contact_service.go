package service

import (
	"context"
	"strings"

	"ecomarket/internal/domain"
	"ecomarket/internal/events"
	"ecomarket/internal/repository"

	"go.uber.org/zap"
)

// ContactInput is the public contact form.
type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*domain.ContactMessage, error)
	List(ctx context.Context) ([]*domain.ContactMessage, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type contactService struct {
	messages  repository.ContactMessageRepository
	publisher events.Publisher
	notify    changeNotifier
	logger    *zap.Logger
}

func NewContactService(
	messages repository.ContactMessageRepository,
	invalidator CatalogInvalidator,
	publisher events.Publisher,
	logger *zap.Logger,
) ContactService {
	notify := newChangeNotifier(invalidator, publisher, logger)
	return &contactService{
		messages:  messages,
		publisher: notify.publisher,
		notify:    notify,
		logger:    logger,
	}
}

func (s *contactService) Submit(ctx context.Context, in ContactInput) (*domain.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	if err := validateStruct(in).OrNil(); err != nil {
		return nil, err
	}

	msg := &domain.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	}
	if in.Subject != "" {
		msg.Subject = &in.Subject
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.Info("Contact message saved", zap.Int64("message_id", msg.ID))

	// A new message does not touch the catalog, so only the event goes out.
	if err := s.publisher.Publish(ctx, events.New(events.ContactReceived, msg.ID, nil)); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("event", events.ContactReceived), zap.Error(err))
	}
	return msg, nil
}

func (s *contactService) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	return s.messages.List(ctx)
}

func (s *contactService) MarkRead(ctx context.Context, id int64) error {
	if err := s.messages.MarkRead(ctx, id); err != nil {
		return err
	}
	s.notify.changed(ctx, events.MessageRead, id, nil)
	return nil
}

func (s *contactService) Delete(ctx context.Context, id int64) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Contact message deleted", zap.Int64("message_id", id))
	s.notify.changed(ctx, events.MessageDeleted, id, nil)
	return nil
}
