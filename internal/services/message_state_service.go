package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sentinal-delivery/internal/domain/message"
	"sentinal-delivery/internal/events"
	"sentinal-delivery/internal/repository"
	sentinal_errors "sentinal-delivery/pkg/errors"
	"sentinal-delivery/pkg/logger"

	"github.com/google/uuid"
)

// MessageStateService is the write path for message delivery state. Every
// state write happens inside a repository transaction after the transition
// rules have accepted it; rejected transitions leave the row untouched.
type MessageStateService struct {
	repo      repository.MessageStateRepository
	publisher events.Publisher
	settings  message.Settings
	logger    *logger.Logger
	now       func() time.Time
}

func NewMessageStateService(repo repository.MessageStateRepository, publisher events.Publisher, settings message.Settings, l *logger.Logger) *MessageStateService {
	if l == nil {
		l = logger.NewNop()
	}
	return &MessageStateService{
		repo:      repo,
		publisher: publisher,
		settings:  settings,
		logger:    l,
		now:       time.Now,
	}
}

func (s *MessageStateService) Settings() message.Settings {
	return s.settings
}

func (s *MessageStateService) Create(ctx context.Context, m message.Message) (message.Message, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Kind == nil || (!m.IsInbound() && !m.IsOutbound()) {
		return message.Message{}, sentinal_errors.ErrInvalidInput
	}
	if !m.Type.Valid() || (m.ContentsKind != "" && !m.ContentsKind.Valid()) {
		return message.Message{}, sentinal_errors.ErrInvalidInput
	}
	if m.State != nil && !m.State.Valid() {
		return message.Message{}, sentinal_errors.ErrInvalidInput
	}
	m.Normalize()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

func (s *MessageStateService) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return s.repo.GetByID(ctx, id)
}

// Capabilities evaluates every action rule against the stored message.
func (s *MessageStateService) Capabilities(ctx context.Context, id uuid.UUID) (message.Capabilities, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return message.Capabilities{}, err
	}
	return message.Evaluate(&m, s.settings, s.now()), nil
}

// ShouldSendReceipt tells the outbound protocol layer whether a receipt of
// the given kind is due for the message.
func (s *MessageStateService) ShouldSendReceipt(ctx context.Context, id uuid.UUID, code message.ReceiptCode) (bool, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return message.CanSendDeliveryReceipt(&m, code, s.settings.GroupAckEnabled), nil
}

// ApplyReceipt applies an inbound delivery receipt. Codes without a state
// mapping return ErrUnsupportedReceipt and change nothing.
func (s *MessageStateService) ApplyReceipt(ctx context.Context, id uuid.UUID, code message.ReceiptCode) (message.Message, error) {
	to, ok := message.MapReceiptCode(code)
	if !ok {
		s.logger.WithContext(ctx).Debugf("ignoring receipt %s for message %s", code, id)
		return message.Message{}, fmt.Errorf("%w: %s", sentinal_errors.ErrUnsupportedReceipt, code)
	}
	return s.transition(ctx, id, to, transitionOpts{source: events.SourceReceipt, receipt: code.String()})
}

// AdvanceState records local send pipeline progress.
func (s *MessageStateService) AdvanceState(ctx context.Context, id uuid.UUID, to message.State) (message.Message, error) {
	if !to.Valid() {
		return message.Message{}, sentinal_errors.ErrInvalidInput
	}
	return s.transition(ctx, id, to, transitionOpts{source: events.SourcePipeline})
}

func (s *MessageStateService) Acknowledge(ctx context.Context, id uuid.UUID) (message.Message, error) {
	groupAck := s.settings.GroupAckEnabled
	return s.transition(ctx, id, message.StateUserAck, transitionOpts{
		source:        events.SourceReaction,
		allowFromNone: true,
		guard: func(m *message.Message) bool {
			return message.CanSendUserAcknowledge(m, groupAck)
		},
	})
}

func (s *MessageStateService) Decline(ctx context.Context, id uuid.UUID) (message.Message, error) {
	groupAck := s.settings.GroupAckEnabled
	return s.transition(ctx, id, message.StateUserDec, transitionOpts{
		source:        events.SourceReaction,
		allowFromNone: true,
		guard: func(m *message.Message) bool {
			return message.CanSendUserDecline(m, groupAck)
		},
	})
}

func (s *MessageStateService) MarkConsumed(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return s.transition(ctx, id, message.StateConsumed, transitionOpts{
		source:        events.SourceConsumed,
		allowFromNone: true,
		guard: func(m *message.Message) bool {
			return message.CanMarkAsConsumed(m)
		},
	})
}

func (s *MessageStateService) MarkRead(ctx context.Context, id uuid.UUID) (message.Message, error) {
	now := s.now()
	var updated message.Message
	err := s.repo.Transaction(ctx, func(repo repository.MessageStateRepository) error {
		m, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !message.CanMarkAsRead(&m) {
			return sentinal_errors.ErrNotAllowed
		}
		if err := repo.MarkRead(ctx, id, now); err != nil {
			return err
		}
		m.IsRead = true
		updated = m
		return nil
	})
	if err != nil {
		return message.Message{}, err
	}

	s.publish(ctx, events.EventTypeMessageRead, updated, now, events.MessageReadPayload{MessageID: id.String()})
	return updated, nil
}

// DeleteRemotely flags an outbound message as deleted for everyone when it
// is still within the remote deletion window.
func (s *MessageStateService) DeleteRemotely(ctx context.Context, id uuid.UUID) (message.Message, error) {
	now := s.now()
	var updated message.Message
	err := s.repo.Transaction(ctx, func(repo repository.MessageStateRepository) error {
		m, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !message.CanDeleteRemotely(&m, s.settings.RemoteDeleteMaxAge, s.settings.RemoteDeleteEnabled, now) {
			return sentinal_errors.ErrNotAllowed
		}
		if err := repo.MarkDeleted(ctx, id, now); err != nil {
			return err
		}
		m.IsDeleted = true
		updated = m
		return nil
	})
	if err != nil {
		return message.Message{}, err
	}

	s.publish(ctx, events.EventTypeMessageDeleted, updated, now, events.MessageDeletedPayload{MessageID: id.String(), Remote: true})
	return updated, nil
}

type transitionOpts struct {
	source  string
	receipt string
	// guard is the capability rule that must hold before the transition is
	// considered.
	guard func(m *message.Message) bool
	// allowFromNone lets a guarded action assign the first state of a
	// message that has none yet.
	allowFromNone bool
}

func (s *MessageStateService) transition(ctx context.Context, id uuid.UUID, to message.State, opts transitionOpts) (message.Message, error) {
	now := s.now()
	var (
		updated message.Message
		from    *message.State
	)

	err := s.repo.Transaction(ctx, func(repo repository.MessageStateRepository) error {
		m, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if opts.guard != nil && !opts.guard(&m) {
			return sentinal_errors.ErrNotAllowed
		}

		allowed := (m.State == nil && opts.allowFromNone) || message.CanTransition(&m, to)
		if !allowed {
			return fmt.Errorf("%w: %s -> %s", sentinal_errors.ErrInvalidTransition, describeState(m.State), to)
		}

		if err := repo.UpdateState(ctx, id, to, now); err != nil {
			return err
		}
		from = m.State
		m.State = to.Ptr()
		m.ModifiedAt = &now
		updated = m
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinal_errors.ErrInvalidTransition) || errors.Is(err, sentinal_errors.ErrNotAllowed) {
			s.logger.WithContext(ctx).Debugf("message %s: %v", id, err)
		}
		return message.Message{}, err
	}

	payload := events.StateChangedPayload{
		MessageID: id.String(),
		To:        to.String(),
		Source:    opts.source,
		Receipt:   opts.receipt,
	}
	if from != nil {
		f := from.String()
		payload.From = &f
	}
	s.publish(ctx, events.EventTypeMessageStateChanged, updated, now, payload)
	return updated, nil
}

// publish is best effort: the state is already committed.
func (s *MessageStateService) publish(ctx context.Context, eventType string, m message.Message, at time.Time, payload interface{}) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewEnvelope(eventType, m.ID.String(), conversationKey(m.Kind), at, payload)
	if err != nil {
		s.logger.Errorf("build %s event: %s", eventType, err)
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		s.logger.WithContext(ctx).Errorf("publish %s for message %s: %s", eventType, m.ID, err)
	}
}

func conversationKey(k message.Kind) string {
	switch v := k.(type) {
	case message.DirectKind:
		if v.Identity == "" {
			return ""
		}
		return "direct:" + v.Identity
	case message.GroupKind:
		return "group:" + v.GroupID.String()
	case message.DistributionListKind:
		return "list:" + v.ListID.String()
	}
	return ""
}

func describeState(s *message.State) string {
	if s == nil {
		return "<none>"
	}
	return s.String()
}
