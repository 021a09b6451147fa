package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"sentinal-delivery/internal/domain/message"
	"sentinal-delivery/internal/events"
	"sentinal-delivery/internal/repository"
	sentinal_errors "sentinal-delivery/pkg/errors"
	"sentinal-delivery/pkg/logger"

	"github.com/google/uuid"
)

type recordingPublisher struct {
	mu        sync.Mutex
	envelopes []events.Envelope
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, env events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envelopes = append(p.envelopes, env)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.envelopes)
}

var fixedNow = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*MessageStateService, *repository.MemoryMessageStateRepository, *recordingPublisher) {
	t.Helper()
	repo := repository.NewMemoryMessageStateRepository()
	pub := &recordingPublisher{}
	svc := NewMessageStateService(repo, pub, message.DefaultSettings(), logger.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, pub
}

func mustCreate(t *testing.T, svc *MessageStateService, m message.Message) message.Message {
	t.Helper()
	created, err := svc.Create(context.Background(), m)
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	return created
}

func outboundText(kind message.Kind, state message.State) message.Message {
	posted := fixedNow.Add(-time.Minute)
	return message.Message{
		Kind:      kind,
		Direction: message.DirectionOutbound,
		Type:      message.TypeText,
		State:     state.Ptr(),
		CreatedAt: fixedNow.Add(-time.Minute),
		PostedAt:  &posted,
	}
}

func TestApplyReceiptDeliversSendingMessage(t *testing.T) {
	svc, repo, pub := newTestService(t)
	m := mustCreate(t, svc, outboundText(message.DirectKind{Identity: "ECHOECHO"}, message.StateSending))

	updated, err := svc.ApplyReceipt(context.Background(), m.ID, message.ReceiptMsgReceived)
	if err != nil {
		t.Fatalf("ApplyReceipt failed: %v", err)
	}
	if updated.State == nil || *updated.State != message.StateDelivered {
		t.Fatalf("expected delivered, got %v", updated.State)
	}

	stored, _ := repo.GetByID(context.Background(), m.ID)
	if *stored.State != message.StateDelivered {
		t.Fatalf("stored state = %s", *stored.State)
	}

	if pub.count() != 1 {
		t.Fatalf("expected 1 event, got %d", pub.count())
	}
	env := pub.envelopes[0]
	if env.EventType != events.EventTypeMessageStateChanged || env.Conversation != "direct:ECHOECHO" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	var payload events.StateChangedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.From == nil || *payload.From != "SENDING" || payload.To != "DELIVERED" || payload.Receipt != "received" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestApplyReceiptUnsupportedCode(t *testing.T) {
	svc, repo, pub := newTestService(t)
	m := mustCreate(t, svc, outboundText(message.DirectKind{}, message.StateSent))

	_, err := svc.ApplyReceipt(context.Background(), m.ID, message.ReceiptMsgConsumed)
	if !errors.Is(err, sentinal_errors.ErrUnsupportedReceipt) {
		t.Fatalf("expected ErrUnsupportedReceipt, got %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), m.ID)
	if *stored.State != message.StateSent || stored.ModifiedAt != nil {
		t.Fatal("unsupported receipt must not change the message")
	}
	if pub.count() != 0 {
		t.Fatal("unsupported receipt must not publish")
	}
}

func TestApplyReceiptRejectedTransitionSkipsWrite(t *testing.T) {
	svc, repo, pub := newTestService(t)
	m := mustCreate(t, svc, outboundText(message.DirectKind{}, message.StateRead))

	_, err := svc.ApplyReceipt(context.Background(), m.ID, message.ReceiptMsgReceived)
	if !errors.Is(err, sentinal_errors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), m.ID)
	if *stored.State != message.StateRead || stored.ModifiedAt != nil {
		t.Fatalf("state changed to %s", *stored.State)
	}
	if pub.count() != 0 {
		t.Fatal("rejected transition must not publish")
	}
}

func TestApplyReceiptNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.ApplyReceipt(context.Background(), uuid.New(), message.ReceiptMsgRead)
	if !errors.Is(err, sentinal_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdvanceStateGroupKeyMismatchIsPermanent(t *testing.T) {
	svc, _, _ := newTestService(t)
	m := mustCreate(t, svc, outboundText(message.GroupKind{GroupID: uuid.New()}, message.StateFsKeyMismatch))

	for _, to := range []message.State{message.StatePending, message.StateSending} {
		if _, err := svc.AdvanceState(context.Background(), m.ID, to); !errors.Is(err, sentinal_errors.ErrInvalidTransition) {
			t.Fatalf("FsKeyMismatch -> %s: expected ErrInvalidTransition, got %v", to, err)
		}
	}

	direct := mustCreate(t, svc, outboundText(message.DirectKind{}, message.StateFsKeyMismatch))
	if _, err := svc.AdvanceState(context.Background(), direct.ID, message.StatePending); err != nil {
		t.Fatalf("direct message should retry after key mismatch: %v", err)
	}
}

func TestAdvanceStatePipeline(t *testing.T) {
	svc, _, pub := newTestService(t)
	m := mustCreate(t, svc, outboundText(message.DirectKind{}, message.StatePending))

	for _, to := range []message.State{message.StateUploading, message.StateSending, message.StateSent} {
		if _, err := svc.AdvanceState(context.Background(), m.ID, to); err != nil {
			t.Fatalf("advance to %s: %v", to, err)
		}
	}
	if pub.count() != 3 {
		t.Fatalf("expected 3 events, got %d", pub.count())
	}
	if _, err := svc.AdvanceState(context.Background(), m.ID, message.State("BOGUS")); !errors.Is(err, sentinal_errors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAcknowledgeAndDecline(t *testing.T) {
	svc, _, _ := newTestService(t)
	inbound := mustCreate(t, svc, message.Message{
		Kind:      message.DirectKind{Identity: "ABCD1234"},
		Direction: message.DirectionInbound,
		Type:      message.TypeText,
	})

	acked, err := svc.Acknowledge(context.Background(), inbound.ID)
	if err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}
	if *acked.State != message.StateUserAck {
		t.Fatalf("expected USERACK, got %s", *acked.State)
	}

	if _, err := svc.Acknowledge(context.Background(), inbound.ID); !errors.Is(err, sentinal_errors.ErrNotAllowed) {
		t.Fatalf("second acknowledge: expected ErrNotAllowed, got %v", err)
	}

	declined, err := svc.Decline(context.Background(), inbound.ID)
	if err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if *declined.State != message.StateUserDec {
		t.Fatalf("expected USERDEC, got %s", *declined.State)
	}
}

func TestAcknowledgeRejectedForDistributionList(t *testing.T) {
	svc, _, _ := newTestService(t)
	m := mustCreate(t, svc, message.Message{
		Kind:      message.DistributionListKind{ListID: uuid.New()},
		Direction: message.DirectionInbound,
		Type:      message.TypeText,
	})
	if _, err := svc.Acknowledge(context.Background(), m.ID); !errors.Is(err, sentinal_errors.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
}

func TestMarkConsumed(t *testing.T) {
	svc, _, _ := newTestService(t)
	voice := mustCreate(t, svc, message.Message{
		Kind:         message.DirectKind{},
		Direction:    message.DirectionInbound,
		Type:         message.TypeVoiceMessage,
		ContentsKind: message.ContentsVoiceMessage,
	})

	consumed, err := svc.MarkConsumed(context.Background(), voice.ID)
	if err != nil {
		t.Fatalf("MarkConsumed failed: %v", err)
	}
	if *consumed.State != message.StateConsumed {
		t.Fatalf("expected CONSUMED, got %s", *consumed.State)
	}
	if _, err := svc.MarkConsumed(context.Background(), voice.ID); !errors.Is(err, sentinal_errors.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed on second consume, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	svc, _, pub := newTestService(t)
	m := mustCreate(t, svc, message.Message{
		Kind:      message.GroupKind{GroupID: uuid.New()},
		Direction: message.DirectionInbound,
		Type:      message.TypeText,
	})

	read, err := svc.MarkRead(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if !read.IsRead {
		t.Fatal("expected message to be read")
	}
	if pub.envelopes[0].EventType != events.EventTypeMessageRead {
		t.Fatalf("unexpected event %s", pub.envelopes[0].EventType)
	}
	if _, err := svc.MarkRead(context.Background(), m.ID); !errors.Is(err, sentinal_errors.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
}

func TestDeleteRemotely(t *testing.T) {
	svc, repo, _ := newTestService(t)
	m := mustCreate(t, svc, outboundText(message.GroupKind{GroupID: uuid.New()}, message.StateSent))

	if _, err := svc.DeleteRemotely(context.Background(), m.ID); err != nil {
		t.Fatalf("DeleteRemotely failed: %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), m.ID)
	if !stored.IsDeleted {
		t.Fatal("expected message to be deleted")
	}
	if _, err := svc.DeleteRemotely(context.Background(), m.ID); !errors.Is(err, sentinal_errors.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed for deleted message, got %v", err)
	}

	old := outboundText(message.DirectKind{}, message.StateSent)
	old.CreatedAt = fixedNow.Add(-message.DefaultRemoteDeleteMaxAge - time.Second)
	old = mustCreate(t, svc, old)
	if _, err := svc.DeleteRemotely(context.Background(), old.ID); !errors.Is(err, sentinal_errors.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed for old message, got %v", err)
	}
}

func TestCapabilitiesAndShouldSendReceipt(t *testing.T) {
	svc, _, _ := newTestService(t)
	m := mustCreate(t, svc, message.Message{
		Kind:      message.DirectKind{},
		Direction: message.DirectionInbound,
		Type:      message.TypeText,
		Flags:     message.FlagNoDeliveryReceipts,
	})

	caps, err := svc.Capabilities(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("Capabilities failed: %v", err)
	}
	if !caps.CanAcknowledge || !caps.CanMarkRead || !caps.IsUnread || caps.CanDeleteRemote {
		t.Fatalf("unexpected capabilities %+v", caps)
	}

	send, err := svc.ShouldSendReceipt(context.Background(), m.ID, message.ReceiptMsgReceived)
	if err != nil {
		t.Fatalf("ShouldSendReceipt failed: %v", err)
	}
	if send {
		t.Fatal("receipts must not be sent when the sender opted out")
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	svc, repo, pub := newTestService(t)
	pub.err = errors.New("redis down")
	m := mustCreate(t, svc, outboundText(message.DirectKind{}, message.StateSending))

	if _, err := svc.AdvanceState(context.Background(), m.ID, message.StateSent); err != nil {
		t.Fatalf("AdvanceState failed: %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), m.ID)
	if *stored.State != message.StateSent {
		t.Fatalf("expected SENT, got %s", *stored.State)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Create(context.Background(), message.Message{Direction: message.DirectionInbound, Type: message.TypeText}); !errors.Is(err, sentinal_errors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without kind, got %v", err)
	}
	bad := message.State("NOPE")
	if _, err := svc.Create(context.Background(), message.Message{Kind: message.StatusKind{}, Direction: message.DirectionInbound, Type: message.TypeText, State: &bad}); !errors.Is(err, sentinal_errors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown state, got %v", err)
	}

	invalid := map[string]message.Message{
		"lowercase type":    {Kind: message.DirectKind{}, Direction: message.DirectionInbound, Type: "text"},
		"unknown contents":  {Kind: message.DirectKind{}, Direction: message.DirectionInbound, Type: message.TypeVoiceMessage, ContentsKind: "voice"},
		"unknown direction": {Kind: message.DirectKind{}, Direction: "SIDEWAYS", Type: message.TypeText},
	}
	for name, m := range invalid {
		if _, err := svc.Create(context.Background(), m); !errors.Is(err, sentinal_errors.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestCreateMarksStatusKindAsStatusMessage(t *testing.T) {
	svc, repo, _ := newTestService(t)
	m := mustCreate(t, svc, message.Message{Kind: message.StatusKind{}, Direction: message.DirectionInbound, Type: message.TypeGroupStatus})

	stored, err := repo.GetByID(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !stored.IsStatusMessage {
		t.Fatal("status kind message must be stored as a status message")
	}
	caps, err := svc.Capabilities(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("Capabilities failed: %v", err)
	}
	if caps.IsUnread {
		t.Fatalf("status messages are never unread: %+v", caps)
	}
}

func TestConcurrentReceiptsApplyOnce(t *testing.T) {
	svc, _, pub := newTestService(t)
	m := mustCreate(t, svc, outboundText(message.DirectKind{}, message.StateSent))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ApplyReceipt(context.Background(), m.ID, message.ReceiptMsgRead)
		}()
	}
	wg.Wait()

	if pub.count() != 1 {
		t.Fatalf("expected exactly one state change, got %d", pub.count())
	}
}
