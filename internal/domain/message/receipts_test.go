package message

import "testing"

func TestMapReceiptCode(t *testing.T) {
	cases := []struct {
		code   ReceiptCode
		want   State
		wantOK bool
	}{
		{ReceiptMsgReceived, StateDelivered, true},
		{ReceiptMsgRead, StateRead, true},
		{ReceiptMsgUserAck, StateUserAck, true},
		{ReceiptMsgUserDec, StateUserDec, true},
		{ReceiptMsgConsumed, "", false},
		{ReceiptMsgReaction, "", false},
		{ReceiptCode(0x42), "", false},
	}
	for _, tc := range cases {
		got, ok := MapReceiptCode(tc.code)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("MapReceiptCode(%s) = (%q, %v), want (%q, %v)", tc.code, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestReceiptCodeString(t *testing.T) {
	if ReceiptMsgUserDec.String() != "user_dec" {
		t.Fatalf("unexpected name %q", ReceiptMsgUserDec.String())
	}
	if ReceiptCode(0x42).String() != "unknown(0x42)" {
		t.Fatalf("unexpected name %q", ReceiptCode(0x42).String())
	}
}

func TestIsReaction(t *testing.T) {
	for _, s := range AllStates() {
		want := s == StateUserAck || s == StateUserDec
		if IsReaction(s) != want {
			t.Errorf("IsReaction(%s) = %v, want %v", s, !want, want)
		}
	}
}

func TestDeliveredReceiptOnSendingDirectMessage(t *testing.T) {
	m := &Message{
		Kind:      DirectKind{Identity: "ECHOECHO"},
		Direction: DirectionOutbound,
		Type:      TypeText,
		State:     StateSending.Ptr(),
	}

	next, ok := MapReceiptCode(ReceiptMsgReceived)
	if !ok || next != StateDelivered {
		t.Fatalf("expected delivered, got %q (%v)", next, ok)
	}
	if !IsTransitionAllowed(m.State, &next, m.IsGroupMessage()) {
		t.Fatal("sending -> delivered must be allowed")
	}
}
