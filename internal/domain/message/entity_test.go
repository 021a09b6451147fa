package message

import "testing"

func TestParseTypeAndContentsKind(t *testing.T) {
	if got, err := ParseType("VOICEMESSAGE"); err != nil || got != TypeVoiceMessage {
		t.Fatalf("expected VOICEMESSAGE, got %q (%v)", got, err)
	}
	for _, bad := range []string{"", "text", "AUDIO"} {
		if _, err := ParseType(bad); err == nil {
			t.Errorf("expected error for type %q", bad)
		}
	}

	if got, err := ParseContentsKind(""); err != nil || got != "" {
		t.Fatalf("empty contents kind must be accepted, got %q (%v)", got, err)
	}
	if got, err := ParseContentsKind("VOICE_MESSAGE"); err != nil || got != ContentsVoiceMessage {
		t.Fatalf("expected VOICE_MESSAGE, got %q (%v)", got, err)
	}
	if _, err := ParseContentsKind("voice"); err == nil {
		t.Fatal("expected error for contents kind \"voice\"")
	}
}

func TestNormalizeStatusKind(t *testing.T) {
	m := Message{Kind: StatusKind{}, Direction: DirectionInbound, Type: TypeGroupStatus}
	m.Normalize()
	if !m.IsStatusMessage || IsUnread(&m) {
		t.Fatalf("expected status message, got %+v", m)
	}

	d := Message{Kind: DirectKind{}, Direction: DirectionInbound, Type: TypeText}
	d.Normalize()
	if d.IsStatusMessage {
		t.Fatal("direct message must not become a status message")
	}
}
