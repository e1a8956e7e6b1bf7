package protocol

import "testing"

func TestParse(t *testing.T) {
	m := Parse("SEND_MESSAGE#110001#120001#see you at 9#room 2")

	if m.Command != CmdSendMessage {
		t.Fatalf("unexpected command %q", m.Command)
	}
	if m.Len() != 5 {
		t.Fatalf("expected 5 fields, got %d", m.Len())
	}
	if m.Field(1) != "110001" || m.Field(9) != "" {
		t.Fatalf("unexpected field access: %q %q", m.Field(1), m.Field(9))
	}
	if m.Tail(3) != "see you at 9#room 2" {
		t.Fatalf("unexpected tail %q", m.Tail(3))
	}
}

func TestParse_Empty(t *testing.T) {
	m := Parse("")
	if m.Command != "" || m.Len() != 1 {
		t.Fatalf("unexpected parse of empty line: %+v", m)
	}
}

func TestReplies(t *testing.T) {
	tests := []struct {
		name string
		got  Reply
		want string
	}{
		{"bare success", Success("LOGIN"), "LOGIN_SUCCESS\n"},
		{"success fields", Success("MAKE_APPOINTMENT", "7", "120001", "100"), "MAKE_APPOINTMENT_SUCCESS#7#120001#100\n"},
		{"fail reason", Fail("REGISTER", "", "ALREADY_EXISTS"), "REGISTER_FAIL#ALREADY_EXISTS\n"},
		{"fail bare", Fail("LOGIN", "", ""), "LOGIN_FAIL\n"},
		{"fail custom suffix", Fail("USERINFO_UPDATE", "_FAILED", "INVALID_FIELD"), "USERINFO_UPDATE_FAILED#INVALID_FIELD\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.got) != tt.want {
				t.Fatalf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
