package protocol

import (
	"reflect"
	"testing"
)

func TestReassembler_SplitAcrossChunks(t *testing.T) {
	msg := "MAKE_APPOINTMENT#110001#120001#2024-01-01\n"

	for split := 1; split < len(msg); split++ {
		var r Reassembler
		got := r.Feed([]byte(msg[:split]))
		if len(got) != 0 {
			t.Fatalf("split %d: got %v before terminator", split, got)
		}
		got = r.Feed([]byte(msg[split:]))
		want := []string{"MAKE_APPOINTMENT#110001#120001#2024-01-01"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("split %d: got %v, want %v", split, got, want)
		}
	}
}

func TestReassembler_ByteAtATime(t *testing.T) {
	msg := "LOGIN#110001#123456\n"

	var r Reassembler
	var got []string
	for i := 0; i < len(msg); i++ {
		got = append(got, r.Feed([]byte{msg[i]})...)
	}

	if !reflect.DeepEqual(got, []string{"LOGIN#110001#123456"}) {
		t.Fatalf("unexpected messages %v", got)
	}
	if r.Buffered() != 0 {
		t.Fatalf("expected empty buffer, got %d bytes", r.Buffered())
	}
}

func TestReassembler_CoalescedMessages(t *testing.T) {
	var r Reassembler
	got := r.Feed([]byte("LOGIN#110001#123456\r\nUSERINFO#110001\nGET_PAY"))

	want := []string{"LOGIN#110001#123456", "USERINFO#110001"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if r.Buffered() != len("GET_PAY") {
		t.Fatalf("expected partial message buffered, got %d bytes", r.Buffered())
	}

	got = r.Feed([]byte("MENT_ITEMS#110001\n"))
	if !reflect.DeepEqual(got, []string{"GET_PAYMENT_ITEMS#110001"}) {
		t.Fatalf("unexpected tail message %v", got)
	}
}

func TestReassembler_EmptyLines(t *testing.T) {
	var r Reassembler
	got := r.Feed([]byte("\n  \nLOGIN#1#2\n"))

	want := []string{"", "", "LOGIN#1#2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}
