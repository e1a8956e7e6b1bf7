package handlers_test

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-server/internal/audit"
	"github.com/BruksfildServices01/clinic-server/internal/contentstore"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/relay"
	"github.com/BruksfildServices01/clinic-server/internal/routes"
	"github.com/BruksfildServices01/clinic-server/internal/server"
	"github.com/BruksfildServices01/clinic-server/internal/session"
	"github.com/BruksfildServices01/clinic-server/internal/testutil"
)

// ======================================================
// HARNESS
// ======================================================

type client struct {
	t  *testing.T
	nc net.Conn
	r  *bufio.Reader
}

func (c *client) send(line string) {
	c.t.Helper()
	if _, err := c.nc.Write([]byte(line + "\n")); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

func (c *client) read() string {
	c.t.Helper()
	_ = c.nc.SetReadDeadline(time.Now().Add(3 * time.Second))
	line, err := c.r.ReadString('\n')
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	return strings.TrimRight(line, "\n")
}

func (c *client) call(line string) string {
	c.t.Helper()
	c.send(line)
	return c.read()
}

type harness struct {
	db   *gorm.DB
	dial func() *client
}

func start(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewSeededDB(t)
	store, err := contentstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	sessions := session.NewTable()
	router := routes.Commands(routes.Deps{
		DB:       db,
		Config:   testutil.Config(),
		Sessions: sessions,
		Relay:    relay.NewBroadcaster(sessions, zerolog.Nop()),
		Store:    store,
		Audit:    audit.Discard,
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := server.New(server.Options{
		HandlerTimeout:        5 * time.Second,
		WriteTimeout:          2 * time.Second,
		LargeWriteBytesPerSec: 1 << 20,
	}, router, sessions, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = srv.Serve(ctx, ln)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &harness{
		db: db,
		dial: func() *client {
			nc, err := net.Dial("tcp", ln.Addr().String())
			if err != nil {
				t.Fatalf("dial: %v", err)
			}
			t.Cleanup(func() { _ = nc.Close() })
			return &client{t: t, nc: nc, r: bufio.NewReader(nc)}
		},
	}
}

func (h *harness) login(t *testing.T, id string) *client {
	t.Helper()
	c := h.dial()
	if got := c.call("LOGIN#" + id + "#123456"); got != "LOGIN_SUCCESS" {
		t.Fatalf("login %s: %q", id, got)
	}
	return c
}

func fields(line string) []string {
	return strings.Split(line, "#")
}

// ======================================================
// SCENARIOS
// ======================================================

func TestLogin(t *testing.T) {
	h := start(t)
	c := h.dial()

	if got := c.call("LOGIN#110001#nope"); got != "LOGIN_FAIL" {
		t.Fatalf("expected bare LOGIN_FAIL, got %q", got)
	}
	if got := c.call("LOGIN#110001"); got != "LOGIN_FAIL#INVALID_FORMAT" {
		t.Fatalf("expected INVALID_FORMAT, got %q", got)
	}
	if got := c.call("LOGIN#110001#123456"); got != "LOGIN_SUCCESS" {
		t.Fatalf("expected LOGIN_SUCCESS, got %q", got)
	}
}

func TestLogin_PasswordWithSeparator(t *testing.T) {
	h := start(t)
	if err := h.db.Model(&models.User{}).Where("id = ?", "110002").Update("password", "p#ss#1").Error; err != nil {
		t.Fatalf("set password: %v", err)
	}
	c := h.dial()

	if got := c.call("LOGIN#110002#p"); got != "LOGIN_FAIL" {
		t.Fatalf("expected truncated password to fail, got %q", got)
	}
	if got := c.call("LOGIN#110002#p#ss#1"); got != "LOGIN_SUCCESS" {
		t.Fatalf("expected LOGIN_SUCCESS, got %q", got)
	}
}

func TestRegisterAndUserInfo(t *testing.T) {
	h := start(t)
	c := h.dial()

	got := c.call("REGISTER#newdoc#pw#医生#Dr New#1980-01-01##13811112222#new@clinic.test")
	if got != "REGISTER_SUCCESS#120004" {
		t.Fatalf("register: %q", got)
	}

	got = c.call("USERINFO#120004")
	f := fields(got)
	if f[0] != "USERINFO_SUCCESS" {
		t.Fatalf("userinfo: %q", got)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(strings.Join(f[1:], "#")), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info["name"] != "Dr New" || info["department"] != "General" || info["phone"] != "13811112222" {
		t.Fatalf("unexpected info: %v", info)
	}

	if got := c.call("USERINFO#999999"); got != "USERINFO_FAIL#USER_NOT_FOUND" {
		t.Fatalf("expected USER_NOT_FOUND, got %q", got)
	}
	if got := c.call("UPDATE_USERINFO#{not json"); got != "USERINFO_UPDATE_FAILED#INVALID_FORMAT" {
		t.Fatalf("expected legacy failure tag, got %q", got)
	}
	if got := c.call(`UPDATE_USERINFO#{"id":"120004","gender":"F"}`); got != "USERINFO_UPDATE_SUCCESS" {
		t.Fatalf("update: %q", got)
	}
}

func TestAppointmentPaymentFlow(t *testing.T) {
	h := start(t)
	c := h.dial()

	got := c.call("MAKE_APPOINTMENT#110001#120001#2024-01-01")
	f := fields(got)
	if len(f) != 4 || f[0] != "MAKE_APPOINTMENT_SUCCESS" || f[2] != "120001" || f[3] != "100" {
		t.Fatalf("make appointment: %q", got)
	}
	ref := "APPT_" + f[1]

	got = c.call("GET_PAYMENT_ITEMS#110001")
	if !strings.HasPrefix(got, "GET_PAYMENT_ITEMS_SUCCESS#") {
		t.Fatalf("items: %q", got)
	}
	var items []struct {
		Amount        float64 `json:"amount"`
		Status        string  `json:"status"`
		ApplicationID string  `json:"application_id"`
	}
	if err := json.Unmarshal([]byte(strings.TrimPrefix(got, "GET_PAYMENT_ITEMS_SUCCESS#")), &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 1 || items[0].ApplicationID != ref || items[0].Amount != 100 || items[0].Status != "pending" {
		t.Fatalf("unexpected items: %+v", items)
	}

	pay := fmt.Sprintf(`PROCESS_PAYMENT#{"patient_id":"110001","application_id":"%s","payment_method":"online"}`, ref)
	got = c.call(pay)
	if f := fields(got); f[0] != "PROCESS_PAYMENT_SUCCESS" || len(f) != 2 || f[1] == "" {
		t.Fatalf("pay: %q", got)
	}

	var ap models.Appointment
	h.db.First(&ap, "id = ?", strings.TrimPrefix(ref, "APPT_"))
	if ap.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %s", ap.Status)
	}

	if got := c.call(pay); got != "PROCESS_PAYMENT_FAIL#PAYMENT_ITEM_NOT_FOUND" {
		t.Fatalf("expected PAYMENT_ITEM_NOT_FOUND on replay, got %q", got)
	}

	got = c.call("GET_PAYMENT_RECORDS#110001")
	var recs []map[string]any
	if err := json.Unmarshal([]byte(strings.TrimPrefix(got, "GET_PAYMENT_RECORDS_SUCCESS#")), &recs); err != nil || len(recs) != 1 {
		t.Fatalf("records: %q %v", got, err)
	}
}

func TestMakeAppointment_Failures(t *testing.T) {
	h := start(t)
	c := h.dial()

	tests := []struct {
		line string
		want string
	}{
		{"MAKE_APPOINTMENT#110001#120001", "MAKE_APPOINTMENT_FAIL#INVALID_FORMAT"},
		{"MAKE_APPOINTMENT#110001#129999#2024-01-01", "MAKE_APPOINTMENT_FAIL#DOCTOR_NOT_FOUND"},
		{"MAKE_APPOINTMENT#119999#120001#2024-01-01", "MAKE_APPOINTMENT_FAIL#PATIENT_NOT_FOUND"},
		{"MAKE_APPOINTMENT#110001#120001#someday", "MAKE_APPOINTMENT_FAIL#INVALID_DATE"},
		{"PROCESS_APPOINTMENT#abc#120001#confirmed", "PROCESS_APPOINTMENT_FAIL#INVALID_FORMAT"},
	}
	for _, tt := range tests {
		if got := c.call(tt.line); got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.line, tt.want, got)
		}
	}
}

func TestPrescriptionPushesToPatient(t *testing.T) {
	h := start(t)
	doctor := h.login(t, "120001")
	patient := h.login(t, "110001")

	got := doctor.call("SUBMIT_PRESCRIPTION#110001#120001#Amoxicillin Capsules#0.5g#oral#tid#2")
	f := fields(got)
	if f[0] != "PRESCRIPTION_SUBMIT_SUCCESS" {
		t.Fatalf("submit: %q", got)
	}

	if push := patient.read(); push != "PRESCRIPTION_UPDATED#"+f[1] {
		t.Fatalf("expected push, got %q", push)
	}

	if got := doctor.call("SUBMIT_PRESCRIPTION#110001#120001#Amoxicillin Capsules#0.5g#oral#tid#0"); got != "PRESCRIPTION_SUBMIT_FAIL#INVALID_QUANTITY" {
		t.Fatalf("expected INVALID_QUANTITY, got %q", got)
	}

	var item models.PaymentItem
	h.db.Where("application_id = ?", "PRESC_"+f[1]).First(&item)
	if item.Amount != 37 {
		t.Fatalf("expected amount 37, got %v", item.Amount)
	}
}

func TestChatRelay(t *testing.T) {
	h := start(t)
	patient := h.login(t, "110001")
	doctor := h.login(t, "120001")

	got := patient.call("SEND_MESSAGE#110001#120001#dose #2 ok?")
	if f := fields(got); f[0] != "SEND_MESSAGE_SUCCESS" || len(f) != 3 {
		t.Fatalf("send: %q", got)
	}

	push := doctor.read()
	if !strings.HasPrefix(push, "NEW_MESSAGE#") {
		t.Fatalf("expected NEW_MESSAGE, got %q", push)
	}
	var msg struct {
		SenderID string `json:"sender_id"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal([]byte(strings.TrimPrefix(push, "NEW_MESSAGE#")), &msg); err != nil {
		t.Fatalf("decode push: %v", err)
	}
	if msg.SenderID != "110001" || msg.Content != "dose #2 ok?" {
		t.Fatalf("unexpected push: %+v", msg)
	}

	// offline receiver: stored, no error
	if got := patient.call("SEND_MESSAGE#110001#120002#hello"); !strings.HasPrefix(got, "SEND_MESSAGE_SUCCESS#") {
		t.Fatalf("offline send: %q", got)
	}
	got = patient.call("GET_CHAT_HISTORY#110001#120002")
	if !strings.Contains(got, `"content":"hello"`) {
		t.Fatalf("history: %q", got)
	}

	got = doctor.call("GET_CONTACT_LIST#120001")
	if !strings.Contains(got, `"id":"110001"`) || !strings.Contains(got, `"online":true`) {
		t.Fatalf("contacts: %q", got)
	}
}

func TestImageRoundTrip(t *testing.T) {
	h := start(t)
	c := h.dial()

	img := testutil.PNGBase64(t)
	got := c.call("SEND_IMAGE#110001#120001#photo.png#" + img)
	f := fields(got)
	if f[0] != "SEND_IMAGE_SUCCESS" || len(f) != 4 {
		t.Fatalf("send image: %q", got)
	}
	stored := f[3]

	header := c.call("GET_IMAGE#" + stored)
	if header != fmt.Sprintf("GET_IMAGE_SUCCESS#%s#%d", stored, len(img)) {
		t.Fatalf("header: %q", header)
	}
	payload := c.read()
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil || payload != img {
		t.Fatalf("payload mismatch")
	}
	if end := c.read(); end != "GET_IMAGE_END" {
		t.Fatalf("end marker: %q", end)
	}

	if got := c.call("GET_IMAGE#nope.png"); got != "GET_IMAGE_FAIL#IMAGE_NOT_FOUND" {
		t.Fatalf("expected IMAGE_NOT_FOUND, got %q", got)
	}
	if got := c.call("SEND_IMAGE#110001#120001#x.png#bm9wZQ=="); got != "SEND_IMAGE_FAIL#INVALID_IMAGE" {
		t.Fatalf("expected INVALID_IMAGE, got %q", got)
	}
}

func TestVideoCallRelay(t *testing.T) {
	h := start(t)
	caller := h.login(t, "110001")
	callee := h.login(t, "120001")

	caller.send("VIDEO_CALL_REQUEST#110001#120001")
	if got := callee.read(); got != "VIDEO_CALL_REQUEST#110001#120001" {
		t.Fatalf("callee got %q", got)
	}

	callee.send("VIDEO_CALL_RESPONSE#120001#110001#accepted")
	if got := caller.read(); got != "VIDEO_CALL_RESPONSE#120001#110001#accepted" {
		t.Fatalf("caller got %q", got)
	}

	// no reply to the sender: the next line is the next request's reply
	caller.send("VIDEO_CALL_END#110001#120001")
	if got := caller.call("GET_PAYMENT_ITEMS#110001"); got != "GET_PAYMENT_ITEMS_SUCCESS#[]" {
		t.Fatalf("expected no video-call reply, got %q", got)
	}
	if got := callee.read(); got != "VIDEO_CALL_END#110001#120001" {
		t.Fatalf("callee got %q", got)
	}
}

func TestUnknownCommandIsDropped(t *testing.T) {
	h := start(t)
	c := h.dial()

	c.send("FROBNICATE#1")
	if got := c.call("GET_PAYMENT_ITEMS#110003"); got != "GET_PAYMENT_ITEMS_SUCCESS#[]" {
		t.Fatalf("expected unknown command to be dropped, got %q", got)
	}
}
