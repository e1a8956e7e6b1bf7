package server

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/session"
)

type testClient struct {
	t  *testing.T
	nc net.Conn
	r  *bufio.Reader
}

func (c *testClient) send(s string) {
	c.t.Helper()
	if _, err := c.nc.Write([]byte(s)); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

func (c *testClient) readLine() string {
	c.t.Helper()
	_ = c.nc.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.r.ReadString('\n')
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	return strings.TrimRight(line, "\n")
}

func startServer(t *testing.T, opts Options, router *Router, sessions session.Store) (*Server, func() *testClient) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := New(opts, router, sessions, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(3 * time.Second):
			t.Error("server did not stop")
		}
	})

	dial := func() *testClient {
		nc, err := net.Dial("tcp", ln.Addr().String())
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		t.Cleanup(func() { _ = nc.Close() })
		return &testClient{t: t, nc: nc, r: bufio.NewReader(nc)}
	}
	return srv, dial
}

func testRouter(sessions session.Store) *Router {
	r := NewRouter()
	r.Handle(protocol.CmdLogin, Route{
		MinFields: 3,
		Public:    true,
		Handler: func(ctx context.Context, req *Request) protocol.Reply {
			sessions.Bind(req.Conn, req.Msg.Field(1))
			return req.OK()
		},
	})
	r.Handle(protocol.CmdUserInfo, Route{
		MinFields: 2,
		Handler: func(ctx context.Context, req *Request) protocol.Reply {
			if _, ok := ctx.Deadline(); !ok {
				return req.Fail("NO_DEADLINE")
			}
			return req.OK(req.Msg.Field(1), req.UserID)
		},
	})
	r.Handle(protocol.CmdGetImage, Route{
		MinFields: 2,
		Handler: func(ctx context.Context, req *Request) protocol.Reply {
			panic("boom")
		},
	})
	r.Handle(protocol.CmdVideoCallEnd, Route{
		MinFields: 3,
		Handler: func(ctx context.Context, req *Request) protocol.Reply {
			return nil
		},
	})
	return r
}

func defaultOptions() Options {
	return Options{
		HandlerTimeout:        time.Second,
		WriteTimeout:          time.Second,
		LargeWriteBytesPerSec: 1 << 20,
	}
}

func TestServer_DispatchAndFraming(t *testing.T) {
	tbl := session.NewTable()
	_, dial := startServer(t, defaultOptions(), testRouter(tbl), tbl)
	c := dial()

	// one message split over two writes, then two messages in one write
	c.send("USERI")
	time.Sleep(20 * time.Millisecond)
	c.send("NFO#110001\n")
	if got := c.readLine(); got != "USERINFO_SUCCESS#110001#" {
		t.Fatalf("unexpected reply %q", got)
	}

	c.send("USERINFO#1\nUSERINFO#2\n")
	if got := c.readLine(); got != "USERINFO_SUCCESS#1#" {
		t.Fatalf("unexpected first reply %q", got)
	}
	if got := c.readLine(); got != "USERINFO_SUCCESS#2#" {
		t.Fatalf("unexpected second reply %q", got)
	}
}

func TestServer_InvalidFormatAndUnknown(t *testing.T) {
	tbl := session.NewTable()
	_, dial := startServer(t, defaultOptions(), testRouter(tbl), tbl)
	c := dial()

	c.send("LOGIN#110001\n")
	if got := c.readLine(); got != "LOGIN_FAIL#INVALID_FORMAT" {
		t.Fatalf("unexpected reply %q", got)
	}

	// dropped without reply; the next reply belongs to USERINFO
	c.send("NOT_A_COMMAND#1\n\nUSERINFO#7\n")
	if got := c.readLine(); got != "USERINFO_SUCCESS#7#" {
		t.Fatalf("unknown command was answered: %q", got)
	}
}

func TestServer_ReplyUnknownCommands(t *testing.T) {
	tbl := session.NewTable()
	opts := defaultOptions()
	opts.ReplyUnknownCommands = true
	_, dial := startServer(t, opts, testRouter(tbl), tbl)
	c := dial()

	c.send("FLY#1\n")
	if got := c.readLine(); got != "UNKNOWN_COMMAND#FLY" {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestServer_RequireLogin(t *testing.T) {
	tbl := session.NewTable()
	opts := defaultOptions()
	opts.RequireLogin = true
	_, dial := startServer(t, opts, testRouter(tbl), tbl)
	c := dial()

	c.send("USERINFO#110001\n")
	if got := c.readLine(); got != "USERINFO_FAIL#NOT_AUTHENTICATED" {
		t.Fatalf("unexpected reply %q", got)
	}

	c.send("LOGIN#110001#123456\nUSERINFO#110001\n")
	if got := c.readLine(); got != "LOGIN_SUCCESS" {
		t.Fatalf("unexpected login reply %q", got)
	}
	if got := c.readLine(); got != "USERINFO_SUCCESS#110001#110001" {
		t.Fatalf("expected bound user on request, got %q", got)
	}
}

func TestServer_PanicRecovered(t *testing.T) {
	tbl := session.NewTable()
	_, dial := startServer(t, defaultOptions(), testRouter(tbl), tbl)
	c := dial()

	c.send("GET_IMAGE#x.png\n")
	if got := c.readLine(); got != "GET_IMAGE_FAIL#SERVER_ERROR" {
		t.Fatalf("unexpected reply %q", got)
	}

	// connection survives
	c.send("USERINFO#1\n")
	if got := c.readLine(); got != "USERINFO_SUCCESS#1#" {
		t.Fatalf("unexpected reply after panic %q", got)
	}
}

func TestServer_DisconnectUnbinds(t *testing.T) {
	tbl := session.NewTable()
	srv, dial := startServer(t, defaultOptions(), testRouter(tbl), tbl)
	c := dial()

	c.send("LOGIN#120001#123456\n")
	c.readLine()
	if _, ok := tbl.ConnFor("120001"); !ok {
		t.Fatal("expected session bound after login")
	}

	_ = c.nc.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := tbl.ConnFor("120001"); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if n := srv.ConnCount(); n != 0 {
		t.Fatalf("expected no tracked connections, got %d", n)
	}
}

func TestServer_PostRunsOnLoop(t *testing.T) {
	tbl := session.NewTable()
	srv, dial := startServer(t, defaultOptions(), testRouter(tbl), tbl)
	c := dial()

	c.send("LOGIN#110001#123456\n")
	c.readLine()

	srv.Post(func() {
		conn, ok := tbl.ConnFor("110001")
		if ok {
			_ = conn.Write([]byte("PRESCRIPTION_UPDATED#3\n"))
		}
	})

	if got := c.readLine(); got != "PRESCRIPTION_UPDATED#3" {
		t.Fatalf("unexpected push %q", got)
	}
}

func TestRouter_Missing(t *testing.T) {
	r := testRouter(session.NewTable())
	missing := r.Missing()
	if len(missing) != len(protocol.Commands)-4 {
		t.Fatalf("expected %d missing commands, got %d", len(protocol.Commands)-4, len(missing))
	}
}

func TestConn_DeadlineGrowsWithSize(t *testing.T) {
	c := &conn{writeTimeout: time.Second, bytesPerSec: 1000}
	if got := c.deadlineFor(5000); got != 6*time.Second {
		t.Fatalf("expected 6s, got %s", got)
	}
}
