package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/session"
)

const readBufferSize = 4096

type Options struct {
	ListenAddr            string
	HandlerTimeout        time.Duration
	WriteTimeout          time.Duration
	LargeWriteBytesPerSec int
	RequireLogin          bool
	ReplyUnknownCommands  bool
}

// Server accepts TCP clients and runs every handler and every connection
// write on a single event-loop goroutine. Reader goroutines only move
// bytes from sockets onto the loop.
type Server struct {
	opts     Options
	router   *Router
	sessions session.Store
	log      zerolog.Logger

	events   chan func()
	stopping chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	readers sync.WaitGroup

	// owned by the loop
	conns map[string]*conn
}

func New(opts Options, router *Router, sessions session.Store, log zerolog.Logger) *Server {
	return &Server{
		opts:     opts,
		router:   router,
		sessions: sessions,
		log:      log.With().Str("component", "tcp").Logger(),
		events:   make(chan func(), 256),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
		conns:    make(map[string]*conn),
	}
}

// Post queues fn to run on the event loop. It returns false once the
// loop has stopped.
func (s *Server) Post(fn func()) bool {
	select {
	case s.events <- fn:
		return true
	case <-s.done:
		return false
	}
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes the
// listener, every connection, and finally drains the loop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.loop()

	stopAccept := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stopAccept:
		}
		_ = ln.Close()
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("tcp server listening")

	var serveErr error
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				var ne net.Error
				if errors.As(err, &ne) && ne.Timeout() {
					time.Sleep(50 * time.Millisecond)
					continue
				}
				serveErr = err
			}
			break
		}
		s.accept(nc)
	}

	close(stopAccept)
	s.shutdown()
	return serveErr
}

func (s *Server) accept(nc net.Conn) {
	c := &conn{
		id:           uuid.NewString(),
		nc:           nc,
		writeTimeout: s.opts.WriteTimeout,
		bytesPerSec:  s.opts.LargeWriteBytesPerSec,
	}

	s.readers.Add(1)
	s.Post(func() {
		s.conns[c.id] = c
		s.log.Info().Str("conn", c.id).Str("remote", c.RemoteAddr()).Msg("client connected")
	})
	go s.read(c)
}

func (s *Server) read(c *conn) {
	defer s.readers.Done()

	buf := make([]byte, readBufferSize)
	for {
		n, err := c.nc.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.Post(func() { s.onData(c, chunk) })
		}
		if err != nil {
			s.Post(func() { s.onClose(c) })
			return
		}
	}
}

func (s *Server) loop() {
	defer close(s.done)
	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.stopping:
			for {
				select {
				case fn := <-s.events:
					fn()
				default:
					return
				}
			}
		}
	}
}

func (s *Server) shutdown() {
	s.Post(func() {
		for _, c := range s.conns {
			c.close()
		}
	})
	s.readers.Wait()
	s.stopOnce.Do(func() { close(s.stopping) })
	<-s.done
	s.log.Info().Msg("tcp server stopped")
}

func (s *Server) onData(c *conn, chunk []byte) {
	for _, line := range c.reasm.Feed(chunk) {
		s.dispatch(c, line)
	}
}

func (s *Server) onClose(c *conn) {
	c.close()
	delete(s.conns, c.id)

	ev := s.log.Info().Str("conn", c.id)
	if userID, ok := s.sessions.Unbind(c); ok {
		ev = ev.Str("user", userID)
	}
	ev.Msg("client disconnected")
}

func (s *Server) dispatch(c *conn, line string) {
	msg := protocol.Parse(line)

	route, ok := s.router.Lookup(msg.Command)
	if !ok {
		s.log.Debug().Str("conn", c.id).Str("cmd", string(msg.Command)).Msg("unknown command dropped")
		if s.opts.ReplyUnknownCommands && line != "" {
			s.write(c, protocol.Line("UNKNOWN_COMMAND", string(msg.Command)))
		}
		return
	}

	userID, _ := s.sessions.Lookup(c)
	req := &Request{
		Conn:   c,
		Msg:    msg,
		UserID: userID,
		Log: s.log.With().
			Str("conn", c.id).
			Str("cmd", string(msg.Command)).
			Str("user", userID).
			Logger(),
		route: route,
	}

	if msg.Len() < route.MinFields {
		s.write(c, req.Fail(apperr.InvalidFormat))
		return
	}
	if s.opts.RequireLogin && !route.Public && userID == "" {
		s.write(c, req.Fail(apperr.NotAuthenticated))
		return
	}

	start := time.Now()
	reply := s.call(route, req)
	req.Log.Debug().Dur("latency", time.Since(start)).Msg("handled")

	if reply != nil {
		s.write(c, reply)
	}
}

// call runs the handler with its own timeout, detached from the client
// connection so a disconnect cannot abort an open transaction.
func (s *Server) call(route Route, req *Request) (reply protocol.Reply) {
	ctx := context.Background()
	if s.opts.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.HandlerTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			var stack [4096]byte
			n := runtime.Stack(stack[:], false)
			req.Log.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(stack[:n])).
				Msg("panic recovered")
			reply = req.Fail(apperr.ServerError)
		}
	}()

	return route.Handler(ctx, req)
}

func (s *Server) write(c *conn, p []byte) {
	if err := c.Write(p); err != nil {
		s.log.Warn().Err(err).Str("conn", c.id).Int("bytes", len(p)).Msg("write failed")
	}
}

// ConnCount is safe to call from any goroutine.
func (s *Server) ConnCount() int {
	ch := make(chan int, 1)
	if !s.Post(func() { ch <- len(s.conns) }) {
		return 0
	}
	return <-ch
}
