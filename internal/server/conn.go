package server

import (
	"net"
	"sync"
	"time"

	"github.com/BruksfildServices01/clinic-server/internal/protocol"
)

type conn struct {
	id string
	nc net.Conn

	writeTimeout time.Duration
	bytesPerSec  int

	// owned by the event loop
	reasm protocol.Reassembler

	closeOnce sync.Once
}

func (c *conn) ID() string {
	return c.id
}

func (c *conn) RemoteAddr() string {
	return c.nc.RemoteAddr().String()
}

// Write sends p with a deadline that grows with its size so large image
// transfers to slow clients are not cut off.
func (c *conn) Write(p []byte) error {
	if err := c.nc.SetWriteDeadline(time.Now().Add(c.deadlineFor(len(p)))); err != nil {
		return err
	}
	_, err := c.nc.Write(p)
	if err != nil {
		c.close()
	}
	return err
}

func (c *conn) deadlineFor(n int) time.Duration {
	d := c.writeTimeout
	if c.bytesPerSec > 0 {
		d += time.Duration(n) * time.Second / time.Duration(c.bytesPerSec)
	}
	return d
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		_ = c.nc.Close()
	})
}
