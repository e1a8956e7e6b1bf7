package server

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-server/internal/protocol"
)

// HandlerFunc serves one request. A nil Reply sends nothing back.
type HandlerFunc func(ctx context.Context, req *Request) protocol.Reply

type Route struct {
	// MinFields counts the command name itself.
	MinFields int
	ReplyTag  string
	// FailSuffix overrides "_FAIL" for legacy replies.
	FailSuffix string
	// Public routes are served before login when login is required.
	Public  bool
	Handler HandlerFunc
}

// Router is built once at startup and read-only afterwards.
type Router struct {
	routes map[protocol.Command]Route
}

func NewRouter() *Router {
	return &Router{routes: make(map[protocol.Command]Route)}
}

func (r *Router) Handle(cmd protocol.Command, route Route) {
	if route.Handler == nil {
		panic(fmt.Sprintf("router: nil handler for %s", cmd))
	}
	if _, dup := r.routes[cmd]; dup {
		panic(fmt.Sprintf("router: duplicate route %s", cmd))
	}
	if route.ReplyTag == "" {
		route.ReplyTag = string(cmd)
	}
	r.routes[cmd] = route
}

func (r *Router) Lookup(cmd protocol.Command) (Route, bool) {
	route, ok := r.routes[cmd]
	return route, ok
}

// Missing lists vocabulary commands that have no route.
func (r *Router) Missing() []protocol.Command {
	var out []protocol.Command
	for _, cmd := range protocol.Commands {
		if _, ok := r.routes[cmd]; !ok {
			out = append(out, cmd)
		}
	}
	return out
}
