package session

// Conn is a client connection as seen by the session layer.
type Conn interface {
	ID() string
	RemoteAddr() string
	// Write sends one or more complete frames.
	Write(p []byte) error
}

// Store maps connections to logged-in users.
type Store interface {
	Bind(c Conn, userID string)
	Lookup(c Conn) (string, bool)
	// Unbind forgets c and returns the user it was bound to, if any.
	Unbind(c Conn) (string, bool)
	ConnFor(userID string) (Conn, bool)
	Online() []string
}
