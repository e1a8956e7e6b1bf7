package handlers

// Relay pushes an unsolicited line to a user, wherever they are
// connected. Delivery is best-effort.
type Relay interface {
	Send(userID, payload string) bool
}
