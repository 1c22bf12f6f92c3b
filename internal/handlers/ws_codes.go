// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Close codes for the matchmaking socket.
const (
	SessionEndedError websocket.StatusCode = 3001 // session logged out or expired while connected
	SlowConsumerError websocket.StatusCode = 3003 // client fell too far behind on events
)
