package ws

const (
	// client - server
	MsgFrame = "frame"
	MsgReset = "reset"
	MsgPing  = "ping"

	// server - client
	MsgReady  = "ready"
	MsgResult = "result"
	MsgError  = "error"
)
