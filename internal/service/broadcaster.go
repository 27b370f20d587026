package service

// Broadcaster pushes room events over whatever transport is wired in.
// Defined here so services do not import the websocket package.
type Broadcaster interface {
	BroadcastToHost(roomCode string, msgType string, payload interface{})
	BroadcastToPlayer(roomCode, playerID string, msgType string, payload interface{})
	BroadcastToAllPlayers(roomCode string, msgType string, payload interface{})
	DisconnectRoom(roomCode string)
}

// noopBroadcaster is used until a transport is attached; the engine is
// fully functional over plain polling.
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToHost(string, string, interface{})           {}
func (noopBroadcaster) BroadcastToPlayer(string, string, string, interface{}) {}
func (noopBroadcaster) BroadcastToAllPlayers(string, string, interface{})     {}
func (noopBroadcaster) DisconnectRoom(string)                                 {}
