package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame
	CodeJoinGame
	CodeSelectGrid

	// Manual placement of a single ship on the defence grid
	CodePlaceShip

	// Randomized placement of every ship still off the grid
	CodeAutoPlace

	CodeReady
	CodeStartGame
	CodeAttack
	CodeEndGame
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	CodeOtherPlayerDisconnected
	CodeOtherPlayerReconnected
	CodeOtherPlayerGracePeriod

	// Ask the server to message the other player
	// if they want a rematch too
	CodeRematchCall

	// Sent from both players when they both want a rematch
	CodeRematchCallAccepted
	CodeRematchCallRejected
	CodeRematch

	// Players can send template texts and emojis to each other
	CodePlayerInteraction
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
