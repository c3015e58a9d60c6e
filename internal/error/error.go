package error

import "fmt"

const (
	ConstErrAttackFailed = "attack operation failed"
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrPlayerNotExist(playerUuid string) error {
	return fmt.Errorf("player with this uuid does not exist, uuid: %s", playerUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrInvalidGameDifficulty() error {
	return fmt.Errorf("difficulty must be one of easy, normal or hard")
}

func ErrColOrRowOutOfGridBound(col, row int) error {
	return fmt.Errorf("incoming col or row is out of game grid bound\tcol: %d\trow: %d", col, row)
}

func ErrShipNotInFleet(code int) error {
	return fmt.Errorf("no ship with this code in the player fleet, code: %d", code)
}

func ErrShipAlreadyPlaced(code int) error {
	return fmt.Errorf("ship with this code is already placed on the grid, code: %d", code)
}

func ErrPlacementNotAllowed(col, row int) error {
	return fmt.Errorf("ship cannot occupy this position, overlapping or touching another ship\tcol: %d\trow: %d", col, row)
}

func ErrAutoPlacementExhausted() error {
	return fmt.Errorf("random placement attempts exhausted, grid restored to its previous state")
}

func ErrFleetNotPlaced() error {
	return fmt.Errorf("player fleet is not fully placed on the defence grid")
}

func ErrNotTurnOfPlayer(playerUuid string) error {
	return fmt.Errorf("it is not the turn of this player, uuid: %s", playerUuid)
}

func ErrDefenceGridPositionAlreadyHit(col, row int) error {
	return fmt.Errorf("this position is already hit by the attacker in previous rounds\tcol: %d\trow: %d", col, row)
}
