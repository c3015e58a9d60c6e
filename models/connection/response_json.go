package connection

import (
	mb "github.com/armadagame/armada-backend/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid string `json:"game_uuid"`
	HostUuid string `json:"host_uuid"`
	GridSize int    `json:"grid_size"`
}

type RespJoinGame struct {
	GameUuid   string `json:"game_uuid"`
	PlayerUuid string `json:"player_uuid"`
	GridSize   int    `json:"grid_size"`
}

type RespPlaceShip struct {
	ShipCode    int         `json:"ship_code"`
	Position    mb.Position `json:"position"`
	FleetPlaced bool        `json:"fleet_placed"`
}

type RespAutoPlace struct {
	FleetPlaced bool `json:"fleet_placed"`
}

type RespAttack struct {
	Col                      int              `json:"col"`
	Row                      int              `json:"row"`
	PositionState            int              `json:"position_state"`
	IsTurn                   bool             `json:"is_turn"`
	SunkenShipsHost          int              `json:"sunken_ships_host"`
	SunkenShipsJoin          int              `json:"sunken_ships_join"`
	DefenderSunkenShipCoords []mb.Coordinates `json:"defender_sunken_ship_coords,omitempty"`
}

type RespRematch struct {
	IsTurn bool `json:"is_turn"`
}

type RespEndGame struct {
	PlayerMatchStatus int `json:"player_match_status"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
