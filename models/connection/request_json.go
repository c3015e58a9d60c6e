package connection

import (
	mb "github.com/armadagame/armada-backend/models/battleship"
)

type ReqCreateGame struct {
	GameDifficulty int `json:"game_difficulty"`
}

type ReqJoinGame struct {
	GameUuid string `json:"game_uuid"`
}

type ReqPlaceShip struct {
	ShipCode int         `json:"ship_code"`
	Position mb.Position `json:"position"`
}

type ReqAttack struct {
	Col int `json:"col"`
	Row int `json:"row"`
}
