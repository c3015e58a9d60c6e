package api

import (
	"encoding/json"
	"math/rand"

	cerr "github.com/armadagame/armada-backend/internal/error"
	mb "github.com/armadagame/armada-backend/models/battleship"
	mc "github.com/armadagame/armada-backend/models/connection"
)

// Request wraps one incoming payload. Every handler unmarshals
// the payload it expects and reports failures through the
// response message error field, never through the connection.
type Request struct {
	payload []byte
}

func NewRequest(payload ...[]byte) Request {
	var req Request
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return req
}

func (r Request) HandleCreateGame(gm mb.GameManager, sessionId string) (*mb.Game, *mb.BattleshipPlayer, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	var reqCreateGame mc.Message[mc.ReqCreateGame]
	if err := json.Unmarshal(r.payload, &reqCreateGame); err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, nil, resp
	}

	game, err := gm.CreateGame(reqCreateGame.Payload.GameDifficulty)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, nil, resp
	}

	hostPlayer := game.CreateHostPlayer(sessionId)
	resp.AddPayload(mc.RespCreateGame{
		GameUuid: game.Uuid(),
		HostUuid: hostPlayer.Uuid(),
		GridSize: game.GridSize(),
	})
	return game, hostPlayer, resp
}

func (r Request) HandleJoinPlayer(gm mb.GameManager, sessionId string) (*mb.Game, *mb.BattleshipPlayer, mc.Message[mc.RespJoinGame]) {
	resp := mc.NewMessage[mc.RespJoinGame](mc.CodeJoinGame)

	var reqJoinGame mc.Message[mc.ReqJoinGame]
	if err := json.Unmarshal(r.payload, &reqJoinGame); err != nil {
		resp.AddError(err.Error(), "failed to join game")
		return nil, nil, resp
	}

	game, err := gm.GetGame(reqJoinGame.Payload.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), "failed to join game")
		return nil, nil, resp
	}

	joinPlayer := game.CreateJoinPlayer(sessionId)
	resp.AddPayload(mc.RespJoinGame{
		GameUuid:   game.Uuid(),
		PlayerUuid: joinPlayer.Uuid(),
		GridSize:   game.GridSize(),
	})
	return game, joinPlayer, resp
}

// Manual placement of a single ship. The position is validated
// against bounds, overlap and the no-touching rule before any
// grid mutation.
func (r Request) HandlePlaceShip(player *mb.BattleshipPlayer) mc.Message[mc.RespPlaceShip] {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)

	if player == nil {
		resp.AddError("player is not in a game", "failed to place ship")
		return resp
	}

	var reqPlaceShip mc.Message[mc.ReqPlaceShip]
	if err := json.Unmarshal(r.payload, &reqPlaceShip); err != nil {
		resp.AddError(err.Error(), "failed to place ship")
		return resp
	}

	if err := player.PlaceShip(reqPlaceShip.Payload.ShipCode, reqPlaceShip.Payload.Position); err != nil {
		resp.AddError(err.Error(), "failed to place ship")
		return resp
	}

	resp.AddPayload(mc.RespPlaceShip{
		ShipCode:    reqPlaceShip.Payload.ShipCode,
		Position:    reqPlaceShip.Payload.Position,
		FleetPlaced: player.IsFleetPlaced(),
	})
	return resp
}

// Randomized placement of the rest of the fleet. On exhaustion
// the defence grid keeps whatever was placed before this call.
func (r Request) HandleAutoPlace(rng *rand.Rand, player *mb.BattleshipPlayer) mc.Message[mc.RespAutoPlace] {
	resp := mc.NewMessage[mc.RespAutoPlace](mc.CodeAutoPlace)

	if player == nil {
		resp.AddError("player is not in a game", "failed to autoplace fleet")
		return resp
	}

	if err := player.AutoPlaceFleet(rng); err != nil {
		resp.AddError(err.Error(), "failed to autoplace fleet")
		return resp
	}

	resp.AddPayload(mc.RespAutoPlace{FleetPlaced: true})
	return resp
}

func (r Request) HandleReadyPlayer(player *mb.BattleshipPlayer) mc.Message[mc.NoPayload] {
	resp := mc.NewMessage[mc.NoPayload](mc.CodeReady)

	if player == nil {
		resp.AddError("player is not in a game", "failed to ready up")
		return resp
	}

	if err := player.SetReady(); err != nil {
		resp.AddError(err.Error(), "failed to ready up")
		return resp
	}

	return resp
}

// HandleAttack resolves one shot from attacker to defender and
// flips the turn. When the shot sinks the last defender ship the
// match statuses are settled and the game is finished.
func (r Request) HandleAttack(game *mb.Game, attacker, defender *mb.BattleshipPlayer) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	if game == nil || attacker == nil || defender == nil {
		resp.AddError("attack outside of a running game", cerr.ConstErrAttackFailed)
		return resp
	}

	if !attacker.IsTurn() {
		resp.AddError(cerr.ErrNotTurnOfPlayer(attacker.Uuid()).Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	var reqAttack mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &reqAttack); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}
	col, row := reqAttack.Payload.Col, reqAttack.Payload.Row

	positionState, occupant, err := defender.DefendAttack(col, row)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	if err := attacker.RecordShotOutcome(col, row, occupant); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	attacker.SetTurn(false)
	defender.SetTurn(true)

	respAttack := mc.RespAttack{
		Col:           col,
		Row:           row,
		PositionState: positionState,
	}
	if occupant != nil && occupant.IsSunk() {
		respAttack.DefenderSunkenShipCoords = occupant.GetHitCoordinates()
	}

	if attacker.IsHost() {
		respAttack.SunkenShipsJoin = defender.SunkenShips()
		respAttack.SunkenShipsHost = attacker.SunkenShips()
	} else {
		respAttack.SunkenShipsHost = defender.SunkenShips()
		respAttack.SunkenShipsJoin = attacker.SunkenShips()
	}

	if defender.IsLoser() {
		attacker.SetMatchStatus(mb.PlayerMatchStatusWon)
		defender.SetMatchStatus(mb.PlayerMatchStatusLost)
		game.FinishGame()
	}

	resp.AddPayload(respAttack)
	return resp
}

func (r Request) HandleCallRematch(game *mb.Game) (mc.Message[mc.NoPayload], error) {
	if game == nil {
		return mc.Message[mc.NoPayload]{}, cerr.ErrGameNotExists("")
	}

	return mc.NewMessage[mc.NoPayload](mc.CodeRematchCall), nil
}

// HandleAcceptRematchCall resets the game for another round and
// prepares one message per player carrying their starting turn.
func (r Request) HandleAcceptRematchCall(game *mb.Game, player, otherPlayer *mb.BattleshipPlayer) (mc.Message[mc.RespRematch], mc.Message[mc.RespRematch], error) {
	if game == nil || player == nil || otherPlayer == nil {
		return mc.Message[mc.RespRematch]{}, mc.Message[mc.RespRematch]{}, cerr.ErrGameNotExists("")
	}

	game.Rematch()

	msgPlayer := mc.NewMessage[mc.RespRematch](mc.CodeRematch)
	msgPlayer.AddPayload(mc.RespRematch{IsTurn: player.IsTurn()})

	msgOtherPlayer := mc.NewMessage[mc.RespRematch](mc.CodeRematch)
	msgOtherPlayer.AddPayload(mc.RespRematch{IsTurn: otherPlayer.IsTurn()})

	return msgPlayer, msgOtherPlayer, nil
}
