package test

import (
	"context"
	"testing"
	"time"

	mb "github.com/armadagame/armada-backend/models/battleship"
	mc "github.com/armadagame/armada-backend/models/connection"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"
)

type Test[T, K any] struct {
	name string

	expectedCode uint8
	expectedErr  bool

	reqPayload  T
	respPayload K // Used to unmarshal the response

	conn *websocket.Conn
}

func writeThenRead[T, K any](t *testing.T, test *Test[T, K]) {
	t.Helper()

	if err := test.conn.WriteJSON(test.reqPayload); err != nil {
		t.Fatal(err)
	}
	if err := test.conn.ReadJSON(&test.respPayload); err != nil {
		t.Fatal(err)
	}
}

func mustReadMessage[T any](t *testing.T, conn *websocket.Conn, expectedCode uint8) mc.Message[T] {
	t.Helper()

	var msg mc.Message[T]
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Code != expectedCode {
		t.Fatalf("expected code: %d\t got: %d", expectedCode, msg.Code)
	}
	return msg
}

// cells of the defence grid still holding un-hit ship segments
func unHitOccupiedCells(t *testing.T, board *mb.Board) []mb.Coordinates {
	t.Helper()

	var cells []mb.Coordinates
	for row := 0; row < board.Size(); row++ {
		for col := 0; col < board.Size(); col++ {
			isHit, err := board.CheckHit(col, row)
			if err != nil {
				t.Fatal(err)
			}
			if board.IsOccupied(col, row) && !isHit {
				cells = append(cells, mb.NewCoordinates(col, row))
			}
		}
	}
	return cells
}

func unHitEmptyCells(t *testing.T, board *mb.Board) []mb.Coordinates {
	t.Helper()

	var cells []mb.Coordinates
	for row := 0; row < board.Size(); row++ {
		for col := 0; col < board.Size(); col++ {
			isHit, err := board.CheckHit(col, row)
			if err != nil {
				t.Fatal(err)
			}
			if !board.IsOccupied(col, row) && !isHit {
				cells = append(cells, mb.NewCoordinates(col, row))
			}
		}
	}
	return cells
}

func TestInvalidCode(t *testing.T) {
	tests := []Test[mc.Message[mc.NoPayload], mc.Message[mc.NoPayload]]{
		{
			name:         "random invalid code host",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](invalidSignalCode),
			conn:         HostConn,
		},
		{
			name:         "random invalid code join",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](200),
			conn:         JoinConn,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			writeThenRead(t, &test)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected code: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
		})
	}
}

func TestCreateGame(t *testing.T) {
	testMock.ExpectExec(`INSERT INTO game_server_analytics`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	test := Test[mc.Message[mc.ReqCreateGame], mc.Message[mc.RespCreateGame]]{
		name:         "create game valid difficulty",
		expectedCode: mc.CodeCreateGame,
		conn:         HostConn,
	}
	test.reqPayload = mc.NewMessage[mc.ReqCreateGame](mc.CodeCreateGame)
	test.reqPayload.AddPayload(mc.ReqCreateGame{GameDifficulty: mb.GameDifficultyNormal})

	writeThenRead(t, &test)

	if test.respPayload.Code != test.expectedCode {
		t.Fatalf("expected code: %d\t got: %d", test.expectedCode, test.respPayload.Code)
	}
	if test.respPayload.Error != nil {
		t.Fatalf("error: %s", test.respPayload.Error.ErrorDetails)
	}
	if test.respPayload.Payload.GridSize != mb.DefaultGridSize {
		t.Fatalf("expected grid size: %d\t got: %d", mb.DefaultGridSize, test.respPayload.Payload.GridSize)
	}

	gameUuid := test.respPayload.Payload.GameUuid
	game, err := testGameManager.GetGame(gameUuid)
	if err != nil {
		t.Fatal(err)
	}
	testGame = game
	testGameUuid = gameUuid
	testHostPlayer = testGameManager.GetPlayer(game, true)

	if testHostPlayer.Uuid() != test.respPayload.Payload.HostUuid {
		t.Fatal("host uuid in response does not match the created player")
	}

	// the session cache holds the game and player for reconnection
	hostSession, err := testSessionManager.FindSession(HostSessionID)
	if err != nil {
		t.Fatal(err)
	}
	if testSessionManager.GetSessionGame(hostSession) != testGame {
		t.Fatal("host session cache must hold the created game")
	}
	if testSessionManager.GetSessionPlayer(hostSession) != testHostPlayer {
		t.Fatal("host session cache must hold the host player")
	}

	// analytics counter went through the mocked db
	testMock.ExpectQuery(`SELECT games_created FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(pqtype.Inet{IPNet: testRp.GetIpNet(), Valid: true}).
		WillReturnRows(sqlmock.NewRows([]string{"games_created"}).AddRow(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	gamesCreated, err := testDbManager.Analytics.GetGamesCreatedCount(ctx, pqtype.Inet{IPNet: testRp.GetIpNet(), Valid: true})
	if err != nil {
		t.Fatalf("failed to fetch created games: %v", err)
	}
	if gamesCreated != 1 {
		t.Fatalf("expected games created: 1\t got: %d", gamesCreated)
	}
}

func TestJoinGame(t *testing.T) {
	test := Test[mc.Message[mc.ReqJoinGame], mc.Message[mc.RespJoinGame]]{
		name:         "join existing game",
		expectedCode: mc.CodeJoinGame,
		conn:         JoinConn,
	}
	test.reqPayload = mc.NewMessage[mc.ReqJoinGame](mc.CodeJoinGame)
	test.reqPayload.AddPayload(mc.ReqJoinGame{GameUuid: testGameUuid})

	writeThenRead(t, &test)

	if test.respPayload.Code != test.expectedCode {
		t.Fatalf("expected code: %d\t got: %d", test.expectedCode, test.respPayload.Code)
	}
	if test.respPayload.Error != nil {
		t.Fatalf("error: %s", test.respPayload.Error.ErrorDetails)
	}

	testJoinPlayer = testGameManager.GetPlayer(testGame, false)
	if testJoinPlayer.Uuid() != test.respPayload.Payload.PlayerUuid {
		t.Fatal("join uuid in response does not match the created player")
	}

	joinSession, err := testSessionManager.FindSession(JoinSessionID)
	if err != nil {
		t.Fatal(err)
	}
	if testSessionManager.GetSessionPlayer(joinSession) != testJoinPlayer {
		t.Fatal("join session cache must hold the join player")
	}

	// both players are told to select their grids
	mustReadMessage[mc.NoPayload](t, JoinConn, mc.CodeSelectGrid)
	mustReadMessage[mc.NoPayload](t, HostConn, mc.CodeSelectGrid)
}

func TestJoinNonExistentGame(t *testing.T) {
	// a throwaway connection so the main join session stays clean
	conn, _, err := dialer.Dial(testWsUrl, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var respSessionId mc.Message[mc.RespSessionId]
	if err := conn.ReadJSON(&respSessionId); err != nil {
		t.Fatal(err)
	}

	req := mc.NewMessage[mc.ReqJoinGame](mc.CodeJoinGame)
	req.AddPayload(mc.ReqJoinGame{GameUuid: "-1invl"})
	if err := conn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	resp := mustReadMessage[mc.RespJoinGame](t, conn, mc.CodeJoinGame)
	if resp.Error == nil {
		t.Fatal("joining a non-existent game must fail")
	}
}

func TestPlaceShip(t *testing.T) {
	tests := []Test[mc.Message[mc.ReqPlaceShip], mc.Message[mc.RespPlaceShip]]{
		{
			name:         "valid destroyer placement",
			expectedCode: mc.CodePlaceShip,
			conn:         HostConn,
		},
		{
			name:         "same ship twice",
			expectedCode: mc.CodePlaceShip,
			expectedErr:  true,
			conn:         HostConn,
		},
		{
			name:         "touching placement",
			expectedCode: mc.CodePlaceShip,
			expectedErr:  true,
			conn:         HostConn,
		},
	}

	tests[0].reqPayload = mc.NewMessage[mc.ReqPlaceShip](mc.CodePlaceShip)
	tests[0].reqPayload.AddPayload(mc.ReqPlaceShip{
		ShipCode: mb.ShipCodeDestroyer,
		Position: mb.NewPosition(0, 0, true),
	})

	tests[1].reqPayload = mc.NewMessage[mc.ReqPlaceShip](mc.CodePlaceShip)
	tests[1].reqPayload.AddPayload(mc.ReqPlaceShip{
		ShipCode: mb.ShipCodeDestroyer,
		Position: mb.NewPosition(8, 8, true),
	})

	// overlaps the neighborhood of the destroyer on (0,0)-(1,0)
	tests[2].reqPayload = mc.NewMessage[mc.ReqPlaceShip](mc.CodePlaceShip)
	tests[2].reqPayload.AddPayload(mc.ReqPlaceShip{
		ShipCode: mb.ShipCodeCruiser,
		Position: mb.NewPosition(2, 1, true),
	})

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			writeThenRead(t, &test)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected code: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}

			if test.expectedErr {
				if test.respPayload.Error == nil {
					t.Fatal("expected a placement error")
				}
				return
			}

			if test.respPayload.Error != nil {
				t.Fatalf("error: %s", test.respPayload.Error.ErrorDetails)
			}
			if test.respPayload.Payload.FleetPlaced {
				t.Fatal("fleet must not be fully placed after one ship")
			}
		})
	}

	if !testHostPlayer.DefenceGrid().IsOccupied(0, 0) || !testHostPlayer.DefenceGrid().IsOccupied(1, 0) {
		t.Fatal("destroyer cells missing on the host defence grid")
	}
}

func TestAutoPlace(t *testing.T) {
	tests := []Test[mc.Message[mc.NoPayload], mc.Message[mc.RespAutoPlace]]{
		{
			name:         "host autoplaces the rest of the fleet",
			expectedCode: mc.CodeAutoPlace,
			reqPayload:   mc.NewMessage[mc.NoPayload](mc.CodeAutoPlace),
			conn:         HostConn,
		},
		{
			name:         "join autoplaces the whole fleet",
			expectedCode: mc.CodeAutoPlace,
			reqPayload:   mc.NewMessage[mc.NoPayload](mc.CodeAutoPlace),
			conn:         JoinConn,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			testMock.ExpectExec(`INSERT INTO game_server_analytics`).
				WillReturnResult(sqlmock.NewResult(0, 1))

			writeThenRead(t, &test)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected code: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.respPayload.Error != nil {
				t.Fatalf("error: %s", test.respPayload.Error.ErrorDetails)
			}
			if !test.respPayload.Payload.FleetPlaced {
				t.Fatal("fleet must be fully placed after autoplacement")
			}
		})
	}

	wantOccupied := 0
	for _, length := range mb.DefaultFleetLengths {
		wantOccupied += length
	}

	for _, player := range []*mb.BattleshipPlayer{testHostPlayer, testJoinPlayer} {
		if !player.IsFleetPlaced() {
			t.Fatal("player fleet must be fully placed")
		}
		if got := len(unHitOccupiedCells(t, player.DefenceGrid())); got != wantOccupied {
			t.Fatalf("expected occupied cells: %d\t got: %d", wantOccupied, got)
		}
	}
}

func TestReadyPlayer(t *testing.T) {
	hostReady := mc.NewMessage[mc.NoPayload](mc.CodeReady)
	if err := HostConn.WriteJSON(hostReady); err != nil {
		t.Fatal(err)
	}
	resp := mustReadMessage[mc.NoPayload](t, HostConn, mc.CodeReady)
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}

	joinReady := mc.NewMessage[mc.NoPayload](mc.CodeReady)
	if err := JoinConn.WriteJSON(joinReady); err != nil {
		t.Fatal(err)
	}
	resp = mustReadMessage[mc.NoPayload](t, JoinConn, mc.CodeReady)
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}

	// both players are told the game started
	mustReadMessage[mc.NoPayload](t, JoinConn, mc.CodeStartGame)
	mustReadMessage[mc.NoPayload](t, HostConn, mc.CodeStartGame)

	if !testGame.IsReadyToStart() {
		t.Fatal("game must be ready to start after both players ready up")
	}
}

func TestAttack(t *testing.T) {
	// the host starts, a join attack must be rejected
	joinAttack := mc.NewMessage[mc.ReqAttack](mc.CodeAttack)
	joinAttack.AddPayload(mc.ReqAttack{Col: 0, Row: 0})
	if err := JoinConn.WriteJSON(joinAttack); err != nil {
		t.Fatal(err)
	}
	resp := mustReadMessage[mc.RespAttack](t, JoinConn, mc.CodeAttack)
	if resp.Error == nil {
		t.Fatal("attack out of turn must fail")
	}

	// out of grid bound coordinates are a reported failure
	hostAttack := mc.NewMessage[mc.ReqAttack](mc.CodeAttack)
	hostAttack.AddPayload(mc.ReqAttack{Col: outOfGridBoundNum, Row: 0})
	if err := HostConn.WriteJSON(hostAttack); err != nil {
		t.Fatal(err)
	}
	resp = mustReadMessage[mc.RespAttack](t, HostConn, mc.CodeAttack)
	if resp.Error == nil {
		t.Fatal("out of bound attack must fail")
	}

	// a miss on an empty defender cell
	missCell := unHitEmptyCells(t, testJoinPlayer.DefenceGrid())[0]
	hostAttack = mc.NewMessage[mc.ReqAttack](mc.CodeAttack)
	hostAttack.AddPayload(mc.ReqAttack{Col: missCell.Col, Row: missCell.Row})
	if err := HostConn.WriteJSON(hostAttack); err != nil {
		t.Fatal(err)
	}

	resp = mustReadMessage[mc.RespAttack](t, HostConn, mc.CodeAttack)
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}
	if resp.Payload.PositionState != mb.PositionStateAttackGridMiss {
		t.Fatalf("expected position state: %d\t got: %d", mb.PositionStateAttackGridMiss, resp.Payload.PositionState)
	}
	if resp.Payload.IsTurn {
		t.Fatal("attacker must lose the turn after attacking")
	}

	// the defender gets the same outcome with the turn flag set
	defenderCopy := mustReadMessage[mc.RespAttack](t, JoinConn, mc.CodeAttack)
	if !defenderCopy.Payload.IsTurn {
		t.Fatal("defender must gain the turn after being attacked")
	}

	// hitting the same cell again is the defender's error now, but
	// first give the turn back to the host with a join miss
	joinMissCell := unHitEmptyCells(t, testHostPlayer.DefenceGrid())[0]
	joinAttack = mc.NewMessage[mc.ReqAttack](mc.CodeAttack)
	joinAttack.AddPayload(mc.ReqAttack{Col: joinMissCell.Col, Row: joinMissCell.Row})
	if err := JoinConn.WriteJSON(joinAttack); err != nil {
		t.Fatal(err)
	}
	resp = mustReadMessage[mc.RespAttack](t, JoinConn, mc.CodeAttack)
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}
	mustReadMessage[mc.RespAttack](t, HostConn, mc.CodeAttack)

	hostAttack = mc.NewMessage[mc.ReqAttack](mc.CodeAttack)
	hostAttack.AddPayload(mc.ReqAttack{Col: missCell.Col, Row: missCell.Row})
	if err := HostConn.WriteJSON(hostAttack); err != nil {
		t.Fatal(err)
	}
	resp = mustReadMessage[mc.RespAttack](t, HostConn, mc.CodeAttack)
	if resp.Error == nil {
		t.Fatal("attacking an already hit cell must fail")
	}
}

// The host sinks the whole join fleet. The join player answers
// every round with a miss so the turn keeps coming back.
func TestAttackUntilEndGame(t *testing.T) {
	targets := unHitOccupiedCells(t, testJoinPlayer.DefenceGrid())
	joinMisses := unHitEmptyCells(t, testHostPlayer.DefenceGrid())
	if len(joinMisses) < len(targets) {
		t.Fatal("not enough empty host cells for the join player to miss")
	}

	for i, target := range targets {
		hostAttack := mc.NewMessage[mc.ReqAttack](mc.CodeAttack)
		hostAttack.AddPayload(mc.ReqAttack{Col: target.Col, Row: target.Row})
		if err := HostConn.WriteJSON(hostAttack); err != nil {
			t.Fatal(err)
		}

		resp := mustReadMessage[mc.RespAttack](t, HostConn, mc.CodeAttack)
		if resp.Error != nil {
			t.Fatalf("error: %s", resp.Error.ErrorDetails)
		}
		if resp.Payload.PositionState != mb.PositionStateAttackGridHit {
			t.Fatalf("expected position state: %d\t got: %d", mb.PositionStateAttackGridHit, resp.Payload.PositionState)
		}
		mustReadMessage[mc.RespAttack](t, JoinConn, mc.CodeAttack)

		if i == len(targets)-1 {
			break
		}

		joinAttack := mc.NewMessage[mc.ReqAttack](mc.CodeAttack)
		joinAttack.AddPayload(mc.ReqAttack{Col: joinMisses[i].Col, Row: joinMisses[i].Row})
		if err := JoinConn.WriteJSON(joinAttack); err != nil {
			t.Fatal(err)
		}
		if resp := mustReadMessage[mc.RespAttack](t, JoinConn, mc.CodeAttack); resp.Error != nil {
			t.Fatalf("error: %s", resp.Error.ErrorDetails)
		}
		mustReadMessage[mc.RespAttack](t, HostConn, mc.CodeAttack)
	}

	// the last hit settles the match for both players
	endHost := mustReadMessage[mc.RespEndGame](t, HostConn, mc.CodeEndGame)
	if endHost.Payload.PlayerMatchStatus != mb.PlayerMatchStatusWon {
		t.Fatalf("expected host match status: %d\t got: %d", mb.PlayerMatchStatusWon, endHost.Payload.PlayerMatchStatus)
	}

	endJoin := mustReadMessage[mc.RespEndGame](t, JoinConn, mc.CodeEndGame)
	if endJoin.Payload.PlayerMatchStatus != mb.PlayerMatchStatusLost {
		t.Fatalf("expected join match status: %d\t got: %d", mb.PlayerMatchStatusLost, endJoin.Payload.PlayerMatchStatus)
	}

	if !testJoinPlayer.IsLoser() {
		t.Fatal("join player with a sunken fleet must be the loser")
	}
	if !testGame.IsFinished() {
		t.Fatal("game must be finished after the last ship sinks")
	}
}

func TestRematch(t *testing.T) {
	testMock.ExpectExec(`INSERT INTO game_server_analytics`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// host asks for a rematch, the join player is notified
	if err := HostConn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeRematchCall)); err != nil {
		t.Fatal(err)
	}
	mustReadMessage[mc.NoPayload](t, JoinConn, mc.CodeRematchCall)

	// join accepts, both players get fresh grids
	if err := JoinConn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeRematchCallAccepted)); err != nil {
		t.Fatal(err)
	}

	joinMsg := mustReadMessage[mc.RespRematch](t, JoinConn, mc.CodeRematch)
	if !joinMsg.Payload.IsTurn {
		t.Fatal("the join player starts the rematch")
	}

	hostMsg := mustReadMessage[mc.RespRematch](t, HostConn, mc.CodeRematch)
	if hostMsg.Payload.IsTurn {
		t.Fatal("the host must wait for their turn in the rematch")
	}

	if testGame.IsFinished() {
		t.Fatal("rematch must unfinish the game")
	}
	for _, player := range []*mb.BattleshipPlayer{testHostPlayer, testJoinPlayer} {
		if player.IsReady() || player.IsFleetPlaced() {
			t.Fatal("rematch must reset readiness and fleet placement")
		}
		if got := len(unHitOccupiedCells(t, player.DefenceGrid())); got != 0 {
			t.Fatalf("rematch must clear the defence grid, occupied: %d", got)
		}
	}
}
