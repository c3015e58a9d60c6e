package api

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/armadagame/armada-backend/db/sqlc"
	mb "github.com/armadagame/armada-backend/models/battleship"
	mc "github.com/armadagame/armada-backend/models/connection"

	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var upgrader = websocket.Upgrader{

	// good average time since this is not a high-latency operation such as video streaming
	HandshakeTimeout: time.Second * 5,

	// more than enough for placement and attack payloads
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	q              sqlc.Querier
	ipnet          net.IPNet
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	q sqlc.Querier,
) RequestProcessor {
	rp := RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		q:              q,
	}

	rp = rp.mustGetServerIpNet()
	return rp
}

func (rp RequestProcessor) mustGetServerIpNet() RequestProcessor {
	ifaces, err := net.Interfaces()
	if err != nil {
		panic(err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			panic(err)
		}

		for _, addr := range addrs {
			var ipnet *net.IPNet
			var ip net.IP

			switch v := addr.(type) {
			case *net.IPNet:
				ipnet = v
				ip = v.IP

			case *net.IPAddr:
				ip = v.IP
			}

			if ipnet != nil && ip != nil && ip.To4() != nil && !ip.IsLoopback() {
				rp.ipnet = *ipnet
				return rp
			}
		}
	}

	panic("ipnet could not be found!")
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		http.Error(w, "could not open websocket connection", http.StatusBadRequest)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		session, err := rp.sessionManager.FindSession(sessionIdQuery)
		if err != nil {
			// This either means an expired session or an invalid session id
			_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
			conn.Close()
			return
		}
		rp.sessionManager.ReconnectSession(session, conn)
	}
}

// incrementAnalytics fires one of the analytics counters. The
// game must not die over a failed counter, so errors are logged
// and swallowed.
func (rp *RequestProcessor) incrementAnalytics(increment func(context.Context, pqtype.Inet) error) {
	if rp.q == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := increment(ctx, pqtype.Inet{IPNet: rp.ipnet, Valid: true}); err != nil {
		log.Println(err)
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	var (
		sessionPlayer      *mb.BattleshipPlayer
		otherSessionPlayer *mb.BattleshipPlayer
		sessionGame        *mb.Game

		receiverSessionId string
		sessionId         = session.Id()
	)

	// Placement randomness source of this session; explicit so the
	// placement logic itself stays deterministic under test.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	defer func() {
		if sessionGame != nil {
			rp.gameManager.TerminateGame(sessionGame.Uuid())
		}
		if session.Conn() != nil {
			session.Conn().Close()
		}
		rp.sessionManager.TerminateSession(session)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

	// The opponent session becomes known the first time both
	// players are attached to the game.
	fetchOtherPlayer := func() {
		if otherSessionPlayer != nil || sessionGame == nil || sessionPlayer == nil {
			return
		}
		if other := sessionGame.FetchPlayer(!sessionPlayer.IsHost()); other != nil {
			otherSessionPlayer = other
			receiverSessionId = other.SessionId()
		}
	}

sessionLoop:
	for {
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// Reads are retried internally; an error here means the
			// session connection could not be recovered
			break sessionLoop
		}

		var signal mc.Signal
		if err := json.Unmarshal(payload, &signal); err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch signal.Code {

		// In this branch we initialize the game and hence create a host player
		case mc.CodeCreateGame:
			rp.incrementAnalytics(rp.queryIncrementGamesCreated)

			game, hostPlayer, respMsg := NewRequest(payload).HandleCreateGame(rp.gameManager, sessionId)
			if respMsg.Error == nil {
				sessionGame = game
				sessionPlayer = hostPlayer
				rp.sessionManager.SetSessionGame(session, game)
				rp.sessionManager.SetSessionPlayer(session, hostPlayer)
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// This branch attaches a second player to an existing game
		// and tells both sides to start placing their fleets.
		case mc.CodeJoinGame:
			game, joinPlayer, respMsg := NewRequest(payload).HandleJoinPlayer(rp.gameManager, sessionId)

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			sessionGame = game
			sessionPlayer = joinPlayer
			rp.sessionManager.SetSessionGame(session, game)
			rp.sessionManager.SetSessionPlayer(session, joinPlayer)
			fetchOtherPlayer()

			selectGridMsg := mc.NewMessage[mc.NoPayload](mc.CodeSelectGrid)
			if err := rp.sessionManager.WriteToSessionConn(session, selectGridMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if err := rp.sessionManager.Communicate(receiverSessionId, selectGridMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// Manual placement of a single ship on the defence grid
		case mc.CodePlaceShip:
			respMsg := NewRequest(payload).HandlePlaceShip(sessionPlayer)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// Randomized placement of the remaining fleet
		case mc.CodeAutoPlace:
			rp.incrementAnalytics(rp.queryIncrementAutoPlacements)

			respMsg := NewRequest(payload).HandleAutoPlace(rng, sessionPlayer)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// The player has finished their grid and is ready to start
		case mc.CodeReady:
			respMsg := NewRequest(payload).HandleReadyPlayer(sessionPlayer)

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			fetchOtherPlayer()

			if sessionGame != nil && sessionGame.IsReadyToStart() {
				respStartGame := mc.NewMessage[mc.NoPayload](mc.CodeStartGame)
				if err := rp.sessionManager.WriteToSessionConn(session, respStartGame, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
				if err := rp.sessionManager.Communicate(receiverSessionId, respStartGame, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

		// This branch takes care of the attack logic. After every
		// attack the match status decides whether the game ends and
		// both players get notified.
		case mc.CodeAttack:
			fetchOtherPlayer()

			respMsg := NewRequest(payload).HandleAttack(sessionGame, sessionPlayer, otherSessionPlayer)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

			// This means attack operation did not complete
			if respMsg.Error != nil {
				continue sessionLoop
			}

			// defender turn is set to true
			respMsg.Payload.IsTurn = true
			if err := rp.sessionManager.Communicate(receiverSessionId, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

			if sessionPlayer.IsMatchOver() {
				respAttacker := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
				respAttacker.AddPayload(mc.RespEndGame{PlayerMatchStatus: sessionPlayer.MatchStatus()})
				if err := rp.sessionManager.WriteToSessionConn(session, respAttacker, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}

				respDefender := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
				respDefender.AddPayload(mc.RespEndGame{PlayerMatchStatus: otherSessionPlayer.MatchStatus()})
				if err := rp.sessionManager.Communicate(receiverSessionId, respDefender, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

		case mc.CodeRematchCall:
			rp.incrementAnalytics(rp.queryIncrementRematchCalled)

			respMsg, err := NewRequest().HandleCallRematch(sessionGame)
			if err != nil {
				continue sessionLoop
			}

			if err := rp.sessionManager.Communicate(receiverSessionId, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeRematchCallAccepted:
			msgPlayer, msgOtherPlayer, err := NewRequest().HandleAcceptRematchCall(sessionGame, sessionPlayer, otherSessionPlayer)
			if err != nil {
				log.Println(err)
				break sessionLoop
			}

			if err := rp.sessionManager.Communicate(receiverSessionId, msgOtherPlayer, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if err := rp.sessionManager.WriteToSessionConn(session, msgPlayer, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// Notify the other player that no rematch is wanted now
		case mc.CodeRematchCallRejected:
			msg := mc.NewMessage[mc.NoPayload](mc.CodeRematchCallRejected)
			_ = rp.sessionManager.Communicate(receiverSessionId, msg, mc.MessageTypeJSON)
			break sessionLoop

		case mc.CodePlayerInteraction:
			if err := rp.sessionManager.Communicate(receiverSessionId, payload, mc.MessageTypeBytes); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}

func (rp *RequestProcessor) queryIncrementGamesCreated(ctx context.Context, serverIp pqtype.Inet) error {
	return rp.q.AnalyticsIncrementGamesCreatedCount(ctx, serverIp)
}

func (rp *RequestProcessor) queryIncrementAutoPlacements(ctx context.Context, serverIp pqtype.Inet) error {
	return rp.q.AnalyticsIncrementAutoPlacementsCount(ctx, serverIp)
}

func (rp *RequestProcessor) queryIncrementRematchCalled(ctx context.Context, serverIp pqtype.Inet) error {
	return rp.q.AnalyticsIncrementRematchCalledCount(ctx, serverIp)
}
