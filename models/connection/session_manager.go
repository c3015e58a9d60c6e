package connection

import (
	"encoding/base64"
	"log"
	"sync"
	"time"

	cerr "github.com/armadagame/armada-backend/internal/error"
	mb "github.com/armadagame/armada-backend/models/battleship"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically()

	FindSession(sessionId string) (*Session, error)
	TerminateSession(session *Session)
	ReconnectSession(session *Session, conn *websocket.Conn)
	Communicate(receiverSessionId string, msg interface{}, msgType uint8) error
	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	HandleAbnormalClosureSession(session *Session) error

	GetSessionGame(session *Session) *mb.Game
	GetSessionPlayer(session *Session) *mb.BattleshipPlayer

	SetSessionGame(session *Session, game *mb.Game)
	SetSessionPlayer(session *Session, player *mb.BattleshipPlayer)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func NewBattleshipSessionManager() *BattleshipSessionManager {
	initMapSize := 10

	return &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: time.Minute * 20,
	}
}

func (bsm *BattleshipSessionManager) GetSessionGame(session *Session) *mb.Game {
	return session.game
}

func (bsm *BattleshipSessionManager) SetSessionGame(session *Session, game *mb.Game) {
	session.game = game
}

func (bsm *BattleshipSessionManager) GetSessionPlayer(session *Session) *mb.BattleshipPlayer {
	return session.player
}

func (bsm *BattleshipSessionManager) SetSessionPlayer(session *Session, player *mb.BattleshipPlayer) {
	session.player = player
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	// URL compatible session id, the client sends it back as a
	// query param on reconnection
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.NewString()))

	bsm.mu.Lock()
	bsm.sessions[sessionId] = NewSession(sessionId, conn)
	session := bsm.sessions[sessionId]
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	session, prs := bsm.sessions[sessionId]
	bsm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(session *Session) {
	bsm.mu.Lock()
	delete(bsm.sessions, session.id)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) ReconnectSession(session *Session, conn *websocket.Conn) {
	session.reconnectionAfterAbnormalClosure(conn)
}

// Communicate sends the msg to another session.
func (bsm *BattleshipSessionManager) Communicate(receiverSessionId string, msg interface{}, msgType uint8) error {
	receiverSession, err := bsm.FindSession(receiverSessionId)
	if err != nil {
		return err
	}
	return bsm.WriteToSessionConn(receiverSession, msg, msgType)
}

// To ensure that there are no dangling connections, sessions
// older than the cleanup interval are marked stale and deleted.
func (bsm *BattleshipSessionManager) CleanupPeriodically() {
	assumedClosedConns := 10

	for {
		time.Sleep(bsm.cleanupInterval)

		bsm.mu.Lock()
		toDelete := make([]string, 0, assumedClosedConns)

		for id, session := range bsm.sessions {
			if time.Since(session.createdAt) > bsm.cleanupInterval {
				toDelete = append(toDelete, id)
			}
		}

		for _, id := range toDelete {
			delete(bsm.sessions, id)
			log.Printf("removed stale session: %s", id)
		}
		bsm.mu.Unlock()
	}
}

// HandleAbnormalClosureSession gives a disconnected client a
// grace period to come back before the session is torn down. The
// opponent is kept informed either way.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session) error {
	game := bsm.GetSessionGame(s)
	player := bsm.GetSessionPlayer(s)

	// No game yet means there is nothing to preserve
	if game == nil || player == nil {
		return NewConnErr(ConnLoopBreak).AddDesc("game or player is nil")
	}

	otherPlayer := game.GetOtherPlayer(player)
	if otherPlayer == nil {
		return NewConnErr(ConnLoopBreak).AddDesc("other player is nil; invalid session")
	}

	otherSession, err := bsm.FindSession(otherPlayer.SessionId())
	if err != nil {
		return NewConnErr(ConnLoopBreak).AddDesc("other session is nil; invalid session")
	}

	// If the other session connection is faulty too, there is no need to continue
	if err := otherSession.writeToConnWithRetry(NewMessage[NoPayload](CodeOtherPlayerGracePeriod), MessageTypeJSON); err != nil {
		return err
	}

	timer := time.NewTimer(gracePeriod)
	select {
	case <-timer.C:
		if err := otherSession.writeToConnWithRetry(NewMessage[NoPayload](CodeOtherPlayerDisconnected), MessageTypeJSON); err != nil {
			return err
		}

		log.Printf("session terminated: %s\n", s.id)
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-s.reconnectionSignalChan:
		timer.Stop()
		if err := otherSession.writeToConnWithRetry(NewMessage[NoPayload](CodeOtherPlayerReconnected), MessageTypeJSON); err != nil {
			return err
		}

		log.Printf("player reconnected, session: %s\n", s.id)
		return nil
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	connErr, ok := err.(ConnErr)
	if !ok {
		return err
	}

	switch connErr.Code() {
	case ConnLoopAbnormalClosureRetry:
		if err := bsm.HandleAbnormalClosureSession(session); err != nil {
			return connErr
		}
		return nil

	default:
		return connErr
	}
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.conn.ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.HandleAbnormalClosureSession(session); err != nil {
				return -1, []byte{}, err
			}

		default:
			return -1, []byte{}, err
		}
	}
}
