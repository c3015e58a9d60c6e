package battleship

import (
	"sync"

	cerr "github.com/armadagame/armada-backend/internal/error"

	"github.com/google/uuid"
)

type GameManager interface {
	CreateGame(difficulty int) (*Game, error)
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)

	isDifficultyValid(difficulty int) bool
}

type BattleshipGameManager struct {
	games      map[string]*Game
	attemptCap int
	mu         sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

type GameManagerOption func(*BattleshipGameManager)

// WithPlacementAttemptCap overrides the random placement budget
// of every board created by this manager.
func WithPlacementAttemptCap(attemptCap int) GameManagerOption {
	return func(bgm *BattleshipGameManager) {
		if attemptCap > 0 {
			bgm.attemptCap = attemptCap
		}
	}
}

func NewBattleshipGameManager(opts ...GameManagerOption) *BattleshipGameManager {
	bgm := &BattleshipGameManager{
		games:      make(map[string]*Game, 10),
		attemptCap: DefaultPlacementAttemptCap,
	}
	for _, opt := range opts {
		opt(bgm)
	}

	return bgm
}

func (bgm *BattleshipGameManager) CreateGame(difficulty int) (*Game, error) {
	if !bgm.isDifficultyValid(difficulty) {
		return nil, cerr.ErrInvalidGameDifficulty()
	}

	gameUuid := uuid.NewString()[:6]

	bgm.mu.Lock()
	bgm.games[gameUuid] = newGame(difficulty, gameUuid, bgm.attemptCap)
	game := bgm.games[gameUuid]
	bgm.mu.Unlock()

	return game, nil
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) GetPlayer(game *Game, isHost bool) *BattleshipPlayer {
	return game.FetchPlayer(isHost)
}

func (bgm *BattleshipGameManager) isDifficultyValid(difficulty int) bool {
	return difficulty == GameDifficultyEasy || difficulty == GameDifficultyNormal || difficulty == GameDifficultyHard
}
