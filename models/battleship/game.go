package battleship

const (
	GameDifficultyEasy int = iota
	GameDifficultyNormal
	GameDifficultyHard
)

const (
	GridSizeEasy   int = 10
	GridSizeNormal int = DefaultGridSize
	GridSizeHard   int = 20
)

type Game struct {
	uuid       string
	isFinished bool
	gridSize   int
	attemptCap int
	hostPlayer *BattleshipPlayer
	joinPlayer *BattleshipPlayer
}

func newGame(difficulty int, gameUuid string, attemptCap int) *Game {
	game := &Game{
		uuid:       gameUuid,
		isFinished: false,
		attemptCap: attemptCap,
	}

	switch difficulty {
	case GameDifficultyEasy:
		game.gridSize = GridSizeEasy
	case GameDifficultyHard:
		game.gridSize = GridSizeHard
	default:
		game.gridSize = GridSizeNormal
	}

	return game
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) GridSize() int {
	return g.gridSize
}

func (g *Game) FinishGame() {
	g.isFinished = true
}

func (g *Game) IsFinished() bool {
	return g.isFinished
}

func (g *Game) CreateHostPlayer(sessionId string) *BattleshipPlayer {
	g.hostPlayer = NewPlayer(true, true, sessionId, g.gridSize, g.attemptCap)
	return g.hostPlayer
}

func (g *Game) CreateJoinPlayer(sessionId string) *BattleshipPlayer {
	g.joinPlayer = NewPlayer(false, false, sessionId, g.gridSize, g.attemptCap)
	return g.joinPlayer
}

func (g *Game) FetchPlayer(isHost bool) *BattleshipPlayer {
	if isHost {
		return g.hostPlayer
	}
	return g.joinPlayer
}

func (g *Game) GetOtherPlayer(p Player) *BattleshipPlayer {
	return g.FetchPlayer(!p.IsHost())
}

func (g *Game) IsReadyToStart() bool {
	return g.hostPlayer != nil && g.joinPlayer != nil &&
		g.hostPlayer.IsReady() && g.joinPlayer.IsReady()
}

// Rematch keeps both players and their sessions but hands them
// fresh grids and fleets. The player who joined second starts.
func (g *Game) Rematch() {
	g.isFinished = false
	if g.hostPlayer != nil {
		g.hostPlayer.PrepareForRematch(false)
	}
	if g.joinPlayer != nil {
		g.joinPlayer.PrepareForRematch(true)
	}
}
