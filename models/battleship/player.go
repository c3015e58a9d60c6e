package battleship

import (
	"math/rand"
	"sort"

	cerr "github.com/armadagame/armada-backend/internal/error"

	"github.com/google/uuid"
)

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

type Player interface {
	Uuid() string
	SessionId() string
	IsHost() bool
	IsTurn() bool
	SetTurn(isTurn bool)
	IsReady() bool
	SetReady() error

	PlaceShip(code int, pos Position) error
	AutoPlaceFleet(rng *rand.Rand) error
	IsFleetPlaced() bool

	DefendAttack(col, row int) (int, *Ship, error)
	RecordShotOutcome(col, row int, ship *Ship) error

	SunkenShips() int
	IsLoser() bool
	MatchStatus() int
	SetMatchStatus(status int)
	IsMatchOver() bool

	PrepareForRematch(isTurn bool)
}

type BattleshipPlayer struct {
	uuid        string
	sessionId   string
	isTurn      bool
	isHost      bool
	isReady     bool
	matchStatus int
	sunkenShips int
	attackGrid  *Board
	defenceGrid *Board
	fleet       map[int]*Ship
	placed      map[int]bool
}

var _ Player = (*BattleshipPlayer)(nil)

func NewPlayer(isHost, isTurn bool, sessionId string, gridSize, attemptCap int) *BattleshipPlayer {
	attackGrid := NewBoard(gridSize)
	defenceGrid := NewBoard(gridSize)
	defenceGrid.SetAttemptCap(attemptCap)

	return &BattleshipPlayer{
		uuid:        uuid.NewString()[:10],
		sessionId:   sessionId,
		isTurn:      isTurn,
		isHost:      isHost,
		isReady:     false,
		matchStatus: PlayerMatchStatusUndefined,
		sunkenShips: 0,
		attackGrid:  attackGrid,
		defenceGrid: defenceGrid,
		fleet:       NewFleet(),
		placed:      make(map[int]bool, len(DefaultFleetLengths)),
	}
}

func (p *BattleshipPlayer) Uuid() string {
	return p.uuid
}

func (p *BattleshipPlayer) SessionId() string {
	return p.sessionId
}

func (p *BattleshipPlayer) IsHost() bool {
	return p.isHost
}

func (p *BattleshipPlayer) IsTurn() bool {
	return p.isTurn
}

func (p *BattleshipPlayer) SetTurn(isTurn bool) {
	p.isTurn = isTurn
}

func (p *BattleshipPlayer) IsReady() bool {
	return p.isReady
}

// SetReady marks the player ready to start. The full fleet must
// be on the defence grid first.
func (p *BattleshipPlayer) SetReady() error {
	if !p.IsFleetPlaced() {
		return cerr.ErrFleetNotPlaced()
	}

	p.isReady = true
	return nil
}

func (p *BattleshipPlayer) GetShip(code int) (*Ship, error) {
	ship, prs := p.fleet[code]
	if !prs {
		return nil, cerr.ErrShipNotInFleet(code)
	}
	return ship, nil
}

func (p *BattleshipPlayer) DefenceGrid() *Board {
	return p.defenceGrid
}

func (p *BattleshipPlayer) AttackGrid() *Board {
	return p.attackGrid
}

// PlaceShip is the manual placement path. The position is
// validated with CanPlace before any mutation.
func (p *BattleshipPlayer) PlaceShip(code int, pos Position) error {
	ship, err := p.GetShip(code)
	if err != nil {
		return err
	}

	if p.placed[code] {
		return cerr.ErrShipAlreadyPlaced(code)
	}

	if !p.defenceGrid.CanPlace(pos, ship) {
		return cerr.ErrPlacementNotAllowed(pos.Col, pos.Row)
	}

	p.defenceGrid.PlaceShip(pos, ship)
	p.placed[code] = true
	return nil
}

// AutoPlaceFleet randomly places every ship not yet on the
// defence grid, longest first since big ships run out of room
// fastest. On exhaustion the grid is left exactly as it was.
func (p *BattleshipPlayer) AutoPlaceFleet(rng *rand.Rand) error {
	codes := make([]int, 0, len(p.fleet))
	for code := range p.fleet {
		if !p.placed[code] {
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool {
		return p.fleet[codes[i]].Length() > p.fleet[codes[j]].Length()
	})

	ships := make([]*Ship, 0, len(codes))
	for _, code := range codes {
		ships = append(ships, p.fleet[code])
	}

	if !p.defenceGrid.AutoPlaceShips(rng, ships) {
		return cerr.ErrAutoPlacementExhausted()
	}

	for _, code := range codes {
		p.placed[code] = true
	}
	return nil
}

func (p *BattleshipPlayer) IsFleetPlaced() bool {
	return len(p.placed) == len(p.fleet)
}

// DefendAttack resolves an incoming attack on the defence grid.
// It returns the resulting attack grid state and the occupant
// ship on a hit; the caller checks IsSunk on the returned ship.
func (p *BattleshipPlayer) DefendAttack(col, row int) (int, *Ship, error) {
	alreadyHit, err := p.defenceGrid.CheckHit(col, row)
	if err != nil {
		return PositionStateAttackGridEmpty, nil, err
	}
	if alreadyHit {
		return PositionStateAttackGridEmpty, nil, cerr.ErrDefenceGridPositionAlreadyHit(col, row)
	}

	ship, err := p.defenceGrid.ReceiveAttack(col, row)
	if err != nil {
		return PositionStateAttackGridEmpty, nil, err
	}

	if ship == nil {
		return PositionStateAttackGridMiss, nil, nil
	}

	ship.GotHit(NewCoordinates(col, row))
	if ship.IsSunk() {
		p.sunkenShips++
	}

	return PositionStateAttackGridHit, ship, nil
}

// RecordShotOutcome stores the result of this player's own shot
// on the attack grid. Ship is nil for a miss.
func (p *BattleshipPlayer) RecordShotOutcome(col, row int, ship *Ship) error {
	return p.attackGrid.RecordShot(col, row, ship)
}

func (p *BattleshipPlayer) SunkenShips() int {
	return p.sunkenShips
}

func (p *BattleshipPlayer) IsLoser() bool {
	return p.sunkenShips == len(p.fleet)
}

func (p *BattleshipPlayer) MatchStatus() int {
	return p.matchStatus
}

func (p *BattleshipPlayer) SetMatchStatus(status int) {
	p.matchStatus = status
}

func (p *BattleshipPlayer) IsMatchOver() bool {
	return p.matchStatus != PlayerMatchStatusUndefined
}

// PrepareForRematch resets both grids and rebuilds the fleet
// while keeping the player identity and session.
func (p *BattleshipPlayer) PrepareForRematch(isTurn bool) {
	p.attackGrid.Reset()
	p.defenceGrid.Reset()
	p.fleet = NewFleet()
	p.placed = make(map[int]bool, len(DefaultFleetLengths))
	p.isTurn = isTurn
	p.isReady = false
	p.matchStatus = PlayerMatchStatusUndefined
	p.sunkenShips = 0
}
