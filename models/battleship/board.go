package battleship

import (
	cerr "github.com/armadagame/armada-backend/internal/error"
)

const (
	DefaultGridSize            int = 15
	DefaultPlacementAttemptCap int = 100_000
)

const (
	PositionStateAttackGridEmpty int = iota
	PositionStateAttackGridMiss
	PositionStateAttackGridHit
)

type Coordinates struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func NewCoordinates(col, row int) Coordinates {
	return Coordinates{Col: col, Row: row}
}

// Position describes a candidate or committed placement origin
// and its orientation. Horizontal ships extend along the column
// axis, vertical ones along the row axis.
type Position struct {
	Col        int  `json:"col"`
	Row        int  `json:"row"`
	Horizontal bool `json:"horizontal"`
}

func NewPosition(col, row int, horizontal bool) Position {
	return Position{Col: col, Row: row, Horizontal: horizontal}
}

// segmentCoords returns the cell the i-th segment of a ship
// placed at pos would occupy.
func segmentCoords(pos Position, i int) (int, int) {
	if pos.Horizontal {
		return pos.Col + i, pos.Row
	}
	return pos.Col, pos.Row + i
}

// Cell is one addressable grid position. The ship reference is
// non-owning; the player fleet owns the ships and outlives any
// single board state.
type Cell struct {
	ship  *Ship
	isHit bool
}

func (c Cell) IsOccupied() bool {
	return c.ship != nil
}

func (c Cell) Occupant() *Ship {
	return c.ship
}

func (c Cell) IsHit() bool {
	return c.isHit
}

// Board is a square grid of cells stored as a flat row-major
// slice. Neighbor scanning in CanPlace touches up to 9 cells per
// segment, so locality matters more than it would for plain
// attack bookkeeping.
type Board struct {
	size       int
	cells      []Cell
	attemptCap int
}

func NewBoard(size int) *Board {
	if size <= 0 {
		size = DefaultGridSize
	}

	return &Board{
		size:       size,
		cells:      make([]Cell, size*size),
		attemptCap: DefaultPlacementAttemptCap,
	}
}

func (b *Board) Size() int {
	return b.size
}

// SetAttemptCap adjusts the random placement attempt budget.
// Non-positive caps are ignored.
func (b *Board) SetAttemptCap(attemptCap int) {
	if attemptCap > 0 {
		b.attemptCap = attemptCap
	}
}

func (b *Board) inBounds(col, row int) bool {
	return col >= 0 && col < b.size && row >= 0 && row < b.size
}

// at must only be called with in-bounds coordinates.
func (b *Board) at(col, row int) *Cell {
	return &b.cells[row*b.size+col]
}

func (b *Board) IsOccupied(col, row int) bool {
	if !b.inBounds(col, row) {
		return false
	}
	return b.at(col, row).IsOccupied()
}

// CanPlace reports whether a ship can legally occupy pos. Three
// rules, checked per segment:
//  1. every segment stays inside the grid
//  2. no segment lands on an occupied cell
//  3. none of the 8 neighbors of any segment is occupied, so
//     distinct ships never touch, not even diagonally
//
// Pure query, no mutation.
func (b *Board) CanPlace(pos Position, ship *Ship) bool {
	if pos.Col < 0 || pos.Row < 0 {
		return false
	}

	endCol, endRow := segmentCoords(pos, ship.Length()-1)
	if endCol > b.size-1 || endRow > b.size-1 {
		return false
	}

	for i := 0; i < ship.Length(); i++ {
		col, row := segmentCoords(pos, i)
		if b.at(col, row).IsOccupied() {
			return false
		}

		for dCol := -1; dCol <= 1; dCol++ {
			for dRow := -1; dRow <= 1; dRow++ {
				if dCol == 0 && dRow == 0 {
					continue
				}
				// out-of-grid neighbors are skipped silently
				if b.IsOccupied(col+dCol, row+dRow) {
					return false
				}
			}
		}
	}

	return true
}

// PlaceShip assigns the ship as occupant of every cell along pos.
// Validity of pos is the caller's responsibility through CanPlace;
// this method does not re-check it.
func (b *Board) PlaceShip(pos Position, ship *Ship) {
	for i := 0; i < ship.Length(); i++ {
		col, row := segmentCoords(pos, i)
		b.at(col, row).ship = ship
	}
}

// ReceiveAttack marks the cell as hit and returns the occupant
// ship, nil for an empty cell. Hitting an already-hit cell is
// idempotent. The caller updates ship-level damage with the
// returned reference.
func (b *Board) ReceiveAttack(col, row int) (*Ship, error) {
	if !b.inBounds(col, row) {
		return nil, cerr.ErrColOrRowOutOfGridBound(col, row)
	}

	cell := b.at(col, row)
	cell.isHit = true
	return cell.ship, nil
}

// RecordShot stores the outcome of an outgoing attack on this
// grid, so a player can keep an attack grid with the same cell
// type as the defence grid. A nil ship records a miss.
func (b *Board) RecordShot(col, row int, ship *Ship) error {
	if !b.inBounds(col, row) {
		return cerr.ErrColOrRowOutOfGridBound(col, row)
	}

	cell := b.at(col, row)
	cell.isHit = true
	cell.ship = ship
	return nil
}

func (b *Board) CheckHit(col, row int) (bool, error) {
	if !b.inBounds(col, row) {
		return false, cerr.ErrColOrRowOutOfGridBound(col, row)
	}
	return b.at(col, row).isHit, nil
}

// Reset replaces every cell with a fresh empty one, discarding
// all occupancy and hit state.
func (b *Board) Reset() {
	b.cells = make([]Cell, b.size*b.size)
}
