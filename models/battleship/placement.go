package battleship

import (
	"math/rand"
)

// FindValidPosition samples uniformly random origins and
// orientations until CanPlace accepts one or the attempt budget
// runs out. The no-touching rule shrinks the feasible space fast
// as the grid fills, so the generous cap approximates exhaustive
// search without guaranteeing completeness; callers must handle
// the false case.
//
// The rand source is explicit so tests can pass a seeded one.
func (b *Board) FindValidPosition(rng *rand.Rand, ship *Ship) (Position, bool) {
	for attempt := 0; attempt < b.attemptCap; attempt++ {
		pos := NewPosition(rng.Intn(b.size), rng.Intn(b.size), rng.Intn(2) == 0)
		if b.CanPlace(pos, ship) {
			return pos, true
		}
	}

	return Position{}, false
}

// AutoPlaceShips places the ships in the given order, each at a
// randomly found valid position. All-or-nothing: if any ship
// fails to find a position, every cell occupied so far by this
// call is reverted and false is returned.
//
// The rollback works off an append-only log of placed cell
// indexes rather than a grid snapshot, so partially placed ships
// are undone precisely. Only the occupancy PlaceShip wrote is
// undone; hit state recorded before the call stays intact.
func (b *Board) AutoPlaceShips(rng *rand.Rand, ships []*Ship) bool {
	var placedCells []int

	for _, ship := range ships {
		pos, ok := b.FindValidPosition(rng, ship)
		if !ok {
			for _, idx := range placedCells {
				b.cells[idx].ship = nil
			}
			return false
		}

		b.PlaceShip(pos, ship)
		for i := 0; i < ship.Length(); i++ {
			col, row := segmentCoords(pos, i)
			placedCells = append(placedCells, row*b.size+col)
		}
	}

	return true
}
