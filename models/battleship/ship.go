package battleship

// Ship codes in the defence grid and the fleet map.
const (
	ShipCodeDestroyer int = iota + 2
	ShipCodeSubmarine
	ShipCodeCruiser
	ShipCodeBattleship
	ShipCodeCarrier
)

// Classic fleet, one ship per code.
var DefaultFleetLengths = map[int]int{
	ShipCodeDestroyer:  2,
	ShipCodeSubmarine:  3,
	ShipCodeCruiser:    3,
	ShipCodeBattleship: 4,
	ShipCodeCarrier:    5,
}

type Ship struct {
	Code           int
	length         int
	hits           int
	hitCoordinates []Coordinates
}

// NewShip creates a ship of immutable length. Length must be at
// least 1.
func NewShip(code, length int) *Ship {
	return &Ship{
		Code:           code,
		length:         length,
		hits:           0,
		hitCoordinates: make([]Coordinates, 0, length),
	}
}

// NewFleet builds the classic five-ship fleet keyed by ship code.
func NewFleet() map[int]*Ship {
	ships := make(map[int]*Ship, len(DefaultFleetLengths))
	for code, length := range DefaultFleetLengths {
		ships[code] = NewShip(code, length)
	}

	return ships
}

// NewShipsFromLengths builds ships for an externally supplied
// length list, in the given order. Codes are assigned after the
// classic fleet codes so they never collide with it.
func NewShipsFromLengths(lengths []int) []*Ship {
	ships := make([]*Ship, 0, len(lengths))
	nextCode := ShipCodeCarrier + 1
	for _, length := range lengths {
		ships = append(ships, NewShip(nextCode, length))
		nextCode++
	}

	return ships
}

func (sh *Ship) Length() int {
	return sh.length
}

func (sh *Ship) GotHit(coords Coordinates) {
	sh.hits++
	sh.hitCoordinates = append(sh.hitCoordinates, coords)
}

func (sh *Ship) IsSunk() bool {
	return sh.hits == sh.length
}

func (sh *Ship) GetHitCoordinates() []Coordinates {
	return sh.hitCoordinates
}
