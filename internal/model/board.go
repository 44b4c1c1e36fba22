package model

// BoardSize is the side length of every board.
const BoardSize = 10

// TotalShipCells is the sum of all ship lengths on a valid board.
const TotalShipCells = 17

// CellState is the state of a single board cell.
type CellState uint8

const (
	CellEmpty CellState = iota
	CellShip
	CellHit
	CellMiss
	CellSunk
)

// ShipType identifies one of the five fleet ships.
type ShipType uint8

const (
	ShipCarrier ShipType = iota
	ShipBattleship
	ShipCruiser
	ShipSubmarine
	ShipDestroyer

	ShipTypeCount = 5
)

var shipLengths = [ShipTypeCount]int{5, 4, 3, 3, 2}

var shipNames = [ShipTypeCount]string{"carrier", "battleship", "cruiser", "submarine", "destroyer"}

// Length returns the number of cells the ship occupies.
func (t ShipType) Length() int {
	if int(t) >= ShipTypeCount {
		return 0
	}
	return shipLengths[t]
}

// String returns the ship's name.
func (t ShipType) String() string {
	if int(t) >= ShipTypeCount {
		return "unknown"
	}
	return shipNames[t]
}

// Ship is one placed ship: its type, the cell of its bow, its
// orientation, and how many of its cells have been hit.
type Ship struct {
	Type       ShipType
	Row        int
	Col        int
	Horizontal bool
	Hits       int
}

// Sunk reports whether every cell of the ship has been hit.
func (s *Ship) Sunk() bool {
	return s.Hits >= s.Type.Length()
}

// cells returns the coordinates the ship occupies. Assumes the ship
// has already been validated on-grid.
func (s *Ship) cells() [][2]int {
	out := make([][2]int, 0, s.Type.Length())
	for i := 0; i < s.Type.Length(); i++ {
		r, c := s.Row, s.Col
		if s.Horizontal {
			c += i
		} else {
			r += i
		}
		out = append(out, [2]int{r, c})
	}
	return out
}

// covers reports whether the ship occupies the given cell.
func (s *Ship) covers(row, col int) bool {
	for _, cell := range s.cells() {
		if cell[0] == row && cell[1] == col {
			return true
		}
	}
	return false
}

// ShotResult is the outcome of resolving one shot against a board.
type ShotResult uint8

const (
	ShotMiss ShotResult = iota
	ShotHit
	ShotSunk

	// ShotInvalid never comes from a board; it marks a rejected shot in
	// the result sent back to the shooter.
	ShotInvalid
)

// String returns the result's wire-independent name.
func (r ShotResult) String() string {
	switch r {
	case ShotHit:
		return "hit"
	case ShotSunk:
		return "sunk"
	case ShotInvalid:
		return "invalid"
	default:
		return "miss"
	}
}

// Board is one player's 10x10 grid plus their five ships. It is
// populated exactly once from a validated placement and thereafter
// mutated only by shot resolution.
type Board struct {
	Cells [BoardSize][BoardSize]CellState
	Ships []Ship
}

// ValidatePlacement checks a proposed fleet layout: exactly five ships,
// one of each type, every ship fully on-grid, no two ships overlapping.
func ValidatePlacement(ships []Ship) error {
	if len(ships) != ShipTypeCount {
		return ErrInvalidPlacement
	}

	var seen [ShipTypeCount]bool
	var occupied [BoardSize][BoardSize]bool

	for _, ship := range ships {
		if int(ship.Type) >= ShipTypeCount || seen[ship.Type] {
			return ErrInvalidPlacement
		}
		seen[ship.Type] = true

		for i := 0; i < ship.Type.Length(); i++ {
			r, c := ship.Row, ship.Col
			if ship.Horizontal {
				c += i
			} else {
				r += i
			}
			if r < 0 || r >= BoardSize || c < 0 || c >= BoardSize {
				return ErrInvalidPlacement
			}
			if occupied[r][c] {
				return ErrInvalidPlacement
			}
			occupied[r][c] = true
		}
	}

	return nil
}

// NewBoard builds a board from a placement. The placement must already
// have passed ValidatePlacement.
func NewBoard(ships []Ship) (*Board, error) {
	if err := ValidatePlacement(ships); err != nil {
		return nil, err
	}

	b := &Board{Ships: make([]Ship, len(ships))}
	copy(b.Ships, ships)
	for i := range b.Ships {
		b.Ships[i].Hits = 0
		for _, cell := range b.Ships[i].cells() {
			b.Cells[cell[0]][cell[1]] = CellShip
		}
	}
	return b, nil
}

// ApplyShot resolves a shot at the given cell. A shot at a cell that
// was already resolved is an error and leaves the board unchanged.
func (b *Board) ApplyShot(row, col int) (ShotResult, error) {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return ShotMiss, ErrInvalidTarget
	}

	switch b.Cells[row][col] {
	case CellEmpty:
		b.Cells[row][col] = CellMiss
		return ShotMiss, nil
	case CellShip:
		// Fall through to ship resolution below.
	default:
		return ShotMiss, ErrCellAlreadyShot
	}

	b.Cells[row][col] = CellHit
	for i := range b.Ships {
		ship := &b.Ships[i]
		if !ship.covers(row, col) {
			continue
		}
		ship.Hits++
		if ship.Sunk() {
			for _, cell := range ship.cells() {
				b.Cells[cell[0]][cell[1]] = CellSunk
			}
			return ShotSunk, nil
		}
		return ShotHit, nil
	}

	// A CellShip cell always belongs to some ship.
	return ShotHit, nil
}

// RemainingShips returns the number of ships not yet sunk.
func (b *Board) RemainingShips() int {
	n := 0
	for i := range b.Ships {
		if !b.Ships[i].Sunk() {
			n++
		}
	}
	return n
}

// AllSunk reports whether the whole fleet has been destroyed.
func (b *Board) AllSunk() bool {
	return b.RemainingShips() == 0
}
