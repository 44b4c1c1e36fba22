package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type BoardSuite struct {
	suite.Suite
}

func TestBoardSuite(t *testing.T) {
	suite.Run(t, new(BoardSuite))
}

// validFleet returns a legal five-ship layout in the top-left corner.
func validFleet() []Ship {
	return []Ship{
		{Type: ShipCarrier, Row: 0, Col: 0, Horizontal: true},
		{Type: ShipBattleship, Row: 1, Col: 0, Horizontal: true},
		{Type: ShipCruiser, Row: 2, Col: 0, Horizontal: true},
		{Type: ShipSubmarine, Row: 3, Col: 0, Horizontal: true},
		{Type: ShipDestroyer, Row: 4, Col: 0, Horizontal: true},
	}
}

func (s *BoardSuite) TestValidPlacementAccepted() {
	s.NoError(ValidatePlacement(validFleet()))
}

func (s *BoardSuite) TestPlacementRequiresFiveShips() {
	s.ErrorIs(ValidatePlacement(validFleet()[:4]), ErrInvalidPlacement)
	s.ErrorIs(ValidatePlacement(nil), ErrInvalidPlacement)
}

func (s *BoardSuite) TestPlacementRejectsDuplicateShipType() {
	fleet := validFleet()
	fleet[4].Type = ShipCarrier
	fleet[4].Row = 5
	s.ErrorIs(ValidatePlacement(fleet), ErrInvalidPlacement)
}

func (s *BoardSuite) TestPlacementRejectsOffGridShip() {
	fleet := validFleet()
	fleet[0].Col = 6 // carrier of length 5 would run off column 10
	s.ErrorIs(ValidatePlacement(fleet), ErrInvalidPlacement)

	fleet = validFleet()
	fleet[4].Row = 9
	fleet[4].Horizontal = false
	s.ErrorIs(ValidatePlacement(fleet), ErrInvalidPlacement)
}

func (s *BoardSuite) TestPlacementRejectsOverlap() {
	fleet := validFleet()
	fleet[1].Row = 0 // battleship on top of the carrier
	s.ErrorIs(ValidatePlacement(fleet), ErrInvalidPlacement)
}

func (s *BoardSuite) TestBoardHasSeventeenShipCells() {
	board, err := NewBoard(validFleet())
	s.Require().NoError(err)

	count := 0
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if board.Cells[r][c] == CellShip {
				count++
			}
		}
	}
	s.Equal(TotalShipCells, count)
}

func (s *BoardSuite) TestShotMissesEmptyCell() {
	board, _ := NewBoard(validFleet())

	result, err := board.ApplyShot(9, 9)
	s.Require().NoError(err)
	s.Equal(ShotMiss, result)
	s.Equal(CellMiss, board.Cells[9][9])
}

func (s *BoardSuite) TestShotHitsShipCell() {
	board, _ := NewBoard(validFleet())

	result, err := board.ApplyShot(0, 0)
	s.Require().NoError(err)
	s.Equal(ShotHit, result)
	s.Equal(CellHit, board.Cells[0][0])
}

func (s *BoardSuite) TestLastCellOfShipSinksIt() {
	board, _ := NewBoard(validFleet())

	// Destroyer occupies (4,0) and (4,1).
	result, err := board.ApplyShot(4, 0)
	s.Require().NoError(err)
	s.Equal(ShotHit, result)

	result, err = board.ApplyShot(4, 1)
	s.Require().NoError(err)
	s.Equal(ShotSunk, result)
	s.Equal(CellSunk, board.Cells[4][0])
	s.Equal(CellSunk, board.Cells[4][1])
	s.Equal(4, board.RemainingShips())
}

func (s *BoardSuite) TestSeventeenthHitSinksFleet() {
	board, _ := NewBoard(validFleet())

	hits := 0
	for _, ship := range validFleet() {
		for i := 0; i < ship.Type.Length(); i++ {
			_, err := board.ApplyShot(ship.Row, ship.Col+i)
			s.Require().NoError(err)
			hits++
		}
	}
	s.Equal(TotalShipCells, hits)
	s.True(board.AllSunk())
	s.Equal(0, board.RemainingShips())
}

func (s *BoardSuite) TestRepeatShotRejected() {
	board, _ := NewBoard(validFleet())

	_, err := board.ApplyShot(9, 9)
	s.Require().NoError(err)
	_, err = board.ApplyShot(9, 9)
	s.ErrorIs(err, ErrCellAlreadyShot)

	_, err = board.ApplyShot(0, 0)
	s.Require().NoError(err)
	_, err = board.ApplyShot(0, 0)
	s.ErrorIs(err, ErrCellAlreadyShot)
}

func (s *BoardSuite) TestOutOfRangeShotRejected() {
	board, _ := NewBoard(validFleet())

	_, err := board.ApplyShot(-1, 0)
	s.ErrorIs(err, ErrInvalidTarget)
	_, err = board.ApplyShot(0, BoardSize)
	s.ErrorIs(err, ErrInvalidTarget)
}
