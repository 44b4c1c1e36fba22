package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/harborline/broadside/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestCreateAndGetUser() {
	user := &model.User{ID: "u1", Username: "anne", PasswordHash: "hash", Elo: model.DefaultElo}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))

	got, err := s.storage.GetUserByID(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("anne", got.Username)

	got, err = s.storage.GetUserByUsername(s.ctx, "anne")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), got.ID)
}

func (s *StorageSuite) TestCreateUserRejectsDuplicateUsername() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: "u1", Username: "anne"}))
	err := s.storage.CreateUser(s.ctx, &model.User{ID: "u2", Username: "anne"})
	s.ErrorIs(err, model.ErrUserExists)
}

func (s *StorageSuite) TestGetMissingUser() {
	_, err := s.storage.GetUserByID(s.ctx, "nope")
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetUserByUsername(s.ctx, "nope")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestUpdateEloRating() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: "u1", Username: "anne", Elo: 1200}))
	s.Require().NoError(s.storage.UpdateEloRating(s.ctx, "u1", 1216))

	got, err := s.storage.GetUserByID(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(1216, got.Elo)
}

func (s *StorageSuite) TestRecordResult() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: "u1", Username: "anne"}))
	s.Require().NoError(s.storage.RecordResult(s.ctx, "u1", 1, 0, 0))
	s.Require().NoError(s.storage.RecordResult(s.ctx, "u1", 0, 0, 1))

	got, _ := s.storage.GetUserByID(s.ctx, "u1")
	s.Equal(1, got.Wins)
	s.Equal(1, got.Draws)
}

func (s *StorageSuite) TestSessionLifecycle() {
	session := &model.Session{Token: "tok", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	got, err := s.storage.GetSession(s.ctx, "tok")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), got.UserID)

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "tok"))
	_, err = s.storage.GetSession(s.ctx, "tok")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestMatchLifecycle() {
	record := &model.MatchRecord{ID: "m1", Player1: "u1", Player2: "u2", Status: model.MatchAwaitingPlacement}
	s.Require().NoError(s.storage.CreateMatch(s.ctx, record))

	s.Require().NoError(s.storage.UpdateMatchStatus(s.ctx, "m1", model.MatchActive))
	got, err := s.storage.GetMatchByID(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(model.MatchActive, got.Status)

	record.Winner = "u1"
	record.Reason = model.EndReasonAllSunk
	record.MoveCount = 17
	s.Require().NoError(s.storage.EndMatch(s.ctx, record))

	got, err = s.storage.GetMatchByID(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(model.MatchEnded, got.Status)
	s.Equal(model.UserID("u1"), got.Winner)
	s.Equal(17, got.MoveCount)
}

func (s *StorageSuite) TestGetUserMatches() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, &model.MatchRecord{ID: "m1", Player1: "u1", Player2: "u2"}))
	s.Require().NoError(s.storage.CreateMatch(s.ctx, &model.MatchRecord{ID: "m2", Player1: "u3", Player2: "u1"}))
	s.Require().NoError(s.storage.CreateMatch(s.ctx, &model.MatchRecord{ID: "m3", Player1: "u3", Player2: "u4"}))

	matches, err := s.storage.GetUserMatches(s.ctx, "u1")
	s.Require().NoError(err)
	s.Len(matches, 2)
}

func (s *StorageSuite) TestPlacementRoundTrip() {
	ships := []model.Ship{{Type: model.ShipDestroyer, Row: 4, Col: 0, Horizontal: true}}
	s.Require().NoError(s.storage.SaveShipPlacement(s.ctx, "m1", "u1", ships))

	got, err := s.storage.GetShipPlacement(s.ctx, "m1", "u1")
	s.Require().NoError(err)
	s.Equal(ships, got)

	_, err = s.storage.GetShipPlacement(s.ctx, "m1", "u2")
	s.ErrorIs(err, model.ErrPlacementNotFound)
}

func (s *StorageSuite) TestMovesAppendInOrder() {
	s.Require().NoError(s.storage.SaveMove(s.ctx, &model.Move{MatchID: "m1", Turn: 1, Shooter: "u1", Row: 0, Col: 0}))
	s.Require().NoError(s.storage.SaveMove(s.ctx, &model.Move{MatchID: "m1", Turn: 2, Shooter: "u2", Row: 5, Col: 5}))

	moves, err := s.storage.GetMatchMoves(s.ctx, "m1")
	s.Require().NoError(err)
	s.Require().Len(moves, 2)
	s.Equal(1, moves[0].Turn)
	s.Equal(2, moves[1].Turn)
}
