package protocol

import (
	"encoding/binary"

	"github.com/harborline/broadside/internal/model"
)

// Payload sizes, one constant per fixed-size record.
const (
	CredentialsSize       = UsernameLen + PasswordLen
	AuthResponseSize      = 1 + IDLen + 4 + ReasonLen
	StatusUpdateSize      = IDLen + 1
	PlayerEntrySize       = IDLen + UsernameLen + 4 + 1
	ChallengeSize         = IDLen + 4
	ChallengeReceivedSize = IDLen + UsernameLen + 4 + 4
	ChallengeResponseSize = IDLen + 1
	QueueJoinSize         = 4
	QueueStatusSize       = 1 + 2 + 4
	MatchStartSize        = IDLen + IDLen + UsernameLen + 4 + 4
	PlacementSize         = IDLen + model.ShipTypeCount*4
	PlacementAckSize      = IDLen + 1 + ReasonLen
	MoveSize              = IDLen + 2
	MoveResultSize        = IDLen + IDLen + 3 + 4 + 1
	TurnUpdateSize        = IDLen + IDLen + 4 + 4
	MatchRefSize          = IDLen
	MatchResponseSize     = IDLen + 1
	MatchStateSize        = IDLen + 1 + IDLen + 4
	MatchEndSize          = IDLen + IDLen + ReasonLen + 4 + 4
	ChatSize              = IDLen + IDLen + ChatTextLen
)

// Credentials is the register and login request payload.
type Credentials struct {
	Username string
	Password string
}

func (p *Credentials) Marshal() []byte {
	buf := make([]byte, CredentialsSize)
	putString(buf[0:UsernameLen], p.Username)
	putString(buf[UsernameLen:], p.Password)
	return buf
}

func (p *Credentials) Unmarshal(buf []byte) error {
	if len(buf) != CredentialsSize {
		return ErrPayloadSize
	}
	p.Username = getString(buf[0:UsernameLen])
	p.Password = getString(buf[UsernameLen:])
	return nil
}

// AuthResponse answers register, login, and session-check requests.
type AuthResponse struct {
	Success bool
	UserID  model.UserID
	Elo     uint32
	Message string
}

func (p *AuthResponse) Marshal() []byte {
	buf := make([]byte, AuthResponseSize)
	if p.Success {
		buf[0] = 1
	}
	putString(buf[1:1+IDLen], string(p.UserID))
	binary.BigEndian.PutUint32(buf[1+IDLen:5+IDLen], p.Elo)
	putString(buf[5+IDLen:], p.Message)
	return buf
}

func (p *AuthResponse) Unmarshal(buf []byte) error {
	if len(buf) != AuthResponseSize {
		return ErrPayloadSize
	}
	p.Success = buf[0] == 1
	p.UserID = model.UserID(getString(buf[1 : 1+IDLen]))
	p.Elo = binary.BigEndian.Uint32(buf[1+IDLen : 5+IDLen])
	p.Message = getString(buf[5+IDLen:])
	return nil
}

// StatusUpdate pushes one player's presence change.
type StatusUpdate struct {
	UserID model.UserID
	Status model.PlayerStatus
}

func (p *StatusUpdate) Marshal() []byte {
	buf := make([]byte, StatusUpdateSize)
	putString(buf[0:IDLen], string(p.UserID))
	buf[IDLen] = byte(p.Status)
	return buf
}

func (p *StatusUpdate) Unmarshal(buf []byte) error {
	if len(buf) != StatusUpdateSize {
		return ErrPayloadSize
	}
	p.UserID = model.UserID(getString(buf[0:IDLen]))
	p.Status = model.PlayerStatus(buf[IDLen])
	return nil
}

// PlayerEntry is one row of the player-list response.
type PlayerEntry struct {
	UserID   model.UserID
	Username string
	Elo      uint32
	Status   model.PlayerStatus
}

// PlayerList is the only variable-length payload: an explicit count
// followed by that many fixed records, bounded by MaxListedPlayers.
type PlayerList struct {
	Players []PlayerEntry
}

func (p *PlayerList) Marshal() []byte {
	players := p.Players
	if len(players) > MaxListedPlayers {
		players = players[:MaxListedPlayers]
	}
	buf := make([]byte, 2+len(players)*PlayerEntrySize)
	binary.BigEndian.PutUint16(buf[0:2], uint16(len(players)))
	for i, entry := range players {
		off := 2 + i*PlayerEntrySize
		putString(buf[off:off+IDLen], string(entry.UserID))
		putString(buf[off+IDLen:off+IDLen+UsernameLen], entry.Username)
		binary.BigEndian.PutUint32(buf[off+IDLen+UsernameLen:off+IDLen+UsernameLen+4], entry.Elo)
		buf[off+IDLen+UsernameLen+4] = byte(entry.Status)
	}
	return buf
}

func (p *PlayerList) Unmarshal(buf []byte) error {
	if len(buf) < 2 {
		return ErrPayloadSize
	}
	count := int(binary.BigEndian.Uint16(buf[0:2]))
	if count > MaxListedPlayers || len(buf) != 2+count*PlayerEntrySize {
		return ErrPayloadSize
	}
	p.Players = make([]PlayerEntry, count)
	for i := 0; i < count; i++ {
		off := 2 + i*PlayerEntrySize
		p.Players[i] = PlayerEntry{
			UserID:   model.UserID(getString(buf[off : off+IDLen])),
			Username: getString(buf[off+IDLen : off+IDLen+UsernameLen]),
			Elo:      binary.BigEndian.Uint32(buf[off+IDLen+UsernameLen : off+IDLen+UsernameLen+4]),
			Status:   model.PlayerStatus(buf[off+IDLen+UsernameLen+4]),
		}
	}
	return nil
}

// Challenge asks the server to challenge another player directly.
type Challenge struct {
	OpponentID    model.UserID
	TurnLimitSecs uint32
}

func (p *Challenge) Marshal() []byte {
	buf := make([]byte, ChallengeSize)
	putString(buf[0:IDLen], string(p.OpponentID))
	binary.BigEndian.PutUint32(buf[IDLen:], p.TurnLimitSecs)
	return buf
}

func (p *Challenge) Unmarshal(buf []byte) error {
	if len(buf) != ChallengeSize {
		return ErrPayloadSize
	}
	p.OpponentID = model.UserID(getString(buf[0:IDLen]))
	p.TurnLimitSecs = binary.BigEndian.Uint32(buf[IDLen:])
	return nil
}

// ChallengeReceived is the forwarded challenge seen by the target.
type ChallengeReceived struct {
	FromID        model.UserID
	FromName      string
	FromElo       uint32
	TurnLimitSecs uint32
}

func (p *ChallengeReceived) Marshal() []byte {
	buf := make([]byte, ChallengeReceivedSize)
	putString(buf[0:IDLen], string(p.FromID))
	putString(buf[IDLen:IDLen+UsernameLen], p.FromName)
	binary.BigEndian.PutUint32(buf[IDLen+UsernameLen:IDLen+UsernameLen+4], p.FromElo)
	binary.BigEndian.PutUint32(buf[IDLen+UsernameLen+4:], p.TurnLimitSecs)
	return buf
}

func (p *ChallengeReceived) Unmarshal(buf []byte) error {
	if len(buf) != ChallengeReceivedSize {
		return ErrPayloadSize
	}
	p.FromID = model.UserID(getString(buf[0:IDLen]))
	p.FromName = getString(buf[IDLen : IDLen+UsernameLen])
	p.FromElo = binary.BigEndian.Uint32(buf[IDLen+UsernameLen : IDLen+UsernameLen+4])
	p.TurnLimitSecs = binary.BigEndian.Uint32(buf[IDLen+UsernameLen+4:])
	return nil
}

// ChallengeResponse accepts or declines a received challenge.
type ChallengeResponse struct {
	ChallengerID model.UserID
	Accepted     bool
}

func (p *ChallengeResponse) Marshal() []byte {
	buf := make([]byte, ChallengeResponseSize)
	putString(buf[0:IDLen], string(p.ChallengerID))
	if p.Accepted {
		buf[IDLen] = 1
	}
	return buf
}

func (p *ChallengeResponse) Unmarshal(buf []byte) error {
	if len(buf) != ChallengeResponseSize {
		return ErrPayloadSize
	}
	p.ChallengerID = model.UserID(getString(buf[0:IDLen]))
	p.Accepted = buf[IDLen] == 1
	return nil
}

// QueueJoin enters the matchmaking queue with a per-turn time limit.
type QueueJoin struct {
	TurnLimitSecs uint32
}

func (p *QueueJoin) Marshal() []byte {
	buf := make([]byte, QueueJoinSize)
	binary.BigEndian.PutUint32(buf, p.TurnLimitSecs)
	return buf
}

func (p *QueueJoin) Unmarshal(buf []byte) error {
	if len(buf) != QueueJoinSize {
		return ErrPayloadSize
	}
	p.TurnLimitSecs = binary.BigEndian.Uint32(buf)
	return nil
}

// QueueStatus reports a waiting player's position and current window.
type QueueStatus struct {
	Queued   bool
	Position uint16
	Window   uint32 // current allowed ELO spread
}

func (p *QueueStatus) Marshal() []byte {
	buf := make([]byte, QueueStatusSize)
	if p.Queued {
		buf[0] = 1
	}
	binary.BigEndian.PutUint16(buf[1:3], p.Position)
	binary.BigEndian.PutUint32(buf[3:], p.Window)
	return buf
}

func (p *QueueStatus) Unmarshal(buf []byte) error {
	if len(buf) != QueueStatusSize {
		return ErrPayloadSize
	}
	p.Queued = buf[0] == 1
	p.Position = binary.BigEndian.Uint16(buf[1:3])
	p.Window = binary.BigEndian.Uint32(buf[3:])
	return nil
}

// MatchStart notifies a player that a match has been created for them.
type MatchStart struct {
	MatchID       model.MatchID
	OpponentID    model.UserID
	OpponentName  string
	OpponentElo   uint32
	TurnLimitSecs uint32
}

func (p *MatchStart) Marshal() []byte {
	buf := make([]byte, MatchStartSize)
	putString(buf[0:IDLen], string(p.MatchID))
	putString(buf[IDLen:2*IDLen], string(p.OpponentID))
	putString(buf[2*IDLen:2*IDLen+UsernameLen], p.OpponentName)
	binary.BigEndian.PutUint32(buf[2*IDLen+UsernameLen:2*IDLen+UsernameLen+4], p.OpponentElo)
	binary.BigEndian.PutUint32(buf[2*IDLen+UsernameLen+4:], p.TurnLimitSecs)
	return buf
}

func (p *MatchStart) Unmarshal(buf []byte) error {
	if len(buf) != MatchStartSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	p.OpponentID = model.UserID(getString(buf[IDLen : 2*IDLen]))
	p.OpponentName = getString(buf[2*IDLen : 2*IDLen+UsernameLen])
	p.OpponentElo = binary.BigEndian.Uint32(buf[2*IDLen+UsernameLen : 2*IDLen+UsernameLen+4])
	p.TurnLimitSecs = binary.BigEndian.Uint32(buf[2*IDLen+UsernameLen+4:])
	return nil
}

// Placement submits a full five-ship fleet layout.
type Placement struct {
	MatchID model.MatchID
	Ships   [model.ShipTypeCount]ShipRecord
}

// ShipRecord is one ship inside a placement payload.
type ShipRecord struct {
	Type       uint8
	Row        uint8
	Col        uint8
	Horizontal bool
}

func (p *Placement) Marshal() []byte {
	buf := make([]byte, PlacementSize)
	putString(buf[0:IDLen], string(p.MatchID))
	for i, ship := range p.Ships {
		off := IDLen + i*4
		buf[off] = ship.Type
		buf[off+1] = ship.Row
		buf[off+2] = ship.Col
		if ship.Horizontal {
			buf[off+3] = 1
		}
	}
	return buf
}

func (p *Placement) Unmarshal(buf []byte) error {
	if len(buf) != PlacementSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	for i := range p.Ships {
		off := IDLen + i*4
		p.Ships[i] = ShipRecord{
			Type:       buf[off],
			Row:        buf[off+1],
			Col:        buf[off+2],
			Horizontal: buf[off+3] == 1,
		}
	}
	return nil
}

// Models converts the wire records into domain ships.
func (p *Placement) Models() []model.Ship {
	out := make([]model.Ship, len(p.Ships))
	for i, ship := range p.Ships {
		out[i] = model.Ship{
			Type:       model.ShipType(ship.Type),
			Row:        int(ship.Row),
			Col:        int(ship.Col),
			Horizontal: ship.Horizontal,
		}
	}
	return out
}

// PlacementAck accepts or rejects a submitted placement.
type PlacementAck struct {
	MatchID  model.MatchID
	Accepted bool
	Message  string
}

func (p *PlacementAck) Marshal() []byte {
	buf := make([]byte, PlacementAckSize)
	putString(buf[0:IDLen], string(p.MatchID))
	if p.Accepted {
		buf[IDLen] = 1
	}
	putString(buf[IDLen+1:], p.Message)
	return buf
}

func (p *PlacementAck) Unmarshal(buf []byte) error {
	if len(buf) != PlacementAckSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	p.Accepted = buf[IDLen] == 1
	p.Message = getString(buf[IDLen+1:])
	return nil
}

// Move fires at a cell of the opponent's board.
type Move struct {
	MatchID model.MatchID
	Row     uint8
	Col     uint8
}

func (p *Move) Marshal() []byte {
	buf := make([]byte, MoveSize)
	putString(buf[0:IDLen], string(p.MatchID))
	buf[IDLen] = p.Row
	buf[IDLen+1] = p.Col
	return buf
}

func (p *Move) Unmarshal(buf []byte) error {
	if len(buf) != MoveSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	p.Row = buf[IDLen]
	p.Col = buf[IDLen+1]
	return nil
}

// MoveResult reports one resolved shot to both players.
type MoveResult struct {
	MatchID        model.MatchID
	Shooter        model.UserID
	Row            uint8
	Col            uint8
	Result         model.ShotResult
	TurnNumber     uint32
	ShipsRemaining uint8 // on the target's board
}

func (p *MoveResult) Marshal() []byte {
	buf := make([]byte, MoveResultSize)
	putString(buf[0:IDLen], string(p.MatchID))
	putString(buf[IDLen:2*IDLen], string(p.Shooter))
	buf[2*IDLen] = p.Row
	buf[2*IDLen+1] = p.Col
	buf[2*IDLen+2] = byte(p.Result)
	binary.BigEndian.PutUint32(buf[2*IDLen+3:2*IDLen+7], p.TurnNumber)
	buf[2*IDLen+7] = p.ShipsRemaining
	return buf
}

func (p *MoveResult) Unmarshal(buf []byte) error {
	if len(buf) != MoveResultSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	p.Shooter = model.UserID(getString(buf[IDLen : 2*IDLen]))
	p.Row = buf[2*IDLen]
	p.Col = buf[2*IDLen+1]
	p.Result = model.ShotResult(buf[2*IDLen+2])
	p.TurnNumber = binary.BigEndian.Uint32(buf[2*IDLen+3 : 2*IDLen+7])
	p.ShipsRemaining = buf[2*IDLen+7]
	return nil
}

// TurnUpdate announces whose turn it is and the turn's time limit.
type TurnUpdate struct {
	MatchID       model.MatchID
	CurrentTurn   model.UserID
	TurnNumber    uint32
	TurnLimitSecs uint32
}

func (p *TurnUpdate) Marshal() []byte {
	buf := make([]byte, TurnUpdateSize)
	putString(buf[0:IDLen], string(p.MatchID))
	putString(buf[IDLen:2*IDLen], string(p.CurrentTurn))
	binary.BigEndian.PutUint32(buf[2*IDLen:2*IDLen+4], p.TurnNumber)
	binary.BigEndian.PutUint32(buf[2*IDLen+4:], p.TurnLimitSecs)
	return buf
}

func (p *TurnUpdate) Unmarshal(buf []byte) error {
	if len(buf) != TurnUpdateSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	p.CurrentTurn = model.UserID(getString(buf[IDLen : 2*IDLen]))
	p.TurnNumber = binary.BigEndian.Uint32(buf[2*IDLen : 2*IDLen+4])
	p.TurnLimitSecs = binary.BigEndian.Uint32(buf[2*IDLen+4:])
	return nil
}

// MatchRef carries just a match id: turn timeout, resign, draw offer,
// pause request.
type MatchRef struct {
	MatchID model.MatchID
}

func (p *MatchRef) Marshal() []byte {
	buf := make([]byte, MatchRefSize)
	putString(buf, string(p.MatchID))
	return buf
}

func (p *MatchRef) Unmarshal(buf []byte) error {
	if len(buf) != MatchRefSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf))
	return nil
}

// MatchResponse carries a match id plus an accept/decline flag: draw
// response and pause response.
type MatchResponse struct {
	MatchID  model.MatchID
	Accepted bool
}

func (p *MatchResponse) Marshal() []byte {
	buf := make([]byte, MatchResponseSize)
	putString(buf[0:IDLen], string(p.MatchID))
	if p.Accepted {
		buf[IDLen] = 1
	}
	return buf
}

func (p *MatchResponse) Unmarshal(buf []byte) error {
	if len(buf) != MatchResponseSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	p.Accepted = buf[IDLen] == 1
	return nil
}

// MatchState announces a match phase change, sent when both fleets
// are placed and the match goes active.
type MatchState struct {
	MatchID     model.MatchID
	Status      uint8
	CurrentTurn model.UserID
	TurnNumber  uint32
}

// Wire codes for match status.
const (
	StatusCodeAwaitingPlacement uint8 = iota
	StatusCodeActive
	StatusCodePaused
	StatusCodeEnded
)

// StatusCode maps a domain match status onto its wire code.
func StatusCode(status model.MatchStatus) uint8 {
	switch status {
	case model.MatchActive:
		return StatusCodeActive
	case model.MatchPaused:
		return StatusCodePaused
	case model.MatchEnded:
		return StatusCodeEnded
	default:
		return StatusCodeAwaitingPlacement
	}
}

func (p *MatchState) Marshal() []byte {
	buf := make([]byte, MatchStateSize)
	putString(buf[0:IDLen], string(p.MatchID))
	buf[IDLen] = p.Status
	putString(buf[IDLen+1:2*IDLen+1], string(p.CurrentTurn))
	binary.BigEndian.PutUint32(buf[2*IDLen+1:], p.TurnNumber)
	return buf
}

func (p *MatchState) Unmarshal(buf []byte) error {
	if len(buf) != MatchStateSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	p.Status = buf[IDLen]
	p.CurrentTurn = model.UserID(getString(buf[IDLen+1 : 2*IDLen+1]))
	p.TurnNumber = binary.BigEndian.Uint32(buf[2*IDLen+1:])
	return nil
}

// MatchEnd is the definitive terminal notification. Winner is empty
// for a draw; EloDelta and NewElo are the recipient's own numbers.
type MatchEnd struct {
	MatchID  model.MatchID
	Winner   model.UserID
	Reason   string
	EloDelta int32
	NewElo   uint32
}

func (p *MatchEnd) Marshal() []byte {
	buf := make([]byte, MatchEndSize)
	putString(buf[0:IDLen], string(p.MatchID))
	putString(buf[IDLen:2*IDLen], string(p.Winner))
	putString(buf[2*IDLen:2*IDLen+ReasonLen], p.Reason)
	binary.BigEndian.PutUint32(buf[2*IDLen+ReasonLen:2*IDLen+ReasonLen+4], uint32(p.EloDelta))
	binary.BigEndian.PutUint32(buf[2*IDLen+ReasonLen+4:], p.NewElo)
	return buf
}

func (p *MatchEnd) Unmarshal(buf []byte) error {
	if len(buf) != MatchEndSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	p.Winner = model.UserID(getString(buf[IDLen : 2*IDLen]))
	p.Reason = getString(buf[2*IDLen : 2*IDLen+ReasonLen])
	p.EloDelta = int32(binary.BigEndian.Uint32(buf[2*IDLen+ReasonLen : 2*IDLen+ReasonLen+4]))
	p.NewElo = binary.BigEndian.Uint32(buf[2*IDLen+ReasonLen+4:])
	return nil
}

// Chat carries an in-match message. Clients leave From empty; the
// server fills it before relaying to the opponent.
type Chat struct {
	MatchID model.MatchID
	From    model.UserID
	Text    string
}

func (p *Chat) Marshal() []byte {
	buf := make([]byte, ChatSize)
	putString(buf[0:IDLen], string(p.MatchID))
	putString(buf[IDLen:2*IDLen], string(p.From))
	putString(buf[2*IDLen:], p.Text)
	return buf
}

func (p *Chat) Unmarshal(buf []byte) error {
	if len(buf) != ChatSize {
		return ErrPayloadSize
	}
	p.MatchID = model.MatchID(getString(buf[0:IDLen]))
	p.From = model.UserID(getString(buf[IDLen : 2*IDLen]))
	p.Text = getString(buf[2*IDLen:])
	return nil
}

// RematchRequest asks a recent opponent for a new match; the same
// shape is forwarded to the opponent with OpponentID rewritten to the
// requester. RematchResponse mirrors it with an accept flag.
type RematchRequest struct {
	OpponentID    model.UserID
	TurnLimitSecs uint32
}

func (p *RematchRequest) Marshal() []byte {
	buf := make([]byte, ChallengeSize)
	putString(buf[0:IDLen], string(p.OpponentID))
	binary.BigEndian.PutUint32(buf[IDLen:], p.TurnLimitSecs)
	return buf
}

func (p *RematchRequest) Unmarshal(buf []byte) error {
	if len(buf) != ChallengeSize {
		return ErrPayloadSize
	}
	p.OpponentID = model.UserID(getString(buf[0:IDLen]))
	p.TurnLimitSecs = binary.BigEndian.Uint32(buf[IDLen:])
	return nil
}

// RematchResponse accepts or declines a rematch request.
type RematchResponse struct {
	OpponentID model.UserID
	Accepted   bool
}

func (p *RematchResponse) Marshal() []byte {
	buf := make([]byte, ChallengeResponseSize)
	putString(buf[0:IDLen], string(p.OpponentID))
	if p.Accepted {
		buf[IDLen] = 1
	}
	return buf
}

func (p *RematchResponse) Unmarshal(buf []byte) error {
	if len(buf) != ChallengeResponseSize {
		return ErrPayloadSize
	}
	p.OpponentID = model.UserID(getString(buf[0:IDLen]))
	p.Accepted = buf[IDLen] == 1
	return nil
}
