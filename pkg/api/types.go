// Package api provides the HTTP/JSON and WebSocket API for the referee.
package api

import (
	"errors"

	"github.com/yourusername/bgreferee/internal/positionid"
	"github.com/yourusername/bgreferee/pkg/engine"
	"github.com/yourusername/bgreferee/pkg/external"
)

// ============================================================================
// Request Types
// ============================================================================

// Snapshot is a game state as sent by clients. The checker layout comes
// from exactly one of Board/Bar/Home, a gnubg PositionID read with
// ActivePlayer on roll, or a FIBS board string. A FIBS board also sets
// the active player and, unless Dice is given, the dice.
// A nil TableOptions means the server's rules.
type Snapshot struct {
	PositionID   string               `json:"positionId,omitempty"`
	FIBSBoard    string               `json:"fibsBoard,omitempty"`
	Board        *[24]int             `json:"board,omitempty"`
	Bar          engine.PerPlayer     `json:"bar"`
	Home         engine.PerPlayer     `json:"home"`
	ActivePlayer engine.Player        `json:"activePlayer"`
	Dice         []int                `json:"dice"`
	DiceUsed     []int                `json:"diceUsed,omitempty"`
	TableOptions *engine.TableOptions `json:"tableOptions,omitempty"`
}

var (
	errMissingBoard = errors.New("state needs a board, a positionId or a fibsBoard")
	errBoardAndID   = errors.New("state has more than one of board, positionId and fibsBoard")
)

// GameState converts the snapshot and checks it structurally.
func (s *Snapshot) GameState(defaults engine.TableOptions) (*engine.GameState, error) {
	gs := &engine.GameState{
		ActivePlayer: s.ActivePlayer,
		Dice:         s.Dice,
		DiceUsed:     s.DiceUsed,
		Options:      defaults,
	}
	if s.TableOptions != nil {
		gs.Options = *s.TableOptions
	}

	sources := 0
	for _, set := range []bool{s.Board != nil, s.PositionID != "", s.FIBSBoard != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, errBoardAndID
	}

	switch {
	case s.Board != nil:
		gs.Board = *s.Board
		gs.Bar = s.Bar
		gs.Home = s.Home
	case s.PositionID != "":
		pos, err := positionid.Decode(s.PositionID, s.ActivePlayer)
		if err != nil {
			return nil, err
		}
		gs.Position = pos
	case s.FIBSBoard != "":
		fb, err := external.ParseFIBSBoard(s.FIBSBoard)
		if err != nil {
			return nil, err
		}
		fgs, err := fb.ToGameState(gs.Options)
		if err != nil {
			return nil, err
		}
		gs.Position = fgs.Position
		gs.ActivePlayer = fgs.ActivePlayer
		if len(gs.Dice) == 0 {
			gs.Dice = fgs.Dice
		}
	default:
		return nil, errMissingBoard
	}

	if err := gs.Validate(); err != nil {
		return nil, err
	}
	return gs, nil
}

// ValidateRequest submits a turn. Exactly one of Moves or Notation is
// used; with neither the request is a pass. Player defaults to the
// state's active player.
type ValidateRequest struct {
	State    Snapshot       `json:"state"`
	Moves    []engine.Move  `json:"moves,omitempty"`
	Notation string         `json:"notation,omitempty"`
	Player   *engine.Player `json:"player,omitempty"`
}

// LegalRequest asks for single legal moves. Dice defaults to the dice
// still unused in the state.
type LegalRequest struct {
	State  Snapshot       `json:"state"`
	Dice   []int          `json:"dice,omitempty"`
	Player *engine.Player `json:"player,omitempty"`
}

// TreeRequest asks for the full move-tree search of the remaining dice.
type TreeRequest struct {
	State    Snapshot       `json:"state"`
	Player   *engine.Player `json:"player,omitempty"`
	MaxPaths int            `json:"max_paths,omitempty"` // Paths to list (default 50)
}

// SurveyRequest asks for the all-rolls survey of a position. Dice in the
// state are ignored.
type SurveyRequest struct {
	PositionID string               `json:"position_id,omitempty"`
	Position   *engine.Position     `json:"position,omitempty"`
	Player     engine.Player        `json:"player"`
	Options    *engine.TableOptions `json:"options,omitempty"`
}

// ============================================================================
// Response Types
// ============================================================================

// ErrorResponse is returned for malformed requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Pool      *PoolStats             `json:"pool,omitempty"`
	TreeCache *engine.TreeCacheStats `json:"tree_cache,omitempty"`
}

// ValidateResponse is the verdict plus the moves as judged.
type ValidateResponse struct {
	engine.Verdict
	Player   engine.Player `json:"player"`
	Moves    []engine.Move `json:"moves"`
	Notation string        `json:"notation"`
	// ResultPositionID is the position after a valid turn, with the
	// opponent on roll.
	ResultPositionID string `json:"resultPositionId,omitempty"`
}

// LegalMoveResponse is one playable checker movement.
type LegalMoveResponse struct {
	engine.Move
	Hit      bool   `json:"hit"`
	Notation string `json:"notation"`
}

// LegalResponse lists single legal moves for the given dice.
type LegalResponse struct {
	Player        engine.Player       `json:"player"`
	Dice          []int               `json:"dice"`
	Moves         []LegalMoveResponse `json:"moves"`
	HasLegalMoves bool                `json:"has_legal_moves"`
	MaxDiceUsable int                 `json:"max_dice_usable"`
}

// TreeResponse summarizes a move-tree search.
type TreeResponse struct {
	Player    engine.Player `json:"player"`
	Dice      []int         `json:"dice"`
	MaxDice   int           `json:"max_dice"`
	MaxPips   int           `json:"max_pips"`
	NumPaths  int           `json:"num_paths"`
	Paths     []string      `json:"paths"`
	Truncated bool          `json:"truncated,omitempty"`
}

// PositionResponse is a decoded position ID.
type PositionResponse struct {
	PositionID string           `json:"position_id"`
	OnRoll     engine.Player    `json:"on_roll"`
	Position   engine.Position  `json:"position"`
	PipCount   engine.PerPlayer `json:"pip_count"`
}

// ============================================================================
// Conversion Helpers
// ============================================================================

// VerdictToResponse attaches formatting to a verdict.
func VerdictToResponse(gs *engine.GameState, v engine.Verdict, moves []engine.Move, p engine.Player) ValidateResponse {
	resp := ValidateResponse{
		Verdict:  v,
		Player:   p,
		Moves:    moves,
		Notation: engine.FormatMoves(moves, p),
	}
	if resp.Moves == nil {
		resp.Moves = []engine.Move{}
	}
	if resp.Errors == nil {
		resp.Errors = []engine.Violation{}
	}
	if v.Valid {
		after := engine.ApplyMoves(gs.Position, moves, p)
		resp.ResultPositionID = positionid.Encode(after, p.Opponent())
	}
	return resp
}

// LegalMovesToResponse formats enumerated moves.
func LegalMovesToResponse(moves []engine.LegalMove, p engine.Player) []LegalMoveResponse {
	out := make([]LegalMoveResponse, len(moves))
	for i, m := range moves {
		out[i] = LegalMoveResponse{
			Move:     m.Move,
			Hit:      m.Hit,
			Notation: engine.FormatMove(m.Move, p),
		}
	}
	return out
}

// TreeToResponse formats up to maxPaths paths of a search result.
func TreeToResponse(tree engine.TreeResult, dice []int, p engine.Player, maxPaths int) TreeResponse {
	resp := TreeResponse{
		Player:   p,
		Dice:     dice,
		MaxDice:  tree.MaxDice,
		MaxPips:  tree.MaxPips,
		NumPaths: len(tree.Paths),
		Paths:    []string{},
	}
	// An empty search holds only the empty sequence
	if tree.MaxDice == 0 {
		resp.NumPaths = 0
		return resp
	}
	for i, path := range tree.Paths {
		if i == maxPaths {
			resp.Truncated = true
			break
		}
		resp.Paths = append(resp.Paths, engine.FormatMoves(path, p))
	}
	return resp
}

func playerOr(p *engine.Player, fallback engine.Player) engine.Player {
	if p == nil {
		return fallback
	}
	return *p
}

func surveyPosition(req *SurveyRequest) (engine.Position, error) {
	switch {
	case req.Position != nil && req.PositionID != "":
		return engine.Position{}, errors.New("survey has both a position and a position_id")
	case req.Position != nil:
		pos := *req.Position
		if err := pos.Validate(); err != nil {
			return pos, err
		}
		return pos, nil
	case req.PositionID != "":
		return positionid.Decode(req.PositionID, req.Player)
	}
	return engine.Position{}, errors.New("survey needs a position or a position_id")
}
