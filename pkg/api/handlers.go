package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yourusername/bgreferee/internal/positionid"
	"github.com/yourusername/bgreferee/pkg/engine"
)

const (
	defaultMaxPaths = 50
	limitMaxPaths   = 1000
)

// Handlers holds the HTTP handlers and their shared settings.
type Handlers struct {
	version string
	pool    *WorkerPool
	trees   *engine.TreeCache
	rules   engine.TableOptions
	log     zerolog.Logger
}

// NewHandlers creates a new Handlers instance without a worker pool,
// using the default table options and no logging.
func NewHandlers(version string) *Handlers {
	return &Handlers{
		version: version,
		trees:   engine.NewTreeCache(engine.DefaultTreeCacheSize),
		rules:   engine.DefaultTableOptions(),
		log:     zerolog.Nop(),
	}
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
// rules applies to requests whose state carries no tableOptions.
func NewHandlersWithPool(version string, pool *WorkerPool, rules engine.TableOptions, logger zerolog.Logger) *Handlers {
	return &Handlers{
		version: version,
		pool:    pool,
		trees:   engine.NewTreeCache(engine.DefaultTreeCacheSize),
		rules:   rules,
		log:     logger,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// withSlot runs fn holding a pool slot, or answers 503 if none comes free
// before the request is cancelled.
func (h *Handlers) withSlot(w http.ResponseWriter, r *http.Request, l Lane, fn func(ctx context.Context)) {
	if h.pool == nil {
		fn(r.Context())
		return
	}
	err := h.pool.Run(r.Context(), l, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("lane", l.String()).Msg("pool-unavailable")
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
	}
}

// checkMoves rejects moves the engine cannot interpret at all.
func checkMoves(moves []engine.Move) error {
	for i, m := range moves {
		if m.From != engine.Bar && !engine.OnBoard(m.From) {
			return fmt.Errorf("move %d: from %d out of range", i+1, m.From)
		}
		if m.To != engine.BearOff && !engine.OnBoard(m.To) {
			return fmt.Errorf("move %d: to %d out of range", i+1, m.To)
		}
		if m.Die < 1 || m.Die > 6 {
			return fmt.Errorf("move %d: die %d out of range", i+1, m.Die)
		}
	}
	return nil
}

func checkDice(dice []int) error {
	for _, d := range dice {
		if d < 1 || d > 6 {
			return fmt.Errorf("%w: die value %d out of range", engine.ErrInvalidDice, d)
		}
	}
	return nil
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	trees := h.trees.Stats()
	resp.TreeCache = &trees
	writeJSON(w, http.StatusOK, resp)
}

// resolveTurn turns a validate request into the state, player and moves
// to judge. The returned code is the error code for a 400 response.
func (h *Handlers) resolveTurn(req *ValidateRequest) (*engine.GameState, engine.Player, []engine.Move, string, error) {
	gs, err := req.State.GameState(h.rules)
	if err != nil {
		return nil, 0, nil, "INVALID_STATE", err
	}
	p := playerOr(req.Player, gs.ActivePlayer)

	moves := req.Moves
	switch {
	case req.Notation != "" && len(req.Moves) > 0:
		return nil, 0, nil, "AMBIGUOUS_MOVES", errors.New("give moves or notation, not both")
	case strings.TrimSpace(req.Notation) != "":
		moves, err = engine.ParseMoves(req.Notation, p, gs.RemainingDice())
		if err != nil {
			return nil, 0, nil, "INVALID_NOTATION", err
		}
	}
	if err := checkMoves(moves); err != nil {
		return nil, 0, nil, "INVALID_MOVE", err
	}
	return gs, p, moves, "", nil
}

// judge validates a resolved turn and logs the outcome.
func (h *Handlers) judge(gs *engine.GameState, p engine.Player, moves []engine.Move) ValidateResponse {
	v := engine.ValidateMoves(gs, moves, p)
	h.log.Debug().
		Str("player", p.String()).
		Ints("dice", gs.Dice).
		Str("moves", engine.FormatMoves(moves, p)).
		Bool("valid", v.Valid).
		Int("violations", len(v.Errors)).
		Msg("turn-validated")
	return VerdictToResponse(gs, v, moves, p)
}

// Validate handles POST /api/validate
func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	h.withSlot(w, r, Fast, func(ctx context.Context) {
		var req ValidateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
			return
		}
		gs, p, moves, code, err := h.resolveTurn(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), code)
			return
		}
		writeJSON(w, http.StatusOK, h.judge(gs, p, moves))
	})
}

func (h *Handlers) legal(req *LegalRequest) (LegalResponse, string, error) {
	gs, err := req.State.GameState(h.rules)
	if err != nil {
		return LegalResponse{}, "INVALID_STATE", err
	}
	if err := checkDice(req.Dice); err != nil {
		return LegalResponse{}, "INVALID_DICE", err
	}
	p := playerOr(req.Player, gs.ActivePlayer)

	// Every field is answered for the same dice
	dice := []int(gs.RemainingDice())
	if req.Dice != nil {
		dice = req.Dice
	}
	roll := gs.Clone()
	roll.Dice = dice
	roll.DiceUsed = nil

	moves := engine.CalculateLegalMoves(roll, nil, p)
	return LegalResponse{
		Player:        p,
		Dice:          dice,
		Moves:         LegalMovesToResponse(moves, p),
		HasLegalMoves: len(moves) > 0,
		MaxDiceUsable: h.trees.MaxDiceUsable(roll, p),
	}, "", nil
}

// Legal handles POST /api/legal
func (h *Handlers) Legal(w http.ResponseWriter, r *http.Request) {
	h.withSlot(w, r, Fast, func(ctx context.Context) {
		var req LegalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
			return
		}
		resp, code, err := h.legal(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), code)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// Tree handles POST /api/tree
func (h *Handlers) Tree(w http.ResponseWriter, r *http.Request) {
	h.withSlot(w, r, Fast, func(ctx context.Context) {
		var req TreeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
			return
		}
		gs, err := req.State.GameState(h.rules)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_STATE")
			return
		}
		p := playerOr(req.Player, gs.ActivePlayer)

		maxPaths := req.MaxPaths
		if maxPaths <= 0 {
			maxPaths = defaultMaxPaths
		}
		if maxPaths > limitMaxPaths {
			maxPaths = limitMaxPaths
		}

		pool := gs.RemainingDice()
		tree := h.trees.Search(gs.Position, pool, p, gs.Options)
		writeJSON(w, http.StatusOK, TreeToResponse(tree, pool, p, maxPaths))
	})
}

// Survey handles POST /api/survey
func (h *Handlers) Survey(w http.ResponseWriter, r *http.Request) {
	h.withSlot(w, r, Slow, func(ctx context.Context) {
		var req SurveyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
			return
		}
		pos, err := surveyPosition(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_POSITION")
			return
		}
		opts := h.rules
		if req.Options != nil {
			opts = *req.Options
		}

		survey, err := engine.SurveyRolls(ctx, pos, req.Player, opts)
		if err != nil {
			h.log.Warn().Err(err).Msg("survey-cancelled")
			writeError(w, http.StatusServiceUnavailable, err.Error(), "CANCELLED")
			return
		}
		h.log.Debug().
			Str("player", req.Player.String()).
			Float64("mean_dice", survey.MeanDiceUsable).
			Float64("no_move", survey.NoMoveProbability).
			Msg("survey-complete")
		writeJSON(w, http.StatusOK, survey)
	})
}

// Position handles GET /api/position/{id}?player=white
func (h *Handlers) Position(w http.ResponseWriter, r *http.Request) {
	// IDs may contain '/', which clients send as %2F
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_POSITION_ID")
		return
	}

	onRoll := engine.White
	if s := r.URL.Query().Get("player"); s != "" {
		p, err := engine.ParsePlayer(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_PLAYER")
			return
		}
		onRoll = p
	}

	pos, err := positionid.Decode(id, onRoll)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_POSITION_ID")
		return
	}
	writeJSON(w, http.StatusOK, PositionResponse{
		PositionID: positionid.Encode(pos, onRoll),
		OnRoll:     onRoll,
		Position:   pos,
		PipCount: engine.PerPlayer{
			White: pos.PipCount(engine.White),
			Black: pos.PipCount(engine.Black),
		},
	})
}
