// bgreferee - backgammon move validation and forced-move analysis
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/yourusername/bgreferee/internal/config"
	"github.com/yourusername/bgreferee/internal/positionid"
	"github.com/yourusername/bgreferee/pkg/api"
	"github.com/yourusername/bgreferee/pkg/engine"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) < 1 {
		printUsage(stdout)
		return errors.New("command required")
	}

	command, args := args[0], args[1:]
	switch command {
	case "validate":
		return cmdValidate(args, stdin, stdout)
	case "legal":
		return cmdLegal(args, stdin, stdout)
	case "tree":
		return cmdTree(args, stdin, stdout)
	case "survey":
		return cmdSurvey(ctx, args, stdin, stdout)
	case "id":
		return cmdID(args, stdin, stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	}
	printUsage(stdout)
	return fmt.Errorf("unknown command: %s", command)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `bgreferee - Backgammon move referee

Usage: bgreferee <command> [options]

Commands:
  validate  Judge a turn against a position and roll
  legal     List single legal moves
  tree      Show the move-tree search for the roll
  survey    Forced-move statistics over all 21 rolls
  id        Encode a state as a gnubg position ID, or decode one

Use "bgreferee <command> -h" for command-specific help.

State:
  -state FILE reads a JSON snapshot ("-" for stdin):
    {"board": [...24 ints...], "bar": {"white": 0, "black": 0},
     "home": {"white": 0, "black": 0}, "activePlayer": "white",
     "dice": [3, 1], "tableOptions": {"allowBearOffOvershoot": true}}
  or -position ID -dice 3-1 -player white builds one from a position ID,
  or -fibs "board:..." reads a FIBS board string (you play white).`)
}

// stateFlags are the flags shared by every command that reads a state.
type stateFlags struct {
	configFile string
	stateFile  string
	position   string
	fibs       string
	dice       string
	player     string
	jsonOut    bool
}

func (sf *stateFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&sf.configFile, "config", "", "Config file for default table rules")
	fs.StringVar(&sf.stateFile, "state", "", "JSON snapshot file (- for stdin)")
	fs.StringVar(&sf.position, "position", "", "Position ID (gnubg format)")
	fs.StringVar(&sf.position, "p", "", "Position ID (short form)")
	fs.StringVar(&sf.fibs, "fibs", "", "FIBS board string")
	fs.StringVar(&sf.dice, "dice", "", "Dice roll (e.g., 3,1 or 3-1)")
	fs.StringVar(&sf.dice, "d", "", "Dice roll (short form)")
	fs.StringVar(&sf.player, "player", "", "Player to move (white or black)")
	fs.BoolVar(&sf.jsonOut, "json", false, "Print JSON instead of text")
}

// load builds the game state and the player to judge.
func (sf *stateFlags) load(stdin io.Reader) (*engine.GameState, engine.Player, error) {
	cfg, err := config.Load(sf.configFile)
	if err != nil {
		return nil, 0, err
	}

	sources := 0
	for _, v := range []string{sf.stateFile, sf.position, sf.fibs} {
		if v != "" {
			sources++
		}
	}
	if sources > 1 {
		return nil, 0, errors.New("use only one of -state, -position and -fibs")
	}

	var snap api.Snapshot
	switch {
	case sf.stateFile != "":
		if err := readSnapshot(sf.stateFile, stdin, &snap); err != nil {
			return nil, 0, err
		}
	case sf.position != "":
		snap.PositionID = sf.position
		if sf.player != "" {
			p, err := engine.ParsePlayer(sf.player)
			if err != nil {
				return nil, 0, err
			}
			snap.ActivePlayer = p
		}
	case sf.fibs != "":
		snap.FIBSBoard = sf.fibs
	default:
		return nil, 0, errors.New("a state is required: -state FILE, -position ID or -fibs BOARD")
	}

	if sf.dice != "" {
		dice, err := parseDice(sf.dice)
		if err != nil {
			return nil, 0, err
		}
		snap.Dice = dice
		snap.DiceUsed = nil
	}

	gs, err := snap.GameState(cfg.Rules.TableOptions())
	if err != nil {
		return nil, 0, err
	}

	p := gs.ActivePlayer
	if sf.player != "" {
		if p, err = engine.ParsePlayer(sf.player); err != nil {
			return nil, 0, err
		}
	}
	return gs, p, nil
}

func readSnapshot(path string, stdin io.Reader, snap *api.Snapshot) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, snap); err != nil {
		return fmt.Errorf("parse state: %w", err)
	}
	return nil
}

func parseDice(diceStr string) ([]int, error) {
	parts := strings.Split(diceStr, ",")
	if len(parts) != 2 {
		parts = strings.Split(diceStr, "-")
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("dice should be in format '3,1' or '3-1'")
	}

	d1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return nil, fmt.Errorf("dice values must be 1-6")
	}

	return engine.ExpandRoll(d1, d2), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cmdValidate(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	var sf stateFlags
	sf.register(fs)
	movesFlag := fs.String("moves", "", `Moves in notation, e.g. "8/5 6/5" (empty = pass)`)
	fs.StringVar(movesFlag, "m", "", "Moves (short form)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gs, p, err := sf.load(stdin)
	if err != nil {
		return err
	}

	var moves []engine.Move
	if strings.TrimSpace(*movesFlag) != "" {
		if moves, err = engine.ParseMoves(*movesFlag, p, gs.RemainingDice()); err != nil {
			return err
		}
	}

	v := engine.ValidateMoves(gs, moves, p)
	if sf.jsonOut {
		return printJSON(stdout, api.VerdictToResponse(gs, v, moves, p))
	}

	played := engine.FormatMoves(moves, p)
	if played == "" {
		played = "(pass)"
	}
	if v.Valid {
		fmt.Fprintf(stdout, "VALID: %s %v %s\n", p, gs.Dice, played)
	} else {
		fmt.Fprintf(stdout, "INVALID: %s %v %s\n", p, gs.Dice, played)
	}
	for _, e := range v.Errors {
		fmt.Fprintf(stdout, "  [%s] %s\n", e.Kind, e.Message)
	}
	if v.Hit != nil {
		fmt.Fprintf(stdout, "  Hit: %s blot on %s\n", v.Hit.Player, engine.PointName(p, v.Hit.Point))
	}
	if v.Forced != nil {
		fmt.Fprintf(stdout, "  Dice used: %d of %d usable\n", v.Forced.DiceUsed, v.Forced.MaxDiceUsable)
	}
	if v.Valid {
		after := engine.ApplyMoves(gs.Position, moves, p)
		fmt.Fprintf(stdout, "  Result: %s (%s on roll)\n", positionid.Encode(after, p.Opponent()), p.Opponent())
	}
	return nil
}

func cmdLegal(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("legal", flag.ContinueOnError)
	var sf stateFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	gs, p, err := sf.load(stdin)
	if err != nil {
		return err
	}

	moves := engine.CalculateLegalMoves(gs, nil, p)
	if sf.jsonOut {
		return printJSON(stdout, api.LegalResponse{
			Player:        p,
			Dice:          gs.RemainingDice(),
			Moves:         api.LegalMovesToResponse(moves, p),
			HasLegalMoves: engine.HasLegalMoves(gs, p),
			MaxDiceUsable: engine.MaxDiceUsable(gs, p),
		})
	}

	if len(moves) == 0 {
		fmt.Fprintln(stdout, "No legal moves (forced to pass)")
		return nil
	}
	fmt.Fprintf(stdout, "Legal moves for %s with %v:\n", p, gs.RemainingDice())
	for i, m := range moves {
		hit := ""
		if m.Hit {
			hit = "*"
		}
		fmt.Fprintf(stdout, "  %2d. %-10s die %d\n", i+1, engine.FormatMove(m.Move, p)+hit, m.Die)
	}
	fmt.Fprintf(stdout, "Max dice usable: %d\n", engine.MaxDiceUsable(gs, p))
	return nil
}

func cmdTree(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	var sf stateFlags
	sf.register(fs)
	limit := fs.Int("n", 20, "Number of paths to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gs, p, err := sf.load(stdin)
	if err != nil {
		return err
	}

	pool := gs.RemainingDice()
	resp := api.TreeToResponse(engine.SearchMoveTree(gs.Position, pool, p, gs.Options), pool, p, *limit)
	if sf.jsonOut {
		return printJSON(stdout, resp)
	}

	fmt.Fprintf(stdout, "Max dice usable: %d (max pips %d), %d sequences\n", resp.MaxDice, resp.MaxPips, resp.NumPaths)
	if resp.MaxDice == 0 {
		fmt.Fprintln(stdout, "  No legal moves (forced to pass)")
	}
	for i, path := range resp.Paths {
		fmt.Fprintf(stdout, "  %2d. %s\n", i+1, path)
	}
	if resp.Truncated {
		fmt.Fprintf(stdout, "  ... %d more\n", resp.NumPaths-len(resp.Paths))
	}
	return nil
}

func cmdSurvey(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("survey", flag.ContinueOnError)
	var sf stateFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	// The survey covers every roll; any dice in the state are irrelevant
	if sf.dice == "" {
		sf.dice = "1-2"
	}

	gs, p, err := sf.load(stdin)
	if err != nil {
		return err
	}

	survey, err := engine.SurveyRolls(ctx, gs.Position, p, gs.Options)
	if err != nil {
		return err
	}
	if sf.jsonOut {
		return printJSON(stdout, survey)
	}

	fmt.Fprintf(stdout, "Roll survey for %s (pips %d):\n", p, gs.PipCount(p))
	fmt.Fprintln(stdout, "  Roll  Dice  Pips  Sequences")
	for _, r := range survey.Rolls {
		mark := ""
		if !r.FullUse {
			mark = " partial"
		}
		fmt.Fprintf(stdout, "  %d-%d   %4d  %4d  %9d%s\n", r.Dice[0], r.Dice[1], r.MaxDice, r.MaxPips, r.Sequences, mark)
	}
	fmt.Fprintf(stdout, "Dice usable: mean %.3f, std dev %.3f\n", survey.MeanDiceUsable, survey.StdDevDiceUsable)
	fmt.Fprintf(stdout, "Mean pips:   %.2f\n", survey.MeanPips)
	fmt.Fprintf(stdout, "No move:     %.1f%%\n", survey.NoMoveProbability*100)
	fmt.Fprintf(stdout, "Partial:     %.1f%%\n", survey.PartialProbability*100)
	return nil
}

func cmdID(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("id", flag.ContinueOnError)
	var sf stateFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if sf.dice == "" {
		sf.dice = "1-2"
	}

	gs, p, err := sf.load(stdin)
	if err != nil {
		return err
	}

	id := positionid.Encode(gs.Position, p)
	if sf.jsonOut {
		return printJSON(stdout, api.PositionResponse{
			PositionID: id,
			OnRoll:     p,
			Position:   gs.Position,
			PipCount: engine.PerPlayer{
				White: gs.PipCount(engine.White),
				Black: gs.PipCount(engine.Black),
			},
		})
	}

	fmt.Fprintf(stdout, "Position ID: %s (%s on roll)\n", id, p)
	fmt.Fprintf(stdout, "Pips: white %d, black %d\n", gs.PipCount(engine.White), gs.PipCount(engine.Black))
	for i := engine.NumPoints - 1; i >= 0; i-- {
		v := gs.Board[i]
		if v == 0 {
			continue
		}
		owner, _ := engine.Owner(v)
		fmt.Fprintf(stdout, "  %-5s %3s x %d\n", owner, engine.PointName(p, i), engine.Count(v))
	}
	if gs.Bar.White+gs.Bar.Black > 0 {
		fmt.Fprintf(stdout, "  Bar: white %d, black %d\n", gs.Bar.White, gs.Bar.Black)
	}
	fmt.Fprintf(stdout, "  Off: white %d, black %d\n", gs.Home.White, gs.Home.Black)
	return nil
}
