// Package positionid encodes and decodes GNU Backgammon position IDs for
// engine positions.
//
// A position ID is a 14-character base64 string of an 80-bit key. The key
// is built from the two sides' checker layouts, each seen from its own
// perspective (point 0 = that side's ace point, 24 = bar): for every point
// a run of 1-bits, one per checker, followed by a 0-bit. The opponent of
// the player on roll is encoded first.
package positionid

import (
	"errors"
	"fmt"

	"github.com/yourusername/bgreferee/pkg/engine"
)

const (
	// IDLength is the length of a position ID string
	IDLength = 14
	keyBytes = 10
)

// Base64 alphabet used for position ID encoding
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// ErrInvalidPositionID is returned when a position ID is invalid
var ErrInvalidPositionID = errors.New("invalid position ID")

// tanBoard is the per-side layout: [side][point], point 24 is the bar.
// Side 1 is the player on roll, side 0 the opponent.
type tanBoard [2][25]int

// perspective maps a board index to p's own point number
func perspective(p engine.Player, index int) int {
	if p == engine.White {
		return index
	}
	return engine.NumPoints - 1 - index
}

func toTan(pos engine.Position, onRoll engine.Player) tanBoard {
	var tb tanBoard
	sides := [2]engine.Player{onRoll.Opponent(), onRoll}
	for s, p := range sides {
		for i, v := range pos.Board {
			if engine.IsOwnedBy(v, p) {
				tb[s][perspective(p, i)] = engine.Count(v)
			}
		}
		tb[s][24] = pos.Bar.Get(p)
	}
	return tb
}

func fromTan(tb tanBoard, onRoll engine.Player) (engine.Position, error) {
	var pos engine.Position
	sides := [2]engine.Player{onRoll.Opponent(), onRoll}
	for s, p := range sides {
		total := 0
		for pt := 0; pt < engine.NumPoints; pt++ {
			n := tb[s][pt]
			if n == 0 {
				continue
			}
			i := perspective(p, pt)
			if pos.Board[i] != 0 {
				return pos, fmt.Errorf("%w: both sides on point %d", ErrInvalidPositionID, i)
			}
			pos.Board[i] = n * p.Sign()
			total += n
		}
		pos.Bar.Add(p, tb[s][24])
		total += tb[s][24]
		if total > engine.NumCheckers {
			return pos, fmt.Errorf("%w: %s has %d checkers", ErrInvalidPositionID, p, total)
		}
		pos.Home.Add(p, engine.NumCheckers-total)
	}
	return pos, nil
}

// makeKey packs the layout into the 80-bit run-length key
func makeKey(tb tanBoard) [keyBytes]byte {
	var key [keyBytes]byte
	bit := 0
	for s := 0; s < 2; s++ {
		for pt := 0; pt < 25; pt++ {
			for c := 0; c < tb[s][pt]; c++ {
				key[bit/8] |= 1 << uint(bit%8)
				bit++
			}
			bit++
		}
	}
	return key
}

// tanFromKey unpacks a key; runs past the 50th point separator are invalid
func tanFromKey(key [keyBytes]byte) (tanBoard, error) {
	var tb tanBoard
	s, pt := 0, 0
	for bit := 0; bit < keyBytes*8; bit++ {
		if key[bit/8]&(1<<uint(bit%8)) != 0 {
			if s >= 2 {
				return tb, fmt.Errorf("%w: too many checkers", ErrInvalidPositionID)
			}
			tb[s][pt]++
			continue
		}
		if s >= 2 {
			continue
		}
		pt++
		if pt == 25 {
			s++
			pt = 0
		}
	}
	return tb, nil
}

// Encode returns the position ID of pos with onRoll to move.
func Encode(pos engine.Position, onRoll engine.Player) string {
	return idFromKey(makeKey(toTan(pos, onRoll)))
}

func idFromKey(key [keyBytes]byte) string {
	out := make([]byte, IDLength)
	b := key[:]
	for i := 0; i < 3; i++ {
		out[i*4] = base64Chars[b[0]>>2]
		out[i*4+1] = base64Chars[((b[0]&0x03)<<4)|(b[1]>>4)]
		out[i*4+2] = base64Chars[((b[1]&0x0F)<<2)|(b[2]>>6)]
		out[i*4+3] = base64Chars[b[2]&0x3F]
		b = b[3:]
	}
	out[12] = base64Chars[b[0]>>2]
	out[13] = base64Chars[(b[0]&0x03)<<4]
	return string(out)
}

// Decode parses a position ID with onRoll to move. Characters after the
// first 14 (such as a ":matchID" suffix) are ignored.
func Decode(id string, onRoll engine.Player) (engine.Position, error) {
	if len(id) < IDLength {
		return engine.Position{}, fmt.Errorf("%w: %q is too short", ErrInvalidPositionID, id)
	}

	var vals [IDLength]byte
	for i := 0; i < IDLength; i++ {
		v := base64Value(id[i])
		if v == 255 {
			return engine.Position{}, fmt.Errorf("%w: bad character %q", ErrInvalidPositionID, id[i])
		}
		vals[i] = v
	}

	var key [keyBytes]byte
	for i := 0; i < 3; i++ {
		c := vals[i*4 : i*4+4]
		key[i*3] = (c[0] << 2) | (c[1] >> 4)
		key[i*3+1] = (c[1] << 4) | (c[2] >> 2)
		key[i*3+2] = (c[2] << 6) | c[3]
	}
	key[9] = (vals[12] << 2) | (vals[13] >> 4)

	tb, err := tanFromKey(key)
	if err != nil {
		return engine.Position{}, err
	}
	return fromTan(tb, onRoll)
}

// base64Value decodes a base64 character to its value, 255 if invalid
func base64Value(ch byte) byte {
	switch {
	case ch >= 'A' && ch <= 'Z':
		return ch - 'A'
	case ch >= 'a' && ch <= 'z':
		return ch - 'a' + 26
	case ch >= '0' && ch <= '9':
		return ch - '0' + 52
	case ch == '+':
		return 62
	case ch == '/':
		return 63
	}
	return 255
}
