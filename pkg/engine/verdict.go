package engine

import "fmt"

// ErrorKind classifies a rule violation.
type ErrorKind string

const (
	TurnMismatch               ErrorKind = "TurnMismatch"
	NoCheckerAtSource          ErrorKind = "NoCheckerAtSource"
	NoCheckerOnBar             ErrorKind = "NoCheckerOnBar"
	InvalidDestination         ErrorKind = "InvalidDestination"
	DirectionViolation         ErrorKind = "DirectionViolation"
	DiceUnavailable            ErrorKind = "DiceUnavailable"
	DiceMismatch               ErrorKind = "DiceMismatch"
	BarReentryRequired         ErrorKind = "BarReentryRequired"
	BarEntryBlocked            ErrorKind = "BarEntryBlocked"
	BarEntryWrongPoint         ErrorKind = "BarEntryWrongPoint"
	PointBlocked               ErrorKind = "PointBlocked"
	BearOffIneligible          ErrorKind = "BearOffIneligible"
	BearOffOvershootDisallowed ErrorKind = "BearOffOvershootDisallowed"
	ForcedMoveViolation        ErrorKind = "ForcedMoveViolation"
	HigherDieRequired          ErrorKind = "HigherDieRequired"
)

// Violation is a single broken rule.
type Violation struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (v Violation) Error() string { return v.Message }

func violation(kind ErrorKind, format string, args ...interface{}) Violation {
	return Violation{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// HitInfo reports a blot hit: the point and the owner of the checker
// sent to the bar.
type HitInfo struct {
	Point  int    `json:"point"`
	Player Player `json:"player"`
}

// ForcedMoveInfo reports the forced-move analysis of a turn.
type ForcedMoveInfo struct {
	MoreMovesAvailable bool `json:"moreMovesAvailable"`
	MaxDiceUsable      int  `json:"maxDiceUsable"`
	DiceUsed           int  `json:"diceUsed"`
}

// Verdict is the outcome of validating a move or a turn.
// An empty verdict is the identity for Merge, which recomputes Valid
// from the merged error list.
type Verdict struct {
	Valid  bool            `json:"valid"`
	Errors []Violation     `json:"errors"`
	Hit    *HitInfo        `json:"hitInfo,omitempty"`
	Forced *ForcedMoveInfo `json:"forcedMoveInfo,omitempty"`
}

func ok() Verdict { return Verdict{Valid: true} }

func fail(v Violation) Verdict {
	return Verdict{Errors: []Violation{v}}
}

// Merge combines two verdicts: errors concatenate and the latest
// non-nil hit and forced-move info win.
func (v Verdict) Merge(o Verdict) Verdict {
	out := Verdict{
		Hit:    v.Hit,
		Forced: v.Forced,
	}
	if len(v.Errors)+len(o.Errors) > 0 {
		out.Errors = make([]Violation, 0, len(v.Errors)+len(o.Errors))
		out.Errors = append(out.Errors, v.Errors...)
		out.Errors = append(out.Errors, o.Errors...)
	}
	if o.Hit != nil {
		out.Hit = o.Hit
	}
	if o.Forced != nil {
		out.Forced = o.Forced
	}
	out.Valid = len(out.Errors) == 0
	return out
}

// Messages returns the error messages in order.
func (v Verdict) Messages() []string {
	msgs := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		msgs[i] = e.Message
	}
	return msgs
}

// HasKind reports whether any error has the given kind.
func (v Verdict) HasKind(kind ErrorKind) bool {
	for _, e := range v.Errors {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// mergeAll folds verdicts left to right starting from the identity.
func mergeAll(vs ...Verdict) Verdict {
	out := ok()
	for _, v := range vs {
		out = out.Merge(v)
	}
	return out
}
