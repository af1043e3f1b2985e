package syntax

import "strings"

// LexState is the lexer state after a token, as a bit set.
// The bits follow the states of Ruby's own scanner so that decisions such as
// "is this slash a regexp?" and "does this line expect an operand?" can be
// made the same way.
type LexState uint16

// Lexer state bits.
const (
	StateBeg LexState = 1 << iota
	StateEnd
	StateEndArg
	StateEndFn
	StateArg
	StateCmdArg
	StateMid
	StateFname
	StateDot
	StateClass
	StateLabel
	StateLabeled
	StateFitem

	StateNone LexState = 0

	StateValue  = StateBeg
	StateBegAny = StateBeg | StateMid | StateClass
	StateArgAny = StateArg | StateCmdArg
	StateEndAny = StateEnd | StateEndArg | StateEndFn
)

// Any reports whether any of the given bits are set.
func (s LexState) Any(bits LexState) bool {
	return s&bits != 0
}

// All reports whether all of the given bits are set.
func (s LexState) All(bits LexState) bool {
	return s&bits == bits
}

// ExpectsOperand reports whether a buffer ending in this state still needs
// an operand: after a binary operator, a comma, an opening keyword or a
// method-call dot.
func (s LexState) ExpectsOperand() bool {
	return s.Any(StateBeg | StateDot)
}

//nolint:gochecknoglobals // Read-only lookup table.
var stateNames = []struct {
	bit  LexState
	name string
}{
	{StateBeg, "BEG"},
	{StateEnd, "END"},
	{StateEndArg, "ENDARG"},
	{StateEndFn, "ENDFN"},
	{StateArg, "ARG"},
	{StateCmdArg, "CMDARG"},
	{StateMid, "MID"},
	{StateFname, "FNAME"},
	{StateDot, "DOT"},
	{StateClass, "CLASS"},
	{StateLabel, "LABEL"},
	{StateLabeled, "LABELED"},
	{StateFitem, "FITEM"},
}

// String renders the state as a |-separated list, e.g. "BEG|LABEL".
func (s LexState) String() string {
	if s == StateNone {
		return "NONE"
	}
	var parts []string
	for _, entry := range stateNames {
		if s&entry.bit != 0 {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "|")
}
