// Package hint maps simulation steps to scripted hints.
package hint

// Interval is the number of steps between checkpoints.
const Interval = 5

const (
	MissingText     = "No hint is configured for this checkpoint."
	UnavailableText = "No hint is available right now."
)

// Kind classifies the outcome of a hint lookup.
type Kind uint8

const (
	KindNone Kind = iota // nothing revealed yet
	KindScripted
	KindMissing
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindScripted:
		return "SCRIPTED"
	case KindMissing:
		return "MISSING"
	case KindUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Hint is the text shown to the player after asking for a hint.
type Hint struct {
	Kind  Kind
	Index int // checkpoint index into the table, -1 when not a checkpoint
	Text  string
}

// IsCheckpoint reports whether step unlocks a hint.
func IsCheckpoint(step int) bool {
	return step > 0 && step%Interval == 0
}

// CheckpointIndex returns the table index for step, or -1.
func CheckpointIndex(step int) int {
	if !IsCheckpoint(step) {
		return -1
	}
	return step/Interval - 1
}

// ForStep resolves the hint for step against table.
func ForStep(step int, table []string) Hint {
	idx := CheckpointIndex(step)
	if idx < 0 {
		return Hint{Kind: KindUnavailable, Index: -1, Text: UnavailableText}
	}
	if idx >= len(table) {
		return Hint{Kind: KindMissing, Index: idx, Text: MissingText}
	}
	return Hint{Kind: KindScripted, Index: idx, Text: table[idx]}
}
