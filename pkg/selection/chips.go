// Package selection holds the chip board, the selection store, the grouping
// of saved selections into rows and the generation payload builder.
package selection

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChipState is the state of one candidate value element on the board.
type ChipState int

const (
	Unselected ChipState = iota
	Selected
	// Fixed chips are always included in generated files instead of being sampled.
	Fixed
)

func (s ChipState) String() string {
	switch s {
	case Selected:
		return "selected"
	case Fixed:
		return "fixed"
	default:
		return "unselected"
	}
}

func (s ChipState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ChipState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "unselected", "":
		*s = Unselected
	case "selected":
		*s = Selected
	case "fixed":
		*s = Fixed
	default:
		return fmt.Errorf("unknown chip state %q", str)
	}
	return nil
}

// Chip is a value element that takes part in a selection.
type Chip struct {
	Label  string `json:"label"`
	Forced bool   `json:"forced,omitempty"`
}

// forcedPrefix marks forced chips in the generation backend's payloads.
const forcedPrefix = "!"

// EncodeChipLabel renders a chip the way the generation backend expects it.
func EncodeChipLabel(c Chip) string {
	if c.Forced {
		return forcedPrefix + c.Label
	}
	return c.Label
}

// DecodeChipLabel is the inverse of EncodeChipLabel.
func DecodeChipLabel(s string) Chip {
	if strings.HasPrefix(s, forcedPrefix) && len(s) > len(forcedPrefix) {
		return Chip{Label: strings.TrimPrefix(s, forcedPrefix), Forced: true}
	}
	return Chip{Label: s}
}

// Range is the inclusive [min, max] number of chips that must appear per file.
type Range [2]int

func (r Range) Min() int { return r[0] }
func (r Range) Max() int { return r[1] }

// Valid reports whether 0 <= min <= max <= count.
func (r Range) Valid(count int) bool {
	return r[0] >= 0 && r[0] <= r[1] && r[1] <= count
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r[0], r[1])
}

// Board tracks the chip states of the currently displayed property and the
// slider range derived from them.
type Board struct {
	Labels     []string             `json:"labels"`
	States     map[string]ChipState `json:"states"`
	Range      Range                `json:"range"`
	AllowFixed bool                 `json:"allow_fixed"`
}

// NewBoard returns an empty board. allowFixed enables the three-state cycle.
func NewBoard(allowFixed bool) *Board {
	return &Board{
		States:     make(map[string]ChipState),
		AllowFixed: allowFixed,
	}
}

// Initialize replaces the candidate chips, marks all of them unselected and
// resets the range to [0, 0].
func (b *Board) Initialize(labels []string) {
	b.Labels = make([]string, 0, len(labels))
	b.States = make(map[string]ChipState, len(labels))
	for _, l := range labels {
		if _, dup := b.States[l]; dup {
			continue
		}
		b.Labels = append(b.Labels, l)
		b.States[l] = Unselected
	}
	b.Range = Range{0, 0}
}

// Toggle advances the chip to its next state. Unknown labels are ignored and
// reported with false.
func (b *Board) Toggle(label string) bool {
	state, ok := b.States[label]
	if !ok {
		return false
	}
	b.States[label] = b.next(state)
	b.clamp()
	return true
}

func (b *Board) next(s ChipState) ChipState {
	switch s {
	case Unselected:
		return Selected
	case Selected:
		if b.AllowFixed {
			return Fixed
		}
		return Unselected
	default:
		return Unselected
	}
}

// State returns the state of a chip; unknown chips are unselected.
func (b *Board) State(label string) ChipState {
	return b.States[label]
}

// SelectedCount counts chips in the selected state. Fixed chips are not
// sampled and are left out.
func (b *Board) SelectedCount() int {
	n := 0
	for _, s := range b.States {
		if s == Selected {
			n++
		}
	}
	return n
}

// SetRange applies a two-handle slider move. Crossed handles are swapped
// before clamping to [0, SelectedCount].
func (b *Board) SetRange(lo, hi int) {
	if lo > hi {
		lo, hi = hi, lo
	}
	max := b.SelectedCount()
	b.Range = Range{clampInt(lo, 0, max), clampInt(hi, 0, max)}
}

func (b *Board) clamp() {
	count := b.SelectedCount()
	if b.Range[1] > count {
		b.Range[1] = count
	}
	if b.Range[0] > b.Range[1] {
		b.Range[0] = b.Range[1]
	}
	if b.Range[0] < 0 {
		b.Range[0] = 0
	}
}

// Chips returns the chips taking part in a selection, in display order.
func (b *Board) Chips() []Chip {
	chips := make([]Chip, 0)
	for _, l := range b.Labels {
		switch b.States[l] {
		case Selected:
			chips = append(chips, Chip{Label: l})
		case Fixed:
			chips = append(chips, Chip{Label: l, Forced: true})
		}
	}
	return chips
}

// Load marks the given chips on the board, adding labels the board does not
// know yet, then applies r. Used when a saved selection is edited.
func (b *Board) Load(chips []Chip, r Range) {
	if b.States == nil {
		b.States = make(map[string]ChipState)
	}
	for _, c := range chips {
		if _, ok := b.States[c.Label]; !ok {
			b.Labels = append(b.Labels, c.Label)
		}
		if c.Forced && b.AllowFixed {
			b.States[c.Label] = Fixed
		} else {
			b.States[c.Label] = Selected
		}
	}
	b.SetRange(r[0], r[1])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
