package selection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardInitialize(t *testing.T) {
	b := NewBoard(false)
	b.Range = Range{2, 3}
	b.Initialize([]string{"a", "b", "a", "c"})

	assert.Equal(t, []string{"a", "b", "c"}, b.Labels)
	for _, l := range b.Labels {
		assert.Equal(t, Unselected, b.State(l))
	}
	assert.Equal(t, Range{0, 0}, b.Range)
	assert.Empty(t, b.Chips())
}

func TestBoardToggleTwoState(t *testing.T) {
	b := NewBoard(false)
	b.Initialize([]string{"a", "b"})

	require.True(t, b.Toggle("a"))
	assert.Equal(t, Selected, b.State("a"))
	require.True(t, b.Toggle("a"))
	assert.Equal(t, Unselected, b.State("a"))
}

func TestBoardToggleThreeState(t *testing.T) {
	b := NewBoard(true)
	b.Initialize([]string{"a"})

	want := []ChipState{Selected, Fixed, Unselected}
	for _, w := range want {
		b.Toggle("a")
		assert.Equal(t, w, b.State("a"))
	}
}

func TestBoardToggleUnknownIsNoop(t *testing.T) {
	b := NewBoard(false)
	b.Initialize([]string{"a"})
	b.Toggle("a")
	b.SetRange(1, 1)

	assert.False(t, b.Toggle("zzz"))
	assert.Equal(t, []string{"a"}, b.Labels)
	assert.Equal(t, Range{1, 1}, b.Range)
	assert.Equal(t, 1, b.SelectedCount())
}

func TestBoardRangeClampOnToggle(t *testing.T) {
	b := NewBoard(false)
	b.Initialize([]string{"a", "b", "c"})
	b.Toggle("a")
	b.Toggle("b")
	b.Toggle("c")
	b.SetRange(1, 3)
	require.Equal(t, Range{1, 3}, b.Range)

	b.Toggle("c")
	assert.Equal(t, Range{1, 2}, b.Range)

	b.Toggle("b")
	b.Toggle("a")
	assert.Equal(t, Range{0, 0}, b.Range)
}

func TestBoardFixedNotCounted(t *testing.T) {
	b := NewBoard(true)
	b.Initialize([]string{"a", "b"})
	b.Toggle("a")
	b.Toggle("b")
	b.SetRange(2, 2)

	b.Toggle("b") // selected -> fixed
	assert.Equal(t, 1, b.SelectedCount())
	assert.Equal(t, Range{1, 1}, b.Range)
	assert.Equal(t, []Chip{{Label: "a"}, {Label: "b", Forced: true}}, b.Chips())
}

func TestBoardSetRange(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int
		want   Range
	}{
		{name: "inside", lo: 1, hi: 2, want: Range{1, 2}},
		{name: "crossed handles", lo: 3, hi: 1, want: Range{1, 3}},
		{name: "above count", lo: 2, hi: 9, want: Range{2, 3}},
		{name: "negative", lo: -4, hi: 1, want: Range{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(false)
			b.Initialize([]string{"a", "b", "c"})
			b.Toggle("a")
			b.Toggle("b")
			b.Toggle("c")

			b.SetRange(tt.lo, tt.hi)
			assert.Equal(t, tt.want, b.Range)
			assert.True(t, b.Range.Valid(b.SelectedCount()))
		})
	}
}

func TestBoardLoad(t *testing.T) {
	b := NewBoard(false)
	b.Initialize([]string{"a", "b"})
	b.Load([]Chip{{Label: "b"}, {Label: "x", Forced: true}}, Range{0, 5})

	assert.Equal(t, []string{"a", "b", "x"}, b.Labels)
	assert.Equal(t, Selected, b.State("x"))
	assert.Equal(t, Range{0, 2}, b.Range)

	fixed := NewBoard(true)
	fixed.Initialize([]string{"a"})
	fixed.Load([]Chip{{Label: "a", Forced: true}}, Range{0, 0})
	assert.Equal(t, Fixed, fixed.State("a"))
}

func TestChipLabelCodec(t *testing.T) {
	assert.Equal(t, "!temp", EncodeChipLabel(Chip{Label: "temp", Forced: true}))
	assert.Equal(t, "temp", EncodeChipLabel(Chip{Label: "temp"}))
	assert.Equal(t, Chip{Label: "temp", Forced: true}, DecodeChipLabel("!temp"))
	assert.Equal(t, Chip{Label: "!"}, DecodeChipLabel("!"))
}

func TestChipStateJSON(t *testing.T) {
	data, err := json.Marshal(map[string]ChipState{"a": Fixed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"fixed"}`, string(data))

	var s ChipState
	require.NoError(t, json.Unmarshal([]byte(`"selected"`), &s))
	assert.Equal(t, Selected, s)
	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &s))
}
