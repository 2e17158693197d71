package balance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amounts(t *testing.T, s *Sheet) map[string]float64 {
	t.Helper()
	out := make(map[string]float64, s.Len())
	for _, id := range s.Members() {
		v, ok := s.Amount(id)
		require.True(t, ok)
		out[id] = v
	}
	return out
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		roster  []string
		want    map[string]float64
	}{
		{
			name:    "group split three members",
			entries: []Entry{{PaidBy: "a", Amount: 300}},
			roster:  []string{"a", "b", "c"},
			want:    map[string]float64{"a": 200, "b": -100, "c": -100},
		},
		{
			name:    "direct split",
			entries: []Entry{{PaidBy: "a", SplitWith: "b", Amount: 60}},
			roster:  []string{"a", "b", "c"},
			want:    map[string]float64{"a": 60, "b": -60, "c": 0},
		},
		{
			name: "mixed policies in one ledger",
			entries: []Entry{
				{PaidBy: "a", Amount: 300},
				{PaidBy: "a", SplitWith: "b", Amount: 60},
			},
			roster: []string{"a", "b", "c"},
			want:   map[string]float64{"a": 260, "b": -160, "c": -100},
		},
		{
			name:    "solo room group split nets to zero",
			entries: []Entry{{PaidBy: "a", Amount: 40}},
			roster:  []string{"a"},
			want:    map[string]float64{"a": 0},
		},
		{
			name:    "direct debt to departed member only debits roster side",
			entries: []Entry{{PaidBy: "a", SplitWith: "gone", Amount: 50}},
			roster:  []string{"a", "b"},
			want:    map[string]float64{"a": 50, "b": 0},
		},
		{
			name:    "empty roster skips group split entirely",
			entries: []Entry{{PaidBy: "a", Amount: 100}},
			roster:  nil,
			want:    map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := Compute(tt.entries, tt.roster)
			got := amounts(t, sheet)
			require.Len(t, got, len(tt.want))
			for id, want := range tt.want {
				assert.InDelta(t, want, got[id], 1e-9, "member %s", id)
			}
		})
	}
}

func TestComputeDivisorIsReadTime(t *testing.T) {
	// The same group entry splits differently as the roster changes:
	// nothing about the divisor is frozen on the entry.
	entry := []Entry{{PaidBy: "a", Amount: 300}}

	three := Compute(entry, []string{"a", "b", "c"})
	vb, _ := three.Amount("b")
	assert.InDelta(t, -100, vb, 1e-9)

	two := Compute(entry, []string{"a", "b"})
	vb, _ = two.Amount("b")
	assert.InDelta(t, -150, vb, 1e-9)

	va, _ := two.Amount("a")
	assert.InDelta(t, 150, va, 1e-9)
}

func TestComputeConservation(t *testing.T) {
	entries := []Entry{
		{PaidBy: "a", Amount: 300},
		{PaidBy: "b", Amount: 123.45},
		{PaidBy: "c", SplitWith: "a", Amount: 77.10},
		{PaidBy: "a", SplitWith: "b", Amount: 19.99},
	}
	sheet := Compute(entries, []string{"a", "b", "c"})
	assert.InDelta(t, 0, sheet.Total(), 1e-9)
}

func TestComputeUnevenDivision(t *testing.T) {
	// 100/3 does not round anywhere mid-computation
	sheet := Compute([]Entry{{PaidBy: "a", Amount: 100}}, []string{"a", "b", "c"})
	vb, _ := sheet.Amount("b")
	assert.InDelta(t, -100.0/3.0, vb, 1e-12)
	assert.True(t, math.Abs(sheet.Total()) < 1e-9)
}

func TestSheetOrderAndDuplicates(t *testing.T) {
	sheet := NewSheet([]string{"b", "a", "b", "c"})
	assert.Equal(t, []string{"b", "a", "c"}, sheet.Members())

	sheet.Add("a", 5)
	sheet.Add("stranger", 99) // not on the roster, ignored
	va, _ := sheet.Amount("a")
	assert.Equal(t, 5.0, va)
	_, ok := sheet.Amount("stranger")
	assert.False(t, ok)
}

func TestEntryIsDirect(t *testing.T) {
	assert.False(t, Entry{PaidBy: "a", Amount: 10}.IsDirect())
	assert.True(t, Entry{PaidBy: "a", SplitWith: "b", Amount: 10}.IsDirect())
}
