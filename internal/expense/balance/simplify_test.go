package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetOf(roster []string, amounts map[string]float64) *Sheet {
	s := NewSheet(roster)
	for id, v := range amounts {
		s.Add(id, v)
	}
	return s
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name     string
		roster   []string
		balances map[string]float64
		want     []Transfer
	}{
		{
			name:     "one creditor two debtors",
			roster:   []string{"a", "b", "c"},
			balances: map[string]float64{"a": 150, "b": -90, "c": -60},
			want: []Transfer{
				{From: "b", To: "a", Amount: 90},
				{From: "c", To: "a", Amount: 60},
			},
		},
		{
			name:     "exact pair advances both cursors",
			roster:   []string{"a", "b"},
			balances: map[string]float64{"a": 50, "b": -50},
			want:     []Transfer{{From: "b", To: "a", Amount: 50}},
		},
		{
			name:     "debtor spans two creditors",
			roster:   []string{"a", "b", "c"},
			balances: map[string]float64{"a": 70, "b": 30, "c": -100},
			want: []Transfer{
				{From: "c", To: "a", Amount: 70},
				{From: "c", To: "b", Amount: 30},
			},
		},
		{
			name:     "all settled produces nothing",
			roster:   []string{"a", "b"},
			balances: map[string]float64{"a": 0, "b": 0},
			want:     nil,
		},
		{
			name:     "sub-epsilon dust is ignored",
			roster:   []string{"a", "b"},
			balances: map[string]float64{"a": 0.005, "b": -0.005},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(sheetOf(tt.roster, tt.balances))
			require.Len(t, got, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.From, got[i].From)
				assert.Equal(t, want.To, got[i].To)
				assert.InDelta(t, want.Amount, got[i].Amount, 1e-9)
			}
		})
	}
}

func TestSimplifyZeroesTheSheet(t *testing.T) {
	// Applying the returned transfers back onto the sheet must settle
	// every member to within tolerance.
	roster := []string{"a", "b", "c", "d", "e"}
	sheet := sheetOf(roster, map[string]float64{
		"a": 212.34, "b": -88.2, "c": -50, "d": 13.86, "e": -88,
	})

	for _, tr := range Simplify(sheet) {
		sheet.Add(tr.From, tr.Amount)
		sheet.Add(tr.To, -tr.Amount)
	}

	for _, id := range sheet.Members() {
		v, _ := sheet.Amount(id)
		assert.InDelta(t, 0, v, Epsilon, "member %s", id)
	}
}

func TestSimplifyDeterministicOrder(t *testing.T) {
	// Matching follows sheet order, so the same sheet always yields the
	// same transfer list.
	mk := func() *Sheet {
		return sheetOf([]string{"x", "y", "z"}, map[string]float64{"x": -20, "y": 35, "z": -15})
	}
	first := Simplify(mk())
	second := Simplify(mk())
	assert.Equal(t, first, second)

	require.Len(t, first, 2)
	assert.Equal(t, "x", first[0].From)
	assert.Equal(t, "y", first[0].To)
}

func TestSimplifyFromGroupExpense(t *testing.T) {
	sheet := Compute([]Entry{{PaidBy: "a", Amount: 300}}, []string{"a", "b", "c"})
	transfers := Simplify(sheet)

	require.Len(t, transfers, 2)
	assert.Equal(t, Transfer{From: "b", To: "a", Amount: 100}, transfers[0])
	assert.Equal(t, Transfer{From: "c", To: "a", Amount: 100}, transfers[1])
}
