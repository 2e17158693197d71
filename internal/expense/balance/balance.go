package balance

// Epsilon is the zero tolerance for currency comparisons.
// Balances within Epsilon of zero are considered settled.
const Epsilon = 0.01

// Entry is the slice of an expense the calculator needs.
// An empty SplitWith marks a group split owed by the whole roster;
// a non-empty SplitWith marks a direct debt owed by that one member.
type Entry struct {
	PaidBy    string
	SplitWith string
	Amount    float64
}

// IsDirect reports whether the entry is a direct debt.
// This is the single predicate every consumer must use; the group/direct
// distinction is never re-derived ad hoc elsewhere.
func (e Entry) IsDirect() bool {
	return e.SplitWith != ""
}

// Sheet holds per-member net balances in roster order.
// Positive means the member is owed money, negative means they owe.
type Sheet struct {
	order   []string
	amounts map[string]float64
}

// NewSheet creates a zeroed sheet for the given roster.
// Duplicate ids are collapsed; order of first appearance is kept.
func NewSheet(roster []string) *Sheet {
	s := &Sheet{amounts: make(map[string]float64, len(roster))}
	for _, id := range roster {
		if _, ok := s.amounts[id]; ok {
			continue
		}
		s.order = append(s.order, id)
		s.amounts[id] = 0
	}
	return s
}

// Add applies a signed delta to a member's balance.
// Members outside the roster are ignored: historical entries may reference
// people who have since left the room, and their side of the math is simply
// dropped, matching how every reader of the ledger behaves.
func (s *Sheet) Add(id string, delta float64) {
	if _, ok := s.amounts[id]; ok {
		s.amounts[id] += delta
	}
}

// Amount returns a member's balance and whether they are on the sheet.
func (s *Sheet) Amount(id string) (float64, bool) {
	v, ok := s.amounts[id]
	return v, ok
}

// Members returns the roster in sheet order.
func (s *Sheet) Members() []string {
	return s.order
}

// Len returns the number of members on the sheet.
func (s *Sheet) Len() int {
	return len(s.order)
}

// Total sums all balances. For a well-formed pending ledger whose members
// are all still on the roster this is zero within floating tolerance.
func (s *Sheet) Total() float64 {
	var total float64
	for _, id := range s.order {
		total += s.amounts[id]
	}
	return total
}

// Compute derives each roster member's net position from the pending entries.
//
// Direct entries credit the payer and debit the one debtor in full. Group
// entries credit the payer the whole amount and debit every current roster
// member an equal share; the divisor is the roster size at computation time,
// never a value frozen when the expense was written. A group balance can
// therefore shift purely because the roster changed.
func Compute(entries []Entry, roster []string) *Sheet {
	sheet := NewSheet(roster)
	n := sheet.Len()

	for _, e := range entries {
		if e.IsDirect() {
			sheet.Add(e.PaidBy, e.Amount)
			sheet.Add(e.SplitWith, -e.Amount)
			continue
		}
		if n <= 0 {
			// nobody left to split with, skip rather than divide by zero
			continue
		}
		share := e.Amount / float64(n)
		sheet.Add(e.PaidBy, e.Amount)
		for _, id := range sheet.Members() {
			sheet.Add(id, -share)
		}
	}

	return sheet
}
