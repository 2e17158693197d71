package balance

// Transfer is a single suggested repayment between two members.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type party struct {
	id   string
	owed float64
}

// Simplify reduces a balance sheet to a short list of pairwise transfers
// that would bring every member back to zero.
//
// Members are partitioned into debtors and creditors in sheet order, then
// matched greedily with two cursors: each step settles the smaller of the
// two open amounts and advances whichever side drops below Epsilon. The
// result is deterministic for a given sheet and is the standard cash-flow
// heuristic, not a globally minimal matching.
func Simplify(sheet *Sheet) []Transfer {
	var debtors, creditors []party
	for _, id := range sheet.Members() {
		amt, _ := sheet.Amount(id)
		switch {
		case amt < -Epsilon:
			debtors = append(debtors, party{id: id, owed: -amt})
		case amt > Epsilon:
			creditors = append(creditors, party{id: id, owed: amt})
		}
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amt := debtors[i].owed
		if creditors[j].owed < amt {
			amt = creditors[j].owed
		}

		transfers = append(transfers, Transfer{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: amt,
		})

		debtors[i].owed -= amt
		creditors[j].owed -= amt

		if debtors[i].owed < Epsilon {
			i++
		}
		if creditors[j].owed < Epsilon {
			j++
		}
	}

	return transfers
}
