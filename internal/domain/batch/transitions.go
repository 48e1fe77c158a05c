package batch

// transitions is the complete status graph. Anything not listed here is an
// illegal jump and is rejected; callers cannot sequence around it.
// AwaitingApproval -> Draft is the "request changes" path.
var transitions = map[string][]string{
	StatusDraft:            {StatusAwaitingApproval},
	StatusAwaitingApproval: {StatusApproved, StatusDraft},
	StatusApproved:         {StatusExecuting},
	StatusExecuting:        {StatusCompleted, StatusFailed},
	StatusCompleted:        {},
	StatusFailed:           {},
}

func KnownStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// CanTransition reports whether moving from one batch status to another is
// permitted by the transition table.
func CanTransition(from, to string) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	for _, candidate := range next {
		if candidate == to {
			return true
		}
	}
	return false
}

// Transition validates a status move without applying it.
func Transition(from, to string) error {
	if !KnownStatus(from) || !KnownStatus(to) {
		return ErrUnknownStatus
	}
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

// ResolveTotals derives batch aggregates from its payees. Totals are never
// stored independently of the payee rows, so the sums cannot drift.
func ResolveTotals(payees []Payee) Totals {
	var totals Totals
	for _, payee := range payees {
		gross := payee.Gross
		for _, adj := range payee.Adjustments {
			gross += adj.Amount
		}
		totals.Gross += gross
		totals.EmployerCosts += payee.EmployerCosts
		totals.FXFees += payee.FXFee
	}
	return totals
}

// PayeeTerminal reports whether a payee line can no longer advance.
func PayeeTerminal(status string) bool {
	return status == PayeePaid || status == PayeeOnHold
}
