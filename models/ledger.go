package models

import "github.com/shopspring/decimal"

// AttendeeShare is one attendee's line in the ledger. Owes follows the
// worked convention: positive means the attendee paid more than their
// share and is owed money, negative means they still owe.
type AttendeeShare struct {
	Name string          `json:"name"`
	Owes decimal.Decimal `json:"owes"`
}

// LedgerSummary is recomputed from the expense table on every request,
// never persisted or cached.
type LedgerSummary struct {
	Expenses    []Expense          `json:"expenses"`
	Attendees   []AttendeeResponse `json:"attendees"`
	Total       decimal.Decimal    `json:"total"`
	PerPerson   decimal.Decimal    `json:"perPerson"`
	IndExpenses []AttendeeShare    `json:"indExpenses"`
}
