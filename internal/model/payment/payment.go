// Package payment holds student payments and their settlement states.
package payment

import (
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/shopspring/decimal"
)

type Purpose string

const (
	PurposeTuition   Purpose = "TUITION"
	PurposeHostel    Purpose = "HOSTEL"
	PurposeTransport Purpose = "TRANSPORT"
	PurposeExam      Purpose = "EXAM"
	PurposeEvent     Purpose = "EVENT"
	PurposeOther     Purpose = "OTHER"
)

type Method string

const (
	MethodCash         Method = "CASH"
	MethodCard         Method = "CARD"
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodOnline       Method = "ONLINE"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

// Transitions is the settlement state machine.
var Transitions = model.Transitions[Status]{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusCompleted: {StatusRefunded},
	StatusFailed:    {},
	StatusRefunded:  {},
}

func (s Status) TransitionTo(target Status) (Status, error) {
	return Transitions.Move(s, target)
}

type Payment struct {
	model.Base
	StudentID     string          `json:"student_id" db:"student_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Currency      string          `json:"currency" db:"currency"`
	Purpose       Purpose         `json:"purpose" db:"purpose"`
	Method        Method          `json:"method" db:"method"`
	Reference     string          `json:"reference" db:"reference"`
	Description   string          `json:"description" db:"description"`
	Status        Status          `json:"status" db:"status"`
	FailureReason string          `json:"failure_reason,omitempty" db:"failure_reason"`
	PaidAt        *time.Time      `json:"paid_at" db:"paid_at"`
}

// CurrencyTotals sums amounts of one currency by status.
type CurrencyTotals struct {
	Currency  string          `json:"currency"`
	Pending   decimal.Decimal `json:"pending"`
	Completed decimal.Decimal `json:"completed"`
	Failed    decimal.Decimal `json:"failed"`
	Refunded  decimal.Decimal `json:"refunded"`
}

func (c *CurrencyTotals) add(p Payment) {
	switch p.Status {
	case StatusPending:
		c.Pending = c.Pending.Add(p.Amount)
	case StatusCompleted:
		c.Completed = c.Completed.Add(p.Amount)
	case StatusFailed:
		c.Failed = c.Failed.Add(p.Amount)
	case StatusRefunded:
		c.Refunded = c.Refunded.Add(p.Amount)
	}
}

type Balance struct {
	StudentID string           `json:"student_id"`
	Payments  int              `json:"payments"`
	Totals    []CurrencyTotals `json:"totals"`
}

// Summarize builds the Balance of studentID, one CurrencyTotals per
// currency in first-seen order.
func Summarize(studentID string, payments []Payment) Balance {
	balance := Balance{StudentID: studentID, Totals: []CurrencyTotals{}}
	index := map[string]int{}

	for _, p := range payments {
		balance.Payments++
		i, ok := index[p.Currency]
		if !ok {
			i = len(balance.Totals)
			index[p.Currency] = i
			balance.Totals = append(balance.Totals, CurrencyTotals{
				Currency:  p.Currency,
				Pending:   decimal.Zero,
				Completed: decimal.Zero,
				Failed:    decimal.Zero,
				Refunded:  decimal.Zero,
			})
		}
		balance.Totals[i].add(p)
	}

	return balance
}
