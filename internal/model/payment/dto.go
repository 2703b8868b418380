package payment

import (
	"strings"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ------------------------------------------------------------

type CreatePaymentPayload struct {
	StudentID   string          `json:"student_id" validate:"required,max=64"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" validate:"required,iso4217"`
	Purpose     Purpose         `json:"purpose" validate:"required,oneof=TUITION HOSTEL TRANSPORT EXAM EVENT OTHER"`
	Method      Method          `json:"method" validate:"required,oneof=CASH CARD BANK_TRANSFER ONLINE"`
	Description string          `json:"description" validate:"max=500"`
}

func (p *CreatePaymentPayload) Validate() error {
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if err := validation.Struct(p); err != nil {
		return err
	}
	if !p.Amount.IsPositive() {
		return validation.CustomValidationErrors{{Field: "amount", Message: "must be greater than 0"}}
	}
	if !p.Amount.Equal(p.Amount.Round(2)) {
		return validation.CustomValidationErrors{{Field: "amount", Message: "must have at most 2 decimal places"}}
	}
	return nil
}

// ------------------------------------------------------------

type GetPaymentByIDPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *GetPaymentByIDPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type GetPaymentsQuery struct {
	model.PageQuery
	StudentID string  `query:"student_id" validate:"max=64"`
	Status    Status  `query:"status" validate:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	Purpose   Purpose `query:"purpose" validate:"omitempty,oneof=TUITION HOSTEL TRANSPORT EXAM EVENT OTHER"`
}

func (q *GetPaymentsQuery) Validate() error {
	return validation.Struct(q)
}

// ------------------------------------------------------------

type CompletePaymentPayload struct {
	ID        uuid.UUID `param:"id" json:"-" validate:"required"`
	Reference string    `json:"reference" validate:"required,max=120"`
	// Email receives the receipt when set.
	Email string `json:"email" validate:"omitempty,email"`
}

func (p *CompletePaymentPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type FailPaymentPayload struct {
	ID     uuid.UUID `param:"id" json:"-" validate:"required"`
	Reason string    `json:"reason" validate:"required,max=500"`
}

func (p *FailPaymentPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type RefundPaymentPayload struct {
	ID uuid.UUID `param:"id" json:"-" validate:"required"`
}

func (p *RefundPaymentPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type GetBalancePayload struct {
	StudentID string `param:"student_id" validate:"required,max=64"`
}

func (p *GetBalancePayload) Validate() error {
	return validation.Struct(p)
}
