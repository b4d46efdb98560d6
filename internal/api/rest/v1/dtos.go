package v1

import (
	"encoding/json"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/validators"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequest represents the body of a payment initiation request.
type PaymentRequest struct {
	TransactionID        string           `json:"transactionId" validate:"notblank,max=50"`
	RecipientPhoneNumber string           `json:"recipientPhoneNumber" validate:"notblank,phone"`
	Amount               *decimal.Decimal `json:"amount" validate:"required,amount_min,amount_digits"`
	Currency             string           `json:"currency" validate:"notblank,len=3"`
}

var validate = validators.New()

// Validate checks the request fields and reports every violation.
func (r *PaymentRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &payments.ValidationError{Details: validators.FormatErrors(err, payments.FieldMessages)}
	}
	return nil
}

// ToDomain maps the request to a PENDING payment.
func (r *PaymentRequest) ToDomain() *payments.Payment {
	amount := decimal.Zero
	if r.Amount != nil {
		amount = *r.Amount
	}
	return payments.NewPayment(r.TransactionID, r.RecipientPhoneNumber, amount, r.Currency)
}

// PaymentResponse represents a payment returned to clients.
type PaymentResponse struct {
	PaymentID            uuid.UUID       `json:"paymentId"`
	TransactionID        string          `json:"transactionId"`
	RecipientPhoneNumber string          `json:"recipientPhoneNumber"`
	Amount               json.Number     `json:"amount"`
	Currency             string          `json:"currency"`
	Status               payments.Status `json:"status"`
	MnoReference         *string         `json:"mnoReference"`
	FailureReason        *string         `json:"failureReason"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// NewPaymentResponse maps a payment to its response representation.
func NewPaymentResponse(p *payments.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:            p.ID,
		TransactionID:        p.TransactionID,
		RecipientPhoneNumber: p.RecipientPhoneNumber,
		Amount:               json.Number(p.Amount.StringFixed(validators.AmountFractionDigits)),
		Currency:             p.Currency,
		Status:               p.Status,
		MnoReference:         p.MnoReference,
		FailureReason:        p.FailureReason,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
