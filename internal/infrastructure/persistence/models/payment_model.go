package models

import (
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the GORM database model for payments (infrastructure concern)
type PaymentModel struct {
	ID                   string          `gorm:"primaryKey;type:varchar(36)"`
	TransactionID        string          `gorm:"not null;uniqueIndex:uk_payments_transaction_id;type:varchar(50)"`
	RecipientPhoneNumber string          `gorm:"not null;type:varchar(25)"`
	Amount               decimal.Decimal `gorm:"not null;type:numeric(12,2)"`
	Currency             string          `gorm:"not null;type:varchar(3)"`
	Status               string          `gorm:"not null;type:varchar(20);index:idx_payments_status_updated_at,priority:1"`
	FailureReason        *string         `gorm:"type:text"`
	MnoReference         *string         `gorm:"type:varchar(100)"`
	CreatedAt            time.Time       `gorm:"not null"`
	UpdatedAt            time.Time       `gorm:"not null;index:idx_payments_status_updated_at,priority:2"`
}

// TableName specifies the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts GORM model to domain entity
func (m *PaymentModel) ToDomain() (*payments.Payment, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &payments.Payment{
		ID:                   id,
		TransactionID:        m.TransactionID,
		RecipientPhoneNumber: m.RecipientPhoneNumber,
		Amount:               m.Amount,
		Currency:             m.Currency,
		Status:               payments.Status(m.Status),
		FailureReason:        m.FailureReason,
		MnoReference:         m.MnoReference,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}, nil
}

// FromDomain converts domain entity to GORM model
func (m *PaymentModel) FromDomain(p *payments.Payment) {
	m.ID = p.ID.String()
	m.TransactionID = p.TransactionID
	m.RecipientPhoneNumber = p.RecipientPhoneNumber
	m.Amount = p.Amount
	m.Currency = p.Currency
	m.Status = string(p.Status)
	m.FailureReason = p.FailureReason
	m.MnoReference = p.MnoReference
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
