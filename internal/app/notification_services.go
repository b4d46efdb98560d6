package app

import (
	"context"
	"fmt"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
)

// smsNotifier implements the Notifier interface over an SmsSender
type smsNotifier struct {
	sender payments.SmsSender
	logger logger.Logger
}

// NewSmsNotifier creates a new instance of Notifier sending text messages
func NewSmsNotifier(sender payments.SmsSender, logger logger.Logger) (payments.Notifier, error) {
	if sender == nil {
		return nil, fmt.Errorf("sms notifier requires a sender")
	}
	return &smsNotifier{
		sender: sender,
		logger: logger,
	}, nil
}

// SuccessMessage renders the text sent for a successful payment.
func SuccessMessage(payment *payments.Payment) string {
	reference := payment.TransactionID
	if payment.MnoReference != nil {
		reference = *payment.MnoReference
	}
	return fmt.Sprintf("Dear Customer, you have received %s %s. Transaction Ref: %s.",
		payment.Currency, payment.Amount.StringFixed(2), reference)
}

// FailureMessage renders the text sent for a failed payment.
func FailureMessage(payment *payments.Payment) string {
	reason := "an unknown issue"
	if payment.FailureReason != nil {
		reason = *payment.FailureReason
	}
	return fmt.Sprintf("Dear Customer, the payment of %s %s failed due to: %s. Transaction ID: %s.",
		payment.Currency, payment.Amount.StringFixed(2), reason, payment.TransactionID)
}

func (n *smsNotifier) NotifyPaymentSuccess(ctx context.Context, payment *payments.Payment) {
	n.send(ctx, payment, SuccessMessage(payment))
}

func (n *smsNotifier) NotifyPaymentFailure(ctx context.Context, payment *payments.Payment) {
	n.send(ctx, payment, FailureMessage(payment))
}

func (n *smsNotifier) send(ctx context.Context, payment *payments.Payment, message string) {
	if err := n.sender.Send(ctx, payment.RecipientPhoneNumber, message); err != nil {
		n.logger.Error("Failed to send SMS for payment ", payment.ID, ": ", err)
	}
}
