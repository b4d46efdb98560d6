package app

import (
	"context"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
)

// lifecycle runs the side effects of a persisted status change.
// Failures are logged and never undo the change.
type lifecycle struct {
	notifier  payments.Notifier
	publisher payments.EventPublisher
	metrics   Metrics
	logger    logger.Logger
}

func (l *lifecycle) publish(ctx context.Context, payment *payments.Payment) {
	eventType, ok := payments.EventTypeFor(payment.Status)
	if !ok {
		return
	}
	if err := l.publisher.Publish(ctx, payments.NewPaymentEvent(eventType, payment)); err != nil {
		l.logger.Warn("Failed to publish ", eventType, " for payment ", payment.ID, ": ", err)
	}
}

func (l *lifecycle) initiated(ctx context.Context, payment *payments.Payment) {
	l.metrics.PaymentInitiated()
	l.publish(ctx, payment)
}

// completed records a terminal payment and, when notify is set, informs the recipient.
func (l *lifecycle) completed(ctx context.Context, payment *payments.Payment, notify bool) {
	l.metrics.PaymentCompleted(payment.Status)
	l.publish(ctx, payment)

	if !notify {
		return
	}
	switch payment.Status {
	case payments.StatusSuccessful:
		l.notifier.NotifyPaymentSuccess(ctx, payment)
	case payments.StatusFailed:
		l.notifier.NotifyPaymentFailure(ctx, payment)
	}
}
