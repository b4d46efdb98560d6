package app

import (
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
)

// Metrics records payment processing measurements.
type Metrics interface {
	PaymentInitiated()
	PaymentCompleted(status payments.Status)
	ObserveMNORequest(outcome string, duration time.Duration)
	SetQueueDepth(depth int)
	ReconciliationRun(failed int)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) PaymentInitiated() {}
func (NopMetrics) PaymentCompleted(payments.Status) {}
func (NopMetrics) ObserveMNORequest(string, time.Duration) {}
func (NopMetrics) SetQueueDepth(int) {}
func (NopMetrics) ReconciliationRun(int) {}
