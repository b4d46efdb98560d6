// Package payments defines the business-to-customer payout aggregate, its lifecycle rules,
// the events it emits and the contracts implemented by the application and infrastructure layers.

package payments
