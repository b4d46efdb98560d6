package v1

// BasePath is the prefix of every version 1 route.
const BasePath = "/api/v1"

// Authorities required by the payment routes
const (
	AuthorityPaymentInitiate = "SCOPE_payment.initiate"
	AuthorityPaymentRead     = "SCOPE_payment.read"
)
