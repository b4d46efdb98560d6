// Package connector contains adapters to systems outside the payments database:
// the mobile network operator, the SMS gateway, the AMQP broker and the redis cache.
package connector
