// Package config loads the payment service settings.
//
// RestConfig is read from a YAML file, optionally preceded by a .env file, and any key
// can be overridden with a B2C_ prefixed environment variable (database.dsn -> B2C_DATABASE_DSN).
// Every settings struct validates itself; InitializeRestConfig fails on the first invalid section.
package config
