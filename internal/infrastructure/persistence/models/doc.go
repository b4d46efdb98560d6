// Package models holds the GORM row types for the payments table and their
// conversions to and from payments.Payment.
package models
