//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB          *gorm.DB
	Migrator    *Migrator
	PaymentRepo payments.PaymentRepository
}

// SetupTestDB initializes a migrated test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanupFunc := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  sqliteInMemoryDSN,
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	log := testutil.SetupTestLogger(t)

	migrator, err := NewMigrator(db, dbType, log)
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, migrator.Up(), "Failed to migrate schema")

	paymentRepo, err := NewGormPaymentRepository(db, log)
	require.NoError(t, err, "Failed to create payment repository")

	return &TestContext{
		DB:          db,
		Migrator:    migrator,
		PaymentRepo: paymentRepo,
	}
}

// CreateTestPayment creates a pending payment with default values
func CreateTestPayment(t *testing.T, transactionID string) *payments.Payment {
	t.Helper()

	if transactionID == "" {
		transactionID = "TXN-" + uuid.NewString()[:8]
	}
	return payments.NewPayment(transactionID, "+254722000111", decimal.RequireFromString("1500.50"), "KES")
}
