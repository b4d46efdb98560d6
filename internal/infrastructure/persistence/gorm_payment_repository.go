package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/persistence/models"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/google/uuid"

	"gorm.io/gorm"
)

type gormPaymentRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormPaymentRepository creates a new GORM-based PaymentRepository implementation
func NewGormPaymentRepository(db *gorm.DB, logger logger.Logger) (payments.PaymentRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db must not be nil")
	}
	return &gormPaymentRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormPaymentRepository) Create(ctx context.Context, payment *payments.Payment) error {
	if err := r.create(r.db.WithContext(ctx), payment); err != nil {
		return err
	}
	r.logger.Info("Created payment with id ", payment.ID, " for transaction ", payment.TransactionID)
	return nil
}

// CreateProcessing stores payment as PENDING and moves it to PROCESSING in one transaction,
// so a failed transition leaves no row behind.
func (r *gormPaymentRepository) CreateProcessing(ctx context.Context, payment *payments.Payment) (*payments.Payment, error) {
	var processing *payments.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.create(tx, payment); err != nil {
			return err
		}
		var err error
		processing, err = r.transition(tx, payment.ID, payments.Processing())
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Created payment with id ", processing.ID, " for transaction ", processing.TransactionID, " in PROCESSING")
	return processing, nil
}

func (r *gormPaymentRepository) create(db *gorm.DB, payment *payments.Payment) error {
	if err := payment.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.PaymentModel{}
	model.FromDomain(payment)

	if err := db.Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &payments.DuplicateTransactionError{TransactionID: payment.TransactionID}
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	payment.CreatedAt = model.CreatedAt
	payment.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *gormPaymentRepository) GetByID(ctx context.Context, paymentID uuid.UUID) (*payments.Payment, error) {
	return getByID(r.db.WithContext(ctx), paymentID)
}

func getByID(db *gorm.DB, paymentID uuid.UUID) (*payments.Payment, error) {
	var model models.PaymentModel
	if err := db.Where("id = ?", paymentID.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payments.NewNotFoundByIDError(paymentID.String())
		}
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return toDomain(&model)
}

func (r *gormPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*payments.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payments.NewNotFoundByTransactionIDError(transactionID)
		}
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return toDomain(&model)
}

func (r *gormPaymentRepository) TransitionStatus(ctx context.Context, paymentID uuid.UUID, update payments.StatusUpdate) (*payments.Payment, error) {
	return r.transition(r.db.WithContext(ctx), paymentID, update)
}

func (r *gormPaymentRepository) transition(db *gorm.DB, paymentID uuid.UUID, update payments.StatusUpdate) (*payments.Payment, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	result := db.
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", paymentID.String(), string(update.From)).
		Updates(map[string]interface{}{
			"status":         string(update.To),
			"mno_reference":  update.MnoReference,
			"failure_reason": update.FailureReason,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		current, err := getByID(db, paymentID)
		if err != nil {
			return nil, err
		}
		return current, fmt.Errorf("%w: payment %s is %s, expected %s", payments.ErrStatusConflict, paymentID, current.Status, update.From)
	}

	r.logger.Info("Payment ", paymentID, " moved from ", update.From, " to ", update.To)
	return getByID(db, paymentID)
}

func (r *gormPaymentRepository) ListStale(ctx context.Context, query payments.StaleQuery) ([]*payments.Payment, error) {
	statuses := make([]string, len(query.Statuses))
	for i, s := range query.Statuses {
		statuses[i] = string(s)
	}

	dbQuery := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("status IN ?", statuses).
		Where("updated_at < ?", query.OlderThan.UTC()).
		Order("updated_at asc")
	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}

	var modelList []*models.PaymentModel
	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch stale payments: %w", err)
	}

	domainList := make([]*payments.Payment, 0, len(modelList))
	for _, model := range modelList {
		p, err := toDomain(model)
		if err != nil {
			return nil, err
		}
		domainList = append(domainList, p)
	}
	return domainList, nil
}

func (r *gormPaymentRepository) Ping(ctx context.Context) error {
	return PingDB(ctx, r.db)
}

func toDomain(model *models.PaymentModel) (*payments.Payment, error) {
	p, err := model.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("corrupt payment row %s: %w", model.ID, err)
	}
	return p, nil
}
