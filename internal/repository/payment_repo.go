package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// PaymentRepository defines persistence operations for payment records.
type PaymentRepository interface {
	GetByTransactionID(ctx context.Context, transactionID string) (models.Payment, error)
	ListBySession(ctx context.Context, sessionID uint) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository instantiates the repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

func (r *paymentRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}
