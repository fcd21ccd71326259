package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// CreditRepository defines persistence operations for the free-session
// credit ledger.
type CreditRepository interface {
	// OldestUnredeemed returns the earliest outstanding credit grant for a
	// student, or gorm.ErrRecordNotFound when none exist.
	OldestUnredeemed(ctx context.Context, studentID uint) (models.CreditEntry, error)
	CountOutstanding(ctx context.Context, studentID uint) (int64, error)
	Create(ctx context.Context, entry *models.CreditEntry) error
	MarkRedeemed(ctx context.Context, id uint, sessionID uint, at time.Time) error
}

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository instantiates the repository.
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) OldestUnredeemed(ctx context.Context, studentID uint) (models.CreditEntry, error) {
	var entry models.CreditEntry
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("redeemed_at IS NULL").
		Order("granted_at ASC").
		First(&entry).Error
	if err != nil {
		return models.CreditEntry{}, err
	}

	return entry, nil
}

func (r *creditRepository) CountOutstanding(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CreditEntry{}).
		Where("student_id = ?", studentID).
		Where("redeemed_at IS NULL").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *creditRepository) Create(ctx context.Context, entry *models.CreditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *creditRepository) MarkRedeemed(ctx context.Context, id uint, sessionID uint, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.CreditEntry{}).
		Where("id = ?", id).
		Where("redeemed_at IS NULL").
		Updates(map[string]interface{}{
			"redeemed_at":         at,
			"redeemed_session_id": sessionID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
