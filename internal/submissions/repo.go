package submissions

import (
	"context"

	"github.com/angelmondragon/superbox-backend/pkg/db/models"
	"github.com/angelmondragon/superbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository manages persistence for payment submissions.
type Repository interface {
	Create(ctx context.Context, submission *models.PaymentSubmission) error
	List(ctx context.Context, query listQuery) ([]models.PaymentSubmission, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a submission repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type listQuery struct {
	Tenant     string
	BuyerEmail string
	SessionID  string
	Limit      int
	Cursor     *pagination.Cursor
}

func (r *repository) Create(ctx context.Context, submission *models.PaymentSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// List returns newest-first rows for one buyer in one storefront.
func (r *repository) List(ctx context.Context, q listQuery) ([]models.PaymentSubmission, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PaymentSubmission{}).
		Where("tenant = ? AND buyer_email = ?", q.Tenant, q.BuyerEmail)
	if q.SessionID != "" {
		query = query.Where("session_id = ?", q.SessionID)
	}
	if q.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", q.Cursor.CreatedAt, q.Cursor.ID)
	}

	var rows []models.PaymentSubmission
	if err := query.Order("created_at DESC, id DESC").Limit(q.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
