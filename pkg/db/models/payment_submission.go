package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/superbox-backend/pkg/enums"
)

// PaymentSubmission is one attempt to settle a checkout item, or the single
// gateway initiation for a checkout.
type PaymentSubmission struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID      string                  `gorm:"column:session_id;not null;index:idx_payment_submissions_session" json:"sessionId"`
	Tenant         string                  `gorm:"column:tenant;not null;index:idx_payment_submissions_tenant_buyer,priority:1" json:"tenant"`
	ItemID         *string                 `gorm:"column:item_id" json:"itemId,omitempty"`
	ItemName       *string                 `gorm:"column:item_name" json:"itemName,omitempty"`
	BuyerEmail     string                  `gorm:"column:buyer_email;not null;index:idx_payment_submissions_tenant_buyer,priority:2" json:"buyerEmail"`
	SellerEmail    string                  `gorm:"column:seller_email;not null" json:"sellerEmail"`
	PaymentMethod  enums.PaymentMethod     `gorm:"column:payment_method;not null" json:"paymentMethod"`
	PaymentStatus  *enums.PaymentStatus    `gorm:"column:payment_status" json:"paymentStatus,omitempty"`
	Outcome        enums.SubmissionOutcome `gorm:"column:outcome;not null" json:"outcome"`
	Amount         decimal.Decimal         `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	Currency       string                  `gorm:"column:currency;not null" json:"currency"`
	IdempotencyKey *string                 `gorm:"column:idempotency_key" json:"-"`
	Message        *string                 `gorm:"column:message" json:"message,omitempty"`
	ErrorCode      *string                 `gorm:"column:error_code" json:"errorCode,omitempty"`
	ErrorMessage   *string                 `gorm:"column:error_message" json:"-"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime;index:idx_payment_submissions_tenant_buyer,priority:3" json:"createdAt"`
}

func (PaymentSubmission) TableName() string {
	return "payment_submissions"
}
