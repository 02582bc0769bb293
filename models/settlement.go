package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Settlement is one debtor→creditor repayment record. A row exists from
// the moment the payer claims the payment; it is settled once the receiver
// counter-confirms. Rows are never deleted; the table is the audit trail.
//
// The composite unique index makes a claim an atomic upsert: two racing
// claims for the same (event, payer, receiver, amount) tuple converge to
// one row instead of duplicating it.
type Settlement struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EventID             uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_settlement_claim" json:"event_id"`
	PayerID             uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_settlement_claim" json:"payer_id"`
	Payer               User            `gorm:"foreignKey:PayerID" json:"payer,omitempty"`
	ReceiverID          uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_settlement_claim" json:"receiver_id"`
	Receiver            User            `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Amount              decimal.Decimal `gorm:"type:decimal(12,2);not null;uniqueIndex:idx_settlement_claim" json:"amount"`
	PayerConfirmed      bool            `gorm:"not null;default:false" json:"payer_confirmed"`
	PayerConfirmedAt    *time.Time      `json:"payer_confirmed_at,omitempty"`
	ReceiverConfirmed   bool            `gorm:"not null;default:false" json:"receiver_confirmed"`
	ReceiverConfirmedAt *time.Time      `json:"receiver_confirmed_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (s *Settlement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Request structs
type ConfirmPaymentRequest struct {
	EventID    string          `json:"eventId" binding:"required"`
	PayerID    string          `json:"payerId" binding:"required"`
	ReceiverID string          `json:"receiverId" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

type ConfirmReceiptRequest struct {
	SettlementID string `json:"settlementId" binding:"required"`
	UserID       string `json:"userId" binding:"required"`
}
