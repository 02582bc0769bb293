package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EventID     uuid.UUID       `gorm:"type:uuid;index" json:"event_id"`
	PurchaserID uuid.UUID       `gorm:"type:uuid" json:"purchaser_id"`
	Purchaser   User            `gorm:"foreignKey:PurchaserID" json:"purchaser,omitempty"`
	Item        string          `gorm:"not null;size:255" json:"item"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Request structs
type CreateExpenseRequest struct {
	Item        string          `json:"item" binding:"required"`
	Cost        decimal.Decimal `json:"cost"`
	EventID     string          `json:"eventId" binding:"required"`
	PurchaserID string          `json:"purchaserId" binding:"required"`
}
