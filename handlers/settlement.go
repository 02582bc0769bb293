package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"eventmate-backend/models"
	"eventmate-backend/services"
	"eventmate-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementHandler implements the two-party confirmation protocol: the
// payer claims a repayment, the receiver counter-confirms it. Records
// are upserted by exact (event, payer, receiver, amount) tuple and never
// deleted.
type SettlementHandler struct {
	db       *gorm.DB
	notifier *services.NotificationService // nil in tests
}

func NewSettlementHandler(db *gorm.DB, notifier *services.NotificationService) *SettlementHandler {
	return &SettlementHandler{db: db, notifier: notifier}
}

// POST /api/settlement/confirm-payment
//
// The claim is a single upsert against the unique tuple index, so two
// racing claims for the same tuple converge to one row. Repeat claims
// just refresh payer_confirmed_at.
func (h *SettlementHandler) ConfirmPayment(c *gin.Context) {
	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		utils.BadRequest(c, "Invalid event ID")
		return
	}
	payerID, err := uuid.Parse(req.PayerID)
	if err != nil {
		utils.BadRequest(c, "Invalid payer ID")
		return
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		utils.BadRequest(c, "Invalid receiver ID")
		return
	}

	if !req.Amount.IsPositive() {
		utils.BadRequest(c, "Amount must be greater than zero")
		return
	}
	if payerID == receiverID {
		utils.BadRequest(c, "Payer and receiver must be different users")
		return
	}

	// Only the payer themselves can claim the payment.
	if utils.GetCurrentUserID(c) != payerID {
		utils.Unauthorized(c, "You can only confirm your own payments")
		return
	}

	now := time.Now()
	settlement := models.Settlement{
		EventID:          eventID,
		PayerID:          payerID,
		ReceiverID:       receiverID,
		Amount:           req.Amount,
		PayerConfirmed:   true,
		PayerConfirmedAt: &now,
	}

	err = h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "event_id"}, {Name: "payer_id"}, {Name: "receiver_id"}, {Name: "amount"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"payer_confirmed":    true,
			"payer_confirmed_at": now,
			"updated_at":         now,
		}),
	}).Create(&settlement).Error
	if err != nil {
		log.Printf("❌ Failed to upsert settlement: %v", err)
		utils.InternalError(c, "Failed to record settlement")
		return
	}

	// Re-read by tuple: on the conflict path the generated ID above is
	// not the stored row's.
	if err := h.db.Where(
		"event_id = ? AND payer_id = ? AND receiver_id = ? AND amount = ?",
		eventID, payerID, receiverID, req.Amount,
	).First(&settlement).Error; err != nil {
		log.Printf("❌ Failed to reload settlement: %v", err)
		utils.InternalError(c, "Failed to record settlement")
		return
	}

	logActivity(h.db, eventID, payerID, "payment_claimed", settlement.ID,
		fmt.Sprintf("reported paying back %s", settlement.Amount.StringFixed(2)))

	h.notify(settlement, func(s models.Settlement, payer, receiver models.User, event models.Event) {
		h.notifier.NotifyPaymentClaimed(s, payer, receiver, event)
	})

	utils.SuccessResponse(c, http.StatusOK, "Payment recorded, awaiting receiver confirmation", settlement)
}

// POST /api/settlement/confirm-receipt
//
// The lookup is scoped to receiver_id so a caller can only confirm
// settlements addressed to them; a miss reads the same as a record that
// does not exist.
func (h *SettlementHandler) ConfirmReceipt(c *gin.Context) {
	var req models.ConfirmReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	settlementID, err := uuid.Parse(req.SettlementID)
	if err != nil {
		utils.BadRequest(c, "Invalid settlement ID")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.BadRequest(c, "Invalid user ID")
		return
	}

	if utils.GetCurrentUserID(c) != userID {
		utils.Unauthorized(c, "You can only confirm your own receipts")
		return
	}

	var settlement models.Settlement
	if err := h.db.Where("id = ? AND receiver_id = ?", settlementID, userID).
		First(&settlement).Error; err != nil {
		utils.NotFound(c, "Settlement not found")
		return
	}

	if !settlement.PayerConfirmed {
		utils.BadRequest(c, "Payment has not been confirmed by the payer yet")
		return
	}

	now := time.Now()
	if err := h.db.Model(&settlement).Updates(map[string]interface{}{
		"receiver_confirmed":    true,
		"receiver_confirmed_at": now,
	}).Error; err != nil {
		log.Printf("❌ Failed to confirm receipt for %s: %v", settlementID, err)
		utils.InternalError(c, "Failed to confirm receipt")
		return
	}
	settlement.ReceiverConfirmed = true
	settlement.ReceiverConfirmedAt = &now

	logActivity(h.db, settlement.EventID, userID, "payment_settled", settlement.ID,
		fmt.Sprintf("confirmed receiving %s", settlement.Amount.StringFixed(2)))

	h.notify(settlement, func(s models.Settlement, payer, receiver models.User, event models.Event) {
		h.notifier.NotifyPaymentSettled(s, payer, receiver, event)
	})

	utils.SuccessResponse(c, http.StatusOK, "Settlement confirmed", settlement)
}

// GET /api/settlement/event/:eventId
func (h *SettlementHandler) GetEventSettlements(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		utils.BadRequest(c, "Invalid event ID")
		return
	}

	var settlements []models.Settlement
	if err := h.db.Where("event_id = ?", eventID).
		Preload("Payer").Preload("Receiver").
		Order("created_at DESC").
		Find(&settlements).Error; err != nil {
		log.Printf("❌ Failed to list settlements for event %s: %v", eventID, err)
		utils.InternalError(c, "Failed to list settlements")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", settlements)
}

// GET /api/settlement/user/:userId?eventId=
func (h *SettlementHandler) GetUserSettlements(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "Invalid user ID")
		return
	}

	query := h.db.Where("payer_id = ? OR receiver_id = ?", userID, userID)

	if raw := c.Query("eventId"); raw != "" {
		eventID, err := uuid.Parse(raw)
		if err != nil {
			utils.BadRequest(c, "Invalid event ID")
			return
		}
		query = query.Where("event_id = ?", eventID)
	}

	var settlements []models.Settlement
	if err := query.Preload("Payer").Preload("Receiver").
		Order("created_at DESC").
		Find(&settlements).Error; err != nil {
		log.Printf("❌ Failed to list settlements for user %s: %v", userID, err)
		utils.InternalError(c, "Failed to list settlements")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", settlements)
}

// notify loads display identities and fans out on a detached goroutine;
// a failed or disabled notifier never affects the response.
func (h *SettlementHandler) notify(settlement models.Settlement, send func(models.Settlement, models.User, models.User, models.Event)) {
	if h.notifier == nil {
		return
	}

	var payer, receiver models.User
	var event models.Event
	h.db.First(&payer, "id = ?", settlement.PayerID)
	h.db.First(&receiver, "id = ?", settlement.ReceiverID)
	h.db.First(&event, "id = ?", settlement.EventID)

	go send(settlement, payer, receiver, event)
}
