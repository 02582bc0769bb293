package handlers

import (
	"fmt"
	"log"
	"net/http"

	"eventmate-backend/models"
	"eventmate-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseHandler struct {
	db *gorm.DB
}

func NewExpenseHandler(db *gorm.DB) *ExpenseHandler {
	return &ExpenseHandler{db: db}
}

// POST /api/expense
//
// Referential validity of eventId/purchaserId is the events service's
// job; this handler only rejects malformed input and negative costs.
// Settlement records are untouched; balances are always recomputed.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		utils.BadRequest(c, "Invalid event ID")
		return
	}

	purchaserID, err := uuid.Parse(req.PurchaserID)
	if err != nil {
		utils.BadRequest(c, "Invalid purchaser ID")
		return
	}

	if req.Cost.IsNegative() {
		utils.BadRequest(c, "Cost cannot be negative")
		return
	}

	expense := models.Expense{
		EventID:     eventID,
		PurchaserID: purchaserID,
		Item:        req.Item,
		Cost:        req.Cost,
	}

	if err := h.db.Create(&expense).Error; err != nil {
		log.Printf("❌ Failed to create expense: %v", err)
		utils.InternalError(c, "Failed to create expense")
		return
	}

	logActivity(h.db, eventID, purchaserID, "expense_added", expense.ID,
		fmt.Sprintf("added \"%s\" (%s)", expense.Item, expense.Cost.StringFixed(2)))

	utils.SuccessResponse(c, http.StatusCreated, "Expense added", expense)
}

// DELETE /api/expense/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := h.db.First(&expense, "id = ?", expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if err := h.db.Delete(&expense).Error; err != nil {
		log.Printf("❌ Failed to delete expense %s: %v", expenseID, err)
		utils.InternalError(c, "Failed to delete expense")
		return
	}

	logActivity(h.db, expense.EventID, utils.GetCurrentUserID(c), "expense_deleted", expense.ID,
		fmt.Sprintf("deleted \"%s\" (%s)", expense.Item, expense.Cost.StringFixed(2)))

	utils.SuccessResponse(c, http.StatusOK, "Expense deleted", nil)
}

// GET /api/events/:id/expenses
func (h *ExpenseHandler) ListForEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid event ID")
		return
	}

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var expenses []models.Expense
	if err := h.db.Where("event_id = ?", eventID).
		Preload("Purchaser").
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&expenses).Error; err != nil {
		log.Printf("❌ Failed to list expenses for %s: %v", eventID, err)
		utils.InternalError(c, "Failed to list expenses")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", expenses)
}

// Shared by the expense and settlement handlers.
func logActivity(db *gorm.DB, eventID, userID uuid.UUID, activityType string, refID uuid.UUID, what string) {
	var actor models.User
	description := what
	if err := db.First(&actor, "id = ?", userID).Error; err == nil {
		description = actor.Name + " " + what
	}

	if err := db.Create(&models.Activity{
		EventID:     eventID,
		UserID:      userID,
		Type:        activityType,
		ReferenceID: refID,
		Description: description,
	}).Error; err != nil {
		log.Printf("⚠️  Failed to log activity: %v", err)
	}
}
