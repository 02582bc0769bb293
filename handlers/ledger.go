package handlers

import (
	"context"
	"log"
	"net/http"

	"eventmate-backend/models"
	"eventmate-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RosterProvider is the collaborator contract for attendee lookups.
type RosterProvider interface {
	Attendees(ctx context.Context, eventID uuid.UUID) ([]models.User, error)
}

type LedgerHandler struct {
	db     *gorm.DB
	roster RosterProvider
}

func NewLedgerHandler(db *gorm.DB, roster RosterProvider) *LedgerHandler {
	return &LedgerHandler{db: db, roster: roster}
}

// GET /api/calculate/:eventId
//
// The ledger is recomputed from scratch on every call; nothing here
// writes, so it is safe to run concurrently with expense mutations.
func (h *LedgerHandler) Calculate(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		utils.BadRequest(c, "Invalid event ID")
		return
	}

	var expenses []models.Expense
	if err := h.db.Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		log.Printf("❌ Failed to load expenses for %s: %v", eventID, err)
		utils.InternalError(c, "Failed to load expenses")
		return
	}

	attendees, err := h.roster.Attendees(c.Request.Context(), eventID)
	if err != nil {
		log.Printf("❌ Failed to load roster for %s: %v", eventID, err)
		utils.InternalError(c, "Failed to load attendees")
		return
	}

	summary := computeLedger(expenses, attendees)
	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// computeLedger turns one event's expenses and roster into totals, the
// per-person fair share, and a signed balance per attendee. All
// arithmetic stays in decimals; rounding happens once, on the way out.
//
// Balance sign: positive = paid more than their share, is owed money;
// negative = still owes. The balances always sum to zero (up to the
// final 2-place rounding).
func computeLedger(expenses []models.Expense, attendees []models.User) models.LedgerSummary {
	total := decimal.Zero
	paidBy := make(map[uuid.UUID]decimal.Decimal)
	for _, e := range expenses {
		total = total.Add(e.Cost)
		paidBy[e.PurchaserID] = paidBy[e.PurchaserID].Add(e.Cost)
	}

	perPerson := decimal.Zero
	if len(attendees) > 0 {
		perPerson = total.Div(decimal.NewFromInt(int64(len(attendees))))
	}

	attendeeResponses := make([]models.AttendeeResponse, 0, len(attendees))
	shares := make([]models.AttendeeShare, 0, len(attendees))
	for _, a := range attendees {
		attendeeResponses = append(attendeeResponses, a.ToAttendee())
		shares = append(shares, models.AttendeeShare{
			Name: a.Name,
			Owes: paidBy[a.ID].Sub(perPerson).Round(2),
		})
	}

	if expenses == nil {
		expenses = []models.Expense{}
	}

	return models.LedgerSummary{
		Expenses:    expenses,
		Attendees:   attendeeResponses,
		Total:       total.Round(2),
		PerPerson:   perPerson.Round(2),
		IndExpenses: shares,
	}
}
