package handlers

import (
	"net/http"
	"testing"

	"eventmate-backend/models"

	"github.com/google/uuid"
)

func TestExpenseCreate(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	event, users := seedEvent(t, db, "Alice", "Bob")
	alice := users[0]

	t.Run("creates an expense", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/expense", map[string]interface{}{
			"item":        "Pizza",
			"cost":        42.5,
			"eventId":     event.ID.String(),
			"purchaserId": alice.ID.String(),
		}, alice.ID)
		wantStatus(t, w, http.StatusCreated)

		var created models.Expense
		decodeData(t, w, &created)
		if created.ID == uuid.Nil {
			t.Error("Expected generated expense ID")
		}
		if created.Item != "Pizza" {
			t.Errorf("Item = %q, want Pizza", created.Item)
		}

		var activityCount int64
		db.Model(&models.Activity{}).Where("type = ?", "expense_added").Count(&activityCount)
		if activityCount != 1 {
			t.Errorf("Activity rows = %d, want 1", activityCount)
		}
	})

	t.Run("allows zero cost", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/expense", map[string]interface{}{
			"item":        "Freebie",
			"cost":        0,
			"eventId":     event.ID.String(),
			"purchaserId": alice.ID.String(),
		}, alice.ID)
		wantStatus(t, w, http.StatusCreated)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/expense", map[string]interface{}{
			"item":        "Refund",
			"cost":        -10,
			"eventId":     event.ID.String(),
			"purchaserId": alice.ID.String(),
		}, alice.ID)
		wantStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rejects missing item", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/expense", map[string]interface{}{
			"cost":        10,
			"eventId":     event.ID.String(),
			"purchaserId": alice.ID.String(),
		}, alice.ID)
		wantStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rejects malformed purchaser id", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/expense", map[string]interface{}{
			"item":        "Snacks",
			"cost":        10,
			"eventId":     event.ID.String(),
			"purchaserId": "not-a-uuid",
		}, alice.ID)
		wantStatus(t, w, http.StatusBadRequest)
	})
}

func TestExpenseDelete(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	event, users := seedEvent(t, db, "Alice", "Bob")
	alice, bob := users[0], users[1]

	w := doRequest(t, r, http.MethodPost, "/api/expense", map[string]interface{}{
		"item":        "Decorations",
		"cost":        30,
		"eventId":     event.ID.String(),
		"purchaserId": alice.ID.String(),
	}, alice.ID)
	wantStatus(t, w, http.StatusCreated)

	var created models.Expense
	decodeData(t, w, &created)

	// A settlement claimed against this event must survive the expense
	// deletion; the audit trail never cascades.
	w = doRequest(t, r, http.MethodPost, "/api/settlement/confirm-payment",
		claimBody(event, bob, alice, 15), bob.ID)
	wantStatus(t, w, http.StatusOK)

	t.Run("deletes the row", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/api/expense/"+created.ID.String(), nil, alice.ID)
		wantStatus(t, w, http.StatusOK)

		var count int64
		db.Model(&models.Expense{}).Count(&count)
		if count != 0 {
			t.Errorf("Expense rows = %d, want 0", count)
		}
	})

	t.Run("settlements survive expense deletion", func(t *testing.T) {
		var settlementCount int64
		db.Model(&models.Settlement{}).Count(&settlementCount)
		if settlementCount != 1 {
			t.Errorf("Settlement rows = %d, want 1", settlementCount)
		}
	})

	t.Run("unknown expense is not found", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/api/expense/"+uuid.NewString(), nil, alice.ID)
		wantStatus(t, w, http.StatusNotFound)
	})
}

func TestListEventExpenses(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	event, users := seedEvent(t, db, "Alice", "Bob")
	alice, bob := users[0], users[1]

	for _, seed := range []struct {
		user models.User
		item string
		cost float64
	}{
		{alice, "Tickets", 90},
		{bob, "Taxi", 18.4},
	} {
		w := doRequest(t, r, http.MethodPost, "/api/expense", map[string]interface{}{
			"item":        seed.item,
			"cost":        seed.cost,
			"eventId":     event.ID.String(),
			"purchaserId": seed.user.ID.String(),
		}, seed.user.ID)
		wantStatus(t, w, http.StatusCreated)
	}

	w := doRequest(t, r, http.MethodGet, "/api/events/"+event.ID.String()+"/expenses", nil, alice.ID)
	wantStatus(t, w, http.StatusOK)

	var expenses []models.Expense
	decodeData(t, w, &expenses)
	if len(expenses) != 2 {
		t.Fatalf("Expenses = %d, want 2", len(expenses))
	}
	for _, e := range expenses {
		if e.Purchaser.Name == "" {
			t.Errorf("Expected purchaser identity embedded on %s", e.Item)
		}
	}
}
