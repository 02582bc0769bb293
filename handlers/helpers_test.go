package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmate-backend/config"
	"eventmate-backend/middleware"
	"eventmate-backend/models"
	"eventmate-backend/services"
	"eventmate-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventAttendee{},
		&models.Expense{},
		&models.Settlement{},
		&models.Activity{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	config.Load()

	ledgerHandler := NewLedgerHandler(db, services.NewRosterService(db, nil))
	expenseHandler := NewExpenseHandler(db)
	settlementHandler := NewSettlementHandler(db, nil)
	activityHandler := NewActivityHandler(db)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		api.GET("/calculate/:eventId", ledgerHandler.Calculate)
		api.POST("/expense", expenseHandler.Create)
		api.DELETE("/expense/:id", expenseHandler.Delete)
		api.GET("/events/:id/expenses", expenseHandler.ListForEvent)
		api.POST("/settlement/confirm-payment", settlementHandler.ConfirmPayment)
		api.POST("/settlement/confirm-receipt", settlementHandler.ConfirmReceipt)
		api.GET("/settlement/event/:eventId", settlementHandler.GetEventSettlements)
		api.GET("/settlement/user/:userId", settlementHandler.GetUserSettlements)
		api.GET("/events/:id/activity", activityHandler.GetEventActivity)
	}
	return r
}

// seedEvent creates an event with the given attendee names and returns the
// event plus attendees in input order.
func seedEvent(t *testing.T, db *gorm.DB, names ...string) (models.Event, []models.User) {
	t.Helper()

	event := models.Event{ID: uuid.New(), Name: "Test Event"}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}

	users := make([]models.User, 0, len(names))
	for _, name := range names {
		user := models.User{ID: uuid.New(), Name: name, Email: name + "@example.com"}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("Failed to seed user %s: %v", name, err)
		}
		if err := db.Create(&models.EventAttendee{EventID: event.ID, UserID: user.ID}).Error; err != nil {
			t.Fatalf("Failed to seed attendee %s: %v", name, err)
		}
		users = append(users, user)
	}

	return event, users
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}, asUser uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	token, err := utils.GenerateToken(asUser, "test@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatalf("Expected success response, got: %s", w.Body.String())
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("Failed to decode response data: %v (data: %s)", err, string(env.Data))
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("Expected status %d, got %d (body: %s)", status, w.Code, w.Body.String())
	}
	if status >= http.StatusBadRequest {
		env := decodeEnvelope(t, w)
		if env.Success {
			t.Fatalf("Expected success=false for status %d", status)
		}
		if env.Error == nil {
			t.Fatalf("Expected error field for status %d", status)
		}
	}
}
