package main

import (
	"log"

	"eventmate-backend/config"
	"eventmate-backend/database"
	"eventmate-backend/handlers"
	"eventmate-backend/middleware"
	"eventmate-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	config.Load()

	// Money fields serialize as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Connect to database; the handle is passed into handlers explicitly
	db, err := database.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Connect to Redis (optional, won't crash if unavailable)
	cache := database.ConnectRedis()

	// Services
	roster := services.NewRosterService(db, cache)
	notifier := services.NewNotificationService()

	// Handlers
	ledgerHandler := handlers.NewLedgerHandler(db, roster)
	expenseHandler := handlers.NewExpenseHandler(db)
	settlementHandler := handlers.NewSettlementHandler(db, notifier)
	activityHandler := handlers.NewActivityHandler(db)

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// Ledger
		api.GET("/calculate/:eventId", ledgerHandler.Calculate)

		// Expenses
		api.POST("/expense", expenseHandler.Create)
		api.DELETE("/expense/:id", expenseHandler.Delete)
		api.GET("/events/:id/expenses", expenseHandler.ListForEvent)

		// Settlements
		api.POST("/settlement/confirm-payment", settlementHandler.ConfirmPayment)
		api.POST("/settlement/confirm-receipt", settlementHandler.ConfirmReceipt)
		api.GET("/settlement/event/:eventId", settlementHandler.GetEventSettlements)
		api.GET("/settlement/user/:userId", settlementHandler.GetUserSettlements)

		// Activity
		api.GET("/events/:id/activity", activityHandler.GetEventActivity)
	}

	// Start server
	port := config.AppConfig.Port
	addr := "0.0.0.0:" + port
	log.Printf("🚀 %s server starting on %s", config.AppConfig.AppName, addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
