package handlers

import (
	"log"
	"net/http"

	"eventmate-backend/models"
	"eventmate-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityHandler struct {
	db *gorm.DB
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{db: db}
}

// GET /api/events/:id/activity
func (h *ActivityHandler) GetEventActivity(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid event ID")
		return
	}

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var activities []models.Activity
	if err := h.db.Where("event_id = ?", eventID).
		Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities).Error; err != nil {
		log.Printf("❌ Failed to load activity for %s: %v", eventID, err)
		utils.InternalError(c, "Failed to load activity")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
