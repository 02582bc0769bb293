package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"eventmate-backend/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const rosterTTL = 5 * time.Minute

// RosterService resolves an event's attendee list from the collaborator
// read models, with a short-lived Redis cache in front. Only the roster is
// cached, never the ledger; the roster changes rarely and is owned
// elsewhere anyway.
type RosterService struct {
	db    *gorm.DB
	cache *redis.Client // nil means no cache
}

func NewRosterService(db *gorm.DB, cache *redis.Client) *RosterService {
	return &RosterService{db: db, cache: cache}
}

// Attendees returns the roster for one event. An unknown event yields an
// empty roster, not an error.
func (rs *RosterService) Attendees(ctx context.Context, eventID uuid.UUID) ([]models.User, error) {
	key := "roster:" + eventID.String()

	if rs.cache != nil {
		if raw, err := rs.cache.Get(ctx, key).Result(); err == nil {
			var users []models.User
			if err := json.Unmarshal([]byte(raw), &users); err == nil {
				return users, nil
			}
		}
	}

	var memberships []models.EventAttendee
	if err := rs.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Preload("User").
		Find(&memberships).Error; err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(memberships))
	for _, m := range memberships {
		users = append(users, m.User)
	}

	if rs.cache != nil {
		if raw, err := json.Marshal(users); err == nil {
			if err := rs.cache.Set(ctx, key, raw, rosterTTL).Err(); err != nil {
				log.Printf("⚠️  Failed to cache roster for %s: %v", eventID, err)
			}
		}
	}

	return users, nil
}

// Invalidate drops the cached roster; the events service calls this hook
// when the attendee list changes.
func (rs *RosterService) Invalidate(ctx context.Context, eventID uuid.UUID) {
	if rs.cache == nil {
		return
	}
	if err := rs.cache.Del(ctx, "roster:"+eventID.String()).Err(); err != nil {
		log.Printf("⚠️  Failed to invalidate roster for %s: %v", eventID, err)
	}
}
