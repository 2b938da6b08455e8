package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SamarthKalavadia/hospital-management-system/internal/middleware"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

const dateLayout = "2006-01-02"

// currentActor returns the authenticated caller or writes a 401.
func currentActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return models.Actor{}, false
	}
	return actor, true
}

// parseDay reads a calendar day in local time, accepting a full timestamp
// as well.
func parseDay(s string) (time.Time, bool) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.In(time.Local)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), true
	}
	return time.Time{}, false
}
