package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/activity"
	"github.com/xaenox/blacksea-bot/internal/models"
	"github.com/xaenox/blacksea-bot/internal/storage"
)

// userView is a profile as the admin API shows it. The phone number itself
// never leaves the store.
type userView struct {
	UserID           int64     `json:"user_id"`
	Username         string    `json:"username"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	HasPhone         bool      `json:"has_phone"`
	LanguageCode     string    `json:"language_code"`
	LastActivity     time.Time `json:"last_activity"`
	LastCommand      string    `json:"last_command"`
	RegistrationDate time.Time `json:"registration_date"`
}

func newUserView(p *models.UserProfile) userView {
	return userView{
		UserID:           p.UserID,
		Username:         p.Username,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		HasPhone:         p.PhoneNumber != "",
		LanguageCode:     p.LanguageCode,
		LastActivity:     p.LastActivity,
		LastCommand:      p.LastCommand,
		RegistrationDate: p.RegistrationDate,
	}
}

type handler struct {
	store  Store
	logger *zap.Logger
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// stats answers GET /stats?action_type=api_request.
func (h *handler) stats(c *gin.Context) {
	records, err := h.store.ListActivities(c.Request.Context())
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, activity.Summarize(records, models.ActionType(c.Query("action_type"))))
}

func (h *handler) user(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	profile, err := h.store.GetUser(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		abortWithError(c, &httpError{Status: http.StatusNotFound, Code: "user_not_found", Message: "user not found", Err: err})
		return
	}
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, newUserView(profile))
}

func (h *handler) userActions(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	records, err := h.store.UserActivities(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	if records == nil {
		records = []models.ActivityRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "actions": records})
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, &httpError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "user id must be an integer", Err: err})
		return 0, false
	}
	return id, true
}
