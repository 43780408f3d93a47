package handlers

import (
	"net/http"
	"strconv"
	"time"

	"loungebot/models"
	"loungebot/services/booking"
	"loungebot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BotHandler exposes the conversation engine and the availability
// reporter over HTTP.
type BotHandler struct {
	engine   *booking.Engine
	reporter *booking.Reporter
	logger   *zap.Logger
}

// NewBotHandler returns a handler wired to the given engine.
func NewBotHandler(engine *booking.Engine, reporter *booking.Reporter, logger *zap.Logger) *BotHandler {
	return &BotHandler{engine: engine, reporter: reporter, logger: logger}
}

// HandleEvent receives one inbound chat event from the relay and runs
// it through the conversation engine. Replies travel back through the
// outbound transport, so a successful intake is just a 202.
func (h *BotHandler) HandleEvent(c *gin.Context) {
	var ev models.InboundEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid event payload", err.Error())
		return
	}
	if ev.ChatID == 0 || ev.User.ID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid event payload", "chatId and user.id are required")
		return
	}

	if err := h.engine.HandleEvent(c.Request.Context(), ev); err != nil {
		h.logger.Error("failed to process inbound event",
			zap.Int64("chatId", ev.ChatID), zap.String("kind", ev.Kind), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to process event", "")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

// GetAvailability renders the availability view for one date
// (YYYY-MM-DD path parameter).
func (h *BotHandler) GetAvailability(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return
	}
	text, err := h.reporter.Render(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("failed to render availability", zap.String("date", date), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to render availability", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "text": text})
}

// GetAvailabilityRange renders the next N days (default 7, capped at 31).
func (h *BotHandler) GetAvailabilityRange(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 31 {
			utils.JSONError(c, http.StatusBadRequest, "invalid days parameter", "days must be 1-31")
			return
		}
		days = parsed
	}
	dates := booking.WeekDates(h.engine.Clock.Now(), days)
	text, err := h.reporter.RenderRange(c.Request.Context(), dates)
	if err != nil {
		h.logger.Error("failed to render availability range", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to render availability", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "text": text})
}

// Health reports the latest dependency health snapshot.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
