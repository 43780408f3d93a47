package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	reservationRepo "loungebot/database/repository/reservation"
	"loungebot/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	welcomeMessage = "Welcome to Garuda Lounge Bot. How can I help you?"
	cancelHint     = "Enter 'cancel' to cancel booking"
	genericError   = "Something went wrong. Please try again."
)

// HandleEvent is the engine's single entrypoint. Each inbound event is
// processed to completion before the relay delivers the chat's next
// one; events for different chats run concurrently.
func (e *Engine) HandleEvent(ctx context.Context, ev models.InboundEvent) error {
	switch ev.Kind {
	case models.EventCommand:
		return e.handleCommand(ctx, ev)
	case models.EventCallback:
		return e.handleCallback(ctx, ev)
	case models.EventReply:
		return e.handleReply(ctx, ev)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

// A command is always a top-level action: it aborts any in-flight flow
// and starts over from the welcome prompt.
func (e *Engine) handleCommand(ctx context.Context, ev models.InboundEvent) error {
	if err := e.Sessions.Delete(ctx, ev.ChatID); err != nil {
		e.Logger.Warn("failed to clear session", zap.Int64("chatId", ev.ChatID), zap.Error(err))
	}
	return e.sendWelcome(ctx, ev.ChatID)
}

func (e *Engine) handleCallback(ctx context.Context, ev models.InboundEvent) error {
	tok, err := DecodeToken(ev.Token)
	if err != nil {
		e.Logger.Warn("rejected callback token",
			zap.Int64("chatId", ev.ChatID), zap.String("token", ev.Token), zap.Error(err))
		return e.Transport.SendMessage(ctx, ev.ChatID,
			"Sorry, I couldn't understand that action. Please try again.", nil)
	}

	switch tok.Verb {
	case VerbBack:
		return e.handleCommand(ctx, ev)
	case VerbBookSelect:
		return e.promptLevelSelection(ctx, ev.ChatID)
	case VerbBookLevel:
		return e.promptDateSelection(ctx, ev.ChatID, tok.Level)
	case VerbBookDate:
		return e.beginBookingFlow(ctx, ev.ChatID, tok.Level, tok.Date)
	case VerbAvailSelect:
		return e.promptAvailabilityDate(ctx, ev.ChatID)
	case VerbAvailDate:
		return e.sendAvailability(ctx, ev.ChatID, []string{tok.Date})
	case VerbAvailWeek:
		return e.sendAvailability(ctx, ev.ChatID, WeekDates(e.Clock.Now(), 7))
	case VerbUnbookSelect:
		return e.promptOwnBookings(ctx, ev, VerbUnbook, "Select a booking to unbook")
	case VerbUnbook:
		return e.cancelReservation(ctx, ev.ChatID, tok)
	case VerbUpdateSelect:
		return e.promptOwnBookings(ctx, ev, VerbUpdate, "Select a booking to update")
	case VerbUpdate:
		return e.beginUpdateFlow(ctx, ev.ChatID, tok)
	default:
		// knownVerbs and this switch must stay in sync.
		return fmt.Errorf("unhandled verb %q", tok.Verb)
	}
}

// A free-text reply only means something while a flow is awaiting
// input; otherwise the user gets the welcome prompt back.
func (e *Engine) handleReply(ctx context.Context, ev models.InboundEvent) error {
	text := strings.TrimSpace(ev.Text)

	session, err := e.Sessions.Get(ctx, ev.ChatID)
	if err != nil {
		e.Logger.Error("failed to load session", zap.Int64("chatId", ev.ChatID), zap.Error(err))
		return e.Transport.SendMessage(ctx, ev.ChatID, genericError, nil)
	}
	if session == nil || session.State == models.StateIdle {
		return e.sendWelcome(ctx, ev.ChatID)
	}
	if strings.EqualFold(text, "cancel") {
		if err := e.Sessions.Delete(ctx, ev.ChatID); err != nil {
			e.Logger.Warn("failed to clear session", zap.Int64("chatId", ev.ChatID), zap.Error(err))
		}
		return e.sendWelcome(ctx, ev.ChatID)
	}

	switch session.State {
	case models.StateAwaitStart, models.StateAwaitNewStart:
		return e.acceptStartTime(ctx, session, text)
	case models.StateAwaitEnd, models.StateAwaitNewEnd:
		return e.acceptEndTime(ctx, session, ev.User, text)
	default:
		return e.sendWelcome(ctx, ev.ChatID)
	}
}

func (e *Engine) sendWelcome(ctx context.Context, chatID int64) error {
	return e.Transport.SendMessage(ctx, chatID, welcomeMessage, rootOptions())
}

func rootOptions() []models.Option {
	return []models.Option{
		{Label: "Get Lounge Availability", Token: Token{Verb: VerbAvailSelect}.Encode()},
		{Label: "Book Lounge", Token: Token{Verb: VerbBookSelect}.Encode()},
		{Label: "Unbook Lounge", Token: Token{Verb: VerbUnbookSelect}.Encode()},
		{Label: "Update Booking", Token: Token{Verb: VerbUpdateSelect}.Encode()},
	}
}

func (e *Engine) promptLevelSelection(ctx context.Context, chatID int64) error {
	options := make([]models.Option, 0, len(models.Levels)+1)
	for _, level := range models.Levels {
		prefix := models.LevelPrefix(level)
		options = append(options, models.Option{
			Label: fmt.Sprintf("%s Level %d %s", prefix, level, prefix),
			Token: Token{Verb: VerbBookLevel, Level: level}.Encode(),
		})
	}
	options = append(options, backOption())
	return e.Transport.SendMessage(ctx, chatID, "Select lounge to book", options)
}

func (e *Engine) promptDateSelection(ctx context.Context, chatID int64, level int) error {
	options := e.dateOptions(func(date string) Token {
		return Token{Verb: VerbBookDate, Level: level, Date: date}
	})
	options = append(options, backOption())
	return e.Transport.SendMessage(ctx, chatID, "Select date to book", options)
}

func (e *Engine) promptAvailabilityDate(ctx context.Context, chatID int64) error {
	options := e.dateOptions(func(date string) Token {
		return Token{Verb: VerbAvailDate, Date: date}
	})
	options = append(options,
		models.Option{Label: "Next 7 Days", Token: Token{Verb: VerbAvailWeek}.Encode()},
		backOption(),
	)
	return e.Transport.SendMessage(ctx, chatID, "Which dates would you like to check?", options)
}

func (e *Engine) sendAvailability(ctx context.Context, chatID int64, dates []string) error {
	text, err := e.Reporter.RenderRange(ctx, dates)
	if err != nil {
		e.Logger.Error("failed to render availability", zap.Int64("chatId", chatID), zap.Error(err))
		return e.Transport.SendMessage(ctx, chatID, genericError, nil)
	}
	return e.Transport.SendMessage(ctx, chatID, text, nil)
}

func (e *Engine) beginBookingFlow(ctx context.Context, chatID int64, level int, date string) error {
	session := &models.ChatSession{
		ChatID: chatID,
		State:  models.StateAwaitStart,
		Level:  level,
		Date:   date,
	}
	if err := e.Sessions.Save(ctx, session); err != nil {
		e.Logger.Error("failed to save session", zap.Int64("chatId", chatID), zap.Error(err))
		return e.Transport.SendMessage(ctx, chatID, genericError, nil)
	}
	text := fmt.Sprintf(
		"Enter the 24H start time for your booking (HHMM or HH:MM) for lounge level %d on %s\n\n%s",
		level, models.DisplayDate(date), cancelHint)
	return e.Transport.SendMessage(ctx, chatID, text, nil)
}

func (e *Engine) beginUpdateFlow(ctx context.Context, chatID int64, tok Token) error {
	session := &models.ChatSession{
		ChatID:        chatID,
		State:         models.StateAwaitNewStart,
		Level:         tok.Level,
		Date:          tok.Date,
		ReservationID: tok.ReservationID,
	}
	if err := e.Sessions.Save(ctx, session); err != nil {
		e.Logger.Error("failed to save session", zap.Int64("chatId", chatID), zap.Error(err))
		return e.Transport.SendMessage(ctx, chatID, genericError, nil)
	}
	text := fmt.Sprintf(
		"Enter the new 24H start time (HHMM or HH:MM) for your booking on level %d, %s\n\n%s",
		tok.Level, models.DisplayDate(tok.Date), cancelHint)
	return e.Transport.SendMessage(ctx, chatID, text, nil)
}

// promptOwnBookings lists the caller's upcoming active reservations as
// buttons carrying the given verb.
func (e *Engine) promptOwnBookings(ctx context.Context, ev models.InboundEvent, verb Verb, title string) error {
	bookings, err := e.Repo.ListByOwner(ctx, ev.User.ID)
	if err != nil {
		e.Logger.Error("failed to list owner bookings", zap.Int64("ownerId", ev.User.ID), zap.Error(err))
		return e.Transport.SendMessage(ctx, ev.ChatID, genericError, nil)
	}

	today := e.Clock.Now().Format(models.DateLayout)
	options := make([]models.Option, 0, len(bookings))
	for _, res := range bookings {
		if res.Date < today {
			continue // expired
		}
		options = append(options, models.Option{
			Label: fmt.Sprintf("Level %d / %s / %s - %s",
				res.Level, models.DisplayDate(res.Date),
				FormatTimeOfDay(res.Start), FormatTimeOfDay(res.End)),
			Token: Token{Verb: verb, Level: res.Level, ReservationID: res.ID, Date: res.Date}.Encode(),
		})
	}
	if len(options) == 0 {
		return e.sendTerminal(ctx, ev.ChatID, "You have no bookings")
	}
	options = append(options, backOption())
	return e.Transport.SendMessage(ctx, ev.ChatID, title, options)
}

func (e *Engine) cancelReservation(ctx context.Context, chatID int64, tok Token) error {
	err := e.Repo.Cancel(ctx, tok.ReservationID)
	switch {
	case errors.Is(err, reservationRepo.ErrNotFound):
		return e.sendTerminal(ctx, chatID, "Booking not found. It may already be cancelled.")
	case err != nil:
		e.Logger.Error("failed to cancel reservation",
			zap.String("reservationId", tok.ReservationID), zap.Error(err))
		return e.sendTerminal(ctx, chatID, "Failed to unbook. Please try again.")
	}
	e.broadcastIfToday(ctx, tok.Date)
	return e.sendTerminal(ctx, chatID, "Booking successfully unbooked.")
}

// acceptStartTime handles the AwaitStart and AwaitNewStart states. An
// invalid time re-prompts the same state; a valid one advances to the
// matching end-time state.
func (e *Engine) acceptStartTime(ctx context.Context, session *models.ChatSession, text string) error {
	start, err := ParseTimeOfDay(text)
	if err != nil {
		return e.reprompt(ctx, session,
			fmt.Sprintf("Invalid time format. Please enter again (HHMM or HH:MM)\n\n%s", cancelHint))
	}

	session.Start = start
	if session.State == models.StateAwaitNewStart {
		session.State = models.StateAwaitNewEnd
	} else {
		session.State = models.StateAwaitEnd
	}
	if err := e.Sessions.Save(ctx, session); err != nil {
		return e.failFlow(ctx, session, err)
	}
	return e.Transport.SendMessage(ctx, session.ChatID,
		fmt.Sprintf("Enter the 24H end time for your booking (HHMM or HH:MM)\n\n%s", cancelHint), nil)
}

// acceptEndTime handles the AwaitEnd and AwaitNewEnd states: parse,
// order check, conflict check, then commit. Every recoverable failure
// keeps the session on the same state with the accumulated start time
// intact.
func (e *Engine) acceptEndTime(ctx context.Context, session *models.ChatSession, user models.ChatUser, text string) error {
	end, err := ParseTimeOfDay(text)
	if err != nil {
		return e.reprompt(ctx, session,
			fmt.Sprintf("Invalid time format. Please enter again (HHMM or HH:MM)\n\n%s", cancelHint))
	}
	if err := ValidateOrder(session.Start, end); err != nil {
		return e.reprompt(ctx, session,
			fmt.Sprintf("End time must be after start time. Please enter again.\n\n%s", cancelHint))
	}

	// During an update the edited reservation must not conflict with
	// its own pre-edit window.
	excludeID := ""
	if session.State == models.StateAwaitNewEnd {
		excludeID = session.ReservationID
	}
	conflict, window, err := e.HasConflict(ctx, session.Level, session.Date, session.Start, end, excludeID)
	if err != nil {
		return e.failFlow(ctx, session, err)
	}
	if conflict {
		return e.reprompt(ctx, session, fmt.Sprintf(
			"Booking time clashes with existing booking from %s to %s. Try again with a different time.\n\n%s",
			FormatTimeOfDay(window.Start), FormatTimeOfDay(window.End), cancelHint))
	}

	if session.State == models.StateAwaitNewEnd {
		return e.commitReschedule(ctx, session, end)
	}
	return e.commitBooking(ctx, session, user, end)
}

func (e *Engine) commitBooking(ctx context.Context, session *models.ChatSession, user models.ChatUser, end int) error {
	res := &models.Reservation{
		ID:        uuid.New().String(),
		Level:     session.Level,
		Date:      session.Date,
		Start:     session.Start,
		End:       end,
		OwnerID:   user.ID,
		FirstName: user.FirstName,
		Username:  user.Username,
		CreatedAt: e.Clock.Now(),
		Status:    models.StatusActive,
	}
	if err := e.Repo.Create(ctx, res); err != nil {
		e.Logger.Error("failed to create reservation", zap.Error(err))
		e.clearSession(ctx, session.ChatID)
		return e.sendTerminal(ctx, session.ChatID,
			"There was an error making the booking. Please try again.")
	}
	e.clearSession(ctx, session.ChatID)
	e.Logger.Info("reservation committed",
		zap.String("reservationId", res.ID), zap.Int("level", res.Level),
		zap.String("date", res.Date), zap.Int64("ownerId", res.OwnerID))
	e.broadcastIfToday(ctx, res.Date)
	return e.sendTerminal(ctx, session.ChatID, fmt.Sprintf(
		"Booking confirmed for level %d on %s from %s to %s.",
		res.Level, models.DisplayDate(res.Date),
		FormatTimeOfDay(res.Start), FormatTimeOfDay(res.End)))
}

func (e *Engine) commitReschedule(ctx context.Context, session *models.ChatSession, end int) error {
	err := e.Repo.Reschedule(ctx, session.ReservationID, session.Start, end, e.Clock.Now())
	switch {
	case errors.Is(err, reservationRepo.ErrNotFound):
		e.clearSession(ctx, session.ChatID)
		return e.sendTerminal(ctx, session.ChatID, "Booking not found. It may already be cancelled.")
	case err != nil:
		e.Logger.Error("failed to reschedule reservation",
			zap.String("reservationId", session.ReservationID), zap.Error(err))
		e.clearSession(ctx, session.ChatID)
		return e.sendTerminal(ctx, session.ChatID,
			"There was an error making the booking. Please try again.")
	}
	e.clearSession(ctx, session.ChatID)
	e.Logger.Info("reservation rescheduled",
		zap.String("reservationId", session.ReservationID),
		zap.Int("level", session.Level), zap.String("date", session.Date))
	e.broadcastIfToday(ctx, session.Date)
	return e.sendTerminal(ctx, session.ChatID, fmt.Sprintf(
		"Booking updated for level %d on %s to %s - %s.",
		session.Level, models.DisplayDate(session.Date),
		FormatTimeOfDay(session.Start), FormatTimeOfDay(end)))
}

// reprompt keeps the session on its current state (refreshing the idle
// TTL) and repeats the question with an error message.
func (e *Engine) reprompt(ctx context.Context, session *models.ChatSession, text string) error {
	if err := e.Sessions.Save(ctx, session); err != nil {
		return e.failFlow(ctx, session, err)
	}
	return e.Transport.SendMessage(ctx, session.ChatID, text, nil)
}

// failFlow terminates a flow on a persistence failure: the session is
// cleared and the user gets a generic error, never silence.
func (e *Engine) failFlow(ctx context.Context, session *models.ChatSession, err error) error {
	e.Logger.Error("flow aborted", zap.Int64("chatId", session.ChatID), zap.Error(err))
	e.clearSession(ctx, session.ChatID)
	return e.sendTerminal(ctx, session.ChatID, genericError)
}

// sendTerminal ends a flow with a message and the root options, so the
// user can immediately start another action.
func (e *Engine) sendTerminal(ctx context.Context, chatID int64, text string) error {
	return e.Transport.SendMessage(ctx, chatID, text, rootOptions())
}

func (e *Engine) clearSession(ctx context.Context, chatID int64) {
	if err := e.Sessions.Delete(ctx, chatID); err != nil {
		e.Logger.Warn("failed to clear session", zap.Int64("chatId", chatID), zap.Error(err))
	}
}

// broadcastIfToday refreshes the shared channel when a change touches
// the current date. Broadcast failures never break the user's flow.
func (e *Engine) broadcastIfToday(ctx context.Context, date string) {
	if e.Broadcaster == nil || date != e.Clock.Now().Format(models.DateLayout) {
		return
	}
	if err := e.Broadcaster.BroadcastAvailability(ctx, date); err != nil {
		e.Logger.Error("failed to schedule availability broadcast",
			zap.String("date", date), zap.Error(err))
	}
}

// dateOptions builds the seven-day date buttons, today first.
func (e *Engine) dateOptions(mk func(date string) Token) []models.Option {
	now := e.Clock.Now()
	options := make([]models.Option, 0, 7)
	for i, date := range WeekDates(now, 7) {
		suffix := "(" + now.AddDate(0, 0, i).Format("Mon") + ")"
		if i == 0 {
			suffix = "(Today)"
		}
		options = append(options, models.Option{
			Label: fmt.Sprintf("%s %s", models.DisplayDate(date), suffix),
			Token: mk(date).Encode(),
		})
	}
	return options
}

func backOption() models.Option {
	return models.Option{Label: "Back", Token: Token{Verb: VerbBack}.Encode()}
}
