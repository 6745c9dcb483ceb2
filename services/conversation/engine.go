package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"concierge/models"
	"concierge/services/booking"
	"concierge/services/exely"
	"concierge/services/intelligence"
	"concierge/services/session"
	"concierge/utils"

	"go.uber.org/zap"
)

const (
	maxDisplayedOptions = 3
	maxImagesPerOption  = 5

	// greetingTrigger stands in for the user's text on /start so the
	// interpreter produces the opening greeting.
	greetingTrigger = "hello"
)

const (
	msgTechnical    = "A technical problem occurred. Please try again in a moment."
	msgRateLimited  = "I am a little overloaded right now. Please try again in a minute."
	msgProviderDown = "The booking service is temporarily unavailable. Please try again later."
	msgSearchAgain  = "That option is no longer available. Please run a new search."
)

// Options are the engine-level defaults.
type Options struct {
	DefaultHotelCode string
	DefaultLanguage  string
	HistoryLimit     int
}

// Engine drives one conversational turn: interpret the utterance, validate
// the directive, dispatch the named operation and park the session at the
// resulting action. The caller owns the session lock for the whole turn.
type Engine struct {
	Interp   intelligence.Interpreter
	Booking  booking.BookingService
	Sessions *session.Store
	Opts     Options
}

func NewEngine(interp intelligence.Interpreter, bookingSvc booking.BookingService, sessions *session.Store, opts Options) *Engine {
	return &Engine{Interp: interp, Booking: bookingSvc, Sessions: sessions, Opts: opts}
}

func (e *Engine) historyLimit() int {
	if e.Opts.HistoryLimit > 0 {
		return e.Opts.HistoryLimit
	}
	return 30
}

// HandleMessage processes one plain user message.
func (e *Engine) HandleMessage(ctx context.Context, userID, text string) *models.ChatResponse {
	sess, release := e.Sessions.Acquire(userID)
	defer release()

	sess.AppendTurn("user", text, e.historyLimit())
	messages := e.runTurn(ctx, sess, text)
	return &models.ChatResponse{Messages: messages, Action: sess.Action}
}

// StartConversation resets the session completely and runs an opening turn,
// which normally fetches the hotel info and greets the user by hotel name.
func (e *Engine) StartConversation(ctx context.Context, userID string) *models.ChatResponse {
	sess, release := e.Sessions.Acquire(userID)
	defer release()

	sess.ResetSearch(false)
	sess.DialogHistory = nil
	sess.CustomerContext = nil

	messages := e.runTurn(ctx, sess, greetingTrigger)
	return &models.ChatResponse{Messages: messages, Action: sess.Action}
}

// NewSearch drops the search context but keeps the hotel context, then asks
// the user what they are looking for.
func (e *Engine) NewSearch(ctx context.Context, userID string) *models.ChatResponse {
	sess, release := e.Sessions.Acquire(userID)
	defer release()

	sess.ResetSearch(true)
	sess.CustomerContext = nil

	prompt := "What kind of room are you looking for? Please describe your dates, number of guests and children's ages."
	sess.AppendTurn("assistant", prompt, e.historyLimit())
	sess.Action = models.ActionAwaitingClarification
	return &models.ChatResponse{Messages: []models.Outbound{{Text: prompt}}, Action: sess.Action}
}

// PickOption binds a displayed option to the session: the option id and the
// offer's first guarantee code become the selection, and a follow-up turn
// asks the interpreter to collect the booking details.
func (e *Engine) PickOption(ctx context.Context, userID, optionID string) *models.ChatResponse {
	logger := utils.GetLogger()

	sess, release := e.Sessions.Acquire(userID)
	defer release()

	opt := sess.OptionByID(optionID)
	if opt == nil {
		sess.DisplayedOptions = nil
		sess.SelectedOptionID = ""
		sess.SelectedGuaranteeCode = ""
		sess.Action = models.ActionIdle
		text := "Sorry, the details of that option have expired. Please run a new search."
		return &models.ChatResponse{Messages: []models.Outbound{{Text: text}}, Action: sess.Action}
	}

	if len(opt.GuaranteeCodes) == 0 || opt.GuaranteeCodes[0] == "" {
		logger.Error("Displayed option carries no guarantee codes, booking impossible",
			zap.String("option_id", optionID))
		sess.DisplayedOptions = nil
		sess.SelectedOptionID = ""
		sess.SelectedGuaranteeCode = ""
		sess.Action = models.ActionIdle
		text := "No payment or guarantee methods are available for this option, so it cannot be booked. Please pick another option or run a new search."
		sess.AppendTurn("assistant_error", text, e.historyLimit())
		return &models.ChatResponse{Messages: []models.Outbound{{Text: text}}, Action: sess.Action}
	}

	sess.SelectedOptionID = opt.OptionID
	sess.SelectedGuaranteeCode = opt.GuaranteeCodes[0]
	logger.Info("User picked a booking option",
		zap.String("user", userID), zap.Int("ordinal", opt.Ordinal),
		zap.String("guarantee", sess.SelectedGuaranteeCode))

	simulated := fmt.Sprintf("I picked option %d and want to book it.", opt.Ordinal)
	sess.AppendTurn("user_action", simulated, e.historyLimit())
	messages := e.runTurn(ctx, sess, simulated)
	return &models.ChatResponse{Messages: messages, Action: sess.Action}
}

// CancelBooking dispatches a cancellation directly, bypassing interpretation.
// Used by the /cancelbooking command and the inline cancel button.
func (e *Engine) CancelBooking(ctx context.Context, userID, bookingNumber, cancellationCode string) *models.ChatResponse {
	sess, release := e.Sessions.Acquire(userID)
	defer release()

	messages := e.dispatchCancel(ctx, sess, &models.CancelReservationArgs{
		BookingNumber:    bookingNumber,
		CancellationCode: cancellationCode,
		Language:         e.Opts.DefaultLanguage,
	})
	return &models.ChatResponse{Messages: messages, Action: sess.Action}
}

// runTurn is the interpretation loop. It runs at most twice: once for the
// user's utterance, and once more after a hotel-info fetch so the interpreter
// can act on the freshly loaded hotel context within the same turn.
func (e *Engine) runTurn(ctx context.Context, sess *models.Session, utterance string) []models.Outbound {
	logger := utils.GetLogger()
	var out []models.Outbound

	for attempt := 0; attempt < 2; attempt++ {
		directive, err := e.Interp.Interpret(ctx, sess, utterance)
		if err != nil {
			if errors.Is(err, intelligence.ErrRateLimited) {
				sess.AppendTurn("assistant", msgRateLimited, e.historyLimit())
				return append(out, models.Outbound{Text: msgRateLimited})
			}
			logger.Error("Interpretation failed", zap.String("user", sess.UserID), zap.Error(err))
			sess.Action = models.ActionIdle
			sess.AppendTurn("assistant_error", msgTechnical, e.historyLimit())
			return append(out, models.Outbound{Text: msgTechnical})
		}

		resolved := intelligence.Resolve(directive, sess)
		if resolved.Clarification != "" {
			e.parkForClarification(sess, resolved.Tool)
			sess.AppendTurn("assistant_clarification", resolved.Clarification, e.historyLimit())
			return append(out, models.Outbound{Text: resolved.Clarification})
		}

		switch resolved.Tool {
		case models.ToolGetHotelPublicInfo:
			msgs, ok := e.dispatchHotelInfo(ctx, sess, resolved.HotelInfo)
			out = append(out, msgs...)
			if !ok {
				sess.Action = models.ActionIdle
				return out
			}
			// Re-run interpretation with the hotel context now present.
			continue
		case models.ToolSearchOptions:
			return append(out, e.dispatchSearch(ctx, sess, resolved.Search)...)
		case models.ToolCreateReservation:
			return append(out, e.dispatchReserve(ctx, sess, resolved.Reserve)...)
		case models.ToolCancelReservation:
			return append(out, e.dispatchCancel(ctx, sess, resolved.Cancel)...)
		}
	}
	return out
}

// parkForClarification decides where a clarification leaves the session,
// biased by the tool the interpreter was aiming at.
func (e *Engine) parkForClarification(sess *models.Session, tool string) {
	switch {
	case tool == models.ToolCreateReservation:
		sess.Action = models.ActionAwaitingBookingData
	case tool == models.ToolSearchOptions:
		sess.Action = models.ActionAwaitingClarification
	case sess.Action == models.ActionAwaitingOptionChoice:
		sess.Action = models.ActionAwaitingBookingData
	default:
		sess.Action = models.ActionAwaitingClarification
	}
}

func (e *Engine) dispatchHotelInfo(ctx context.Context, sess *models.Session, args *models.HotelInfoArgs) ([]models.Outbound, bool) {
	if args.HotelCode == "" {
		args.HotelCode = e.Opts.DefaultHotelCode
	}
	summary, err := e.Booking.HotelPublicInfo(ctx, *args)
	if err != nil {
		return e.failureReply(sess, err), false
	}

	sess.HotelContext = summary

	var parts []string
	name := summary.Name
	if name == "" {
		name = "Hotel " + summary.HotelCode
	}
	parts = append(parts, name)
	if summary.Description != "" {
		desc := summary.Description
		if len(desc) > 300 {
			desc = desc[:300] + "..."
		}
		parts = append(parts, "", desc)
	}
	if summary.Address != "" {
		parts = append(parts, "", "Address: "+summary.Address)
	}
	if summary.Phone != "" {
		parts = append(parts, "Phone: "+summary.Phone)
	}
	if summary.CheckInTime != "" && summary.CheckOutTime != "" {
		parts = append(parts, fmt.Sprintf("Check-in: %s, check-out: %s", summary.CheckInTime, summary.CheckOutTime))
	}
	if len(summary.ServicesSummary) > 0 {
		parts = append(parts, "", "Key services: "+strings.Join(summary.ServicesSummary, ", "))
	}

	msg := models.Outbound{Text: strings.Join(parts, "\n")}
	if summary.LogoURL != "" {
		msg.Albums = []models.PhotoAlbum{{Caption: name, URLs: []string{summary.LogoURL}}}
	}
	sess.AppendTurn("system_tool_result", "Retrieved hotel info: "+name, e.historyLimit())
	return []models.Outbound{msg}, true
}

func (e *Engine) dispatchSearch(ctx context.Context, sess *models.Session, args *models.SearchOptionsArgs) []models.Outbound {
	logger := utils.GetLogger()

	if args.HotelCode == "" {
		if sess.HotelContext != nil {
			args.HotelCode = sess.HotelContext.HotelCode
		} else {
			args.HotelCode = e.Opts.DefaultHotelCode
		}
	}

	sess.SearchContext = &models.SearchContext{
		HotelCode:    args.HotelCode,
		CheckInDate:  args.CheckInDate,
		CheckOutDate: args.CheckOutDate,
		Adults:       args.NumAdults,
		ChildrenAges: args.ChildrenAges,
		Promocode:    args.PromocodeOrRateName,
	}
	sess.DisplayedOptions = nil
	sess.SelectedOptionID = ""
	sess.SelectedGuaranteeCode = ""

	result, err := e.Booking.SearchOptions(ctx, *args)
	if err != nil {
		return e.failureReply(sess, err)
	}

	if len(result.Options) == 0 {
		text := result.Message
		if text == "" {
			text = "No options were found for your request."
		}
		sess.Action = models.ActionIdle
		sess.AppendTurn("assistant", text, e.historyLimit())
		return []models.Outbound{{Text: text}}
	}

	shown := result.Options
	if len(shown) > maxDisplayedOptions {
		shown = shown[:maxDisplayedOptions]
	}
	sess.DisplayedOptions = shown
	sess.Action = models.ActionAwaitingOptionChoice

	intro := fmt.Sprintf("Options found for %s - %s:", displayDate(args.CheckInDate), displayDate(args.CheckOutDate))
	messages := []models.Outbound{{Text: intro}}
	historyParts := []string{intro}

	for _, opt := range shown {
		var lines []string
		lines = append(lines, fmt.Sprintf("--- Option %d ---", opt.Ordinal))
		lines = append(lines, "Room: "+opt.RoomTypeName)
		if opt.RatePlanName != "" {
			lines = append(lines, "Rate: "+opt.RatePlanName)
		}
		lines = append(lines, fmt.Sprintf("Price: %.2f %s", opt.PriceAfterTax, opt.Currency))
		if opt.GuestsSummary != "" {
			lines = append(lines, "Guests: "+opt.GuestsSummary)
		}
		if opt.CancelPolicy != "" {
			lines = append(lines, "Cancellation policy: "+opt.CancelPolicy)
		}

		msg := models.Outbound{
			Text: strings.Join(lines, "\n"),
			Buttons: []models.Button{{
				Label: fmt.Sprintf("Book option %d (%.2f %s)", opt.Ordinal, opt.PriceAfterTax, opt.Currency),
				Data:  "bookopt_" + opt.OptionID,
			}},
		}
		if len(opt.ImageURLs) > 0 {
			urls := opt.ImageURLs
			if len(urls) > maxImagesPerOption {
				urls = urls[:maxImagesPerOption]
			}
			msg.Albums = []models.PhotoAlbum{{
				Caption: fmt.Sprintf("Option %d: %s", opt.Ordinal, opt.RoomTypeName),
				URLs:    urls,
			}}
		}
		messages = append(messages, msg)
		historyParts = append(historyParts, fmt.Sprintf("Option %d: %s", opt.Ordinal, opt.SummaryText))
	}

	logger.Info("Displayed search options",
		zap.String("user", sess.UserID), zap.Int("shown", len(shown)), zap.Int("total", len(result.Options)))
	sess.AppendTurn("assistant", strings.Join(historyParts, "\n"), e.historyLimit())
	return messages
}

func (e *Engine) dispatchReserve(ctx context.Context, sess *models.Session, args *models.CreateReservationArgs) []models.Outbound {
	logger := utils.GetLogger()

	customer := args.Customer
	sess.CustomerContext = &customer

	result, err := e.Booking.CreateReservation(ctx, *args)
	if err != nil {
		return e.failureReply(sess, err)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Booking result (status: %s)", result.Status))
	if result.BookingNumber != "" {
		parts = append(parts, "Booking number: "+result.BookingNumber)
	}
	if result.CancellationCode != "" {
		parts = append(parts, "Cancellation code: "+result.CancellationCode)
	}
	if sess.HotelContext != nil && sess.HotelContext.Name != "" {
		parts = append(parts, "", "Hotel: "+sess.HotelContext.Name)
	}
	if sc := sess.SearchContext; sc != nil && sc.CheckInDate != "" {
		parts = append(parts, fmt.Sprintf("Dates: %s to %s", displayDate(sc.CheckInDate), displayDate(sc.CheckOutDate)))
	}
	var guestNames []string
	for _, g := range args.Guests {
		guestNames = append(guestNames, strings.TrimSpace(g.FirstName+" "+g.LastName))
	}
	if len(guestNames) > 0 {
		parts = append(parts, "Guests: "+strings.Join(guestNames, ", "))
	}
	parts = append(parts, "", fmt.Sprintf("Booker: %s %s, %s, %s", customer.FirstName, customer.LastName, customer.Email, customer.Phone))
	if result.ErrorMessage != "" {
		parts = append(parts, "", "Note: "+result.ErrorMessage)
	}

	msg := models.Outbound{Text: strings.Join(parts, "\n")}
	if result.PaymentURL != "" {
		msg.Buttons = append(msg.Buttons, models.Button{Label: "Pay now", URL: result.PaymentURL})
	}
	if result.OrderURL != "" {
		msg.Buttons = append(msg.Buttons, models.Button{Label: "View order", URL: result.OrderURL})
	}
	if result.BookingNumber != "" && result.CancellationCode != "" && !strings.EqualFold(result.Status, "cancelled") {
		msg.Buttons = append(msg.Buttons, models.Button{
			Label: "Cancel this booking",
			Data:  "cancel_" + result.BookingNumber + "_" + result.CancellationCode,
		})
	}

	logger.Info("Booking completed",
		zap.String("user", sess.UserID), zap.String("number", result.BookingNumber), zap.String("status", result.Status))
	sess.AppendTurn("assistant", msg.Text, e.historyLimit())
	sess.ResetSearch(true)
	return []models.Outbound{msg}
}

func (e *Engine) dispatchCancel(ctx context.Context, sess *models.Session, args *models.CancelReservationArgs) []models.Outbound {
	result, err := e.Booking.CancelReservation(ctx, *args)
	if err != nil {
		return e.failureReply(sess, err)
	}

	text := fmt.Sprintf("Cancellation result for %s: %s (status: %s)", result.BookingNumber, result.Message, result.Status)
	sess.AppendTurn("assistant", text, e.historyLimit())
	if strings.EqualFold(result.Status, "cancelled") {
		sess.ResetSearch(true)
	} else {
		sess.Action = models.ActionIdle
	}
	return []models.Outbound{{Text: text}}
}

// failureReply maps an operation error onto the reply taxonomy: user-input
// problems re-enter clarification, a guest count mismatch keeps the booking
// dialog open with the selection intact, integrity problems reset to a fresh
// search, provider problems ask the user to retry later.
func (e *Engine) failureReply(sess *models.Session, err error) []models.Outbound {
	logger := utils.GetLogger()

	if be, ok := booking.AsBookingError(err); ok {
		switch {
		case booking.IsUserInputError(err):
			sess.Action = models.ActionAwaitingClarification
			sess.AppendTurn("assistant_clarification", be.Message, e.historyLimit())
			return []models.Outbound{{Text: be.Message}}
		case booking.IsGuestCountMismatch(err):
			text := "The guest list does not match the selected option: " + be.Message + ". Please send the corrected guest details."
			sess.Action = models.ActionAwaitingBookingData
			sess.AppendTurn("assistant_clarification", text, e.historyLimit())
			return []models.Outbound{{Text: text}}
		case booking.IsIntegrityError(err):
			logger.Error("Data integrity failure during dispatch",
				zap.String("user", sess.UserID), zap.String("code", be.Code), zap.String("detail", be.Message))
			sess.ResetSearch(true)
			sess.AppendTurn("assistant_error", msgSearchAgain, e.historyLimit())
			return []models.Outbound{{Text: msgSearchAgain}}
		}
	}
	if apiErr, ok := exely.AsAPIError(err); ok {
		logger.Error("Provider failure during dispatch",
			zap.String("user", sess.UserID), zap.Int("status", apiErr.StatusCode),
			zap.String("code", apiErr.Code), zap.String("detail", apiErr.Message))
		sess.Action = models.ActionIdle
		sess.AppendTurn("assistant_error", msgProviderDown, e.historyLimit())
		return []models.Outbound{{Text: msgProviderDown}}
	}

	logger.Error("Unexpected failure during dispatch", zap.String("user", sess.UserID), zap.Error(err))
	sess.Action = models.ActionIdle
	sess.AppendTurn("assistant_error", msgTechnical, e.historyLimit())
	return []models.Outbound{{Text: msgTechnical}}
}

func displayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02-01-2006")
}
